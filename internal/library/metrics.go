package library

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_operations_total",
		Help: "Domain operations by name and outcome.",
	}, []string{"op", "result"})

	persistFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "library_persist_failures_total",
		Help: "State document reads and writes that failed and were ignored.",
	}, []string{"direction"})

	stateRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "library_state_records",
		Help: "Records per collection after the last save.",
	}, []string{"collection"})
)

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = string(CodeOf(err))
	}
	operationsTotal.WithLabelValues(op, result).Inc()
}

func recordSizes(st *State) {
	stateRecords.WithLabelValues("students").Set(float64(len(st.Students)))
	stateRecords.WithLabelValues("bookings").Set(float64(len(st.Bookings)))
	stateRecords.WithLabelValues("payments").Set(float64(len(st.Payments)))
	stateRecords.WithLabelValues("attendance").Set(float64(len(st.Attendance)))
}
