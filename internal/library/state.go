package library

import (
	"encoding/json"
	"fmt"
	"time"
)

// State is the whole application document: four collections and the settings singleton.
type State struct {
	Students   []Student          `json:"students"`
	Bookings   []Booking          `json:"bookings"`
	Payments   []Payment          `json:"payments"`
	Attendance []AttendanceRecord `json:"attendance"`
	Settings   Settings           `json:"settings"`
}

func NewState() State {
	return State{
		Students:   []Student{},
		Bookings:   []Booking{},
		Payments:   []Payment{},
		Attendance: []AttendanceRecord{},
		Settings:   DefaultSettings(),
	}
}

// Clone returns a deep copy safe to read outside the service lock.
func (st State) Clone() State {
	out := State{
		Students:   append([]Student{}, st.Students...),
		Bookings:   append([]Booking{}, st.Bookings...),
		Payments:   append([]Payment{}, st.Payments...),
		Attendance: make([]AttendanceRecord, len(st.Attendance)),
		Settings:   st.Settings.clone(),
	}
	for i, a := range st.Attendance {
		a.Times = append([]TimePair{}, a.Times...)
		out.Attendance[i] = a
	}
	return out
}

// Encode serializes the document as stored under the state key.
func Encode(st State) ([]byte, error) {
	return json.Marshal(st)
}

// Decode parses a stored document. Missing collections become empty and settings
// are laid over DefaultSettings, so fields added later keep their defaults.
func Decode(blob []byte) (State, error) {
	var doc struct {
		Students   []Student          `json:"students"`
		Bookings   []Booking          `json:"bookings"`
		Payments   []Payment          `json:"payments"`
		Attendance []AttendanceRecord `json:"attendance"`
		Settings   json.RawMessage    `json:"settings"`
	}
	if err := json.Unmarshal(blob, &doc); err != nil {
		return State{}, fmt.Errorf("decode state: %w", err)
	}

	st := NewState()
	if doc.Students != nil {
		st.Students = doc.Students
	}
	if doc.Bookings != nil {
		st.Bookings = doc.Bookings
	}
	if doc.Payments != nil {
		st.Payments = doc.Payments
	}
	if doc.Attendance != nil {
		st.Attendance = doc.Attendance
	}
	if len(doc.Settings) > 0 && string(doc.Settings) != "null" {
		if err := json.Unmarshal(doc.Settings, &st.Settings); err != nil {
			return State{}, fmt.Errorf("decode settings: %w", err)
		}
	}
	return st, nil
}

// ===== queries (linear scans; record counts stay in the hundreds) =====

func (st State) StudentByID(id string) (Student, bool) {
	for _, s := range st.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

func (st State) StudentByMobile(mobile string) (Student, bool) {
	for _, s := range st.Students {
		if s.MobileNumber == mobile {
			return s, true
		}
	}
	return Student{}, false
}

// StudentBySeat returns the student of the first booking on seat, any shift.
func (st State) StudentBySeat(seat int) (Student, bool) {
	for _, b := range st.Bookings {
		if b.Seat == seat {
			return st.StudentByID(b.StudentID)
		}
	}
	return Student{}, false
}

func (st State) BookingAt(seat, shift int) (Booking, bool) {
	for _, b := range st.Bookings {
		if b.Seat == seat && b.Shift == shift {
			return b, true
		}
	}
	return Booking{}, false
}

func (st State) StudentBookings(studentID string) []Booking {
	out := []Booking{}
	for _, b := range st.Bookings {
		if b.StudentID == studentID {
			out = append(out, b)
		}
	}
	return out
}

// CalculatePayment is the current monthly due: bookings × rate per shift.
func (st State) CalculatePayment(studentID string) int {
	return len(st.StudentBookings(studentID)) * st.Settings.RatePerShift
}

func (st State) StudentPayments(studentID string) []Payment {
	out := []Payment{}
	for _, p := range st.Payments {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out
}

func (st State) StudentMonthPayments(studentID string, year, month int) []Payment {
	out := []Payment{}
	for _, p := range st.Payments {
		if p.StudentID == studentID && p.Year == year && p.Month == month {
			out = append(out, p)
		}
	}
	return out
}

// StudentAttendance lists the student's records in the given month (1-12).
func (st State) StudentAttendance(studentID string, year, month int) []AttendanceRecord {
	out := []AttendanceRecord{}
	for _, a := range st.Attendance {
		if a.StudentID != studentID {
			continue
		}
		d, err := time.Parse(DateLayout, a.Date)
		if err != nil {
			continue
		}
		if d.Year() == year && int(d.Month()) == month {
			out = append(out, a)
		}
	}
	return out
}

func (st State) AttendanceOn(studentID, date string) (AttendanceRecord, bool) {
	for _, a := range st.Attendance {
		if a.StudentID == studentID && a.Date == date {
			return a, true
		}
	}
	return AttendanceRecord{}, false
}
