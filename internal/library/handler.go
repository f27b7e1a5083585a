package library

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"LWA-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts the owner and student JSON endpoints. /auth/login is
// registered separately by the auth package.
func RegisterRoutes(r gin.IRouter, svc *Service, secret []byte) {
	h := &Handler{svc: svc}

	owner := r.Group("", auth.RequireAuth(secret), auth.RequireRole(RoleOwner))
	owner.GET("/students", h.ListStudents)
	owner.POST("/students", h.CreateStudent)
	owner.PATCH("/students/:id", h.UpdateStudent)
	owner.DELETE("/students/:id", h.DeleteStudent)
	owner.GET("/students/:id/payment", h.StudentPayment)
	owner.GET("/bookings", h.ListBookings)
	owner.POST("/bookings", h.CreateBooking)
	owner.DELETE("/bookings", h.DeleteBooking)
	owner.GET("/payments", h.ListPayments)
	owner.POST("/payments", h.CreatePayment)
	owner.GET("/attendance", h.ListAttendance)
	owner.POST("/attendance", h.MarkAttendance)
	owner.GET("/settings", h.GetSettings)
	owner.PUT("/settings", h.UpdateSettings)
	owner.GET("/state", h.ExportState)

	me := r.Group("/me", auth.RequireAuth(secret), auth.RequireRole(RoleStudent))
	me.GET("", h.Me)
	me.POST("/checkin", h.CheckIn)
	me.POST("/checkout", h.CheckOut)
}

// ---------- students ----------

// ListStudents godoc
// @Summary  List registered students
// @Tags     students
// @Produce  json
// @Security Bearer
// @Router   /students [get]
func (h *Handler) ListStudents(c *gin.Context) {
	c.JSON(http.StatusOK, listOf(h.svc.Snapshot().Students))
}

// CreateStudent godoc
// @Summary  Register a student; username and password are derived
// @Tags     students
// @Accept   json
// @Produce  json
// @Param    body body NewStudent true "student"
// @Security Bearer
// @Router   /students [post]
func (h *Handler) CreateStudent(c *gin.Context) {
	var req NewStudent
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("invalid json or missing required fields")))
		return
	}
	st, err := h.svc.AddStudent(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), newErrDTO(err))
		return
	}
	c.Header("Location", "/api/v1/students/"+st.ID)
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	var req StudentPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("invalid json")))
		return
	}
	st, err := h.svc.UpdateStudent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), newErrDTO(err))
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.svc.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(ToHTTPStatus(err), newErrDTO(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) StudentPayment(c *gin.Context) {
	st := h.svc.Snapshot()
	id := c.Param("id")
	if _, ok := st.StudentByID(id); !ok {
		c.JSON(http.StatusNotFound, newErrDTO(ErrNotFound("student not found")))
		return
	}
	c.JSON(http.StatusOK, StudentPaymentResponse{
		StudentID:    id,
		Shifts:       len(st.StudentBookings(id)),
		RatePerShift: st.Settings.RatePerShift,
		Due:          h.svc.CalculatePayment(id),
	})
}

// ---------- bookings ----------

func (h *Handler) ListBookings(c *gin.Context) {
	st := h.svc.Snapshot()
	if id := c.Query("studentId"); id != "" {
		c.JSON(http.StatusOK, listOf(st.StudentBookings(id)))
		return
	}
	c.JSON(http.StatusOK, listOf(st.Bookings))
}

// CreateBooking godoc
// @Summary  Book a seat/shift cell; taken cells are rejected with 409
// @Tags     bookings
// @Accept   json
// @Produce  json
// @Param    body body CreateBookingRequest true "booking"
// @Security Bearer
// @Router   /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("invalid json or missing required fields")))
		return
	}
	b, err := h.svc.AddBooking(c.Request.Context(), req.StudentID, req.Seat, req.Shift)
	if err != nil {
		c.JSON(ToHTTPStatus(err), newErrDTO(err))
		return
	}
	c.JSON(http.StatusCreated, b)
}

// DELETE /bookings?seat=&shift=
func (h *Handler) DeleteBooking(c *gin.Context) {
	seat, err1 := strconv.Atoi(c.Query("seat"))
	shift, err2 := strconv.Atoi(c.Query("shift"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("seat and shift must be integers")))
		return
	}
	n := h.svc.RemoveBooking(c.Request.Context(), seat, shift)
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

// ---------- payments ----------

// GET /payments?studentId=&year=&month=
func (h *Handler) ListPayments(c *gin.Context) {
	st := h.svc.Snapshot()
	id := c.Query("studentId")
	year := parseIntDefault(c.Query("year"), 0)
	month := parseIntDefault(c.Query("month"), 0)
	switch {
	case id != "" && year > 0 && month > 0:
		c.JSON(http.StatusOK, listOf(st.StudentMonthPayments(id, year, month)))
	case id != "":
		c.JSON(http.StatusOK, listOf(st.StudentPayments(id)))
	default:
		c.JSON(http.StatusOK, listOf(st.Payments))
	}
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("invalid json or missing required fields")))
		return
	}
	p, err := h.svc.AddPayment(c.Request.Context(), req.StudentID, req.Year, req.Month, *req.Amount)
	if err != nil {
		c.JSON(ToHTTPStatus(err), newErrDTO(err))
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ---------- attendance ----------

// GET /attendance?studentId=&year=&month=
func (h *Handler) ListAttendance(c *gin.Context) {
	st := h.svc.Snapshot()
	id := c.Query("studentId")
	year := parseIntDefault(c.Query("year"), 0)
	month := parseIntDefault(c.Query("month"), 0)
	if id != "" && year > 0 && month > 0 {
		c.JSON(http.StatusOK, listOf(st.StudentAttendance(id, year, month)))
		return
	}
	c.JSON(http.StatusOK, listOf(st.Attendance))
}

func (h *Handler) MarkAttendance(c *gin.Context) {
	var req MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("invalid json or missing required fields")))
		return
	}
	if _, ok := h.svc.Snapshot().StudentByID(req.StudentID); !ok {
		c.JSON(http.StatusNotFound, newErrDTO(ErrNotFound("student not found")))
		return
	}
	rec := h.svc.MarkAttendance(c.Request.Context(), req.StudentID, req.In, req.Out)
	c.JSON(http.StatusOK, rec)
}

// ---------- settings ----------

func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Settings())
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var req SettingsPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("invalid json")))
		return
	}
	s, err := h.svc.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), newErrDTO(err))
		return
	}
	c.JSON(http.StatusOK, s)
}

// ExportState returns the document exactly as it is persisted.
func (h *Handler) ExportState(c *gin.Context) {
	blob, err := Encode(h.svc.Snapshot())
	if err != nil {
		c.JSON(http.StatusInternalServerError, newErrDTO(ErrInternal("encode state")))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", blob)
}

// ---------- student self-service ----------

func (h *Handler) Me(c *gin.Context) {
	id := c.GetString(auth.CtxStudentIDKey)
	st := h.svc.Snapshot()
	student, ok := st.StudentByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, newErrDTO(ErrNotFound("student not found")))
		return
	}
	resp := MeResponse{
		Student:  student,
		Bookings: []BookedSlot{},
		Due:      st.CalculatePayment(id),
		Payments: st.StudentPayments(id),
	}
	for _, b := range st.StudentBookings(id) {
		resp.Bookings = append(resp.Bookings, BookedSlot{Seat: b.Seat, Shift: b.Shift, ShiftLabel: st.Settings.ShiftLabel(b.Shift)})
	}
	if rec, ok := st.AttendanceOn(id, h.svc.Now().Format(DateLayout)); ok {
		resp.Today = &rec
	}
	c.JSON(http.StatusOK, resp)
}

// CheckIn godoc
// @Summary  Student self check-in with the library QR code and position
// @Tags     attendance
// @Accept   json
// @Produce  json
// @Param    body body CheckInRequest true "scan"
// @Security Bearer
// @Router   /me/checkin [post]
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, newErrDTO(ErrInvalid("code is required")))
		return
	}
	rec, err := h.svc.CheckIn(c.Request.Context(), c.GetString(auth.CtxStudentIDKey), req.Code, req.Position())
	if err != nil {
		c.JSON(ToHTTPStatus(err), newErrDTO(err))
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) CheckOut(c *gin.Context) {
	var req CheckOutRequest
	_ = c.ShouldBindJSON(&req)
	if req.Out == "" {
		req.Out = h.svc.Now().Format(TimeLayout)
	}
	rec, err := h.svc.CloseAttendance(c.Request.Context(), c.GetString(auth.CtxStudentIDKey), req.Out)
	if err != nil {
		c.JSON(ToHTTPStatus(err), newErrDTO(err))
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ---------- auth glue ----------

type tokenAuthenticator struct{ svc *Service }

func (a tokenAuthenticator) Authenticate(_ context.Context, loginType, mobile, password string) (auth.Principal, error) {
	u, err := a.svc.Authenticate(loginType, mobile, password)
	if err != nil {
		return auth.Principal{}, err
	}
	return auth.Principal{Subject: u.Mobile, Role: u.Role, StudentID: u.StudentID}, nil
}

// Authenticator exposes the service's credential check to the token issuer.
func (s *Service) Authenticator() auth.Authenticator { return tokenAuthenticator{svc: s} }

// AuthStatus maps login errors for the auth handler.
func AuthStatus(err error) (int, string) {
	return ToHTTPStatus(err), MessageOf(err)
}

// ---------- helpers ----------

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
