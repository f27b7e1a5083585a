package web

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"LWA-backend/internal/library"
	"LWA-backend/internal/views"
)

// Result is what a command reports back to the user.
type Result struct {
	OK      bool
	Message string
}

func ok(msg string) Result { return Result{OK: true, Message: msg} }

func fail(err error) Result { return Result{Message: library.MessageOf(err)} }

var errOwnerOnly = library.ErrUnauthorized("owner login required")

// Commands are the UI actions. Each one mutates the session and, through the
// service, the library state.
type Commands struct {
	svc *library.Service
}

func NewCommands(svc *library.Service) *Commands {
	return &Commands{svc: svc}
}

func requireOwner(s *views.Session) error {
	if s.User == nil || !s.User.IsOwner() {
		return errOwnerOnly
	}
	return nil
}

func (c *Commands) SwitchTab(s *views.Session, loginType string) Result {
	if loginType != library.RoleOwner && loginType != library.RoleStudent {
		return fail(library.ErrInvalid("login type must be owner or student"))
	}
	s.LoginType = loginType
	s.Error = ""
	return ok("")
}

// Login leaves the view untouched on failure and shows the error inline.
func (c *Commands) Login(s *views.Session, loginType, mobile, password string) Result {
	if loginType == "" {
		loginType = s.LoginType
	}
	u, err := c.svc.Authenticate(loginType, mobile, password)
	if err != nil {
		s.Error = library.MessageOf(err)
		return fail(err)
	}
	s.User = &u
	s.LoginType = loginType
	s.View = views.Dashboard
	s.Error = ""
	return ok("")
}

func (c *Commands) Logout(s *views.Session) Result {
	s.User = nil
	s.View = views.Login
	s.LoginType = library.RoleOwner
	s.Error = ""
	return ok("Logged out")
}

func (c *Commands) Navigate(s *views.Session, view string) Result {
	if s.User == nil {
		s.View = views.Login
		return fail(library.ErrUnauthorized("please log in"))
	}
	s.View = view
	return ok("")
}

func (c *Commands) AddStudent(ctx context.Context, s *views.Session, in library.NewStudent) Result {
	if err := requireOwner(s); err != nil {
		return fail(err)
	}
	st, err := c.svc.AddStudent(ctx, in)
	if err != nil {
		return fail(err)
	}
	return ok(fmt.Sprintf("Student %s added. Username: %s, Password: %s", st.FullName, st.UserName, st.Password))
}

func (c *Commands) DeleteStudent(ctx context.Context, s *views.Session, id string) Result {
	if err := requireOwner(s); err != nil {
		return fail(err)
	}
	if err := c.svc.DeleteStudent(ctx, id); err != nil {
		return fail(err)
	}
	return ok("Student deleted")
}

// AddBooking books the cell for the student registered under mobile.
func (c *Commands) AddBooking(ctx context.Context, s *views.Session, mobile string, seat, shift int) Result {
	if err := requireOwner(s); err != nil {
		return fail(err)
	}
	st, found := c.svc.Snapshot().StudentByMobile(strings.TrimSpace(mobile))
	if !found {
		return fail(library.ErrNotFound("Student not found with this mobile number"))
	}
	if _, err := c.svc.AddBooking(ctx, st.ID, seat, shift); err != nil {
		return fail(err)
	}
	return ok(fmt.Sprintf("Seat %d, Shift %d booked for %s", seat, shift, st.FullName))
}

func (c *Commands) RemoveBooking(ctx context.Context, s *views.Session, seat, shift int) Result {
	if err := requireOwner(s); err != nil {
		return fail(err)
	}
	if n := c.svc.RemoveBooking(ctx, seat, shift); n == 0 {
		return fail(library.ErrNotFound("no booking at that seat and shift"))
	}
	return ok(fmt.Sprintf("Booking for Seat %d, Shift %d removed", seat, shift))
}

func (c *Commands) UpdateSettings(ctx context.Context, s *views.Session, p library.SettingsPatch) Result {
	if err := requireOwner(s); err != nil {
		return fail(err)
	}
	if _, err := c.svc.UpdateSettings(ctx, p); err != nil {
		return fail(err)
	}
	return ok("Settings saved")
}

func (c *Commands) AddPayment(ctx context.Context, s *views.Session, studentID string, year, month int, amount decimal.Decimal) Result {
	if err := requireOwner(s); err != nil {
		return fail(err)
	}
	p, err := c.svc.AddPayment(ctx, studentID, year, month, amount)
	if err != nil {
		return fail(err)
	}
	return ok(fmt.Sprintf("Payment of %s recorded for %s %d", views.Rupees(p.Amount), views.MonthName(p.Month), p.Year))
}

// MarkAttendance is the owner's manual entry, keyed by mobile like the booking form.
func (c *Commands) MarkAttendance(ctx context.Context, s *views.Session, mobile, timeIn, timeOut string) Result {
	if err := requireOwner(s); err != nil {
		return fail(err)
	}
	st, found := c.svc.Snapshot().StudentByMobile(strings.TrimSpace(mobile))
	if !found {
		return fail(library.ErrNotFound("Student not found with this mobile number"))
	}
	if strings.TrimSpace(timeIn) == "" {
		return fail(library.ErrInvalid("time in is required"))
	}
	c.svc.MarkAttendance(ctx, st.ID, timeIn, timeOut)
	return ok("Attendance marked for " + st.FullName)
}

func (c *Commands) CheckIn(ctx context.Context, s *views.Session, code string, pos *library.Position) Result {
	if s.User == nil || s.User.IsOwner() {
		return fail(library.ErrUnauthorized("student login required"))
	}
	rec, err := c.svc.CheckIn(ctx, s.User.StudentID, strings.TrimSpace(code), pos)
	if err != nil {
		return fail(err)
	}
	return ok("Checked in at " + rec.Times[len(rec.Times)-1].In)
}

func (c *Commands) CheckOut(ctx context.Context, s *views.Session) Result {
	if s.User == nil || s.User.IsOwner() {
		return fail(library.ErrUnauthorized("student login required"))
	}
	out := c.svc.Now().Format(library.TimeLayout)
	if _, err := c.svc.CloseAttendance(ctx, s.User.StudentID, out); err != nil {
		return fail(err)
	}
	return ok("Checked out at " + out)
}
