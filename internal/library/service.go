package library

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Service owns the state document. Every operation runs under one mutex and a
// mutating operation rewrites the whole document before it returns.
type Service struct {
	mu      sync.Mutex
	state   State
	persist *Persister
	loc     *time.Location
	now     func() time.Time
	entropy io.Reader
}

func NewService(p *Persister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		state:   NewState(),
		persist: p,
		loc:     loc,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Load replaces the in-memory state with what the store holds.
func (s *Service) Load(ctx context.Context) {
	st := s.persist.Load(ctx)
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// SetClock overrides the wall clock used for "today" and record ids.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Service) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().In(s.loc)
}

func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// ===== helpers (caller holds s.mu) =====

func (s *Service) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

func (s *Service) today() string {
	return s.now().In(s.loc).Format(DateLayout)
}

func (s *Service) save(ctx context.Context) {
	s.persist.Save(ctx, &s.state)
}

// ===== students =====

type NewStudent struct {
	FullName      string `json:"fullName" binding:"required"`
	FatherName    string `json:"fatherName" binding:"required"`
	Address       string `json:"address" binding:"required"`
	MobileNumber  string `json:"mobileNumber" binding:"required"`
	AdmissionDate string `json:"admissionDate" binding:"required"`
}

func (in *NewStudent) normalize() error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.FatherName = strings.TrimSpace(in.FatherName)
	in.Address = strings.TrimSpace(in.Address)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	in.AdmissionDate = strings.TrimSpace(in.AdmissionDate)

	switch {
	case in.FullName == "":
		return ErrInvalid("full name is required")
	case in.FatherName == "":
		return ErrInvalid("father name is required")
	case in.Address == "":
		return ErrInvalid("address is required")
	case !isMobile(in.MobileNumber):
		return ErrInvalid("mobile number must be 10 digits")
	}
	if _, err := time.Parse(DateLayout, in.AdmissionDate); err != nil {
		return ErrInvalid("admission date must be YYYY-MM-DD")
	}
	return nil
}

// AddStudent registers a student. Username is the mobile number and the password
// is derived from name and mobile.
func (s *Service) AddStudent(ctx context.Context, in NewStudent) (st Student, err error) {
	defer func() { observe("add_student", err) }()
	if err := in.normalize(); err != nil {
		return Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.state.StudentByMobile(in.MobileNumber); dup {
		return Student{}, ErrConflict("mobile number already registered")
	}
	st = Student{
		ID:            s.newID(),
		FullName:      in.FullName,
		FatherName:    in.FatherName,
		Address:       in.Address,
		MobileNumber:  in.MobileNumber,
		AdmissionDate: in.AdmissionDate,
		UserName:      in.MobileNumber,
		Password:      DerivePassword(in.FullName, in.MobileNumber),
	}
	s.state.Students = append(s.state.Students, st)
	s.save(ctx)
	return st, nil
}

// StudentPatch is a shallow merge; nil fields are kept. Credentials are not re-derived.
type StudentPatch struct {
	FullName      *string `json:"fullName,omitempty"`
	FatherName    *string `json:"fatherName,omitempty"`
	Address       *string `json:"address,omitempty"`
	MobileNumber  *string `json:"mobileNumber,omitempty"`
	AdmissionDate *string `json:"admissionDate,omitempty"`
	UserName      *string `json:"userName,omitempty"`
	Password      *string `json:"password,omitempty"`
}

func (s *Service) UpdateStudent(ctx context.Context, id string, p StudentPatch) (st Student, err error) {
	defer func() { observe("update_student", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.state.Students {
		if s.state.Students[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Student{}, ErrNotFound("student not found")
	}
	if p.MobileNumber != nil {
		m := strings.TrimSpace(*p.MobileNumber)
		if !isMobile(m) {
			return Student{}, ErrInvalid("mobile number must be 10 digits")
		}
		if other, dup := s.state.StudentByMobile(m); dup && other.ID != id {
			return Student{}, ErrConflict("mobile number already registered")
		}
		p.MobileNumber = &m
	}
	if p.AdmissionDate != nil {
		if _, err := time.Parse(DateLayout, *p.AdmissionDate); err != nil {
			return Student{}, ErrInvalid("admission date must be YYYY-MM-DD")
		}
	}

	cur := s.state.Students[idx]
	setIf(&cur.FullName, p.FullName)
	setIf(&cur.FatherName, p.FatherName)
	setIf(&cur.Address, p.Address)
	setIf(&cur.MobileNumber, p.MobileNumber)
	setIf(&cur.AdmissionDate, p.AdmissionDate)
	setIf(&cur.UserName, p.UserName)
	setIf(&cur.Password, p.Password)
	s.state.Students[idx] = cur
	s.save(ctx)
	return cur, nil
}

// DeleteStudent removes the student and every booking that references them.
func (s *Service) DeleteStudent(ctx context.Context, id string) (err error) {
	defer func() { observe("delete_student", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.StudentByID(id); !ok {
		return ErrNotFound("student not found")
	}
	students := s.state.Students[:0]
	for _, st := range s.state.Students {
		if st.ID != id {
			students = append(students, st)
		}
	}
	s.state.Students = students
	s.state.Bookings = filterBookings(s.state.Bookings, func(b Booking) bool { return b.StudentID != id })
	s.save(ctx)
	return nil
}

// ===== bookings =====

// AddBooking books (seat, shift) for a student. A taken pair is a conflict.
func (s *Service) AddBooking(ctx context.Context, studentID string, seat, shift int) (b Booking, err error) {
	defer func() { observe("add_booking", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.state.Settings
	if seat < 1 || seat > cfg.TotalSeats {
		return Booking{}, ErrInvalid("seat out of range")
	}
	if shift < 1 || shift > cfg.Shifts {
		return Booking{}, ErrInvalid("shift out of range")
	}
	if _, ok := s.state.StudentByID(studentID); !ok {
		return Booking{}, ErrNotFound("student not found")
	}
	if _, taken := s.state.BookingAt(seat, shift); taken {
		return Booking{}, ErrConflict("seat and shift already booked")
	}
	b = Booking{ID: s.newID(), StudentID: studentID, Seat: seat, Shift: shift}
	s.state.Bookings = append(s.state.Bookings, b)
	s.save(ctx)
	return b, nil
}

// RemoveBooking drops every booking on (seat, shift) and reports how many went.
func (s *Service) RemoveBooking(ctx context.Context, seat, shift int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.state.Bookings)
	s.state.Bookings = filterBookings(s.state.Bookings, func(b Booking) bool {
		return !(b.Seat == seat && b.Shift == shift)
	})
	s.save(ctx)
	observe("remove_booking", nil)
	return before - len(s.state.Bookings)
}

func filterBookings(in []Booking, keep func(Booking) bool) []Booking {
	out := make([]Booking, 0, len(in))
	for _, b := range in {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// ===== payments =====

// CalculatePayment is recomputed on every call from the current bookings.
func (s *Service) CalculatePayment(studentID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CalculatePayment(studentID)
}

// AddPayment appends a ledger entry dated today. The amount is not checked
// against CalculatePayment.
func (s *Service) AddPayment(ctx context.Context, studentID string, year, month int, amount decimal.Decimal) (p Payment, err error) {
	defer func() { observe("add_payment", err) }()
	if month < 1 || month > 12 {
		return Payment{}, ErrInvalid("month must be 1-12")
	}
	if year < 1 {
		return Payment{}, ErrInvalid("year is required")
	}
	if amount.IsNegative() {
		return Payment{}, ErrInvalid("amount must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.StudentByID(studentID); !ok {
		return Payment{}, ErrNotFound("student not found")
	}
	p = Payment{
		ID:        s.newID(),
		StudentID: studentID,
		Year:      year,
		Month:     month,
		Amount:    amount,
		Date:      s.today(),
	}
	s.state.Payments = append(s.state.Payments, p)
	s.save(ctx)
	return p, nil
}

// ===== attendance =====

// MarkAttendance appends (in, out) to today's record for the student, creating it if needed.
func (s *Service) MarkAttendance(ctx context.Context, studentID, timeIn, timeOut string) AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.markLocked(studentID, TimePair{In: timeIn, Out: timeOut})
	s.save(ctx)
	observe("mark_attendance", nil)
	return rec
}

func (s *Service) markLocked(studentID string, tp TimePair) AttendanceRecord {
	today := s.today()
	for i := range s.state.Attendance {
		a := &s.state.Attendance[i]
		if a.StudentID == studentID && a.Date == today {
			a.Times = append(a.Times, tp)
			return cloneRecord(*a)
		}
	}
	rec := AttendanceRecord{
		ID:        s.newID(),
		StudentID: studentID,
		Date:      today,
		Times:     []TimePair{tp},
	}
	s.state.Attendance = append(s.state.Attendance, rec)
	return cloneRecord(rec)
}

// CloseAttendance fills Out on the latest open pair of today's record.
func (s *Service) CloseAttendance(ctx context.Context, studentID, timeOut string) (rec AttendanceRecord, err error) {
	defer func() { observe("close_attendance", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	today := s.today()
	for i := range s.state.Attendance {
		a := &s.state.Attendance[i]
		if a.StudentID != studentID || a.Date != today {
			continue
		}
		for j := len(a.Times) - 1; j >= 0; j-- {
			if a.Times[j].Out == "" {
				a.Times[j].Out = timeOut
				s.save(ctx)
				return cloneRecord(*a), nil
			}
		}
	}
	return AttendanceRecord{}, ErrNotFound("no open attendance today")
}

func cloneRecord(a AttendanceRecord) AttendanceRecord {
	a.Times = append([]TimePair{}, a.Times...)
	return a
}

// ===== settings =====

func (s *Service) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings.clone()
}

// UpdateSettings validates the whole patch before applying any of it.
func (s *Service) UpdateSettings(ctx context.Context, p SettingsPatch) (out Settings, err error) {
	defer func() { observe("update_settings", err) }()
	if err := p.validate(); err != nil {
		return Settings{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p.apply(&s.state.Settings)
	s.save(ctx)
	return s.state.Settings.clone(), nil
}

// ===== login =====

// Authenticate checks owner credentials against settings, or student credentials
// against the derived username/password pairs.
func (s *Service) Authenticate(loginType, mobile, password string) (u User, err error) {
	defer func() { observe("login", err) }()
	mobile = strings.TrimSpace(mobile)
	password = strings.TrimSpace(password)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch loginType {
	case RoleOwner:
		cfg := s.state.Settings
		if mobile == cfg.OwnerMobile && password == cfg.OwnerPassword {
			return User{Role: RoleOwner, Mobile: mobile}, nil
		}
		return User{}, ErrUnauthorized("Invalid owner credentials")
	case RoleStudent:
		for _, st := range s.state.Students {
			if st.UserName == mobile && st.Password == password {
				return User{Role: RoleStudent, Mobile: mobile, StudentID: st.ID, Name: st.FullName}, nil
			}
		}
		return User{}, ErrUnauthorized("Invalid student credentials")
	default:
		return User{}, ErrInvalid("login type must be owner or student")
	}
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
