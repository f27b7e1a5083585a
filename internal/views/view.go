// Package views maps application state to per-view descriptors. Everything here
// reads state and never writes it.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"LWA-backend/internal/library"
)

const (
	Login      = "login"
	Dashboard  = "dashboard"
	Students   = "students"
	Seats      = "seats"
	Payments   = "payments"
	Attendance = "attendance"
	Settings   = "settings"
)

var ownerOnly = map[string]bool{
	Students:   true,
	Seats:      true,
	Payments:   true,
	Attendance: true,
	Settings:   true,
}

// Known reports whether name is one of the seven views.
func Known(name string) bool {
	return name == Login || name == Dashboard || ownerOnly[name]
}

// Session is the per-browser UI state: who is signed in and what they are looking at.
type Session struct {
	User      *library.User
	View      string
	LoginType string
	Error     string
	Flash     string
}

// View is a rendered screen. Exactly one of the per-view fields is set, matching Name.
type View struct {
	Name  string
	Title string
	Flash string
	User  *library.User

	Login      *LoginView
	Dashboard  *DashboardView
	Students   *StudentsView
	Seats      *SeatsView
	Payments   *PaymentsView
	Attendance *AttendanceView
	Settings   *SettingsView
}

type Tab struct {
	Type   string
	Label  string
	Active bool
}

type LoginView struct {
	LoginType   string
	Tabs        []Tab
	SubmitLabel string
	Error       string
}

type NavItem struct {
	View  string
	Label string
	Icon  string
}

type DashboardView struct {
	Owner   bool
	Nav     []NavItem
	Stats   *OwnerStats
	Student *StudentSummary
}

type OwnerStats struct {
	Students       int
	BookedCells    int
	Capacity       int
	PresentToday   int
	CollectedMonth string
}

type StudentSummary struct {
	Name     string
	Mobile   string
	Slots    []string
	Due      string
	Status   string
	Times    string
	CheckIn  bool
	CheckOut bool
}

type StudentRow struct {
	Serial        int
	ID            string
	FullName      string
	FatherName    string
	Address       string
	Mobile        string
	AdmissionDate string
	UserName      string
	Password      string
}

type StudentsView struct {
	Rows  []StudentRow
	Empty string
}

type SeatCell struct {
	Seat         int
	Shift        int
	Occupied     bool
	StudentName  string
	MobileSuffix string
	Label        string
	Action       string // "remove" when occupied, "book" when free
}

type SeatRow struct {
	Seat  int
	Cells []SeatCell
}

type SeatsView struct {
	Headers []string
	Rows    []SeatRow
}

type PaymentRow struct {
	Serial    int
	StudentID string
	FullName  string
	Address   string
	Mobile    string
	Shifts    int
	Due       int
	DueText   string
	PaidText  string
}

type PaymentsView struct {
	Rows      []PaymentRow
	Empty     string
	Year      int
	Month     int
	MonthName string
}

type AttendanceRow struct {
	Serial   int
	FullName string
	Mobile   string
	Status   string
	Times    string
}

type AttendanceView struct {
	DateText string
	Rows     []AttendanceRow
	Empty    string
	Now      string
}

type SettingsView struct {
	TotalSeats   int
	RatePerShift int
	Lat          float64
	Lng          float64
	Range        float64
	LocationSet  bool
	QRCode       string
	QRImageURL   string
}

// Render picks the view for s and fills it from st. Signed-out sessions always get
// the login view, unknown names fall back to login, and students asking for an
// owner view get their dashboard.
func Render(st library.State, s Session, now time.Time) View {
	name := s.View
	switch {
	case s.User == nil:
		name = Login
	case !Known(name):
		name = Login
	case ownerOnly[name] && !s.User.IsOwner():
		name = Dashboard
	}

	v := View{Name: name, Title: titles[name], Flash: s.Flash, User: s.User}
	switch name {
	case Login:
		v.Login = renderLogin(s)
	case Dashboard:
		v.Dashboard = renderDashboard(st, s, now)
	case Students:
		v.Students = renderStudents(st)
	case Seats:
		v.Seats = renderSeats(st)
	case Payments:
		v.Payments = renderPayments(st, now)
	case Attendance:
		v.Attendance = renderAttendance(st, now)
	case Settings:
		v.Settings = renderSettings(st)
	}
	return v
}

var titles = map[string]string{
	Login:      "Library Work Automate",
	Dashboard:  "Dashboard",
	Students:   "Registered Students",
	Seats:      "Seat Booking Dashboard",
	Payments:   "Payment Details",
	Attendance: "Attendance Log",
	Settings:   "Settings",
}

func renderLogin(s Session) *LoginView {
	lt := s.LoginType
	if lt != library.RoleStudent {
		lt = library.RoleOwner
	}
	return &LoginView{
		LoginType: lt,
		Tabs: []Tab{
			{Type: library.RoleOwner, Label: "Owner Login", Active: lt == library.RoleOwner},
			{Type: library.RoleStudent, Label: "Student Login", Active: lt == library.RoleStudent},
		},
		SubmitLabel: strings.ToUpper(lt) + " LOGIN",
		Error:       s.Error,
	}
}

var ownerNav = []NavItem{
	{View: Students, Label: "Students Data", Icon: "fa-users"},
	{View: Seats, Label: "Seat Management", Icon: "fa-chair"},
	{View: Payments, Label: "Payment Details", Icon: "fa-wallet"},
	{View: Attendance, Label: "Attendance Log", Icon: "fa-calendar-check"},
	{View: Settings, Label: "Settings", Icon: "fa-cog"},
}

func renderDashboard(st library.State, s Session, now time.Time) *DashboardView {
	today := now.Format(library.DateLayout)
	if s.User.IsOwner() {
		stats := &OwnerStats{
			Students:    len(st.Students),
			BookedCells: len(st.Bookings),
			Capacity:    st.Settings.TotalSeats * st.Settings.Shifts,
		}
		for _, stu := range st.Students {
			if rec, ok := st.AttendanceOn(stu.ID, today); ok && len(rec.Times) > 0 {
				stats.PresentToday++
			}
		}
		total := decimal.Zero
		for _, p := range st.Payments {
			if p.Year == now.Year() && p.Month == int(now.Month()) {
				total = total.Add(p.Amount)
			}
		}
		stats.CollectedMonth = Rupees(total)
		return &DashboardView{Owner: true, Nav: ownerNav, Stats: stats}
	}

	sum := &StudentSummary{Name: s.User.Name, Mobile: s.User.Mobile, Status: "Absent", Times: "-"}
	if stu, ok := st.StudentByID(s.User.StudentID); ok {
		sum.Name = stu.FullName
		for _, b := range st.StudentBookings(stu.ID) {
			sum.Slots = append(sum.Slots, fmt.Sprintf("Seat %d, Shift %d (%s)", b.Seat, b.Shift, st.Settings.ShiftLabel(b.Shift)))
		}
		sum.Due = RupeesInt(st.CalculatePayment(stu.ID))
		rec, ok := st.AttendanceOn(stu.ID, today)
		if ok && len(rec.Times) > 0 {
			sum.Status = "Present"
			sum.Times = formatTimes(rec.Times)
		}
		sum.CheckOut = ok && hasOpenPair(rec.Times)
		sum.CheckIn = !sum.CheckOut
	}
	return &DashboardView{Owner: false, Student: sum}
}

func renderStudents(st library.State) *StudentsView {
	v := &StudentsView{Empty: "No students registered yet"}
	for i, s := range st.Students {
		v.Rows = append(v.Rows, StudentRow{
			Serial:        i + 1,
			ID:            s.ID,
			FullName:      s.FullName,
			FatherName:    s.FatherName,
			Address:       s.Address,
			Mobile:        s.MobileNumber,
			AdmissionDate: FormatDate(s.AdmissionDate),
			UserName:      s.UserName,
			Password:      s.Password,
		})
	}
	return v
}

func renderSeats(st library.State) *SeatsView {
	cfg := st.Settings
	v := &SeatsView{}
	for shift := 1; shift <= cfg.Shifts; shift++ {
		v.Headers = append(v.Headers, fmt.Sprintf("Shift %d (%s)", shift, cfg.ShiftLabel(shift)))
	}
	for seat := 1; seat <= cfg.TotalSeats; seat++ {
		row := SeatRow{Seat: seat, Cells: make([]SeatCell, 0, cfg.Shifts)}
		for shift := 1; shift <= cfg.Shifts; shift++ {
			row.Cells = append(row.Cells, seatCell(st, seat, shift))
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func seatCell(st library.State, seat, shift int) SeatCell {
	cell := SeatCell{Seat: seat, Shift: shift, Label: "Available", Action: "book"}
	b, ok := st.BookingAt(seat, shift)
	if !ok {
		return cell
	}
	stu, ok := st.StudentByID(b.StudentID)
	if !ok {
		return cell
	}
	cell.Occupied = true
	cell.StudentName = stu.FullName
	cell.MobileSuffix = stu.MobileSuffix()
	cell.Label = fmt.Sprintf("%s (%s)", stu.FullName, stu.MobileSuffix())
	cell.Action = "remove"
	return cell
}

func renderPayments(st library.State, now time.Time) *PaymentsView {
	v := &PaymentsView{
		Empty:     "No payment records",
		Year:      now.Year(),
		Month:     int(now.Month()),
		MonthName: MonthName(int(now.Month())),
	}
	for i, s := range st.Students {
		due := st.CalculatePayment(s.ID)
		paid := decimal.Zero
		for _, p := range st.StudentMonthPayments(s.ID, v.Year, v.Month) {
			paid = paid.Add(p.Amount)
		}
		v.Rows = append(v.Rows, PaymentRow{
			Serial:    i + 1,
			StudentID: s.ID,
			FullName:  s.FullName,
			Address:   s.Address,
			Mobile:    s.MobileNumber,
			Shifts:    len(st.StudentBookings(s.ID)),
			Due:       due,
			DueText:   RupeesInt(due),
			PaidText:  Rupees(paid),
		})
	}
	return v
}

func renderAttendance(st library.State, now time.Time) *AttendanceView {
	today := now.Format(library.DateLayout)
	v := &AttendanceView{
		DateText: FormatDate(today),
		Empty:    "No attendance records",
		Now:      now.Format(library.TimeLayout),
	}
	for i, s := range st.Students {
		row := AttendanceRow{Serial: i + 1, FullName: s.FullName, Mobile: s.MobileNumber, Status: "Absent", Times: "-"}
		if rec, ok := st.AttendanceOn(s.ID, today); ok && len(rec.Times) > 0 {
			row.Status = "Present"
			row.Times = formatTimes(rec.Times)
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func renderSettings(st library.State) *SettingsView {
	cfg := st.Settings
	return &SettingsView{
		TotalSeats:   cfg.TotalSeats,
		RatePerShift: cfg.RatePerShift,
		Lat:          cfg.LibraryLocation.Lat,
		Lng:          cfg.LibraryLocation.Lng,
		Range:        cfg.LibraryLocation.Range,
		LocationSet:  cfg.LibraryLocation.Set,
		QRCode:       cfg.QRCode,
		QRImageURL:   "/settings/qr.png",
	}
}

// ===== formatting =====

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// FormatDate turns YYYY-MM-DD into "Mar 1, 2024"; anything else is returned as is.
func FormatDate(date string) string {
	t, err := time.Parse(library.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

func RupeesInt(n int) string {
	return message.NewPrinter(language.English).Sprintf("₹%d", n)
}

func Rupees(d decimal.Decimal) string {
	if d.IsInteger() {
		return RupeesInt(int(d.IntPart()))
	}
	return "₹" + d.StringFixed(2)
}

func formatTimes(times []library.TimePair) string {
	parts := make([]string, 0, len(times))
	for _, t := range times {
		out := t.Out
		if out == "" {
			out = "(open)"
		}
		parts = append(parts, t.In+" - "+out)
	}
	return strings.Join(parts, ", ")
}

func hasOpenPair(times []library.TimePair) bool {
	for _, t := range times {
		if t.Out == "" {
			return true
		}
	}
	return false
}
