package views

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"LWA-backend/internal/library"
)

var now = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

func sampleState() library.State {
	st := library.NewState()
	st.Settings.TotalSeats = 3
	st.Students = []library.Student{
		{ID: "s1", FullName: "Amit Shah", FatherName: "Raj Shah", Address: "Patna", MobileNumber: "9123456789",
			AdmissionDate: "2024-03-01", UserName: "9123456789", Password: "AMIT6789"},
		{ID: "s2", FullName: "Neha Kumari", FatherName: "Ravi Kumar", Address: "Gaya", MobileNumber: "9000011111",
			AdmissionDate: "2024-02-10", UserName: "9000011111", Password: "NEHA1111"},
	}
	st.Bookings = []library.Booking{
		{ID: "b1", StudentID: "s1", Seat: 2, Shift: 1},
		{ID: "b2", StudentID: "s1", Seat: 2, Shift: 3},
	}
	st.Payments = []library.Payment{
		{ID: "p1", StudentID: "s1", Year: 2024, Month: 3, Amount: decimal.NewFromInt(600), Date: "2024-03-02"},
		{ID: "p2", StudentID: "s1", Year: 2024, Month: 2, Amount: decimal.NewFromInt(600), Date: "2024-02-02"},
	}
	st.Attendance = []library.AttendanceRecord{
		{ID: "a1", StudentID: "s1", Date: "2024-03-15", Times: []library.TimePair{{In: "08:00", Out: "10:00"}, {In: "11:00"}}},
	}
	return st
}

var (
	owner   = &library.User{Role: library.RoleOwner, Mobile: "6201530654"}
	student = &library.User{Role: library.RoleStudent, Mobile: "9123456789", StudentID: "s1", Name: "Amit Shah"}
)

func TestRenderSignedOutAlwaysLogin(t *testing.T) {
	for _, name := range []string{"", Dashboard, Seats, Settings, "bogus"} {
		v := Render(sampleState(), Session{View: name}, now)
		if v.Name != Login || v.Login == nil {
			t.Fatalf("view %q signed out rendered %q", name, v.Name)
		}
	}
}

func TestRenderLoginTabs(t *testing.T) {
	v := Render(sampleState(), Session{}, now)
	if v.Login.LoginType != library.RoleOwner || v.Login.SubmitLabel != "OWNER LOGIN" {
		t.Errorf("default login = %+v", v.Login)
	}
	if !v.Login.Tabs[0].Active || v.Login.Tabs[1].Active {
		t.Errorf("tabs = %+v", v.Login.Tabs)
	}

	v = Render(sampleState(), Session{LoginType: library.RoleStudent, Error: "Invalid student credentials"}, now)
	if v.Login.SubmitLabel != "STUDENT LOGIN" || !v.Login.Tabs[1].Active {
		t.Errorf("student login = %+v", v.Login)
	}
	if v.Login.Error != "Invalid student credentials" {
		t.Errorf("error = %q", v.Login.Error)
	}
}

func TestRenderUnknownViewFallsBackToLogin(t *testing.T) {
	v := Render(sampleState(), Session{User: owner, View: "reports"}, now)
	if v.Name != Login {
		t.Errorf("got %q", v.Name)
	}
}

func TestRenderStudentCannotOpenOwnerViews(t *testing.T) {
	for name := range ownerOnly {
		v := Render(sampleState(), Session{User: student, View: name}, now)
		if v.Name != Dashboard || v.Dashboard == nil || v.Dashboard.Owner {
			t.Errorf("student view %q rendered %q", name, v.Name)
		}
	}
}

func TestRenderOwnerDashboard(t *testing.T) {
	v := Render(sampleState(), Session{User: owner, View: Dashboard}, now)
	d := v.Dashboard
	if !d.Owner || len(d.Nav) != 5 {
		t.Fatalf("dashboard = %+v", d)
	}
	want := OwnerStats{Students: 2, BookedCells: 2, Capacity: 12, PresentToday: 1, CollectedMonth: "₹600"}
	if *d.Stats != want {
		t.Errorf("stats = %+v, want %+v", *d.Stats, want)
	}
}

func TestRenderStudentDashboard(t *testing.T) {
	v := Render(sampleState(), Session{User: student, View: Dashboard}, now)
	s := v.Dashboard.Student
	if s == nil {
		t.Fatal("student summary missing")
	}
	if len(s.Slots) != 2 || s.Slots[0] != "Seat 2, Shift 1 (6AM-10AM)" {
		t.Errorf("slots = %v", s.Slots)
	}
	if s.Due != "₹600" {
		t.Errorf("due = %q", s.Due)
	}
	if s.Status != "Present" || s.Times != "08:00 - 10:00, 11:00 - (open)" {
		t.Errorf("today = %q %q", s.Status, s.Times)
	}
	if s.CheckIn || !s.CheckOut {
		t.Errorf("open pair should offer check out only: in=%v out=%v", s.CheckIn, s.CheckOut)
	}
}

func TestRenderSeatsGrid(t *testing.T) {
	v := Render(sampleState(), Session{User: owner, View: Seats}, now)
	g := v.Seats
	if len(g.Headers) != 4 || g.Headers[1] != "Shift 2 (10AM-2PM)" {
		t.Errorf("headers = %v", g.Headers)
	}
	if len(g.Rows) != 3 {
		t.Fatalf("rows = %d", len(g.Rows))
	}
	taken := g.Rows[1].Cells[0]
	if !taken.Occupied || taken.Label != "Amit Shah (6789)" || taken.Action != "remove" {
		t.Errorf("taken cell = %+v", taken)
	}
	free := g.Rows[0].Cells[0]
	if free.Occupied || free.Label != "Available" || free.Action != "book" {
		t.Errorf("free cell = %+v", free)
	}
}

func TestRenderSeatsIgnoresOrphanBooking(t *testing.T) {
	st := sampleState()
	st.Bookings = append(st.Bookings, library.Booking{ID: "b9", StudentID: "gone", Seat: 1, Shift: 1})
	v := Render(st, Session{User: owner, View: Seats}, now)
	if c := v.Seats.Rows[0].Cells[0]; c.Occupied {
		t.Errorf("orphan booking shown as %+v", c)
	}
}

func TestRenderStudentsTable(t *testing.T) {
	v := Render(sampleState(), Session{User: owner, View: Students}, now)
	rows := v.Students.Rows
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Serial != 1 || rows[0].AdmissionDate != "Mar 1, 2024" || rows[0].Password != "AMIT6789" {
		t.Errorf("row = %+v", rows[0])
	}

	empty := Render(library.NewState(), Session{User: owner, View: Students}, now)
	if len(empty.Students.Rows) != 0 || empty.Students.Empty == "" {
		t.Errorf("empty = %+v", empty.Students)
	}
}

func TestRenderPayments(t *testing.T) {
	v := Render(sampleState(), Session{User: owner, View: Payments}, now)
	p := v.Payments
	if p.Year != 2024 || p.Month != 3 || p.MonthName != "Mar" {
		t.Errorf("period = %d %d %s", p.Year, p.Month, p.MonthName)
	}
	amit, neha := p.Rows[0], p.Rows[1]
	if amit.Shifts != 2 || amit.Due != 600 || amit.DueText != "₹600" || amit.PaidText != "₹600" {
		t.Errorf("amit = %+v", amit)
	}
	if neha.Shifts != 0 || neha.DueText != "₹0" || neha.PaidText != "₹0" {
		t.Errorf("neha = %+v", neha)
	}
}

func TestRenderAttendance(t *testing.T) {
	v := Render(sampleState(), Session{User: owner, View: Attendance}, now)
	a := v.Attendance
	if a.DateText != "Mar 15, 2024" {
		t.Errorf("date = %q", a.DateText)
	}
	if a.Rows[0].Status != "Present" || a.Rows[1].Status != "Absent" || a.Rows[1].Times != "-" {
		t.Errorf("rows = %+v", a.Rows)
	}
}

func TestRenderSettings(t *testing.T) {
	v := Render(sampleState(), Session{User: owner, View: Settings}, now)
	s := v.Settings
	if s.TotalSeats != 3 || s.RatePerShift != 300 || s.LocationSet {
		t.Errorf("settings = %+v", s)
	}
	if s.QRCode != "LibraryWorkAutomate_StaticQR_v1" || s.QRImageURL == "" {
		t.Errorf("qr = %q %q", s.QRCode, s.QRImageURL)
	}
}

func TestRenderIsPure(t *testing.T) {
	st := sampleState()
	before, _ := library.Encode(st)
	for name := range titles {
		Render(st, Session{User: owner, View: name}, now)
	}
	after, _ := library.Encode(st)
	if string(before) != string(after) {
		t.Error("Render modified state")
	}
}

func TestFormatting(t *testing.T) {
	if got := RupeesInt(12000); got != "₹12,000" {
		t.Errorf("RupeesInt = %q", got)
	}
	if got := Rupees(decimal.RequireFromString("250.5")); got != "₹250.50" {
		t.Errorf("Rupees = %q", got)
	}
	if got := FormatDate("not-a-date"); got != "not-a-date" {
		t.Errorf("FormatDate = %q", got)
	}
	if MonthName(0) != "" || MonthName(12) != "Dec" {
		t.Error("MonthName bounds")
	}
}

func TestHTMLRendersEveryView(t *testing.T) {
	st := sampleState()
	for name := range titles {
		user := owner
		if name == Login {
			user = nil
		}
		v := Render(st, Session{User: user, View: name, Flash: "Saved"}, now)
		page, err := HTML(v)
		if err != nil {
			t.Fatalf("HTML(%s): %v", name, err)
		}
		if !strings.Contains(string(page), "<title>"+titles[name]) {
			t.Errorf("%s page missing title", name)
		}
	}

	seats, _ := HTML(Render(st, Session{User: owner, View: Seats}, now))
	if !strings.Contains(string(seats), "Amit Shah (6789)") {
		t.Error("seat grid missing occupant label")
	}
	login, _ := HTML(Render(st, Session{Error: "Invalid owner credentials"}, now))
	if !strings.Contains(string(login), "Invalid owner credentials") {
		t.Error("login error not shown")
	}
}

func TestHTMLUnknownView(t *testing.T) {
	if _, err := HTML(View{Name: "nope"}); err == nil {
		t.Error("expected error")
	}
}
