package library

import (
	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	RoleOwner   = "owner"
	RoleStudent = "student"
)

func init() {
	// the persisted document keeps amounts as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type Student struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	FatherName    string `json:"fatherName"`
	Address       string `json:"address"`
	MobileNumber  string `json:"mobileNumber"`
	AdmissionDate string `json:"admissionDate"` // YYYY-MM-DD
	UserName      string `json:"userName"`
	Password      string `json:"password"`
}

// MobileSuffix is the last 4 digits shown next to the name on the seat grid.
func (s Student) MobileSuffix() string {
	if len(s.MobileNumber) <= 4 {
		return s.MobileNumber
	}
	return s.MobileNumber[len(s.MobileNumber)-4:]
}

type Booking struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	Seat      int    `json:"seat"`
	Shift     int    `json:"shift"`
}

// Payment is one ledger entry. It is never reconciled against bookings.
type Payment struct {
	ID        string          `json:"id"`
	StudentID string          `json:"studentId"`
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
}

type TimePair struct {
	In  string `json:"in"`
	Out string `json:"out"`
}

// AttendanceRecord is unique per (StudentID, Date); repeat markings append to Times.
type AttendanceRecord struct {
	ID        string     `json:"id"`
	StudentID string     `json:"studentId"`
	Date      string     `json:"date"`
	Times     []TimePair `json:"times"`
}

type Location struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Range float64 `json:"range"` // metres
	Set   bool    `json:"set"`
}

type Settings struct {
	OwnerMobile     string         `json:"ownerMobile"`
	OwnerPassword   string         `json:"ownerPassword"`
	TotalSeats      int            `json:"totalSeats"`
	RatePerShift    int            `json:"ratePerShift"`
	Shifts          int            `json:"shifts"`
	ShiftTimes      map[int]string `json:"shiftTimes"`
	LibraryLocation Location       `json:"libraryLocation"`
	QRCode          string         `json:"qrCode"`
}

// User is the signed-in principal. It lives in the session only.
type User struct {
	Role      string `json:"role"`
	Mobile    string `json:"mobile"`
	StudentID string `json:"studentId,omitempty"`
	Name      string `json:"name,omitempty"`
}

func (u User) IsOwner() bool { return u.Role == RoleOwner }
