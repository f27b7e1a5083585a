package library

import "github.com/shopspring/decimal"

// ===== Requests =====

type CreateBookingRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Seat      int    `json:"seat" binding:"required"`
	Shift     int    `json:"shift" binding:"required"`
}

type CreatePaymentRequest struct {
	StudentID string           `json:"studentId" binding:"required"`
	Year      int              `json:"year" binding:"required"`
	Month     int              `json:"month" binding:"required"`
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
}

type MarkAttendanceRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	In        string `json:"in" binding:"required"`
	Out       string `json:"out"`
}

type CheckInRequest struct {
	Code string   `json:"code" binding:"required"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

func (r CheckInRequest) Position() *Position {
	if r.Lat == nil || r.Lng == nil {
		return nil
	}
	return &Position{Lat: *r.Lat, Lng: *r.Lng}
}

type CheckOutRequest struct {
	Out string `json:"out"` // HH:MM, defaults to now
}

// ===== Responses =====

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func listOf[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}

type StudentPaymentResponse struct {
	StudentID    string `json:"studentId"`
	Shifts       int    `json:"shifts"`
	RatePerShift int    `json:"ratePerShift"`
	Due          int    `json:"due"`
}

type BookedSlot struct {
	Seat       int    `json:"seat"`
	Shift      int    `json:"shift"`
	ShiftLabel string `json:"shiftLabel"`
}

type MeResponse struct {
	Student  Student           `json:"student"`
	Bookings []BookedSlot      `json:"bookings"`
	Due      int               `json:"due"`
	Payments []Payment         `json:"payments"`
	Today    *AttendanceRecord `json:"today,omitempty"`
}

type errorDTO struct {
	Error *APIError `json:"error"`
}

func newErrDTO(err error) errorDTO {
	return errorDTO{Error: &APIError{Code: CodeOf(err), Message: MessageOf(err)}}
}
