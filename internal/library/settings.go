package library

import (
	"fmt"
	"math"
)

func DefaultSettings() Settings {
	return Settings{
		OwnerMobile:   "6201530654",
		OwnerPassword: "Avinash",
		TotalSeats:    50,
		RatePerShift:  300,
		Shifts:        4,
		ShiftTimes: map[int]string{
			1: "6AM-10AM",
			2: "10AM-2PM",
			3: "2PM-6PM",
			4: "6PM-10PM",
		},
		LibraryLocation: Location{
			Lat:   25.6127,
			Lng:   85.1589,
			Range: 20,
			Set:   false,
		},
		QRCode: "LibraryWorkAutomate_StaticQR_v1",
	}
}

// ShiftLabel is "6AM-10AM" style text, or "Shift n" when no label is configured.
func (s Settings) ShiftLabel(shift int) string {
	if l, ok := s.ShiftTimes[shift]; ok && l != "" {
		return l
	}
	return fmt.Sprintf("Shift %d", shift)
}

func (s Settings) clone() Settings {
	out := s
	out.ShiftTimes = make(map[int]string, len(s.ShiftTimes))
	for k, v := range s.ShiftTimes {
		out.ShiftTimes[k] = v
	}
	return out
}

// SettingsPatch carries the fields the settings form may change. nil = keep.
type SettingsPatch struct {
	TotalSeats   *int     `json:"totalSeats,omitempty"`
	RatePerShift *int     `json:"ratePerShift,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
	Range        *float64 `json:"range,omitempty"`
}

func (p SettingsPatch) validate() error {
	if p.TotalSeats != nil && (*p.TotalSeats < 1 || *p.TotalSeats > 500) {
		return ErrInvalid("total seats must be between 1 and 500")
	}
	if p.RatePerShift != nil && *p.RatePerShift < 1 {
		return ErrInvalid("rate per shift must be at least 1")
	}
	for _, f := range []*float64{p.Lat, p.Lng, p.Range} {
		if f != nil && !finite(*f) {
			return ErrInvalid("location values must be finite numbers")
		}
	}
	if p.Lat != nil && (*p.Lat < -90 || *p.Lat > 90) {
		return ErrInvalid("latitude must be between -90 and 90")
	}
	if p.Lng != nil && (*p.Lng < -180 || *p.Lng > 180) {
		return ErrInvalid("longitude must be between -180 and 180")
	}
	if p.Range != nil && (*p.Range < 1 || *p.Range > 100) {
		return ErrInvalid("range must be between 1 and 100 metres")
	}
	return nil
}

func (p SettingsPatch) apply(s *Settings) {
	if p.TotalSeats != nil {
		s.TotalSeats = *p.TotalSeats
	}
	if p.RatePerShift != nil {
		s.RatePerShift = *p.RatePerShift
	}
	if p.Lat != nil {
		s.LibraryLocation.Lat = *p.Lat
	}
	if p.Lng != nil {
		s.LibraryLocation.Lng = *p.Lng
	}
	if p.Range != nil {
		s.LibraryLocation.Range = *p.Range
	}
	if p.Lat != nil || p.Lng != nil || p.Range != nil {
		s.LibraryLocation.Set = true
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
