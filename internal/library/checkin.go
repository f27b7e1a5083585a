package library

import (
	"context"
	"fmt"
	"math"
)

const earthRadiusMetres = 6371000.0

type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceMetres is the haversine great-circle distance.
func DistanceMetres(a, b Position) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMetres * math.Asin(math.Min(1, math.Sqrt(h)))
}

// CheckIn is the student's self-service attendance: the scanned code must match the
// library QR code and, once a library location is set, pos must be within range.
// It opens a time pair starting now.
func (s *Service) CheckIn(ctx context.Context, studentID, code string, pos *Position) (rec AttendanceRecord, err error) {
	defer func() { observe("check_in", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.StudentByID(studentID); !ok {
		return AttendanceRecord{}, ErrNotFound("student not found")
	}
	cfg := s.state.Settings
	if code != cfg.QRCode {
		return AttendanceRecord{}, ErrInvalid("invalid QR code")
	}
	if loc := cfg.LibraryLocation; loc.Set {
		if pos == nil || !finite(pos.Lat) || !finite(pos.Lng) {
			return AttendanceRecord{}, ErrInvalid("location is required to check in")
		}
		d := DistanceMetres(Position{Lat: loc.Lat, Lng: loc.Lng}, *pos)
		if !(d <= loc.Range) {
			return AttendanceRecord{}, ErrInvalid(fmt.Sprintf("you are %.0fm from the library (allowed %.0fm)", d, loc.Range))
		}
	}
	rec = s.markLocked(studentID, TimePair{In: s.now().In(s.loc).Format(TimeLayout)})
	s.save(ctx)
	return rec, nil
}
