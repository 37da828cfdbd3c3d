// internal/hours/hours.go
package hours

import (
	"fmt"
	"time"

	"warehouse-pickup-api-server/internal/models"
)

// Status is what the submission UI shows. The engine never gates its own
// operations on this; it is purely informational.
type Status struct {
	IsOpen    bool   `json:"isOpen"`
	Message   string `json:"message,omitempty"`
	OpenTime  string `json:"openTime,omitempty"`
	CloseTime string `json:"closeTime,omitempty"`
}

// Service evaluates the weekly schedule in the warehouse's timezone. All
// stored clock strings are interpreted in that zone regardless of where the
// caller or the server runs.
type Service struct {
	loc *time.Location
}

func NewService(timezone string) (*Service, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load warehouse timezone: %w", err)
	}
	return &Service{loc: loc}, nil
}

// Evaluate reports whether the warehouse is open at the given instant.
// Ambiguity resolves conservatively: a day with no configured row reads as
// closed.
func (s *Service) Evaluate(rows []models.BusinessHours, now time.Time) Status {
	local := now.In(s.loc)
	day := int(local.Weekday())

	var today *models.BusinessHours
	for i := range rows {
		if rows[i].DayOfWeek == day {
			today = &rows[i]
			break
		}
	}
	if today == nil || today.IsClosed {
		return Status{IsOpen: false, Message: "The warehouse is currently closed."}
	}

	open, err1 := clockOn(local, today.OpenTime)
	close, err2 := clockOn(local, today.CloseTime)
	if err1 != nil || err2 != nil {
		return Status{IsOpen: false, Message: "Unable to check business hours. Please try again later."}
	}

	openLabel := open.Format("3:04 PM")
	closeLabel := close.Format("3:04 PM")

	if !local.Before(open) && !local.After(close) {
		return Status{IsOpen: true, OpenTime: openLabel, CloseTime: closeLabel}
	}
	return Status{
		IsOpen:    false,
		Message:   fmt.Sprintf("We're open %s - %s", openLabel, closeLabel),
		OpenTime:  openLabel,
		CloseTime: closeLabel,
	}
}

// clockOn anchors an "HH:MM:SS" (or "HH:MM") clock string onto ref's date in
// ref's location.
func clockOn(ref time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		t, err = time.Parse("15:04", clock)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, err)
		}
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), t.Second(), 0, ref.Location()), nil
}

// DefaultWeek returns the seeded schedule: weekdays 08:00-17:00, weekend
// closed.
func DefaultWeek() []models.BusinessHours {
	rows := make([]models.BusinessHours, 7)
	for i := 0; i < 7; i++ {
		rows[i] = models.BusinessHours{
			DayOfWeek: i,
			IsClosed:  i == 0 || i == 6,
			OpenTime:  "08:00:00",
			CloseTime: "17:00:00",
		}
	}
	return rows
}
