package hours

import (
	"testing"
	"time"

	"warehouse-pickup-api-server/internal/models"
)

func mustService(t *testing.T) *Service {
	t.Helper()
	s, err := NewService("America/Los_Angeles")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

// at builds an instant on a fixed Monday in the warehouse zone.
func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	// 2026-03-02 is a Monday.
	return time.Date(2026, 3, 2, hour, min, 0, 0, loc)
}

func week(open, close string) []models.BusinessHours {
	rows := make([]models.BusinessHours, 7)
	for i := 0; i < 7; i++ {
		rows[i] = models.BusinessHours{DayOfWeek: i, OpenTime: open, CloseTime: close}
	}
	return rows
}

func TestEvaluate(t *testing.T) {
	s := mustService(t)

	tests := []struct {
		name     string
		rows     []models.BusinessHours
		now      time.Time
		wantOpen bool
		wantMsg  string
	}{
		{
			name:     "inside the window",
			rows:     week("08:00:00", "17:00:00"),
			now:      at(t, 12, 0),
			wantOpen: true,
		},
		{
			name:     "before opening",
			rows:     week("08:00:00", "17:00:00"),
			now:      at(t, 7, 59),
			wantOpen: false,
			wantMsg:  "We're open 8:00 AM - 5:00 PM",
		},
		{
			name:     "after closing",
			rows:     week("08:00:00", "17:00:00"),
			now:      at(t, 17, 1),
			wantOpen: false,
			wantMsg:  "We're open 8:00 AM - 5:00 PM",
		},
		{
			name: "day marked closed",
			rows: []models.BusinessHours{
				{DayOfWeek: 1, IsClosed: true, OpenTime: "08:00:00", CloseTime: "17:00:00"},
			},
			now:      at(t, 12, 0),
			wantOpen: false,
			wantMsg:  "The warehouse is currently closed.",
		},
		{
			name:     "no row for the day reads closed",
			rows:     nil,
			now:      at(t, 12, 0),
			wantOpen: false,
			wantMsg:  "The warehouse is currently closed.",
		},
		{
			name: "unparseable times fail closed",
			rows: []models.BusinessHours{
				{DayOfWeek: 1, OpenTime: "whenever", CloseTime: "17:00:00"},
			},
			now:      at(t, 12, 0),
			wantOpen: false,
			wantMsg:  "Unable to check business hours. Please try again later.",
		},
		{
			name: "short HH:MM format accepted",
			rows: []models.BusinessHours{
				{DayOfWeek: 1, OpenTime: "08:00", CloseTime: "17:00"},
			},
			now:      at(t, 12, 0),
			wantOpen: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Evaluate(tt.rows, tt.now)
			if got.IsOpen != tt.wantOpen {
				t.Errorf("IsOpen = %v, want %v", got.IsOpen, tt.wantOpen)
			}
			if tt.wantMsg != "" && got.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMsg)
			}
		})
	}
}

// The stored clock strings are warehouse-local: an instant that is Monday
// evening in the warehouse is already Tuesday in UTC, and the schedule must
// still be read against the warehouse's Monday.
func TestEvaluateUsesWarehouseZone(t *testing.T) {
	s := mustService(t)

	rows := []models.BusinessHours{
		{DayOfWeek: 1, OpenTime: "08:00:00", CloseTime: "17:00:00"}, // Monday open
		{DayOfWeek: 2, IsClosed: true},                              // Tuesday closed
	}
	// 16:30 Monday in Los Angeles == 00:30 Tuesday UTC.
	now := at(t, 16, 30).UTC()

	if got := s.Evaluate(rows, now); !got.IsOpen {
		t.Errorf("Evaluate in UTC frame = %+v, want open", got)
	}
}

func TestNewServiceRejectsBadZone(t *testing.T) {
	if _, err := NewService("Mars/Olympus_Mons"); err == nil {
		t.Error("NewService accepted an unknown timezone")
	}
}

func TestDefaultWeek(t *testing.T) {
	rows := DefaultWeek()
	if len(rows) != 7 {
		t.Fatalf("DefaultWeek has %d rows", len(rows))
	}
	for _, r := range rows {
		weekend := r.DayOfWeek == 0 || r.DayOfWeek == 6
		if r.IsClosed != weekend {
			t.Errorf("day %d closed = %v", r.DayOfWeek, r.IsClosed)
		}
	}
}
