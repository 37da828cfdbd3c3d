// internal/estimate/estimate.go
package estimate

import (
	"math"

	"warehouse-pickup-api-server/internal/models"
)

// minSamples is the historical floor below which no estimate is produced;
// the UI hides the wait display instead of guessing.
const minSamples = 3

// Range is an estimated wait in whole minutes.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ForPosition estimates the wait for a queue position from recent completed
// pickups (callers pass the last 10). The average completion time times the
// number of people ahead gives the base; the range is ±20% around it to
// absorb variability. Position 1 is next up: zero wait.
func ForPosition(completions []models.PickupRequest, position int) (Range, bool) {
	if position < 1 {
		return Range{}, false
	}

	var total float64
	n := 0
	for _, r := range completions {
		if r.CompletedAt == nil {
			continue
		}
		total += r.CompletedAt.Sub(r.CreatedAt).Minutes()
		n++
	}
	if n < minSamples {
		return Range{}, false
	}

	avg := total / float64(n)
	base := avg * float64(position-1)

	min := int(math.Round(base * 0.8))
	if min < 0 {
		min = 0
	}
	return Range{Min: min, Max: int(math.Round(base * 1.2))}, true
}
