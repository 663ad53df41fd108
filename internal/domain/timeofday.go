package domain

import "fmt"

// Coarse period of the day a trip started in.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// BucketHour maps an hour of day to its period. Ranges are half-open:
// [5,12) morning, [12,18) afternoon, [18,22) evening, everything else night.
func BucketHour(h int) (TimeOfDay, error) {
	switch {
	case h < 0 || h > 23:
		return "", fmt.Errorf("bucket hour: %d outside 0-23: %w", h, ErrInvalidHour)
	case h >= 5 && h < 12:
		return Morning, nil
	case h >= 12 && h < 18:
		return Afternoon, nil
	case h >= 18 && h < 22:
		return Evening, nil
	default:
		return Night, nil
	}
}
