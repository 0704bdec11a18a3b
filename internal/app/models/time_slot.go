package models

import "time"

// TimeSlot is a derived, unpersisted view of one bookable window.
type TimeSlot struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	IsAvailable bool      `json:"isAvailable"`
}
