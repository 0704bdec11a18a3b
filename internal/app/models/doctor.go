package models

import (
	"medibook-service/internal/pkg/interval"
	"time"
)

type Doctor struct {
	ID               string                `json:"id" bson:"_id,omitempty"`
	UserID           string                `json:"userId" bson:"userId"`
	Name             string                `json:"name" bson:"name"`
	Specialty        string                `json:"specialty" bson:"specialty"`
	Bio              string                `json:"bio,omitempty" bson:"bio,omitempty"`
	WorkingHours     []WorkingHoursRule    `json:"workingHours" bson:"workingHours"`
	UnavailableTimes []UnavailableInterval `json:"unavailableTimes" bson:"unavailableTimes"`
	TimeModel        `bson:",inline"`
}

// WorkingHoursRule is a recurring weekly window. StartTime and EndTime are
// zero-padded 24h clock strings and DayOfWeek uses 0 = Sunday.
type WorkingHoursRule struct {
	DayOfWeek int    `json:"dayOfWeek" bson:"dayOfWeek"`
	StartTime string `json:"startTime" bson:"startTime"`
	EndTime   string `json:"endTime" bson:"endTime"`
}

// UnavailableInterval is a one-off blackout [StartDateTime, EndDateTime).
type UnavailableInterval struct {
	StartDateTime time.Time `json:"startDateTime" bson:"startDateTime"`
	EndDateTime   time.Time `json:"endDateTime" bson:"endDateTime"`
	Reason        string    `json:"reason,omitempty" bson:"reason,omitempty"`
}

func (u UnavailableInterval) Interval() interval.Interval {
	return interval.Interval{Start: u.StartDateTime, End: u.EndDateTime}
}

// RuleFor returns the working hours rule for the given weekday. Doctor writes
// reject duplicate weekdays, so at most one rule can match.
func (d *Doctor) RuleFor(dayOfWeek int) (WorkingHoursRule, bool) {
	for _, rule := range d.WorkingHours {
		if rule.DayOfWeek == dayOfWeek {
			return rule, true
		}
	}
	return WorkingHoursRule{}, false
}

// WorkWindow resolves the rule for the weekday of date into an absolute
// interval in loc.
func (d *Doctor) WorkWindow(date time.Time, loc *time.Location) (interval.Interval, bool, error) {
	rule, ok := d.RuleFor(interval.DayOfWeek(date.In(loc)))
	if !ok {
		return interval.Interval{}, false, nil
	}
	start, err := interval.ParseClock(rule.StartTime)
	if err != nil {
		return interval.Interval{}, true, err
	}
	end, err := interval.ParseClock(rule.EndTime)
	if err != nil {
		return interval.Interval{}, true, err
	}
	window, err := interval.Window(date, start, end, loc)
	return window, true, err
}

type DoctorFilter struct {
	Specialty string
}
