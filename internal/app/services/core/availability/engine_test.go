package availability

import (
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-03-04 is a Monday, 2024-03-03 a Sunday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.Local)
}

func weekdayDoctor() *models.Doctor {
	doctor := &models.Doctor{ID: "65f000000000000000000001", Name: "Dr. Rivera"}
	for day := 1; day <= 5; day++ {
		doctor.WorkingHours = append(doctor.WorkingHours, models.WorkingHoursRule{DayOfWeek: day, StartTime: "09:00", EndTime: "17:00"})
	}
	return doctor
}

func availableCount(slots []models.TimeSlot) int {
	count := 0
	for _, slot := range slots {
		if slot.IsAvailable {
			count++
		}
	}
	return count
}

func TestCompute(t *testing.T) {
	t.Run("Full working day yields 16 half-hour slots", func(t *testing.T) {
		slots, err := Compute(weekdayDoctor(), at(4, 0, 0), nil, 30)
		require.NoError(t, err)
		require.Len(t, slots, 16, "should return one slot per 30 minutes between 09:00 and 17:00")

		assert.True(t, slots[0].Start.Equal(at(4, 9, 0)))
		assert.True(t, slots[0].End.Equal(at(4, 9, 30)))
		assert.True(t, slots[15].Start.Equal(at(4, 16, 30)))
		assert.True(t, slots[15].End.Equal(at(4, 17, 0)))
		for i := 1; i < len(slots); i++ {
			assert.True(t, slots[i].Start.Equal(slots[i-1].End), "slots should be contiguous and ordered")
		}
		assert.Equal(t, 16, availableCount(slots))
	})

	t.Run("Zero slot minutes falls back to the default duration", func(t *testing.T) {
		slots, err := Compute(weekdayDoctor(), at(4, 0, 0), nil, 0)
		require.NoError(t, err)
		require.NotEmpty(t, slots)
		assert.Equal(t, time.Duration(constvars.DefaultSlotDurationInMinutes)*time.Minute, slots[0].End.Sub(slots[0].Start))
	})

	t.Run("Day off returns an empty sequence", func(t *testing.T) {
		slots, err := Compute(weekdayDoctor(), at(3, 0, 0), nil, 30)
		require.NoError(t, err)
		assert.NotNil(t, slots)
		assert.Empty(t, slots, "a Sunday without a rule should have no slots")
	})

	t.Run("Trailing partial slot is dropped", func(t *testing.T) {
		doctor := &models.Doctor{WorkingHours: []models.WorkingHoursRule{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:45"}}}

		slots, err := Compute(doctor, at(4, 0, 0), nil, 30)
		require.NoError(t, err)
		require.Len(t, slots, 3)
		assert.True(t, slots[2].End.Equal(at(4, 10, 30)), "no slot should extend past the end of work")
	})

	t.Run("Blackout blocks only overlapping slots", func(t *testing.T) {
		doctor := weekdayDoctor()
		doctor.UnavailableTimes = []models.UnavailableInterval{{StartDateTime: at(4, 12, 0), EndDateTime: at(4, 13, 0), Reason: "lunch"}}

		slots, err := Compute(doctor, at(4, 0, 0), nil, 30)
		require.NoError(t, err)
		require.Len(t, slots, 16)

		for _, slot := range slots {
			switch {
			case slot.Start.Equal(at(4, 12, 0)), slot.Start.Equal(at(4, 12, 30)):
				assert.False(t, slot.IsAvailable, "slot at %s should be blocked", slot.Start)
			default:
				assert.True(t, slot.IsAvailable, "slot at %s should be open", slot.Start)
			}
		}
	})

	t.Run("Blackout spanning midnight still applies", func(t *testing.T) {
		doctor := weekdayDoctor()
		doctor.UnavailableTimes = []models.UnavailableInterval{{StartDateTime: at(3, 20, 0), EndDateTime: at(4, 10, 0)}}

		slots, err := Compute(doctor, at(4, 0, 0), nil, 30)
		require.NoError(t, err)
		assert.Equal(t, 14, availableCount(slots), "slots before 10:00 should be blocked")
	})

	t.Run("Blackout on another day is ignored", func(t *testing.T) {
		doctor := weekdayDoctor()
		doctor.UnavailableTimes = []models.UnavailableInterval{{StartDateTime: at(5, 9, 0), EndDateTime: at(5, 17, 0)}}

		slots, err := Compute(doctor, at(4, 0, 0), nil, 30)
		require.NoError(t, err)
		assert.Equal(t, 16, availableCount(slots))
	})

	t.Run("Only scheduled appointments block slots", func(t *testing.T) {
		booked := []models.Appointment{
			{ID: "a", DateTime: at(4, 10, 0), EndTime: at(4, 10, 30), Status: constvars.AppointmentStatusScheduled},
			{ID: "b", DateTime: at(4, 11, 0), EndTime: at(4, 11, 30), Status: constvars.AppointmentStatusCancelled},
			{ID: "c", DateTime: at(4, 14, 0), EndTime: at(4, 15, 0), Status: constvars.AppointmentStatusScheduled},
		}

		slots, err := Compute(weekdayDoctor(), at(4, 0, 0), booked, 30)
		require.NoError(t, err)
		assert.Equal(t, 13, availableCount(slots), "one half-hour and one full-hour booking should remove three slots")

		for _, slot := range slots {
			if slot.Start.Equal(at(4, 11, 0)) {
				assert.True(t, slot.IsAvailable, "a cancelled appointment should not block its slot")
			}
		}
	})

	t.Run("Malformed stored rule is an error", func(t *testing.T) {
		doctor := &models.Doctor{WorkingHours: []models.WorkingHoursRule{{DayOfWeek: 1, StartTime: "9am", EndTime: "17:00"}}}

		_, err := Compute(doctor, at(4, 0, 0), nil, 30)
		assert.Error(t, err)
	})
}
