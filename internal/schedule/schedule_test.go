package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchedule(t *testing.T) {
	s := DefaultSchedule()

	assert.Equal(t, WorkingHours{Start: "08:00", End: "16:00"}, s.WorkingHours)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, s.WorkingDays)
	require.Len(t, s.Breaks, 1)
	assert.Equal(t, "12:00", s.Breaks[0].Start)
	assert.Equal(t, "13:00", s.Breaks[0].End)
	assert.Zero(t, s.BookedSlots.Len())
	assert.NoError(t, s.Validate())
}

func TestSchedule_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Schedule)
	}{
		{"unpadded hour", func(s *Schedule) { s.WorkingHours.Start = "8:00" }},
		{"start after end", func(s *Schedule) { s.WorkingHours.Start = "17:00" }},
		{"weekday out of range", func(s *Schedule) { s.WorkingDays = append(s.WorkingDays, 7) }},
		{"inverted break", func(s *Schedule) { s.Breaks[0].End = "11:00" }},
		{"break day out of range", func(s *Schedule) { s.Breaks[0].Days = []int{-1} }},
		{"unknown timezone", func(s *Schedule) { s.TimeZone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSchedule()
			tt.mutate(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestSchedule_CloneIsDeep(t *testing.T) {
	s := DefaultSchedule()
	s.Book(mustTime(t, 2025, 1, 6, 9, 0))

	c := s.Clone()
	c.WorkingDays[0] = 0
	c.Breaks[0].Days[0] = 0
	c.Book(mustTime(t, 2025, 1, 6, 9, 30))

	assert.Equal(t, 1, s.WorkingDays[0])
	assert.Equal(t, 1, s.Breaks[0].Days[0])
	assert.Equal(t, 1, s.BookedSlots.Len())
	assert.Equal(t, 2, c.BookedSlots.Len())
}

func TestBookedSlots_UniqueAndRelease(t *testing.T) {
	at := mustTime(t, 2025, 1, 6, 9, 0)
	b := NewBookedSlots(at, at, at.Add(30*time.Minute))
	assert.Equal(t, 2, b.Len())

	s := Schedule{BookedSlots: b}
	s.Release(at)
	assert.False(t, s.IsBooked(at))
	assert.Equal(t, []int64{at.Add(30 * time.Minute).Unix()}, []int64{s.BookedSlots.Times()[0].Unix()})
}
