package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLectureDraftValidate(t *testing.T) {
	valid := TimeSlot{Day: Wednesday, StartMinute: 540, EndMinute: 600}

	tests := []struct {
		name    string
		draft   LectureDraft
		wantErr bool
	}{
		{"ok", LectureDraft{Title: "Algorithms", Credit: 3, TimeSlots: []TimeSlot{valid}}, false},
		{"no slots", LectureDraft{Title: "Algorithms"}, true},
		{"negative credit", LectureDraft{Credit: -1, TimeSlots: []TimeSlot{valid}}, true},
		{"zero length", LectureDraft{TimeSlots: []TimeSlot{{Day: Monday, StartMinute: 600, EndMinute: 600}}}, true},
		{"reversed", LectureDraft{TimeSlots: []TimeSlot{{Day: Monday, StartMinute: 660, EndMinute: 600}}}, true},
		{"past midnight", LectureDraft{TimeSlots: []TimeSlot{{Day: Monday, StartMinute: 1400, EndMinute: 1441}}}, true},
		{"saturday", LectureDraft{TimeSlots: []TimeSlot{{Day: Day(5), StartMinute: 540, EndMinute: 600}}}, true},
		{"whole day", LectureDraft{TimeSlots: []TimeSlot{{Day: Friday, StartMinute: 0, EndMinute: MinutesPerDay}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	for input, want := range map[string]Day{
		"Mon":       Monday,
		"wednesday": Wednesday,
		"Ср":        Wednesday,
		"4":         Friday,
		" tue ":     Tuesday,
		"Thurs":     Thursday,
		"FRIDAY":    Friday,
	} {
		got, err := ParseDay(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"Sat", "5", "-1", "", "mo", "monkey", "wedge", "frisbee", "tuesdayXYZ"} {
		_, err := ParseDay(input)
		assert.ErrorIs(t, err, ErrValidation, input)
	}
}

func TestParseClockAndFormat(t *testing.T) {
	m, err := ParseClock("9:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)
	assert.Equal(t, "09:30", FormatMinute(m))

	m, err = ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, MinutesPerDay, m)

	_, err = ParseClock("24:30")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseClock("noon")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDraftWithIDCopiesSlots(t *testing.T) {
	draft := LectureDraft{Title: "OS", TimeSlots: []TimeSlot{{Day: Monday, StartMinute: 540, EndMinute: 600}}}
	lecture := draft.WithID("abc")
	lecture.TimeSlots[0].Place = "301-101"

	assert.Equal(t, "abc", lecture.ID)
	assert.Empty(t, draft.TimeSlots[0].Place)
}

func TestNewDraftID(t *testing.T) {
	a, b := NewDraftID(), NewDraftID()
	assert.True(t, strings.HasPrefix(a, DraftIDPrefix))
	assert.NotEqual(t, a, b)
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	snap := Snapshot{
		TimetableID: "t1",
		Status:      StatusReady,
		Lectures: []Lecture{
			{ID: "a", Credit: 3, TimeSlots: []TimeSlot{{Day: Monday, StartMinute: 540, EndMinute: 600}}},
			{ID: "b", Credit: 2},
		},
	}
	c := snap.Clone()
	c.Lectures[0].TimeSlots[0].StartMinute = 0

	assert.Equal(t, 540, snap.Lectures[0].TimeSlots[0].StartMinute)
	assert.Equal(t, 5, snap.TotalCredits())

	l, ok := snap.Lecture("b")
	require.True(t, ok)
	assert.Equal(t, 2, l.Credit)
}
