package handlers

import (
	"testing"

	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, "a; b", commandArgs("/add a; b"))
	assert.Equal(t, "t1", commandArgs("/table@timetable_bot   t1 "))
	assert.Equal(t, "", commandArgs("/lectures"))
	assert.Equal(t, "plain", commandArgs(" plain "))
}

func TestParseAdd(t *testing.T) {
	draft, err := ParseAdd("Химия; Ср 09:30-10:30, fri 11:00-12:15; 301; 3")
	require.NoError(t, err)

	assert.Equal(t, "Химия", draft.Title)
	assert.Equal(t, 3, draft.Credit)
	assert.Equal(t, []model.TimeSlot{
		{Day: model.Wednesday, StartMinute: 570, EndMinute: 630, Place: "301"},
		{Day: model.Friday, StartMinute: 660, EndMinute: 735, Place: "301"},
	}, draft.TimeSlots)
}

func TestParseAddOptionalParts(t *testing.T) {
	draft, err := ParseAdd("OS; Mon 9:00-10:00")
	require.NoError(t, err)
	assert.Zero(t, draft.Credit)
	require.Len(t, draft.TimeSlots, 1)
	assert.Empty(t, draft.TimeSlots[0].Place)

	draft, err = ParseAdd("OS; 0 9:00-10:00; ; 2")
	require.NoError(t, err)
	assert.Equal(t, 2, draft.Credit)
	assert.Equal(t, model.Monday, draft.TimeSlots[0].Day)
}

func TestParseAddRejects(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"no slots", "OS"},
		{"empty title", " ; Mon 09:00-10:00"},
		{"too many parts", "OS; Mon 09:00-10:00; 1; 2; 3"},
		{"weekend", "OS; Sat 09:00-10:00"},
		{"no range", "OS; Mon 09:00"},
		{"bad clock", "OS; Mon 9h-10h"},
		{"reversed", "OS; Mon 10:00-09:00"},
		{"empty range", "OS; Mon 10:00-10:00"},
		{"bad credit", "OS; Mon 09:00-10:00; 301; three"},
		{"negative credit", "OS; Mon 09:00-10:00; 301; -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAdd(tt.args)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}
