package dto

import (
	"encoding/json"
	"testing"

	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireDayAcceptsStringAndNumber(t *testing.T) {
	payload := `{"lecture_list":[{"_id":"a","course_title":"OS","credit":3,
		"class_time_json":[{"day":"2","place":"301","startMinute":540,"endMinute":600},
		{"day":4,"place":"","startMinute":600,"endMinute":660}]}]}`

	var table Table
	require.NoError(t, json.Unmarshal([]byte(payload), &table))
	require.Len(t, table.LectureList, 1)

	lecture, dropped := ToLecture(table.LectureList[0])
	assert.Zero(t, dropped)
	require.Len(t, lecture.TimeSlots, 2)
	assert.Equal(t, model.Wednesday, lecture.TimeSlots[0].Day)
	assert.Equal(t, "301", lecture.TimeSlots[0].Place)
	assert.Equal(t, model.Friday, lecture.TimeSlots[1].Day)
	assert.Equal(t, "OS", lecture.Title)
}

func TestWireDayRejectsGarbage(t *testing.T) {
	var d WireDay
	assert.Error(t, json.Unmarshal([]byte(`"wed"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestToLectureDropsWeekend(t *testing.T) {
	w := Lecture{ID: "a", ClassTimeJSON: []ClassTime{
		{Day: 5, StartMinute: 540, EndMinute: 600},
		{Day: 0, StartMinute: 540, EndMinute: 600},
		{Day: 6, StartMinute: 540, EndMinute: 600},
	}}
	lecture, dropped := ToLecture(w)
	assert.Equal(t, 2, dropped)
	require.Len(t, lecture.TimeSlots, 1)
	assert.Equal(t, model.Monday, lecture.TimeSlots[0].Day)
}

func TestFromLectureWritesDayAsString(t *testing.T) {
	l := model.Lecture{ID: "a", Title: "DB", TimeSlots: []model.TimeSlot{{Day: model.Thursday, StartMinute: 540, EndMinute: 600}}}
	data, err := json.Marshal(FromLecture(l))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"day":"3"`)
	assert.Contains(t, string(data), `"_id":"a"`)
	assert.Contains(t, string(data), `"course_title":"DB"`)
}
