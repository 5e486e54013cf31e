package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/timetable_builder/internal/model"
)

// commandArgs текст после команды: "/add@bot a; b" -> "a; b"
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, args, _ := strings.Cut(text, " ")
	return strings.TrimSpace(args)
}

// ParseAdd разбирает аргументы /add:
//
//	<название>; <день> <ЧЧ:ММ>-<ЧЧ:ММ>[, <день> <ЧЧ:ММ>-<ЧЧ:ММ>...]; [аудитория]; [кредиты]
func ParseAdd(args string) (model.LectureDraft, error) {
	parts := strings.Split(args, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || len(parts) > 4 {
		return model.LectureDraft{}, fmt.Errorf("%w: expected \"title; slots[; place][; credit]\"", model.ErrValidation)
	}

	draft := model.LectureDraft{Title: parts[0]}
	if draft.Title == "" {
		return model.LectureDraft{}, fmt.Errorf("%w: title is empty", model.ErrValidation)
	}

	var place string
	if len(parts) > 2 {
		place = parts[2]
	}
	if len(parts) > 3 && parts[3] != "" {
		credit, err := strconv.Atoi(parts[3])
		if err != nil {
			return model.LectureDraft{}, fmt.Errorf("%w: bad credit %q", model.ErrValidation, parts[3])
		}
		draft.Credit = credit
	}

	for _, raw := range strings.Split(parts[1], ",") {
		slot, err := parseSlot(raw)
		if err != nil {
			return model.LectureDraft{}, err
		}
		slot.Place = place
		draft.TimeSlots = append(draft.TimeSlots, slot)
	}

	return draft, draft.Validate()
}

// parseSlot "Ср 09:30-10:45"
func parseSlot(raw string) (model.TimeSlot, error) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return model.TimeSlot{}, fmt.Errorf("%w: bad slot %q, expected \"<day> HH:MM-HH:MM\"", model.ErrValidation, strings.TrimSpace(raw))
	}

	day, err := model.ParseDay(fields[0])
	if err != nil {
		return model.TimeSlot{}, err
	}

	from, to, ok := strings.Cut(fields[1], "-")
	if !ok {
		return model.TimeSlot{}, fmt.Errorf("%w: bad time range %q", model.ErrValidation, fields[1])
	}
	start, err := model.ParseClock(from)
	if err != nil {
		return model.TimeSlot{}, err
	}
	end, err := model.ParseClock(to)
	if err != nil {
		return model.TimeSlot{}, err
	}

	return model.TimeSlot{Day: day, StartMinute: start, EndMinute: end}, nil
}
