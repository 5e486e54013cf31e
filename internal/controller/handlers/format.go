package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/timetable_builder/internal/gateway"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/Freeeeeet/timetable_builder/internal/store"
)

// formatLectures список лекций снимка с состоянием загрузки
func formatLectures(snap model.Snapshot) string {
	var sb strings.Builder

	switch snap.Status {
	case model.StatusIdle:
		return "Расписание не выбрано. Используйте /table <id>"
	case model.StatusLoading:
		sb.WriteString("⏳ Загружается...\n\n")
	case model.StatusFailed:
		sb.WriteString(describeError(snap.Err) + "\nПоказаны последние загруженные данные.\n\n")
	}

	if len(snap.Lectures) == 0 {
		sb.WriteString("📭 В расписании пока нет лекций.\nДобавить: /add")
		return sb.String()
	}

	fmt.Fprintf(&sb, "📚 Расписание %s · %d кредитов\n", snap.TimetableID, snap.TotalCredits())
	for _, l := range snap.Lectures {
		sb.WriteString("\n" + formatLecture(l))
	}
	return sb.String()
}

// formatLecture одна лекция: название, преподаватель, слоты
func formatLecture(l model.Lecture) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "• %s", l.Title)
	if l.Instructor != "" {
		fmt.Fprintf(&sb, " (%s)", l.Instructor)
	}
	if l.Credit > 0 {
		fmt.Fprintf(&sb, ", %d кр.", l.Credit)
	}
	fmt.Fprintf(&sb, "\n  id: %s", l.ID)
	for _, slot := range l.TimeSlots {
		fmt.Fprintf(&sb, "\n  %s %s-%s", slot.Day.Label(), model.FormatMinute(slot.StartMinute), model.FormatMinute(slot.EndMinute))
		if slot.Place != "" {
			sb.WriteString(" · " + slot.Place)
		}
	}
	return sb.String()
}

func formatConflict(draft model.LectureDraft, conflicts []model.Lecture) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ «%s» пересекается с:\n", draft.Title)
	for _, l := range conflicts {
		sb.WriteString("\n" + formatLecture(l))
	}
	fmt.Fprintf(&sb, "\n\nПерезаписать «%s»?", conflicts[0].Title)
	return sb.String()
}

func formatBlockedOverwrite(draft model.LectureDraft, conflicts []model.Lecture) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⛔ «%s» пересекается ещё и с:\n", draft.Title)
	for _, l := range conflicts {
		sb.WriteString("\n" + formatLecture(l))
	}
	sb.WriteString("\n\nУдалите лишнее через /delete и попробуйте снова.")
	return sb.String()
}

// describeError сообщение пользователю для ошибки стора или шлюза
func describeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrValidation):
		return "❌ Неверные данные: " + err.Error()
	case errors.Is(err, store.ErrNoTimetable):
		return "📋 Сначала выберите расписание: /table <id>"
	case errors.Is(err, store.ErrNotReady):
		return "⏳ Расписание ещё не загружено. Попробуйте /refresh"
	case errors.Is(err, gateway.ErrUnauthorized):
		return "🔒 Нужно войти: /signin <логин> <пароль>"
	case errors.Is(err, gateway.ErrNotFound):
		return "🔍 Не найдено"
	case errors.Is(err, gateway.ErrTimeout):
		return "⌛ Сервер не ответил вовремя"
	case errors.Is(err, gateway.ErrNetwork):
		return "📡 Нет связи с сервером"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
