package handlers

import (
	"context"

	"github.com/Freeeeeet/timetable_builder/internal/controller/keyboard"
	"github.com/Freeeeeet/timetable_builder/internal/controller/state"
	"github.com/Freeeeeet/timetable_builder/internal/store"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleConflictCallback кнопки под сообщением о пересечении
func (h *Handlers) HandleConflictCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	chatID := callback.From.ID
	msg := callback.Message.Message
	if msg != nil {
		chatID = msg.Chat.ID
		h.clearKeyboard(ctx, b, chatID, msg.ID)
	}

	h.answerCallback(ctx, b, callback.ID)
	h.send(ctx, b, chatID, h.resolveConflict(ctx, h.sessions.GetOrCreate(chatID), callback.Data))
}

func (h *Handlers) resolveConflict(ctx context.Context, sess *state.Session, data string) reply {
	pending, ok := sess.TakePending()
	if !ok {
		return textReply("Нет изменений, ожидающих решения.")
	}
	if data != keyboard.ConflictOverwrite {
		return textReply("✖️ Добавление «" + pending.Draft.Title + "» отменено.")
	}

	res, err := sess.Store.ReplaceLecture(ctx, pending.Draft.WithID(pending.ConflictID))
	if err != nil {
		return textReply(describeError(err))
	}

	switch res.Outcome {
	case store.OutcomeBusy:
		// решение пользователя не теряем, кнопку можно нажать ещё раз
		sess.SetPending(pending)
		return reply{text: busyText, markup: keyboard.Conflict()}
	case store.OutcomeConflict:
		// перезаписывается только одна лекция; с остальными пересечение остаётся
		h.logger.Info("Overwrite still conflicts",
			zap.Int64("chat_id", sess.ChatID),
			zap.String("replaced_id", pending.ConflictID),
			zap.Int("conflicts", len(res.Conflicts)))
		return textReply(formatBlockedOverwrite(pending.Draft, res.Conflicts))
	default:
		return textReply("♻️ Лекция перезаписана\n\n" + formatLecture(res.Lecture))
	}
}
