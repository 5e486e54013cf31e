package handlers

import (
	"bytes"
	"context"

	"github.com/Freeeeeet/timetable_builder/internal/controller/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// send отправляет ответ и логирует если не удалось
func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, r reply) {
	var err error
	switch {
	case r.file != nil && r.photo:
		_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileUpload{Filename: r.filename, Data: bytes.NewReader(r.file)},
			Caption: r.text,
		})
	case r.file != nil:
		_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:   chatID,
			Document: &models.InputFileUpload{Filename: r.filename, Data: bytes.NewReader(r.file)},
			Caption:  r.text,
		})
	default:
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        r.text,
			ReplyMarkup: r.markup,
		})
	}
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.String("filename", r.filename),
			zap.Error(err),
		)
	}
}

// answerCallback снимает "часики" с нажатой кнопки
func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	})
	if err != nil {
		h.logger.Warn("Failed to answer callback", zap.String("callback_id", callbackID), zap.Error(err))
	}
}

// clearKeyboard убирает кнопки, чтобы решение нельзя было принять дважды
func (h *Handlers) clearKeyboard(ctx context.Context, b *bot.Bot, chatID int64, messageID int) {
	_, err := b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: keyboard.Empty(),
	})
	if err != nil {
		h.logger.Warn("Failed to clear keyboard", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
