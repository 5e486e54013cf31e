package keyboard

import "github.com/go-telegram/bot/models"

// Callback data кнопок
const (
	ConflictOverwrite = "conflict:overwrite"
	ConflictCancel    = "conflict:cancel"
	// ConflictPrefix общий префикс кнопок конфликта для роутинга
	ConflictPrefix = "conflict:"
)

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет ряд кнопок, пустой ряд пропускается
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// Conflict выбор при пересечении: перезаписать существующую лекцию или отменить
func Conflict() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("♻️ Перезаписать", ConflictOverwrite),
			Button("✖️ Отмена", ConflictCancel),
		).
		Build()
}

// Empty клавиатура без кнопок, убирает старые кнопки у сообщения
func Empty() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{},
	}
}
