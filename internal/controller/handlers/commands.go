package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/timetable_builder/internal/controller/keyboard"
	"github.com/Freeeeeet/timetable_builder/internal/controller/state"
	"github.com/Freeeeeet/timetable_builder/internal/render"
	"github.com/Freeeeeet/timetable_builder/internal/store"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/signin <логин> <пароль> - Войти\n" +
	"/signout - Выйти и забыть выбранное расписание\n" +
	"/table <id> - Выбрать расписание\n" +
	"/lectures - Список лекций\n" +
	"/week - Сетка недели картинкой\n" +
	"/export - Сетка недели в Excel\n" +
	"/add <название>; <день> <ЧЧ:ММ>-<ЧЧ:ММ>[, ...]; [аудитория]; [кредиты]\n" +
	"   например: /add Химия; Ср 09:30-10:30, Пт 11:00-12:00; 301; 3\n" +
	"/delete <id> - Удалить лекцию\n" +
	"/refresh - Перечитать расписание\n" +
	"/help - Показать эту справку"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, h.start(ctx, h.sessions.GetOrCreate(update.Message.Chat.ID)))
}

func (h *Handlers) start(ctx context.Context, sess *state.Session) reply {
	text := "👋 Привет! Я помогаю собрать расписание лекций без пересечений.\n\n" + helpText
	if h.defaultTimetable != "" && sess.SignedIn() && sess.Store.TimetableID() == "" {
		if err := sess.Store.SelectTimetable(ctx, h.defaultTimetable); err != nil {
			return textReply(text + "\n\n" + describeError(err))
		}
		text += "\n\n" + formatLectures(sess.Store.Snapshot())
	}
	return textReply(text)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, textReply(helpText))
}

// HandleSignIn /signin <логин> <пароль>. Сообщение с паролем удаляется из чата.
func (h *Handlers) HandleSignIn(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: update.Message.ID}); err != nil {
		h.logger.Warn("Failed to delete sign-in message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	h.send(ctx, b, chatID, h.signIn(ctx, h.sessions.GetOrCreate(chatID), commandArgs(update.Message.Text)))
}

func (h *Handlers) signIn(ctx context.Context, sess *state.Session, args string) reply {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return textReply("Использование: /signin <логин> <пароль>")
	}

	token, err := h.auth.SignIn(ctx, fields[0], fields[1])
	if err != nil {
		h.logger.Info("Sign-in failed", zap.Int64("chat_id", sess.ChatID), zap.Error(err))
		return textReply(describeError(err))
	}
	sess.SetToken(token)
	h.logger.Info("Chat signed in", zap.Int64("chat_id", sess.ChatID), zap.String("login", fields[0]))

	if sess.Store.TimetableID() != "" {
		if err := sess.Store.Refetch(ctx); err != nil {
			return textReply("✅ Вход выполнен.\n" + describeError(err))
		}
	}
	return textReply("✅ Вход выполнен. Выберите расписание: /table <id>")
}

// HandleSignOut /signout: сессия чата удаляется вместе со стором,
// фоновая синхронизация про неё больше не знает
func (h *Handlers) HandleSignOut(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.send(ctx, b, chatID, h.signOut(chatID))
}

func (h *Handlers) signOut(chatID int64) reply {
	if _, ok := h.sessions.Get(chatID); !ok {
		return textReply("Вы и так не вошли.")
	}
	h.sessions.Clear(chatID)
	h.logger.Info("Chat signed out", zap.Int64("chat_id", chatID))
	return textReply("👋 Вы вышли. Чтобы продолжить: /signin <логин> <пароль>")
}

// HandleTable обрабатывает команду /table <id>
func (h *Handlers) HandleTable(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.send(ctx, b, chatID, h.table(ctx, h.sessions.GetOrCreate(chatID), commandArgs(update.Message.Text)))
}

func (h *Handlers) table(ctx context.Context, sess *state.Session, id string) reply {
	if id == "" {
		id = sess.Store.TimetableID()
	}
	if id == "" {
		return textReply("Использование: /table <id>")
	}
	if err := sess.Store.SelectTimetable(ctx, id); err != nil {
		return textReply(describeError(err))
	}
	return textReply(formatLectures(sess.Store.Snapshot()))
}

// HandleLectures обрабатывает команду /lectures
func (h *Handlers) HandleLectures(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.send(ctx, b, chatID, textReply(formatLectures(h.sessions.GetOrCreate(chatID).Store.Snapshot())))
}

// HandleWeek отправляет сетку недели картинкой
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.send(ctx, b, chatID, h.week(h.sessions.GetOrCreate(chatID)))
}

func (h *Handlers) week(sess *state.Session) reply {
	snap := sess.Store.Snapshot()
	if snap.TimetableID == "" {
		return textReply(describeError(store.ErrNoTimetable))
	}

	image, err := render.WeekImage(snap, h.window)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Int64("chat_id", sess.ChatID), zap.Error(err))
		return textReply(describeError(err))
	}
	return reply{
		text:     fmt.Sprintf("🗓 %s · %d кредитов", snap.TimetableID, snap.TotalCredits()),
		file:     image,
		filename: "week.png",
		photo:    true,
	}
}

// HandleExport отправляет сетку недели файлом xlsx
func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.send(ctx, b, chatID, h.export(h.sessions.GetOrCreate(chatID)))
}

func (h *Handlers) export(sess *state.Session) reply {
	snap := sess.Store.Snapshot()
	if snap.TimetableID == "" {
		return textReply(describeError(store.ErrNoTimetable))
	}

	sheet, err := render.WeekSheet(snap, h.window)
	if err != nil {
		h.logger.Error("Failed to export week sheet", zap.Int64("chat_id", sess.ChatID), zap.Error(err))
		return textReply(describeError(err))
	}
	return reply{
		text:     "📊 Расписание " + snap.TimetableID,
		file:     sheet,
		filename: "timetable-" + snap.TimetableID + ".xlsx",
	}
}

// HandleAdd обрабатывает команду /add
func (h *Handlers) HandleAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.send(ctx, b, chatID, h.add(ctx, h.sessions.GetOrCreate(chatID), commandArgs(update.Message.Text)))
}

func (h *Handlers) add(ctx context.Context, sess *state.Session, args string) reply {
	if args == "" {
		return textReply(helpText)
	}
	draft, err := ParseAdd(args)
	if err != nil {
		return textReply(describeError(err))
	}

	res, err := sess.Store.AddLecture(ctx, draft)
	if err != nil {
		return textReply(describeError(err))
	}

	switch res.Outcome {
	case store.OutcomeBusy:
		return textReply(busyText)
	case store.OutcomeConflict:
		sess.SetPending(state.Pending{Draft: draft, ConflictID: res.Conflicts[0].ID})
		return reply{text: formatConflict(draft, res.Conflicts), markup: keyboard.Conflict()}
	default:
		return textReply("✅ Лекция добавлена\n\n" + formatLecture(res.Lecture))
	}
}

// HandleDelete обрабатывает команду /delete <id>
func (h *Handlers) HandleDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.send(ctx, b, chatID, h.remove(ctx, h.sessions.GetOrCreate(chatID), commandArgs(update.Message.Text)))
}

func (h *Handlers) remove(ctx context.Context, sess *state.Session, lectureID string) reply {
	if lectureID == "" {
		return textReply("Использование: /delete <id>")
	}
	res, err := sess.Store.RemoveLecture(ctx, lectureID)
	if err != nil {
		return textReply(describeError(err))
	}
	if res.Outcome == store.OutcomeBusy {
		return textReply(busyText)
	}
	return textReply("🗑 Лекция удалена")
}

// HandleRefresh обрабатывает команду /refresh
func (h *Handlers) HandleRefresh(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	sess := h.sessions.GetOrCreate(chatID)
	if err := sess.Store.Refetch(ctx); err != nil {
		h.send(ctx, b, chatID, textReply(describeError(err)))
		return
	}
	h.send(ctx, b, chatID, textReply(formatLectures(sess.Store.Snapshot())))
}

const busyText = "⏳ Предыдущее изменение ещё выполняется. Повторите чуть позже."
