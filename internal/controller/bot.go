package controller

import (
	"context"

	"github.com/Freeeeeet/timetable_builder/internal/controller/handlers"
	"github.com/Freeeeeet/timetable_builder/internal/controller/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, cmdHandlers *handlers.Handlers, logger *zap.Logger) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/lectures", bot.MatchTypeExact, c.handlers.HandleLectures)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypeExact, c.handlers.HandleExport)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/refresh", bot.MatchTypeExact, c.handlers.HandleRefresh)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/signout", bot.MatchTypeExact, c.handlers.HandleSignOut)

	// команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/signin", bot.MatchTypePrefix, c.handlers.HandleSignIn)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/table", bot.MatchTypePrefix, c.handlers.HandleTable)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/add", bot.MatchTypePrefix, c.handlers.HandleAdd)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delete", bot.MatchTypePrefix, c.handlers.HandleDelete)

	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, keyboard.ConflictPrefix, bot.MatchTypePrefix, c.handlers.HandleConflictCallback)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "signin", Description: "🔑 Войти: /signin <логин> <пароль>"},
		{Command: "signout", Description: "🚪 Выйти"},
		{Command: "table", Description: "📋 Выбрать расписание"},
		{Command: "lectures", Description: "📚 Список лекций"},
		{Command: "week", Description: "🗓 Сетка недели"},
		{Command: "export", Description: "📊 Экспорт в Excel"},
		{Command: "add", Description: "➕ Добавить лекцию"},
		{Command: "delete", Description: "🗑 Удалить лекцию"},
		{Command: "refresh", Description: "🔄 Перечитать расписание"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot")
	c.bot.Start(ctx)
}
