package main

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"leetbot/internal/ai"
	"leetbot/internal/config"
	"leetbot/internal/game"
	"leetbot/internal/handlers"
	"leetbot/internal/logger"
	"leetbot/internal/models"
	"leetbot/internal/scheduler"
	"leetbot/internal/storage"
	"leetbot/internal/utils"
)

func main() {
	_ = godotenv.Load() // TELEGRAM_BOT_TOKEN etc.
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	utils.Must(err)
	defer log.Sync()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	utils.Must(err)

	db, err := storage.New(cfg.DBPath)
	utils.Must(err)

	aiClient := ai.New(cfg.OpenAIKey, log)

	h := &handlers.Handler{
		Bot:            bot,
		DB:             db,
		Log:            log,
		AIEnabledChats: cfg.AIEnabledChats,
	}
	h.Game = &game.Game{
		Store: db,
		Out:   h,
		AI:    aiClient,
		Bot:   models.Participant{ID: bot.Self.ID, Name: bot.Self.FirstName},
		Log:   log,
	}
	h.Challenges, err = scheduler.New(db, h, aiClient, log)
	utils.Must(err)
	defer h.Challenges.Shutdown()

	registerCommands(bot)
	log.Info("application ready", zap.String("bot", bot.Self.UserName))

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	for upd := range bot.GetUpdatesChan(updateConfig) {
		h.HandleUpdate(upd)
	}
}

func registerCommands(bot *tgbotapi.BotAPI) {
	_, _ = bot.Request(tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Returns a warming welcome message"},
		tgbotapi.BotCommand{Command: "timezone", Description: "Changes the timezone of a group"},
		tgbotapi.BotCommand{Command: "score", Description: "Prints the scores of everyone"},
		tgbotapi.BotCommand{Command: "clock", Description: "Outputs the date of the received message"},
		tgbotapi.BotCommand{Command: "my_id", Description: "Outputs your id which is internally used for score tracking"},
		tgbotapi.BotCommand{Command: "sprueche", Description: "Toggles the canned insults (AN/AUS)"},
		tgbotapi.BotCommand{Command: "challenge", Description: "Schedules a quiz question for the next 13:37"},
	))
}
