package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DBPath         string
	TelegramToken  string
	OpenAIKey      string
	LogLevel       string
	AIEnabledChats map[int64]bool
}

func Load() Config {
	return Config{
		DBPath:         envOr("DB_PATH", "bot.db"),
		TelegramToken:  getBotToken(),
		OpenAIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		LogLevel:       envOr("LOG_LEVEL", "info"),
		AIEnabledChats: parseChatIDs(os.Getenv("AI_ENABLED_CHATS")),
	}
}

// getBotToken prefers the Docker secret over the environment variable.
func getBotToken() string {
	if data, err := os.ReadFile("/run/secrets/telegram_bot_token"); err == nil {
		token := strings.TrimSpace(string(data))
		if token != "" {
			return token
		}
	}
	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if token != "" {
		return token
	}
	log.Fatal("no bot token: neither Docker secret nor TELEGRAM_BOT_TOKEN is set")
	return ""
}

// parseChatIDs reads a comma-separated chat id list; bad entries are skipped.
func parseChatIDs(s string) map[int64]bool {
	res := make(map[int64]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("ignoring bad chat id %q in AI_ENABLED_CHATS", part)
			continue
		}
		res[id] = true
	}
	return res
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
