package models

// Participant is a scoring subject: a chat member or the bot itself.
// The bot participates with its own telegram user id and name.
type Participant struct {
	ID   int64
	Name string
}

// ChatSettings holds everything the bot persists per group chat.
type ChatSettings struct {
	ChatID        int64  `db:"chat_id"`
	Timezone      string `db:"timezone"`        // IANA zone name, "" until /timezone
	LastScoredDay string `db:"last_scored_day"` // YYYY-MM-DD, "" until first decision
	UseAI         bool   `db:"use_ai"`
	Sprueche      bool   `db:"sprueche"`       // canned insult on missed day
	SpruecheEarly bool   `db:"sprueche_early"` // canned insult on 13:36 message
}

// ScoreEntry is one standings row.
type ScoreEntry struct {
	Name   string
	Points int
}
