package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"leetbot/internal/models"
)

// Store is the slice of persistence the state machine needs. *storage.DB
// satisfies it.
type Store interface {
	Chat(chatID int64) (*models.ChatSettings, error)
	SetLastScoredDay(chatID int64, day string) error
	AddScore(chatID int64, p models.Participant, n int) error
	Score(chatID, participantID int64) (int, error)
	ListScores(chatID int64) ([]models.ScoreEntry, error)
	Challenge(chatID int64) (string, error)
	DeleteChallenge(chatID int64) error
}

// Notifier delivers outbound messages; the telegram handler implements it.
type Notifier interface {
	SendMessage(chatID int64, text string)
	SendTyping(chatID int64)
}

// AI generates flavor text and grades challenge answers. Implementations must
// degrade to fixed fallback strings instead of failing.
type AI interface {
	TooEarlyMessage(name, message string, pointsLeft int) string
	SuccessMessage(botName, name, message, scores string, catchUp int) string
	LostMessage(botName, name, message, scores string, days int) string
	ChallengeWonMessage(botName, name, scores, question, answer string) string
	ChallengeLostMessage(name, question, answer string) string
	AnswerIsCorrect(question, answer string) bool
}

// Canned replacements for the default miss/too-early texts, opt-in per chat.
var sprueche = []string{
	"Weil ihr nix könnt. Punkt für mich.",
	"Was könnt ihr eigentlich?",
	"Wieder mal versagt, ihr Luschen",
	"Ihr wollt gar keine Punkte mehr machen, oder?",
	"Was ist mit euch los…",
	"Hallo? Keine Motivation mehr oder was?",
	"Joah. Mal wieder gepennt. Mein Punkt.",
	"Aus euch wird nix mehr, oder?",
	"👀",
	"Originale Nichtskönner 💩",
	"Wird langsam langweilig mit euch 🙄",
	"Heute geht die hier 🥇 wohl an mich",
}

var spruecheEarly = []string{
	"13:36? Kannst du keine Uhr lesen?",
	"Eine Minute zu früh. Einen Punkt zu wenig.",
	"Übermotiviert und trotzdem verloren 🙃",
	"So nah dran und doch so weit weg. Minus eins.",
}

const needTimezoneText = "Sorry to interrupt you, but you need to set a /timezone"

// Game is the scoring state machine. It holds no durable state of its own;
// every decision re-reads the store.
type Game struct {
	Store Store
	Out   Notifier
	AI    AI
	Bot   models.Participant // the bot as a ledger participant
	Log   *zap.Logger
}

// HandleMessage runs one incoming group message through the daily scoring
// state machine (or through answer grading while a challenge is pending).
func (g *Game) HandleMessage(chatID int64, sender models.Participant, sentAt time.Time, text string) error {
	chat, err := g.Store.Chat(chatID)
	if err != nil {
		return err
	}
	if chat == nil || chat.Timezone == "" {
		g.Out.SendMessage(chatID, needTimezoneText)
		return nil
	}

	question, err := g.Store.Challenge(chatID)
	if err != nil {
		return err
	}
	if question != "" {
		return g.gradeAnswer(chatID, chat, sender, question, text)
	}

	loc, err := time.LoadLocation(chat.Timezone)
	if err != nil {
		return fmt.Errorf("chat %d: bad timezone %q: %w", chatID, chat.Timezone, err)
	}
	local := sentAt.In(loc)

	verdict, err := Classify(local, chat.LastScoredDay)
	if err != nil {
		return fmt.Errorf("chat %d: %w", chatID, err)
	}
	g.Log.Debug("classified message",
		zap.Int64("chat_id", chatID),
		zap.String("verdict", verdict.Kind.String()),
		zap.String("last_scored_day", chat.LastScoredDay))

	switch verdict.Kind {
	case TooEarly:
		return g.applyTooEarly(chatID, chat, sender, text)
	case OnTime:
		return g.applyOnTime(chatID, chat, sender, text, verdict)
	case Missed:
		return g.applyMissed(chatID, chat, sender, text, verdict)
	default:
		return nil
	}
}

func (g *Game) applyTooEarly(chatID int64, chat *models.ChatSettings, sender models.Participant, text string) error {
	if err := g.Store.AddScore(chatID, sender, -1); err != nil {
		return err
	}
	left, err := g.Store.Score(chatID, sender.ID)
	if err != nil {
		return err
	}

	g.Out.SendTyping(chatID)
	switch {
	case chat.UseAI && left >= 0:
		g.Out.SendMessage(chatID, g.AI.TooEarlyMessage(sender.Name, text, left))
	case chat.SpruecheEarly:
		g.Out.SendMessage(chatID, spruecheEarly[rand.Intn(len(spruecheEarly))])
	default:
		g.Out.SendMessage(chatID, "That was too early. That's gonna cost you a point.")
	}
	return nil
}

func (g *Game) applyOnTime(chatID int64, chat *models.ChatSettings, sender models.Participant, text string, v Verdict) error {
	if err := g.Store.AddScore(chatID, sender, 1); err != nil {
		return err
	}
	if v.CatchUp > 0 {
		if err := g.Store.AddScore(chatID, g.Bot, v.CatchUp); err != nil {
			return err
		}
	}
	if err := g.Store.SetLastScoredDay(chatID, v.LastScoredDay); err != nil {
		return err
	}

	if chat.UseAI {
		g.Out.SendTyping(chatID)
		g.Out.SendMessage(chatID, g.AI.SuccessMessage(g.Bot.Name, sender.Name, text, g.Standings(chatID), v.CatchUp))
		return nil
	}

	g.Out.SendMessage(chatID, fmt.Sprintf("Congratz, %s! Scores:", sender.Name))
	if v.CatchUp > 0 {
		g.Out.SendMessage(chatID, fmt.Sprintf(
			"Wait a second. You forgot the last %s. So I'll get some points, too.", days(v.CatchUp)))
	}
	g.Out.SendMessage(chatID, g.Standings(chatID))
	return nil
}

func (g *Game) applyMissed(chatID int64, chat *models.ChatSettings, sender models.Participant, text string, v Verdict) error {
	if err := g.Store.AddScore(chatID, g.Bot, v.BotPoints); err != nil {
		return err
	}
	if err := g.Store.SetLastScoredDay(chatID, v.LastScoredDay); err != nil {
		return err
	}

	g.Out.SendTyping(chatID)
	if chat.UseAI {
		g.Out.SendMessage(chatID, g.AI.LostMessage(g.Bot.Name, sender.Name, text, g.Standings(chatID), v.BotPoints))
		return nil
	}

	if chat.Sprueche {
		g.Out.SendMessage(chatID, sprueche[rand.Intn(len(sprueche))])
	} else {
		g.Out.SendMessage(chatID, "Oh dear. You forgot 13:37. Point for me")
	}
	if v.BotPoints > 1 {
		g.Out.SendMessage(chatID, fmt.Sprintf(
			"You even forgot it for %d days... I'm disappointed.", v.BotPoints))
	}
	g.Out.SendMessage(chatID, g.Standings(chatID))
	return nil
}

// gradeAnswer resolves a pending challenge with the first message that
// arrives, win or lose. The correct answer is never revealed.
func (g *Game) gradeAnswer(chatID int64, chat *models.ChatSettings, sender models.Participant, question, answer string) error {
	g.Out.SendTyping(chatID)
	if g.AI.AnswerIsCorrect(question, answer) {
		if err := g.Store.AddScore(chatID, sender, 1); err != nil {
			return err
		}
		if err := g.Store.DeleteChallenge(chatID); err != nil {
			return err
		}
		g.Out.SendTyping(chatID)
		g.Out.SendMessage(chatID, g.AI.ChallengeWonMessage(g.Bot.Name, sender.Name, g.Standings(chatID), question, answer))
		return nil
	}

	if err := g.Store.AddScore(chatID, sender, -1); err != nil {
		return err
	}
	if err := g.Store.AddScore(chatID, g.Bot, 1); err != nil {
		return err
	}
	if err := g.Store.DeleteChallenge(chatID); err != nil {
		return err
	}
	g.Out.SendTyping(chatID)
	g.Out.SendMessage(chatID, g.AI.ChallengeLostMessage(sender.Name, question, answer))
	return nil
}

// Standings renders the chat's scoreboard, highest score first.
func (g *Game) Standings(chatID int64) string {
	scores, err := g.Store.ListScores(chatID)
	if err != nil {
		g.Log.Error("listing scores", zap.Int64("chat_id", chatID), zap.Error(err))
		return "No one has made any points so far…"
	}
	if len(scores) == 0 {
		return "No one has made any points so far…"
	}
	lines := make([]string, 0, len(scores))
	for _, e := range scores {
		lines = append(lines, fmt.Sprintf("- %s: %d", e.Name, e.Points))
	}
	return strings.Join(lines, "\n")
}

func days(n int) string {
	if n == 1 {
		return "day"
	}
	return fmt.Sprintf("%d days", n)
}
