package game_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"leetbot/internal/game"
	"leetbot/internal/models"
	"leetbot/internal/storage"
)

const chatID int64 = -100123

var (
	bot   = models.Participant{ID: 1, Name: "Leetbot"}
	alice = models.Participant{ID: 2, Name: "Alice"}
	bob   = models.Participant{ID: 3, Name: "Bob"}
)

type fakeOut struct {
	messages []string
	typing   int
}

func (f *fakeOut) SendMessage(_ int64, text string) { f.messages = append(f.messages, text) }
func (f *fakeOut) SendTyping(_ int64)               { f.typing++ }

// fakeAI returns canned strings and a scripted answer verdict.
type fakeAI struct {
	correct bool
}

func (fakeAI) TooEarlyMessage(string, string, int) string              { return "ai: too early" }
func (fakeAI) SuccessMessage(string, string, string, string, int) string { return "ai: success" }
func (fakeAI) LostMessage(string, string, string, string, int) string  { return "ai: lost" }
func (fakeAI) ChallengeWonMessage(string, string, string, string, string) string {
	return "ai: challenge won"
}
func (fakeAI) ChallengeLostMessage(string, string, string) string { return "ai: challenge lost" }
func (f fakeAI) AnswerIsCorrect(string, string) bool              { return f.correct }

func newGame(t *testing.T) (*game.Game, *storage.DB, *fakeOut) {
	t.Helper()
	db, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	out := &fakeOut{}
	g := &game.Game{
		Store: db,
		Out:   out,
		AI:    fakeAI{},
		Bot:   bot,
		Log:   zap.NewNop(),
	}
	return g, db, out
}

// sentAt builds a UTC instant that reads as the given local wall clock in the
// chat's zone.
func sentAt(t *testing.T, zone, day string, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(zone)
	require.NoError(t, err)
	d, err := time.ParseInLocation(game.DayFormat, day, loc)
	require.NoError(t, err)
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute).UTC()
}

func TestMissingTimezoneShortCircuits(t *testing.T) {
	g, _, out := newGame(t)

	err := g.HandleMessage(chatID, alice, time.Now(), "hello")
	require.NoError(t, err)
	require.Equal(t, []string{"Sorry to interrupt you, but you need to set a /timezone"}, out.messages)
}

func TestOnTimeWin(t *testing.T) {
	g, db, out := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "2024-05-09"))

	err := g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-10", 13, 37), "1337!")
	require.NoError(t, err)

	score, err := db.Score(chatID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 1, score)

	chat, err := db.Chat(chatID)
	require.NoError(t, err)
	require.Equal(t, "2024-05-10", chat.LastScoredDay)

	require.Equal(t, "Congratz, Alice! Scores:", out.messages[0])
	require.Equal(t, "- Alice: 1", out.messages[len(out.messages)-1])
}

func TestOnTimeWinWithCatchUp(t *testing.T) {
	g, db, out := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "2024-05-07"))

	err := g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-10", 13, 37), "1337!")
	require.NoError(t, err)

	aliceScore, err := db.Score(chatID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 1, aliceScore)

	botScore, err := db.Score(chatID, bot.ID)
	require.NoError(t, err)
	require.Equal(t, 2, botScore)

	require.Contains(t, out.messages, "Wait a second. You forgot the last 2 days. So I'll get some points, too.")
}

func TestTooEarlyPenalty(t *testing.T) {
	g, db, out := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "2024-05-09"))

	err := g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-10", 13, 36), "first!")
	require.NoError(t, err)

	score, err := db.Score(chatID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, -1, score)

	// too early never advances the day
	chat, err := db.Chat(chatID)
	require.NoError(t, err)
	require.Equal(t, "2024-05-09", chat.LastScoredDay)

	require.Equal(t, []string{"That was too early. That's gonna cost you a point."}, out.messages)
}

func TestMissedSameDay(t *testing.T) {
	g, db, out := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "2024-05-09"))

	err := g.HandleMessage(chatID, bob, sentAt(t, "Europe/Berlin", "2024-05-10", 14, 0), "oops")
	require.NoError(t, err)

	botScore, err := db.Score(chatID, bot.ID)
	require.NoError(t, err)
	require.Equal(t, 1, botScore)

	chat, err := db.Chat(chatID)
	require.NoError(t, err)
	require.Equal(t, "2024-05-10", chat.LastScoredDay)

	require.Equal(t, "Oh dear. You forgot 13:37. Point for me", out.messages[0])
}

func TestMissedNextMorningLeavesTodayOpen(t *testing.T) {
	g, db, _ := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "2024-05-09"))

	err := g.HandleMessage(chatID, bob, sentAt(t, "Europe/Berlin", "2024-05-11", 9, 0), "morning")
	require.NoError(t, err)

	botScore, err := db.Score(chatID, bot.ID)
	require.NoError(t, err)
	require.Equal(t, 1, botScore)

	chat, err := db.Chat(chatID)
	require.NoError(t, err)
	require.Equal(t, "2024-05-10", chat.LastScoredDay)

	// the window for 2024-05-11 is still open
	err = g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-11", 13, 37), "1337!")
	require.NoError(t, err)

	score, err := db.Score(chatID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 1, score)
}

func TestSecondMessageSameDayIsNoOp(t *testing.T) {
	g, db, out := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "2024-05-09"))

	require.NoError(t, g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-10", 13, 37), "1337!"))
	sentBefore := len(out.messages)

	require.NoError(t, g.HandleMessage(chatID, bob, sentAt(t, "Europe/Berlin", "2024-05-10", 13, 39), "damn"))
	require.NoError(t, g.HandleMessage(chatID, bob, sentAt(t, "Europe/Berlin", "2024-05-10", 18, 0), "still here"))

	score, err := db.Score(chatID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, 0, score)
	require.Len(t, out.messages, sentBefore)
}

func TestLedgerArithmetic(t *testing.T) {
	g, db, _ := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "2024-05-09"))

	// win, penalty next day, then win again: +1 -1 +1
	require.NoError(t, g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-10", 13, 37), "a"))
	require.NoError(t, g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-11", 13, 36), "b"))
	require.NoError(t, g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-11", 13, 37), "c"))

	score, err := db.Score(chatID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 1, score)
}

func TestAIMessagesWhenEnabled(t *testing.T) {
	g, db, out := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "2024-05-09"))
	require.NoError(t, db.SetUseAI(chatID, true))

	require.NoError(t, g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-10", 13, 37), "1337!"))
	require.Equal(t, []string{"ai: success"}, out.messages)
}

func TestTooEarlyAISkippedWhenScoreNegative(t *testing.T) {
	g, db, out := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "2024-05-09"))
	require.NoError(t, db.SetUseAI(chatID, true))
	require.NoError(t, db.AddScore(chatID, alice, -3))

	require.NoError(t, g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-10", 13, 36), "first!"))
	require.Equal(t, []string{"That was too early. That's gonna cost you a point."}, out.messages)
}

func TestChallengeAnswerCorrect(t *testing.T) {
	g, db, out := newGame(t)
	g.AI = fakeAI{correct: true}
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "2024-05-10"))
	require.NoError(t, db.SetChallenge(chatID, "What is 6*7?"))

	require.NoError(t, g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-10", 10, 0), "42"))

	score, err := db.Score(chatID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 1, score)

	botScore, err := db.Score(chatID, bot.ID)
	require.NoError(t, err)
	require.Equal(t, 0, botScore)

	q, err := db.Challenge(chatID)
	require.NoError(t, err)
	require.Empty(t, q)

	require.Equal(t, []string{"ai: challenge won"}, out.messages)

	// the pre-armed day still guards against a double award
	require.NoError(t, g.HandleMessage(chatID, bob, sentAt(t, "Europe/Berlin", "2024-05-10", 14, 0), "hello"))
	botScore, err = db.Score(chatID, bot.ID)
	require.NoError(t, err)
	require.Equal(t, 0, botScore)
}

func TestChallengeAnswerWrong(t *testing.T) {
	g, db, out := newGame(t)
	g.AI = fakeAI{correct: false}
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetChallenge(chatID, "What is 6*7?"))

	require.NoError(t, g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-10", 10, 0), "41"))

	score, err := db.Score(chatID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, -1, score)

	botScore, err := db.Score(chatID, bot.ID)
	require.NoError(t, err)
	require.Equal(t, 1, botScore)

	q, err := db.Challenge(chatID)
	require.NoError(t, err)
	require.Empty(t, q)

	require.Equal(t, []string{"ai: challenge lost"}, out.messages)
}

func TestBadTimezoneSurfacesError(t *testing.T) {
	g, db, _ := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Not/AZone")) // storage does not validate

	err := g.HandleMessage(chatID, alice, time.Now(), "hello")
	require.Error(t, err)
}

func TestBadLastScoredDaySurfacesError(t *testing.T) {
	g, db, _ := newGame(t)
	require.NoError(t, db.SetTimezone(chatID, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(chatID, "garbage"))

	err := g.HandleMessage(chatID, alice, sentAt(t, "Europe/Berlin", "2024-05-10", 13, 37), "1337!")
	require.Error(t, err)
}
