package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"leetbot/internal/models"
	"leetbot/internal/storage"
)

func newDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestChatUnknownIsNil(t *testing.T) {
	db := newDB(t)
	chat, err := db.Chat(1)
	require.NoError(t, err)
	require.Nil(t, chat)
}

func TestChatSettingsUpsert(t *testing.T) {
	db := newDB(t)

	require.NoError(t, db.SetTimezone(1, "Europe/Berlin"))
	require.NoError(t, db.SetLastScoredDay(1, "2024-05-10"))
	require.NoError(t, db.SetUseAI(1, true))
	require.NoError(t, db.SetSprueche(1, true))
	require.NoError(t, db.SetSpruecheEarly(1, true))

	chat, err := db.Chat(1)
	require.NoError(t, err)
	require.Equal(t, "Europe/Berlin", chat.Timezone)
	require.Equal(t, "2024-05-10", chat.LastScoredDay)
	require.True(t, chat.UseAI)
	require.True(t, chat.Sprueche)
	require.True(t, chat.SpruecheEarly)

	// independent updates don't clobber each other
	require.NoError(t, db.SetTimezone(1, "Asia/Tokyo"))
	chat, err = db.Chat(1)
	require.NoError(t, err)
	require.Equal(t, "Asia/Tokyo", chat.Timezone)
	require.Equal(t, "2024-05-10", chat.LastScoredDay)
	require.True(t, chat.Sprueche)
}

func TestAddScoreAccumulates(t *testing.T) {
	db := newDB(t)
	alice := models.Participant{ID: 7, Name: "Alice"}

	require.NoError(t, db.AddScore(1, alice, 1))
	require.NoError(t, db.AddScore(1, alice, 2))
	require.NoError(t, db.AddScore(1, alice, -5))

	pts, err := db.Score(1, alice.ID)
	require.NoError(t, err)
	require.Equal(t, -2, pts)
}

func TestScoreUnknownIsZero(t *testing.T) {
	db := newDB(t)
	pts, err := db.Score(1, 99)
	require.NoError(t, err)
	require.Equal(t, 0, pts)
}

func TestAddScoreRefreshesName(t *testing.T) {
	db := newDB(t)

	require.NoError(t, db.AddScore(1, models.Participant{ID: 7, Name: "Alice"}, 1))
	require.NoError(t, db.AddScore(1, models.Participant{ID: 7, Name: "Alicia"}, 1))

	scores, err := db.ListScores(1)
	require.NoError(t, err)
	require.Equal(t, []models.ScoreEntry{{Name: "Alicia", Points: 2}}, scores)
}

func TestListScoresOrdersByPoints(t *testing.T) {
	db := newDB(t)

	require.NoError(t, db.AddScore(1, models.Participant{ID: 1, Name: "Bot"}, 5))
	require.NoError(t, db.AddScore(1, models.Participant{ID: 2, Name: "Alice"}, 9))
	require.NoError(t, db.AddScore(1, models.Participant{ID: 3, Name: "Bob"}, -1))

	scores, err := db.ListScores(1)
	require.NoError(t, err)
	require.Len(t, scores, 3)
	require.Equal(t, models.ScoreEntry{Name: "Alice", Points: 9}, scores[0])
	require.Equal(t, models.ScoreEntry{Name: "Bot", Points: 5}, scores[1])
	require.Equal(t, models.ScoreEntry{Name: "Bob", Points: -1}, scores[2])
}

func TestScoresArePerChat(t *testing.T) {
	db := newDB(t)
	alice := models.Participant{ID: 7, Name: "Alice"}

	require.NoError(t, db.AddScore(1, alice, 3))
	require.NoError(t, db.AddScore(2, alice, 1))

	pts, err := db.Score(2, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 1, pts)
}

func TestChallengeLifecycle(t *testing.T) {
	db := newDB(t)

	q, err := db.Challenge(1)
	require.NoError(t, err)
	require.Empty(t, q)

	require.NoError(t, db.SetChallenge(1, "Question A"))
	require.NoError(t, db.SetChallenge(1, "Question B")) // overwrite, not duplicate

	q, err = db.Challenge(1)
	require.NoError(t, err)
	require.Equal(t, "Question B", q)

	require.NoError(t, db.DeleteChallenge(1))
	q, err = db.Challenge(1)
	require.NoError(t, err)
	require.Empty(t, q)
}

func TestClearChat(t *testing.T) {
	db := newDB(t)
	alice := models.Participant{ID: 7, Name: "Alice"}

	require.NoError(t, db.SetTimezone(1, "Europe/Berlin"))
	require.NoError(t, db.AddScore(1, alice, 3))
	require.NoError(t, db.SetChallenge(1, "Question"))
	require.NoError(t, db.AddScore(2, alice, 1))

	require.NoError(t, db.ClearChat(1))

	chat, err := db.Chat(1)
	require.NoError(t, err)
	require.Nil(t, chat)

	pts, err := db.Score(1, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 0, pts)

	q, err := db.Challenge(1)
	require.NoError(t, err)
	require.Empty(t, q)

	// other chats untouched
	pts, err = db.Score(2, alice.ID)
	require.NoError(t, err)
	require.Equal(t, 1, pts)
}
