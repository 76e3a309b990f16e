package storage

import (
	"database/sql"
	"embed"
	"errors"

	_ "modernc.org/sqlite"

	"leetbot/internal/models"
)

//go:embed schema.sql
var ddl embed.FS

type DB struct{ *sql.DB }

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	// sqlite is a single writer anyway, and :memory: databases are
	// per-connection
	db.SetMaxOpenConns(1)
	if err = migrate(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}

// ---------- chats -----------------------------------------------------------

// Chat returns the chat's settings, or nil if the bot has never seen the chat.
func (d *DB) Chat(chatID int64) (*models.ChatSettings, error) {
	var c models.ChatSettings

	err := d.QueryRow(`
        SELECT chat_id, timezone, last_scored_day, use_ai, sprueche, sprueche_early
        FROM chats WHERE chat_id=?`, chatID,
	).Scan(&c.ChatID, &c.Timezone, &c.LastScoredDay, &c.UseAI, &c.Sprueche, &c.SpruecheEarly)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *DB) SetTimezone(chatID int64, tz string) error {
	_, err := d.Exec(`
        INSERT INTO chats(chat_id, timezone) VALUES (?,?)
        ON CONFLICT(chat_id) DO UPDATE SET timezone=excluded.timezone`, chatID, tz)
	return err
}

func (d *DB) SetLastScoredDay(chatID int64, day string) error {
	_, err := d.Exec(`
        INSERT INTO chats(chat_id, last_scored_day) VALUES (?,?)
        ON CONFLICT(chat_id) DO UPDATE SET last_scored_day=excluded.last_scored_day`, chatID, day)
	return err
}

func (d *DB) SetUseAI(chatID int64, on bool) error {
	_, err := d.Exec(`
        INSERT INTO chats(chat_id, use_ai) VALUES (?,?)
        ON CONFLICT(chat_id) DO UPDATE SET use_ai=excluded.use_ai`, chatID, on)
	return err
}

func (d *DB) SetSprueche(chatID int64, on bool) error {
	_, err := d.Exec(`
        INSERT INTO chats(chat_id, sprueche) VALUES (?,?)
        ON CONFLICT(chat_id) DO UPDATE SET sprueche=excluded.sprueche`, chatID, on)
	return err
}

func (d *DB) SetSpruecheEarly(chatID int64, on bool) error {
	_, err := d.Exec(`
        INSERT INTO chats(chat_id, sprueche_early) VALUES (?,?)
        ON CONFLICT(chat_id) DO UPDATE SET sprueche_early=excluded.sprueche_early`, chatID, on)
	return err
}

// ---------- scores ----------------------------------------------------------

// AddScore adds n (may be negative) to the participant's score in the chat
// and records the latest known display name.
func (d *DB) AddScore(chatID int64, p models.Participant, n int) error {
	if _, err := d.Exec(`
        INSERT INTO scores(chat_id, participant_id, points) VALUES (?,?,?)
        ON CONFLICT(chat_id, participant_id) DO UPDATE SET points = points + excluded.points
    `, chatID, p.ID, n); err != nil {
		return err
	}
	_, err := d.Exec(`
        INSERT INTO participants(participant_id, name) VALUES (?,?)
        ON CONFLICT(participant_id) DO UPDATE SET name=excluded.name
    `, p.ID, p.Name)
	return err
}

// Score returns 0 for participants that never scored in the chat.
func (d *DB) Score(chatID, participantID int64) (int, error) {
	var pts int
	err := d.QueryRow(`SELECT points FROM scores WHERE chat_id=? AND participant_id=?`,
		chatID, participantID).Scan(&pts)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return pts, err
}

// ListScores returns the chat's standings, highest score first. Tie order is
// whatever sqlite enumerates and is not part of the contract.
func (d *DB) ListScores(chatID int64) ([]models.ScoreEntry, error) {
	rows, err := d.Query(`
        SELECT p.name, s.points
        FROM scores s JOIN participants p ON p.participant_id = s.participant_id
        WHERE s.chat_id=?
        ORDER BY s.points DESC`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.ScoreEntry
	for rows.Next() {
		var e models.ScoreEntry
		if err := rows.Scan(&e.Name, &e.Points); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// ---------- challenges ------------------------------------------------------

// SetChallenge stores the chat's pending trivia question, replacing any
// previous one. At most one challenge is open per chat.
func (d *DB) SetChallenge(chatID int64, question string) error {
	_, err := d.Exec(`
        INSERT INTO challenges(chat_id, question) VALUES (?,?)
        ON CONFLICT(chat_id) DO UPDATE SET question=excluded.question`, chatID, question)
	return err
}

// Challenge returns "" when no challenge is outstanding.
func (d *DB) Challenge(chatID int64) (string, error) {
	var q string
	err := d.QueryRow(`SELECT question FROM challenges WHERE chat_id=?`, chatID).Scan(&q)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return q, err
}

func (d *DB) DeleteChallenge(chatID int64) error {
	_, err := d.Exec(`DELETE FROM challenges WHERE chat_id=?`, chatID)
	return err
}

// ---------- cleanup ---------------------------------------------------------

// ClearChat removes every row the chat owns. Called when the bot is removed
// from a group; participant names are shared across chats and stay.
func (d *DB) ClearChat(chatID int64) error {
	tx, err := d.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tables := []string{
		"scores",
		"challenges",
		"chats",
	}
	for _, tbl := range tables {
		if _, err := tx.Exec("DELETE FROM "+tbl+" WHERE chat_id = ?", chatID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
