package scheduler

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"leetbot/internal/game"
)

// Store is the slice of persistence the scheduler touches.
type Store interface {
	SetLastScoredDay(chatID int64, day string) error
	SetChallenge(chatID int64, question string) error
	DeleteChallenge(chatID int64) error
}

// QuestionSource produces the trivia question when a challenge fires.
type QuestionSource interface {
	ChallengeQuestion() string
}

// Challenges arms at most one deferred trivia question per chat, due at the
// next 13:37 chat-local time. Jobs live only in this process; a restart
// forgets them without corrupting any persisted state.
type Challenges struct {
	sched gocron.Scheduler
	store Store
	out   game.Notifier
	ai    QuestionSource
	log   *zap.Logger

	mu   sync.Mutex
	jobs map[int64]uuid.UUID
}

func New(store Store, out game.Notifier, ai QuestionSource, log *zap.Logger) (*Challenges, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	s.Start()
	return &Challenges{
		sched: s,
		store: store,
		out:   out,
		ai:    ai,
		log:   log,
		jobs:  make(map[int64]uuid.UUID),
	}, nil
}

// NextDue returns the next 13:37 after nowLocal, today or tomorrow.
func NextDue(nowLocal time.Time) time.Time {
	due := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 13, 37, 0, 0, nowLocal.Location())
	if nowLocal.After(due) {
		due = due.AddDate(0, 0, 1)
	}
	return due
}

// Arm replaces any previously scheduled challenge for the chat with a fresh
// one and returns when it is due. The due day is written to last_scored_day
// up front so the regular 13:37 scoring does not also award points once the
// challenge resolves.
func (c *Challenges) Arm(chatID int64, loc *time.Location) (time.Time, error) {
	c.cancelJob(chatID)
	if err := c.store.DeleteChallenge(chatID); err != nil {
		return time.Time{}, err
	}

	due := NextDue(time.Now().In(loc))
	if err := c.store.SetLastScoredDay(chatID, due.Format(game.DayFormat)); err != nil {
		return time.Time{}, err
	}

	job, err := c.sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(due)),
		gocron.NewTask(c.fire, chatID),
	)
	if err != nil {
		return time.Time{}, err
	}

	c.mu.Lock()
	c.jobs[chatID] = job.ID()
	c.mu.Unlock()

	c.log.Info("challenge armed",
		zap.Int64("chat_id", chatID), zap.Time("due", due))
	return due, nil
}

// Cancel drops the chat's scheduled job and pending question, if any.
// Used on timezone changes and when the bot leaves the group.
func (c *Challenges) Cancel(chatID int64) {
	c.cancelJob(chatID)
	if err := c.store.DeleteChallenge(chatID); err != nil {
		c.log.Error("clearing challenge", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (c *Challenges) cancelJob(chatID int64) {
	c.mu.Lock()
	id, ok := c.jobs[chatID]
	if ok {
		delete(c.jobs, chatID)
	}
	c.mu.Unlock()
	if ok {
		_ = c.sched.RemoveJob(id)
	}
}

// fire runs at the due instant: generate the question, persist it as the
// chat's pending challenge (overwriting a stale one) and post it.
func (c *Challenges) fire(chatID int64) {
	c.mu.Lock()
	delete(c.jobs, chatID)
	c.mu.Unlock()

	c.out.SendTyping(chatID)
	question := c.ai.ChallengeQuestion()
	if err := c.store.SetChallenge(chatID, question); err != nil {
		c.log.Error("storing challenge", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	c.out.SendMessage(chatID, question)
}

func (c *Challenges) Shutdown() error {
	return c.sched.Shutdown()
}
