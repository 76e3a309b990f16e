package game

import (
	"fmt"
	"time"
)

// DayFormat is the calendar-day encoding used everywhere in the store.
const DayFormat = "2006-01-02"

type VerdictKind int

const (
	// NoOp means the message does not touch the ledger.
	NoOp VerdictKind = iota
	// TooEarly is a 13:36 message, one point off the sender.
	TooEarly
	// OnTime is the first 13:37 message of a not-yet-scored day.
	OnTime
	// Missed closes out one or more days nobody hit 13:37.
	Missed
)

func (k VerdictKind) String() string {
	switch k {
	case TooEarly:
		return "too_early"
	case OnTime:
		return "on_time"
	case Missed:
		return "missed"
	default:
		return "noop"
	}
}

// Verdict is the classifier's decision for a single message.
type Verdict struct {
	Kind VerdictKind
	// CatchUp is how many skipped past days the bot collects alongside an
	// OnTime win (0 when yesterday was scored).
	CatchUp int
	// BotPoints is how many points the bot collects on a Missed verdict.
	BotPoints int
	// LastScoredDay is the value to persist; empty means leave it unchanged.
	LastScoredDay string
}

// Classify decides what a message sent at the given chat-local time means for
// the daily 13:37 game. lastScoredDay is the chat-local calendar day through
// which scoring is already settled ("" on first contact, treated as
// yesterday). Classify never mutates anything; the caller applies the verdict.
func Classify(local time.Time, lastScoredDay string) (Verdict, error) {
	hour, minute := local.Hour(), local.Minute()

	today := local.Format(DayFormat)
	yesterday := local.AddDate(0, 0, -1).Format(DayFormat)
	if lastScoredDay == "" {
		lastScoredDay = yesterday
	}

	delta, err := daysBetween(lastScoredDay, today)
	if err != nil {
		return Verdict{}, err
	}

	pastWindowToday := (hour == 13 && minute > 37) || hour > 13

	switch {
	case hour == 13 && minute == 36:
		return Verdict{Kind: TooEarly}, nil

	case hour == 13 && minute == 37 && delta >= 1:
		return Verdict{Kind: OnTime, CatchUp: delta - 1, LastScoredDay: today}, nil

	case pastWindowToday && delta == 1:
		// Today's window is over, so today itself counts as missed.
		return Verdict{Kind: Missed, BotPoints: delta, LastScoredDay: today}, nil

	case delta > 1:
		// Days were skipped entirely. Whether today joins them depends on
		// whether 13:37 has already passed; before that, today's window
		// stays open for a later on-time hit.
		if pastWindowToday {
			return Verdict{Kind: Missed, BotPoints: delta, LastScoredDay: today}, nil
		}
		return Verdict{Kind: Missed, BotPoints: delta - 1, LastScoredDay: yesterday}, nil

	default:
		return Verdict{Kind: NoOp}, nil
	}
}

// daysBetween counts calendar days from one YYYY-MM-DD day to another.
func daysBetween(from, to string) (int, error) {
	a, err := time.ParseInLocation(DayFormat, from, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("bad last scored day %q: %w", from, err)
	}
	b, err := time.ParseInLocation(DayFormat, to, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("bad day %q: %w", to, err)
	}
	return int(b.Sub(a).Hours() / 24), nil
}
