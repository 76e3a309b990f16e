package handlers

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"leetbot/internal/game"
	"leetbot/internal/tz"
)

func (h *Handler) HandleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(msg.Chat.ID)
	case "timezone":
		h.handleTimezone(msg)
	case "score":
		h.send(msg.Chat.ID, h.Game.Standings(msg.Chat.ID))
	case "clock":
		h.handleClock(msg)
	case "my_id":
		h.handleMyID(msg)
	case "sprueche":
		h.handleSprueche(msg)
	case "challenge":
		h.handleChallenge(msg)
	}
}

func (h *Handler) handleStart(chatID int64) {
	h.send(chatID, "Hi there! I'll check the 13:37 score in a group chat. "+
		"Just add me to a group, and when the clock says 13:37, "+
		"be the first to write something in the group!")
}

// handleTimezone answers /timezone: without arguments it opens the region
// picker, with an argument it accepts a zone name or a region directly.
func (h *Handler) handleTimezone(msg *tgbotapi.Message) {
	if !isGroup(msg) {
		h.send(msg.Chat.ID, "Timezones are a group thing. Add me to a group first!")
		return
	}
	chatID := msg.Chat.ID
	arg := strings.TrimSpace(msg.CommandArguments())

	switch {
	case arg == "":
		current := "None"
		if chat, _ := h.DB.Chat(chatID); chat != nil && chat.Timezone != "" {
			current = chat.Timezone
		}
		reply := tgbotapi.NewMessage(chatID, fmt.Sprintf(
			"Your current timezone is set to %q. If you want to change it, choose your region", current))
		reply.ReplyMarkup = regionMarkup()
		if _, err := h.Bot.Send(reply); err != nil {
			h.Log.Error("sending region picker", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	case tz.Valid(arg):
		h.setTimezone(chatID, arg, msg.Time())
	case tz.IsRegion(arg):
		reply := tgbotapi.NewMessage(chatID, "Choose your timezone")
		reply.ReplyMarkup = zoneMarkup(arg)
		if _, err := h.Bot.Send(reply); err != nil {
			h.Log.Error("sending zone picker", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	default:
		h.send(chatID, "Sorry, I've never heard of that timezone")
	}
}

// setTimezone persists the zone and bootstraps last_scored_day on first
// setup: past 13:37 counts today as settled, otherwise yesterday. A running
// challenge is dropped because its instant was computed in the old zone.
func (h *Handler) setTimezone(chatID int64, zone string, sentAt time.Time) {
	if err := h.DB.SetTimezone(chatID, zone); err != nil {
		h.Log.Error("setting timezone", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	h.Challenges.Cancel(chatID)

	loc, err := time.LoadLocation(zone)
	if err != nil {
		h.Log.Error("loading timezone", zap.String("zone", zone), zap.Error(err))
		return
	}
	chat, err := h.DB.Chat(chatID)
	if err != nil {
		h.Log.Error("reading chat", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if chat.LastScoredDay == "" {
		now := time.Now().In(loc)
		last := now
		if now.Hour() < 13 || (now.Hour() == 13 && now.Minute() <= 37) {
			last = now.AddDate(0, 0, -1)
		}
		if err := h.DB.SetLastScoredDay(chatID, last.Format(game.DayFormat)); err != nil {
			h.Log.Error("initializing last scored day", zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}

	h.send(chatID, fmt.Sprintf(
		"Timezone of this group was set to %s. Looks like it is %s. "+
			"If this is incorrect, please execute /timezone again.",
		zone, sentAt.In(loc).Format("15:04:05")))
}

func (h *Handler) handleClock(msg *tgbotapi.Message) {
	chat, _ := h.DB.Chat(msg.Chat.ID)
	if chat == nil || chat.Timezone == "" {
		h.send(msg.Chat.ID, "Sorry to interrupt you, but you need to set a /timezone")
		return
	}
	loc, err := time.LoadLocation(chat.Timezone)
	if err != nil {
		h.Log.Error("loading timezone", zap.String("zone", chat.Timezone), zap.Error(err))
		return
	}
	h.send(msg.Chat.ID, fmt.Sprintf("I received your message at %s", msg.Time().In(loc)))
}

func (h *Handler) handleMyID(msg *tgbotapi.Message) {
	h.send(msg.Chat.ID, strings.Join([]string{
		fmt.Sprintf("chat_id: %d", msg.Chat.ID),
		fmt.Sprintf("participant_id: %d", msg.From.ID),
	}, "\n"))
}

// handleSprueche toggles the canned-insult texts:
// /sprueche AN|AUS for missed days, /sprueche FRUEH AN|AUS for 13:36 senders.
func (h *Handler) handleSprueche(msg *tgbotapi.Message) {
	if !isGroup(msg) {
		return
	}
	chatID := msg.Chat.ID
	args := strings.Fields(strings.ToUpper(msg.CommandArguments()))

	switch {
	case len(args) == 1 && args[0] == "AN":
		_ = h.DB.SetSprueche(chatID, true)
		h.send(chatID, "Na wenn ihr das vertragt")
	case len(args) == 1 && args[0] == "AUS":
		_ = h.DB.SetSprueche(chatID, false)
		h.send(chatID, "Dann halt nich")
	case len(args) == 2 && args[0] == "FRUEH" && args[1] == "AN":
		_ = h.DB.SetSpruecheEarly(chatID, true)
		h.send(chatID, "Na wenn ihr das vertragt")
	case len(args) == 2 && args[0] == "FRUEH" && args[1] == "AUS":
		_ = h.DB.SetSpruecheEarly(chatID, false)
		h.send(chatID, "Dann halt nich")
	}
}

func (h *Handler) handleChallenge(msg *tgbotapi.Message) {
	if !isGroup(msg) {
		return
	}
	chatID := msg.Chat.ID
	chat, err := h.DB.Chat(chatID)
	if err != nil {
		h.Log.Error("reading chat", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	if chat == nil || !chat.UseAI {
		h.send(chatID, "I'm sorry, but this feature is not available for this group.")
		return
	}
	if chat.Timezone == "" {
		h.send(chatID, "Sorry to interrupt you, but you need to set a /timezone")
		return
	}
	loc, err := time.LoadLocation(chat.Timezone)
	if err != nil {
		h.Log.Error("loading timezone", zap.String("zone", chat.Timezone), zap.Error(err))
		return
	}
	due, err := h.Challenges.Arm(chatID, loc)
	if err != nil {
		h.Log.Error("arming challenge", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	h.send(chatID, fmt.Sprintf(
		"Neue Challenge aktiviert. Ich melde mich wieder am %s "+
			"(falls ich zwischendurch nicht neugestartet werde).",
		due.Format("02.01.2006 um 15:04:05 MST")))
}
