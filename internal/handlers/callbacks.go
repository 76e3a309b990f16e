package handlers

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"leetbot/internal/tz"
)

const (
	cbTimezone        = "timezone"
	cbCancel          = "cancel"
	cbRegionSelection = "region_selection"
)

func (h *Handler) HandleCallback(cq *tgbotapi.CallbackQuery) {
	// always answer callback to remove 'loading...'
	_, _ = h.Bot.Request(tgbotapi.NewCallback(cq.ID, ""))

	cmd, arg, _ := strings.Cut(cq.Data, ":")
	switch cmd {
	case cbTimezone:
		h.handleTimezoneCallback(cq, arg)
	case cbCancel:
		h.edit(cq, "Canceled", nil)
	}
}

// handleTimezoneCallback walks the region → zone picker. arg is a region, a
// zone name, or "region_selection" for the back button.
func (h *Handler) handleTimezoneCallback(cq *tgbotapi.CallbackQuery, arg string) {
	chatID := cq.Message.Chat.ID

	switch {
	case arg == cbRegionSelection:
		kb := regionMarkup()
		h.edit(cq, "Choose your region", &kb)
	case tz.Valid(arg):
		h.setTimezone(chatID, arg, cq.Message.Time())
	case tz.IsRegion(arg):
		kb := zoneMarkup(arg)
		h.edit(cq, "Choose your timezone", &kb)
	default:
		h.edit(cq, "Sorry, I've never heard of that timezone", nil)
	}
}

func (h *Handler) edit(cq *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID

	var cfg tgbotapi.Chattable
	if kb != nil {
		cfg = tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, *kb)
	} else {
		cfg = tgbotapi.NewEditMessageText(chatID, msgID, text)
	}
	if _, err := h.Bot.Request(cfg); err != nil {
		h.Log.Error("editing message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// regionMarkup lays the regions out three per row, like the original picker.
func regionMarkup() tgbotapi.InlineKeyboardMarkup {
	regions := tz.Regions()
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(regions); i += 3 {
		var row []tgbotapi.InlineKeyboardButton
		for _, r := range regions[i:min(i+3, len(regions))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(r, cbTimezone+":"+r))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func zoneMarkup(region string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, zone := range tz.Zones(region) {
		_, city, _ := strings.Cut(zone, "/")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(city, cbTimezone+":"+zone)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« Back", cbTimezone+":"+cbRegionSelection)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
