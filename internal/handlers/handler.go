package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"leetbot/internal/game"
	"leetbot/internal/models"
	"leetbot/internal/scheduler"
	"leetbot/internal/storage"
)

type Handler struct {
	Bot        *tgbotapi.BotAPI
	DB         *storage.DB
	Game       *game.Game
	Challenges *scheduler.Challenges
	Log        *zap.Logger

	// AIEnabledChats get the AI flag switched on when the bot joins them.
	AIEnabledChats map[int64]bool
}

// HandleUpdate routes one polled update. Each variant gets its own handler;
// member events are checked first because telegram delivers them as messages.
func (h *Handler) HandleUpdate(upd tgbotapi.Update) {
	switch {
	case upd.Message != nil && len(upd.Message.NewChatMembers) > 0:
		h.HandleMemberAdded(upd.Message)
	case upd.Message != nil && upd.Message.LeftChatMember != nil:
		h.HandleMemberRemoved(upd.Message)
	case upd.Message != nil && upd.Message.IsCommand():
		h.HandleCommand(upd.Message)
	case upd.Message != nil:
		h.HandleChat(upd.Message)
	case upd.CallbackQuery != nil:
		h.HandleCallback(upd.CallbackQuery)
	}
}

// HandleChat feeds a plain chat message into the scoring state machine.
func (h *Handler) HandleChat(msg *tgbotapi.Message) {
	if !isGroup(msg) {
		h.send(msg.Chat.ID, fmt.Sprintf(
			"I'm sorry, I can't handle messages of type %q", msg.Chat.Type))
		return
	}
	sender := participant(msg.From)
	if err := h.Game.HandleMessage(msg.Chat.ID, sender, msg.Time(), msg.Text); err != nil {
		h.Log.Error("handling group message",
			zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

func (h *Handler) HandleMemberAdded(msg *tgbotapi.Message) {
	for _, member := range msg.NewChatMembers {
		if member.ID == h.Bot.Self.ID {
			h.Log.Info("added to group", zap.Int64("chat_id", msg.Chat.ID))
			h.send(msg.Chat.ID, "Hi! Would you mind telling me your /timezone?")
			if h.AIEnabledChats[msg.Chat.ID] {
				if err := h.DB.SetUseAI(msg.Chat.ID, true); err != nil {
					h.Log.Error("enabling AI", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
				}
			}
		}
	}
}

func (h *Handler) HandleMemberRemoved(msg *tgbotapi.Message) {
	if msg.LeftChatMember.ID != h.Bot.Self.ID {
		return
	}
	h.Log.Info("removed from group", zap.Int64("chat_id", msg.Chat.ID))
	h.Challenges.Cancel(msg.Chat.ID)
	// best effort, leftovers are harmless
	if err := h.DB.ClearChat(msg.Chat.ID); err != nil {
		h.Log.Error("clearing chat data", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

// ---------- game.Notifier ---------------------------------------------------

func (h *Handler) SendMessage(chatID int64, text string) {
	h.send(chatID, text)
}

func (h *Handler) SendTyping(chatID int64) {
	_, _ = h.Bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping))
}

// ---------------------------------------------------------------------------

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.Log.Error("sending message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func participant(u *tgbotapi.User) models.Participant {
	return models.Participant{ID: u.ID, Name: u.FirstName}
}

func isGroup(msg *tgbotapi.Message) bool {
	return msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()
}
