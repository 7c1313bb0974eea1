package telegram

import (
	tele "gopkg.in/telebot.v4"

	"github.com/No1se-pi/moder-bot/internal/topics"
)

// Client adapts the telebot API to the topics.API interface the sweeps use.
// Call timeouts are bounded by the HTTP client the bot was built with.
type Client struct {
	bot *tele.Bot
}

func NewClient(bot *tele.Bot) *Client {
	return &Client{bot: bot}
}

// CloseTopic closes a forum topic. Thread id topics.GeneralThreadID closes
// the general topic, which Telegram addresses through a separate method.
func (c *Client) CloseTopic(chatID int64, threadID int) error {
	chat := &tele.Chat{ID: chatID}
	if threadID == topics.GeneralThreadID {
		return c.bot.CloseGeneralTopic(chat)
	}
	return c.bot.CloseTopic(chat, &tele.Topic{ThreadID: threadID})
}

// ReopenTopic reopens a forum topic, with the same general-topic special case.
func (c *Client) ReopenTopic(chatID int64, threadID int) error {
	chat := &tele.Chat{ID: chatID}
	if threadID == topics.GeneralThreadID {
		return c.bot.ReopenGeneralTopic(chat)
	}
	return c.bot.ReopenTopic(chat, &tele.Topic{ThreadID: threadID})
}
