package telegram

import "encoding/json"

// Update represents an incoming event delivered by Telegram.
// Exactly one of the optional fields is populated in practice.
// https://core.telegram.org/bots/api#update
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *MessageData   `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
	PollAnswer    *PollAnswer    `json:"poll_answer,omitempty"`
}

// MessageData represents a telegram message payload.
// https://core.telegram.org/bots/api#message
type MessageData struct {
	MessageID   int64           `json:"message_id"`
	From        *User           `json:"from,omitempty"`
	Chat        Chat            `json:"chat"`
	Date        int64           `json:"date,omitempty"`
	Text        string          `json:"text,omitempty"`
	Entities    []MessageEntity `json:"entities,omitempty"`
	ReplyMarkup json.RawMessage `json:"reply_markup,omitempty"`
}

// Chat represents a telegram chat.
type Chat struct {
	ID        int64  `json:"id"`
	Type      string `json:"type,omitempty"`
	Title     string `json:"title,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// User represents a telegram user or bot.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// MessageEntity represents a special annotated span within message text.
// Offset and Length count UTF-16 code units, not bytes.
// https://core.telegram.org/bots/api#messageentity
type MessageEntity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	URL    string `json:"url,omitempty"`
}

// CallbackQuery represents a payload generated when a user
// presses an inline keyboard button.
// https://core.telegram.org/bots/api#callbackquery
type CallbackQuery struct {
	ID      string       `json:"id"`
	From    *User        `json:"from,omitempty"`
	Message *MessageData `json:"message,omitempty"`
	Data    string       `json:"data,omitempty"`
}

// PollAnswer represents an answer of a user in a non-anonymous poll.
// https://core.telegram.org/bots/api#pollanswer
type PollAnswer struct {
	PollID    string `json:"poll_id"`
	User      *User  `json:"user,omitempty"`
	OptionIDs []int  `json:"option_ids"`
}

// APIResponse represents a standard telegram API response envelope.
// https://core.telegram.org/bots/api#making-requests
type APIResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}
