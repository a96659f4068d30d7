package telegram

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf16"

	"github.com/VladPetriv/telegram_bot/pkg/errs"
)

const botCommandEntity = "bot_command"

// ErrNoMessageID is returned when an edit or delete method is called on a
// message context that isn't bound to an existing telegram message.
var ErrNoMessageID = errs.New("message id is required to edit or delete a message")

// Message represents one addressable chat message and provides every
// outgoing telegram action as a method. It's created once per incoming
// update, or explicitly via Client.NewMessage for proactive sends, and is
// owned by a single handler for the duration of one dispatch.
type Message struct {
	client *Client

	// ChatID is an id of the chat the message belongs to.
	ChatID int64
	// MessageID is an id of an existing message. Zero for a freshly
	// constructed outgoing message not yet tied to any message.
	MessageID int64
	// Text is the message text.
	Text string
	// Entities are annotated spans within the message text.
	Entities []MessageEntity
	// ReplyMarkup is the raw markup already attached to the message.
	ReplyMarkup json.RawMessage

	keyboard            *Keyboard
	disableNotification bool
}

// NewMessage returns a message context for proactive sends into the given chat.
func (c *Client) NewMessage(chatID int64) *Message {
	return &Message{
		client: c,
		ChatID: chatID,
	}
}

// newMessageFromData builds a message context from an incoming message payload.
func (c *Client) newMessageFromData(data *MessageData) *Message {
	return &Message{
		client:      c,
		ChatID:      data.Chat.ID,
		MessageID:   data.MessageID,
		Text:        data.Text,
		Entities:    data.Entities,
		ReplyMarkup: data.ReplyMarkup,
	}
}

// WithKeyboard attaches a keyboard merged into every following send.
func (m *Message) WithKeyboard(keyboard *Keyboard) *Message {
	m.keyboard = keyboard
	return m
}

// DisableNotification sends all following messages silently.
func (m *Message) DisableNotification() *Message {
	m.disableNotification = true
	return m
}

// HasCommands reports whether the message text contains bot commands.
func (m *Message) HasCommands() bool {
	for _, entity := range m.Entities {
		if entity.Type == botCommandEntity {
			return true
		}
	}

	return false
}

// Commands returns the literal command tokens extracted from the message
// text. Entity offsets count UTF-16 code units, so the text is sliced in
// that space rather than by bytes or runes.
func (m *Message) Commands() []string {
	var commands []string

	var units []uint16
	for _, entity := range m.Entities {
		if entity.Type != botCommandEntity {
			continue
		}

		if units == nil {
			units = utf16.Encode([]rune(m.Text))
		}

		start, end := entity.Offset, entity.Offset+entity.Length
		if start < 0 || start > end || end > len(units) {
			continue
		}

		commands = append(commands, string(utf16.Decode(units[start:end])))
	}

	return commands
}

// targetChatID resolves the chat all sends are transmitted to. A configured
// debug chat id overrides the real one to firewall a dev bot from real users.
func (m *Message) targetChatID() int64 {
	if m.client.debugChatID != 0 {
		return m.client.debugChatID
	}

	return m.ChatID
}

func (m *Message) basePayload() (map[string]string, error) {
	data := map[string]string{
		"chat_id":              strconv.FormatInt(m.targetChatID(), 10),
		"disable_notification": strconv.FormatBool(m.disableNotification),
	}

	if m.keyboard != nil {
		markup, err := json.Marshal(m.keyboard.Get())
		if err != nil {
			return nil, fmt.Errorf("encode keyboard markup: %w", err)
		}

		data["reply_markup"] = string(markup)
	}

	return data, nil
}

// SendMessage sends a text message into the context's chat.
func (m *Message) SendMessage(text string) (Response, error) {
	data, err := m.basePayload()
	if err != nil {
		return Response{}, err
	}

	data["text"] = text

	return m.client.Post("/sendMessage", data, nil, nil, defaultTimeout)
}

// SendPhoto sends a photo identified by a file id, an url or a local file.
func (m *Message) SendPhoto(photo MediaSource, caption string) (Response, error) {
	return m.sendMedia("/sendPhoto", "photo", photo, caption)
}

// SendAudio sends an audio file to be displayed in the music player.
// The audio must be in the .MP3 or .M4A format.
func (m *Message) SendAudio(audio MediaSource, caption string) (Response, error) {
	return m.sendMedia("/sendAudio", "audio", audio, caption)
}

// SendDocument sends a general file.
func (m *Message) SendDocument(document MediaSource, caption string) (Response, error) {
	return m.sendMedia("/sendDocument", "document", document, caption)
}

// SendVideo sends a video. Telegram clients support MPEG4 videos,
// other formats may be sent as a document.
func (m *Message) SendVideo(video MediaSource, caption string) (Response, error) {
	return m.sendMedia("/sendVideo", "video", video, caption)
}

// SendAnimation sends an animation file (GIF or H.264/MPEG-4 AVC video without sound).
func (m *Message) SendAnimation(animation MediaSource, caption string) (Response, error) {
	return m.sendMedia("/sendAnimation", "animation", animation, caption)
}

// SendVoice sends an audio file displayed as a playable voice message.
// The audio must be in an .OGG file encoded with OPUS, .MP3 or .M4A format.
func (m *Message) SendVoice(voice MediaSource, caption string) (Response, error) {
	return m.sendMedia("/sendVoice", "voice", voice, caption)
}

func (m *Message) sendMedia(method, field string, media MediaSource, caption string) (Response, error) {
	data, err := m.basePayload()
	if err != nil {
		return Response{}, err
	}

	if caption != "" {
		data["caption"] = caption
	}

	if media.file != nil {
		return m.client.Post(method, data, media.file.withField(field), nil, defaultTimeout)
	}

	data[field] = media.ref

	return m.client.Post(method, data, nil, nil, defaultTimeout)
}

// SendLocation sends a point on the map.
func (m *Message) SendLocation(latitude, longitude float64) (Response, error) {
	data, err := m.basePayload()
	if err != nil {
		return Response{}, err
	}

	data["latitude"] = strconv.FormatFloat(latitude, 'f', -1, 64)
	data["longitude"] = strconv.FormatFloat(longitude, 'f', -1, 64)

	return m.client.Post("/sendLocation", data, nil, nil, defaultTimeout)
}

// SendPoll sends a native poll.
func (m *Message) SendPoll(poll *Poll) (Response, error) {
	data, err := m.basePayload()
	if err != nil {
		return Response{}, err
	}

	for key, value := range poll.Get() {
		data[key] = formValue(value)
	}

	return m.client.Post("/sendPoll", data, nil, nil, defaultTimeout)
}

// EditMessageText replaces the text of the message the context is bound to,
// keeping its already attached reply markup.
func (m *Message) EditMessageText(text string) (Response, error) {
	if m.MessageID == 0 {
		return Response{}, fmt.Errorf("edit message text: %w", ErrNoMessageID)
	}

	data := map[string]string{
		"chat_id":    strconv.FormatInt(m.ChatID, 10),
		"message_id": strconv.FormatInt(m.MessageID, 10),
		"text":       text,
	}

	if len(m.ReplyMarkup) != 0 {
		data["reply_markup"] = string(m.ReplyMarkup)
	}

	return m.client.Post("/editMessageText", data, nil, nil, defaultTimeout)
}

// EditMessageReplyMarkup replaces the reply markup of the message the context is bound to.
func (m *Message) EditMessageReplyMarkup(markup map[string]any) (Response, error) {
	if m.MessageID == 0 {
		return Response{}, fmt.Errorf("edit message reply markup: %w", ErrNoMessageID)
	}

	encoded, err := json.Marshal(markup)
	if err != nil {
		return Response{}, fmt.Errorf("encode reply markup: %w", err)
	}

	return m.client.Post("/editMessageReplyMarkup", map[string]string{
		"chat_id":      strconv.FormatInt(m.ChatID, 10),
		"message_id":   strconv.FormatInt(m.MessageID, 10),
		"reply_markup": string(encoded),
	}, nil, nil, defaultTimeout)
}

// EditMessageKeyboard replaces the keyboard of the message the context is bound to.
func (m *Message) EditMessageKeyboard(keyboard *Keyboard) (Response, error) {
	if m.MessageID == 0 {
		return Response{}, fmt.Errorf("edit message keyboard: %w", ErrNoMessageID)
	}

	return m.EditMessageReplyMarkup(keyboard.Get())
}

// DeleteMessage deletes the message the context is bound to.
// A message can only be deleted if it was sent less than 48 hours ago.
func (m *Message) DeleteMessage() (Response, error) {
	if m.MessageID == 0 {
		return Response{}, fmt.Errorf("delete message: %w", ErrNoMessageID)
	}

	return m.client.Post("/deleteMessage", map[string]string{
		"chat_id":    strconv.FormatInt(m.ChatID, 10),
		"message_id": strconv.FormatInt(m.MessageID, 10),
	}, nil, nil, defaultTimeout)
}

// AnswerCallbackQuery acknowledges a callback query sent from an inline keyboard.
func (m *Message) AnswerCallbackQuery(callbackQueryID string) (Response, error) {
	return m.client.Post("/answerCallbackQuery", map[string]string{
		"callback_query_id": callbackQueryID,
	}, nil, nil, defaultTimeout)
}

// BanChatMember bans a user in a group, a supergroup or a channel. The bot
// must be an administrator with the appropriate rights. Pass revokeMessages
// to delete all messages from the chat for the removed user. UntilDate is a
// unix time the ban expires at, zero means forever.
func (m *Message) BanChatMember(userID int64, revokeMessages bool, untilDate int64) (Response, error) {
	data := map[string]string{
		"chat_id":         strconv.FormatInt(m.targetChatID(), 10),
		"user_id":         strconv.FormatInt(userID, 10),
		"revoke_messages": strconv.FormatBool(revokeMessages),
	}

	if untilDate != 0 {
		data["until_date"] = strconv.FormatInt(untilDate, 10)
	}

	return m.client.Post("/banChatMember", data, nil, nil, defaultTimeout)
}

// UnbanChatMember unbans a previously banned user in a supergroup or
// channel. With onlyIfBanned unset a user who is still a member of the chat
// gets removed from it.
func (m *Message) UnbanChatMember(userID int64, onlyIfBanned bool) (Response, error) {
	return m.client.Post("/unbanChatMember", map[string]string{
		"chat_id":        strconv.FormatInt(m.targetChatID(), 10),
		"user_id":        strconv.FormatInt(userID, 10),
		"only_if_banned": strconv.FormatBool(onlyIfBanned),
	}, nil, nil, defaultTimeout)
}

// SetChatTitle changes the title of a chat. Titles can't be changed for private chats.
func (m *Message) SetChatTitle(title string) (Response, error) {
	return m.client.Post("/setChatTitle", map[string]string{
		"chat_id": strconv.FormatInt(m.ChatID, 10),
		"title":   title,
	}, nil, nil, defaultTimeout)
}

// SetChatDescription changes the description of a group, a supergroup or a channel.
func (m *Message) SetChatDescription(description string) (Response, error) {
	return m.client.Post("/setChatDescription", map[string]string{
		"chat_id":     strconv.FormatInt(m.ChatID, 10),
		"description": description,
	}, nil, nil, defaultTimeout)
}

// GetMe returns basic information about the bot.
func (m *Message) GetMe() (Response, error) {
	return m.client.GetMe()
}

// MediaSource identifies media either by a telegram file id /
// http url or by a local file uploaded as multipart.
type MediaSource struct {
	ref  string
	file *File
}

// MediaRef identifies media by a telegram file id or an http url.
func MediaRef(ref string) MediaSource {
	return MediaSource{ref: ref}
}

// MediaFile identifies media by a local file routed as a multipart upload.
func MediaFile(file *File) MediaSource {
	return MediaSource{file: file}
}

func formValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
