package telegram

import (
	"fmt"
	"strings"

	"github.com/VladPetriv/telegram_bot/pkg/logger"
)

// Dispatcher classifies incoming updates and routes them to the registered
// handlers. It holds no mutable state across calls, so concurrent dispatch
// of independent updates is safe. Handler errors are not isolated: the first
// one aborts the dispatch and propagates to the caller.
type Dispatcher struct {
	client   *Client
	registry *Registry
	logger   *logger.Logger
}

// NewDispatcher returns a new instance of dispatcher.
func NewDispatcher(client *Client, registry *Registry, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		client:   client,
		registry: registry,
		logger:   log,
	}
}

// Dispatch routes one decoded update. Every populated branch of the update
// is handled, there's no early return after the first match.
func (d *Dispatcher) Dispatch(update Update) error {
	if update.CallbackQuery != nil {
		err := d.dispatchCallbackQuery(update.CallbackQuery)
		if err != nil {
			return err
		}
	}

	if update.Message != nil {
		err := d.dispatchMessage(update.Message)
		if err != nil {
			return err
		}
	}

	if update.PollAnswer != nil {
		err := d.registry.pollAnswers.Execute(*update.PollAnswer)
		if err != nil {
			return fmt.Errorf("execute polls handler: %w", err)
		}
	}

	return nil
}

// dispatchCallbackQuery resolves the callback handler named by the query
// data and acknowledges the query after a successful dispatch. Unknown or
// foreign callback payloads are dropped silently and never acknowledged.
func (d *Dispatcher) dispatchCallbackQuery(query *CallbackQuery) error {
	if query.Message == nil {
		d.logger.Debug().Str("callbackQueryID", query.ID).Msg("callback query carries no source message, skipping")
		return nil
	}

	callback, params := parseCallbackData(query.Data)
	if callback == "" {
		return nil
	}

	handler, ok := d.registry.callbacks[callback]
	if !ok {
		return nil
	}

	message := d.client.newMessageFromData(query.Message)

	err := handler.Execute(message, params)
	if err != nil {
		return fmt.Errorf("execute callback handler %q: %w", callback, err)
	}

	_, err = message.AnswerCallbackQuery(query.ID)
	if err != nil {
		return fmt.Errorf("answer callback query: %w", err)
	}

	return nil
}

// dispatchMessage fires the handler of every registered command found in the
// message, skipping unregistered ones. Messages without commands always go
// to the text handler, even when they carry no text at all.
func (d *Dispatcher) dispatchMessage(data *MessageData) error {
	message := d.client.newMessageFromData(data)

	if !message.HasCommands() {
		err := d.registry.text.Execute(message)
		if err != nil {
			return fmt.Errorf("execute text handler: %w", err)
		}

		return nil
	}

	for _, command := range message.Commands() {
		handler, ok := d.registry.commands[command]
		if !ok {
			continue
		}

		err := handler.Execute(message)
		if err != nil {
			return fmt.Errorf("execute command handler %q: %w", command, err)
		}
	}

	return nil
}

// parseCallbackData splits callback button data into the target callback id
// and its params. The data is a space separated "key=value" token string
// where the "callback" key names the handler. Malformed tokens are skipped.
func parseCallbackData(data string) (string, map[string]string) {
	var callback string
	params := make(map[string]string)

	for _, token := range strings.Fields(data) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			continue
		}

		if key == "callback" {
			callback = value
			continue
		}

		params[key] = value
	}

	return callback, params
}
