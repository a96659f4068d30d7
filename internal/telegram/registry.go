package telegram

import (
	"fmt"
	"reflect"

	"github.com/VladPetriv/telegram_bot/pkg/errs"
)

// CommandHandler handles a slash command extracted from a message.
type CommandHandler interface {
	// Command returns the literal command token the handler is keyed
	// by, e.g. "/start". Must be non-empty.
	Command() string
	Execute(message *Message) error
}

// CallbackHandler handles an inline keyboard button press.
type CallbackHandler interface {
	// Callback returns the callback id the handler is keyed by. Must be non-empty.
	Callback() string
	Execute(message *Message, params map[string]string) error
}

// TextHandler handles every message carrying no bot command. The message is
// not guaranteed to have text (e.g. photos), guarding on that is the
// handler's responsibility.
type TextHandler interface {
	Execute(message *Message) error
}

// PollAnswerHandler handles poll answer updates. Poll answers carry no chat
// message to reply into, so the handler receives the raw payload.
type PollAnswerHandler interface {
	Execute(answer PollAnswer) error
}

// Registry construction errors. All of them are fatal: the bot must
// not start with a broken handler registration.
var (
	ErrInvalidCommandHandler  = errs.New("invalid command handler")
	ErrInvalidCallbackHandler = errs.New("invalid callback handler")
	ErrInvalidTextHandler     = errs.New("invalid text handler")
	ErrInvalidPollsHandler    = errs.New("invalid polls handler")
	ErrDuplicateHandler       = errs.New("duplicate handler key")
)

// RegistryOptions represents handlers that are registered in a new registry.
type RegistryOptions struct {
	Commands  []CommandHandler
	Callbacks []CallbackHandler
	// Text handles messages without commands. Defaults to a no-op when nil.
	Text TextHandler
	// PollAnswers handles poll answer updates. Defaults to a no-op when nil.
	PollAnswers PollAnswerHandler
}

// Registry validates and indexes the configured handlers.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	commands    map[string]CommandHandler
	callbacks   map[string]CallbackHandler
	text        TextHandler
	pollAnswers PollAnswerHandler
}

// NewRegistry validates the configured handlers and indexes them by their
// command/callback keys. Runs once at bot construction, not per update.
func NewRegistry(opts RegistryOptions) (*Registry, error) {
	registry := Registry{
		commands:    make(map[string]CommandHandler, len(opts.Commands)),
		callbacks:   make(map[string]CallbackHandler, len(opts.Callbacks)),
		text:        opts.Text,
		pollAnswers: opts.PollAnswers,
	}

	for _, handler := range opts.Commands {
		if isNilHandler(handler) {
			return nil, fmt.Errorf("%T: %w", handler, ErrInvalidCommandHandler)
		}

		command := handler.Command()
		if command == "" {
			return nil, fmt.Errorf("%T has an empty command: %w", handler, ErrInvalidCommandHandler)
		}

		if _, ok := registry.commands[command]; ok {
			return nil, fmt.Errorf("command %q: %w", command, ErrDuplicateHandler)
		}

		registry.commands[command] = handler
	}

	for _, handler := range opts.Callbacks {
		if isNilHandler(handler) {
			return nil, fmt.Errorf("%T: %w", handler, ErrInvalidCallbackHandler)
		}

		callback := handler.Callback()
		if callback == "" {
			return nil, fmt.Errorf("%T has an empty callback: %w", handler, ErrInvalidCallbackHandler)
		}

		if _, ok := registry.callbacks[callback]; ok {
			return nil, fmt.Errorf("callback %q: %w", callback, ErrDuplicateHandler)
		}

		registry.callbacks[callback] = handler
	}

	switch {
	case registry.text == nil:
		registry.text = defaultTextHandler{}
	case isNilHandler(registry.text):
		return nil, fmt.Errorf("%T: %w", registry.text, ErrInvalidTextHandler)
	}

	switch {
	case registry.pollAnswers == nil:
		registry.pollAnswers = defaultPollsHandler{}
	case isNilHandler(registry.pollAnswers):
		return nil, fmt.Errorf("%T: %w", registry.pollAnswers, ErrInvalidPollsHandler)
	}

	return &registry, nil
}

// isNilHandler catches handlers carrying a typed nil value, which a plain
// interface comparison misses.
func isNilHandler(handler any) bool {
	if handler == nil {
		return true
	}

	value := reflect.ValueOf(handler)
	switch value.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return value.IsNil()
	default:
		return false
	}
}

type defaultTextHandler struct{}

func (defaultTextHandler) Execute(*Message) error { return nil }

type defaultPollsHandler struct{}

func (defaultPollsHandler) Execute(PollAnswer) error { return nil }
