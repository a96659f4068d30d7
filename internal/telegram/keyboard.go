package telegram

import (
	"sort"
	"strings"
)

const defaultButtonsInRow = 4

// Keyboard builds a reply markup structure for outgoing messages.
type Keyboard struct {
	inline       bool
	resizable    bool
	oneTime      bool
	selective    bool
	placeholder  string
	buttonsInRow int
	buttons      []map[string]string
}

// NewKeyboard returns a new keyboard builder.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		buttonsInRow: defaultButtonsInRow,
	}
}

// Inline marks the keyboard as an inline one attached to a message.
func (k *Keyboard) Inline() *Keyboard {
	k.inline = true
	return k
}

// Resizable lets telegram clients fit the keyboard height to its buttons.
func (k *Keyboard) Resizable() *Keyboard {
	k.resizable = true
	return k
}

// OneTime hides the keyboard as soon as it's been used.
func (k *Keyboard) OneTime() *Keyboard {
	k.oneTime = true
	return k
}

// Selective shows the keyboard to specific users only.
func (k *Keyboard) Selective() *Keyboard {
	k.selective = true
	return k
}

// Placeholder sets the text shown in the input field when the keyboard is active.
func (k *Keyboard) Placeholder(text string) *Keyboard {
	k.placeholder = text
	return k
}

// ButtonsInRow sets the number of buttons per keyboard row.
func (k *Keyboard) ButtonsInRow(count int) *Keyboard {
	if count > 0 {
		k.buttonsInRow = count
	}

	return k
}

// AddButton appends a button. A non-empty callback name makes the button
// press dispatchable: its data is encoded as space separated
// "callback=<name> key=value" tokens which the dispatcher parses back.
func (k *Keyboard) AddButton(text, callback string, params map[string]string) *Keyboard {
	button := map[string]string{"text": text}

	if callback != "" {
		button["callback_data"] = encodeCallbackData(callback, params)
	}

	k.buttons = append(k.buttons, button)

	return k
}

// AddLink appends a button opening the given url.
func (k *Keyboard) AddLink(text, url string) *Keyboard {
	button := map[string]string{"text": text}

	if url != "" {
		button["url"] = url
	}

	k.buttons = append(k.buttons, button)

	return k
}

// Get renders the final reply markup structure, chunking the
// buttons into rows. The last row may be shorter.
func (k *Keyboard) Get() map[string]any {
	rows := make([][]map[string]string, 0, (len(k.buttons)+k.buttonsInRow-1)/k.buttonsInRow)
	for start := 0; start < len(k.buttons); start += k.buttonsInRow {
		end := min(start+k.buttonsInRow, len(k.buttons))
		rows = append(rows, k.buttons[start:end])
	}

	markupType := "keyboard"
	if k.inline {
		markupType = "inline_keyboard"
	}

	keyboard := map[string]any{
		markupType: rows,
	}

	if k.resizable {
		keyboard["resize_keyboard"] = true
	}
	if k.oneTime {
		keyboard["one_time_keyboard"] = true
	}
	if k.selective {
		keyboard["selective"] = true
	}
	if k.placeholder != "" {
		keyboard["input_field_placeholder"] = k.placeholder
	}

	return keyboard
}

// encodeCallbackData renders callback button data. Params are sorted by key
// to keep the encoding deterministic.
func encodeCallbackData(callback string, params map[string]string) string {
	tokens := make([]string, 0, len(params)+1)
	tokens = append(tokens, "callback="+callback)

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		tokens = append(tokens, key+"="+params[key])
	}

	return strings.Join(tokens, " ")
}
