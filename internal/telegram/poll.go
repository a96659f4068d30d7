package telegram

import "encoding/json"

// Poll builds a payload for the sendPoll api method.
type Poll struct {
	question              string
	options               string
	pollType              string
	allowsMultipleAnswers bool
	correctOptionID       int
	explanation           string
	openPeriod            int
	isAnonymous           bool
	isClosed              bool
}

// NewPoll returns a new regular anonymous poll builder.
// Question is limited to 1-300 characters, options to 2-10 entries.
func NewPoll(question string, options []string) *Poll {
	encodedOptions, _ := json.Marshal(options) //nolint:errcheck // a string slice always marshals

	return &Poll{
		question:    question,
		options:     string(encodedOptions),
		pollType:    "regular",
		isAnonymous: true,
	}
}

// NotAnonymous makes the poll votes visible.
func (p *Poll) NotAnonymous() *Poll {
	p.isAnonymous = false
	return p
}

// Quiz switches the poll to quiz mode. CorrectOptionID is a 0-based index of
// the right answer, explanation is shown when a user answers incorrectly.
func (p *Poll) Quiz(correctOptionID int, explanation string) *Poll {
	p.pollType = "quiz"
	p.correctOptionID = correctOptionID
	p.explanation = explanation

	return p
}

// AllowsMultipleAnswers lets users pick several options.
func (p *Poll) AllowsMultipleAnswers() *Poll {
	p.allowsMultipleAnswers = true
	return p
}

// OpenPeriod sets the amount of time in seconds the poll
// will be active after creation, 5-600.
func (p *Poll) OpenPeriod(seconds int) *Poll {
	p.openPeriod = seconds
	return p
}

// Closed creates the poll in an already closed state.
func (p *Poll) Closed() *Poll {
	p.isClosed = true
	return p
}

// Get renders the sendPoll payload. Explanation and open period
// are included only when set.
func (p *Poll) Get() map[string]any {
	data := map[string]any{
		"question":                p.question,
		"options":                 p.options,
		"type":                    p.pollType,
		"allows_multiple_answers": p.allowsMultipleAnswers,
		"correct_option_id":       p.correctOptionID,
		"is_anonymous":            p.isAnonymous,
		"is_closed":               p.isClosed,
	}

	if p.explanation != "" {
		data["explanation"] = p.explanation
	}

	if p.openPeriod != 0 {
		data["open_period"] = p.openPeriod
	}

	return data
}
