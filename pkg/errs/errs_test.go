package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/VladPetriv/telegram_bot/pkg/errs"
	"github.com/stretchr/testify/assert"
)

func TestIsExpected(t *testing.T) {
	t.Parallel()

	expectedErr := errs.New("message id is required")

	testCases := [...]struct {
		desc     string
		err      error
		expected bool
	}{
		{
			desc:     "expected error",
			err:      expectedErr,
			expected: true,
		},
		{
			desc:     "wrapped expected error",
			err:      fmt.Errorf("edit message text: %w", expectedErr),
			expected: true,
		},
		{
			desc:     "plain error",
			err:      errors.New("connection refused"),
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, errs.IsExpected(tc.err))
		})
	}
}

func TestErrorsIs(t *testing.T) {
	t.Parallel()

	sentinel := errs.New("invalid command handler")
	wrapped := fmt.Errorf("registry: %w", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, errs.New("invalid command handler")))
}
