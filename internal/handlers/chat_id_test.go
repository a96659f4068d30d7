package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VladPetriv/telegram_bot/internal/handlers"
	"github.com/VladPetriv/telegram_bot/internal/telegram"
	"github.com/VladPetriv/telegram_bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ telegram.CommandHandler = handlers.ChatIDCommand{}

func TestChatIDCommand(t *testing.T) {
	t.Parallel()

	sentText := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		sentText <- r.FormValue("text")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":1}}`)
	}))
	t.Cleanup(server.Close)

	client := telegram.NewClient(telegram.ClientOptions{
		APIURL: server.URL + "/bot",
		Token:  "token",
		Logger: logger.New(logger.Options{LogLevel: "debug"}),
	})

	command := handlers.ChatIDCommand{}
	assert.Equal(t, "/mychatid", command.Command())

	err := command.Execute(client.NewMessage(55))
	require.NoError(t, err)

	assert.Equal(t, "Your Chat ID is 55", <-sentText)
}
