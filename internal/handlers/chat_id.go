package handlers

import (
	"fmt"

	"github.com/VladPetriv/telegram_bot/internal/telegram"
)

// ChatIDCommand replies with the id of the chat the command came from.
// Useful for discovering chat ids when configuring a debug chat.
type ChatIDCommand struct{}

func (ChatIDCommand) Command() string {
	return "/mychatid"
}

func (ChatIDCommand) Execute(message *telegram.Message) error {
	_, err := message.SendMessage(fmt.Sprintf("Your Chat ID is %d", message.ChatID))
	if err != nil {
		return fmt.Errorf("send chat id message: %w", err)
	}

	return nil
}
