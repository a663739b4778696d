package ports

import (
	"github.com/disgoorg/snowflake/v2"
)

// NotificationSender defines the interface for sending notifications to Discord channels.
type NotificationSender interface {
	// SendMessage posts a plain text message to the channel.
	SendMessage(channelID snowflake.ID, content string) error
}
