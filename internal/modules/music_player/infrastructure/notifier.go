package infrastructure

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/tunebot/internal/modules/music_player/application/ports"
)

// maxMessageLength is Discord's limit for message content.
const maxMessageLength = 2000

// MessageSender is the part of discordgo.Session the Notifier uses.
type MessageSender interface {
	ChannelMessageSendComplex(
		channelID string,
		data *discordgo.MessageSend,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
}

// Notifier sends notifications to Discord channels.
type Notifier struct {
	sender MessageSender
}

// NewNotifier creates a new Notifier.
func NewNotifier(sender MessageSender) *Notifier {
	return &Notifier{
		sender: sender,
	}
}

// SendMessage posts content to the channel. Track titles come from user
// queries and providers, so mentions in them are never resolved.
func (n *Notifier) SendMessage(channelID snowflake.ID, content string) error {
	_, err := n.sender.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Content:         truncateMessage(content),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
	return err
}

func truncateMessage(content string) string {
	runes := []rune(content)
	if len(runes) <= maxMessageLength {
		return content
	}
	return string(runes[:maxMessageLength-3]) + "..."
}

// Ensure Notifier implements ports.NotificationSender.
var _ ports.NotificationSender = (*Notifier)(nil)
