package infrastructure

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNotifier_SendMessage(t *testing.T) {
	sender := &fakeMessageSender{}
	notifier := NewNotifier(sender)

	if err := notifier.SendMessage(123, "Now Playing: `@everyone`"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sender.channelID != "123" {
		t.Errorf("expected channel %q, got %q", "123", sender.channelID)
	}
	if sender.sent.Content != "Now Playing: `@everyone`" {
		t.Errorf("unexpected content %q", sender.sent.Content)
	}
	if sender.sent.AllowedMentions == nil || len(sender.sent.AllowedMentions.Parse) != 0 {
		t.Error("expected mentions to be suppressed")
	}
}

func TestNotifier_SendMessage_Truncates(t *testing.T) {
	sender := &fakeMessageSender{}
	notifier := NewNotifier(sender)

	if err := notifier.SendMessage(1, strings.Repeat("é", 2500)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := utf8.RuneCountInString(sender.sent.Content); n != maxMessageLength {
		t.Errorf("expected %d characters, got %d", maxMessageLength, n)
	}
	if !strings.HasSuffix(sender.sent.Content, "...") {
		t.Error("expected truncated content to end with an ellipsis")
	}
}

func TestNotifier_SendMessage_Error(t *testing.T) {
	expectedErr := errors.New("missing access")
	notifier := NewNotifier(&fakeMessageSender{err: expectedErr})

	err := notifier.SendMessage(1, "hello")
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}
