package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Notifier pushes short human-readable messages about business events
// (new deals, incoming payments) to a back-office channel. Implementations
// are best-effort collaborators: callers log send failures and move on.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// SlackNotifier posts messages to a fixed Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

func NewSlackNotifier(client *slack.Client, channel string) *SlackNotifier {
	return &SlackNotifier{client: client, channel: channel}
}

func (n *SlackNotifier) Send(ctx context.Context, message string) error {
	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(message, false),
	)
	if err != nil {
		return fmt.Errorf("notify.SlackNotifier.Send: %w", err)
	}
	return nil
}

// NopNotifier is used when Slack is not configured.
type NopNotifier struct{}

func (NopNotifier) Send(context.Context, string) error { return nil }
