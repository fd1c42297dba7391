// Package notify pushes alerts about failed conversation turns to an
// external channel. Failures are already recorded in the session log; the
// notifier only makes them visible to operators.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"

	"github.com/gosuda/brainstorm/internal/session"
)

// Slack posts turn failures to a Slack incoming webhook.
type Slack struct {
	webhookURL string
}

// Compile-time interface check.
var _ session.Notifier = (*Slack)(nil) //nolint:gochecknoglobals // compile-time check

// NewSlack creates a notifier posting to the given incoming webhook URL.
func NewSlack(webhookURL string) *Slack {
	return &Slack{webhookURL: webhookURL}
}

// TurnFailed posts an alert for a turn whose generation failed. Delivery
// errors are logged and swallowed: notification must never affect the
// session itself.
func (n *Slack) TurnFailed(ctx context.Context, sessionID, agentName string) {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf(":warning: agent %q failed to generate a response in session `%s`", agentName, sessionID),
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		log.Warn().
			Err(err).
			Str("session_id", sessionID).
			Str("agent", agentName).
			Msg("slack notification failed")
		return
	}

	log.Debug().
		Str("session_id", sessionID).
		Str("agent", agentName).
		Msg("turn failure reported to slack")
}
