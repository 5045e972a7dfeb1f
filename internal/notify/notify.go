// Package notify defines the push-notification boundary. Delivery itself is
// an external collaborator; the core only needs fire-and-don't-block.
package notify

import (
	"context"
	"log"
)

// Message is one push payload addressed to a single registration token.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Notifier delivers best-effort. Implementations must respect ctx and must
// not retry; callers log failures and move on.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier is the default implementation: it records the dispatch and
// succeeds. Wiring a real push provider means swapping this out in main.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, msg Message) error {
	log.Printf("[NOTIFY] token=%s title=%q body=%q", truncateToken(msg.Token), msg.Title, msg.Body)
	return nil
}

func truncateToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8] + "..."
}
