package alert

import "context"

// Kind labels why a fixture qualified for a notification.
type Kind string

const (
	KindStandard    Kind = "STANDARD"
	KindHighProb    Kind = "HIGH_PROB"
	KindKickoffSoon Kind = "KICKOFF_SOON"
)

// Store is the durable set of fixture identities that already triggered a
// notification. Add persists a whole batch at once; a crash between
// dispatch and Add may repeat a notification on the next cycle, which is
// the accepted trade-off (at-least-once, never silently lost).
type Store interface {
	Contains(ctx context.Context, identity string) (bool, error)
	Add(ctx context.Context, identities []string) error
}
