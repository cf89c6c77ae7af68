// README: Monthly AI generation allowance per user.
package aiusage

import (
	"context"
	"errors"
	"time"
)

// ErrInsufficientTokens is returned when a user has no tokens remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of tokens granted per month.
const DefaultTokens = 100

// monthLayout formats the reset month, e.g. "2024-06".
const monthLayout = "2006-01"

// Store persists per-user token counters.
// UseToken returns ErrInsufficientTokens when the quota is exhausted or the user is absent.
type Store interface {
	UseToken(ctx context.Context, uid string) error
	EnsureUser(ctx context.Context, uid string) error
}

func currentMonth(now time.Time) string {
	return now.UTC().Format(monthLayout)
}
