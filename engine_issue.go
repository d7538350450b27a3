package goIdentity

import (
	"context"
	"time"

	"github.com/MrEthical07/goIdentity/internal"
)

// issueTokens mints an access token for the user and persists a refresh
// record for the (user, device) pair, replacing any live record for that
// pair. Every successful login, provider login, and refresh funnels through
// here, which is what keeps one record per device an invariant.
func (e *Engine) issueTokens(ctx context.Context, user *User, device string) (*TokenPair, error) {
	access, err := e.jwtManager.CreateAccess(user.ID, user.Email, rolesToStrings(user.Roles))
	if err != nil {
		return nil, err
	}

	refresh, err := internal.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	record := TokenRecord{
		Token:     refresh,
		UserID:    user.ID,
		UserAgent: device,
		ExpiresAt: addCalendarMonths(time.Now().UTC(), e.config.Refresh.LifetimeMonths),
	}

	sctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Store)
	defer cancel()

	if err := e.store.UpsertRefreshTokenByUserAndDevice(sctx, record); err != nil {
		return nil, e.storeErr(sctx, err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: record,
	}, nil
}

// addCalendarMonths advances t by whole calendar months, keeping the
// day-of-month and clamping to the target month's last day when it is
// shorter. Jan 31 plus one month is Feb 28 (29 in leap years), never Mar 2.
func addCalendarMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	target := time.Date(year, month+time.Month(months), 1, hour, min, sec, t.Nanosecond(), t.Location())
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is this month's last day.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
