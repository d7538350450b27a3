package goIdentity

import (
	"context"
	"testing"
	"time"
)

func TestAddCalendarMonthsClampsToShortMonth(t *testing.T) {
	cases := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{
			name:   "jan 31 clamps to feb 28",
			start:  time.Date(2025, time.January, 31, 10, 30, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2025, time.February, 28, 10, 30, 0, 0, time.UTC),
		},
		{
			name:   "jan 31 clamps to feb 29 in leap year",
			start:  time.Date(2024, time.January, 31, 10, 30, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, time.February, 29, 10, 30, 0, 0, time.UTC),
		},
		{
			name:   "mid month keeps the day",
			start:  time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "year rollover",
			start:  time.Date(2025, time.December, 5, 8, 0, 0, 0, time.UTC),
			months: 2,
			want:   time.Date(2026, time.February, 5, 8, 0, 0, 0, time.UTC),
		},
		{
			name:   "may 31 clamps to june 30",
			start:  time.Date(2025, time.May, 31, 23, 59, 59, 0, time.UTC),
			months: 1,
			want:   time.Date(2025, time.June, 30, 23, 59, 59, 0, time.UTC),
		},
		{
			name:   "twelve months lands on same date",
			start:  time.Date(2025, time.February, 28, 12, 0, 0, 0, time.UTC),
			months: 12,
			want:   time.Date(2026, time.February, 28, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := addCalendarMonths(tc.start, tc.months); !got.Equal(tc.want) {
				t.Fatalf("addCalendarMonths(%v, %d) = %v, want %v", tc.start, tc.months, got, tc.want)
			}
		})
	}
}

func TestIssueTokensOneRecordPerDevice(t *testing.T) {
	store := newMockStore()
	engine, _, done := newTestEngine(t, testConfig(), store)
	defer done()

	user := mustRegister(t, engine, "alice@example.com", "correct horse battery")

	// Two logins from the same device replace, not append.
	if _, err := engine.Login(context.Background(), "alice@example.com", "correct horse battery", "firefox"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := engine.Login(context.Background(), "alice@example.com", "correct horse battery", "firefox"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got := store.tokenCountForUser(user.ID); got != 1 {
		t.Fatalf("expected 1 record for one device, got %d", got)
	}

	// A second device gets its own record.
	if _, err := engine.Login(context.Background(), "alice@example.com", "correct horse battery", "android"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got := store.tokenCountForUser(user.ID); got != 2 {
		t.Fatalf("expected 2 records for two devices, got %d", got)
	}
}

func TestIssueTokensExpirySpansConfiguredMonths(t *testing.T) {
	store := newMockStore()
	cfg := testConfig()
	cfg.Refresh.LifetimeMonths = 3
	engine, _, done := newTestEngine(t, cfg, store)
	defer done()

	mustRegister(t, engine, "alice@example.com", "correct horse battery")
	pair, err := engine.Login(context.Background(), "alice@example.com", "correct horse battery", "firefox")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	want := addCalendarMonths(time.Now().UTC(), 3)
	diff := pair.RefreshToken.ExpiresAt.Sub(want)
	if diff < -time.Minute || diff > time.Minute {
		t.Fatalf("expiry %v not near %v", pair.RefreshToken.ExpiresAt, want)
	}
}
