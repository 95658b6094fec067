package storage

import (
	"fmt"
	"time"
)

// Timestamps are persisted as RFC 3339 text in UTC with full nanosecond
// precision. The encoding covers every year the session parser accepts and
// maps equal instants to equal strings, so it can back uniqueness checks.
const storedTimeLayout = time.RFC3339Nano

func encodeTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func decodeTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(storedTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t.In(loc), nil
}

// boundsKey identifies a session by its login and logout instants.
func boundsKey(login, logout time.Time) string {
	return encodeTime(login) + "|" + encodeTime(logout)
}
