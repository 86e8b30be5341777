package proofing

import "time"

// Score maps ocular confirmation and document expiry to a credibility score.
// Scoring is deliberately binary: an unconfirmed or expired document earns no
// trust, anything else earns full trust. The record field stays an int so
// finer-grained scoring can land without a data migration.
func Score(ocularConfirmation bool, expiryDate, now time.Time) int {
	if !ocularConfirmation {
		return 0
	}
	if toDate(expiryDate).Before(toDate(now)) {
		return 0
	}
	return 100
}

// toDate truncates to date precision; a document expiring today is still
// acceptable.
func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
