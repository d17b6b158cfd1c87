package demographics

import (
	"strings"
	"time"

	"github.com/he2-ai/backoffice-backend/pkg/enums"
)

// Classify maps an email address onto a user segment. Profiles without an
// email are always external; the match is on the lower-cased domain part
// against the engine's internal-domain allow-list.
func (e *Engine) Classify(email string) enums.UserSegment {
	trimmed := strings.TrimSpace(strings.ToLower(email))
	at := strings.LastIndex(trimmed, "@")
	if at < 0 || at == len(trimmed)-1 {
		return enums.UserSegmentExternal
	}
	domain := trimmed[at+1:]
	if _, ok := e.internalDomains[domain]; ok {
		return enums.UserSegmentInternal
	}
	return enums.UserSegmentExternal
}

// passes applies the three filter predicates (segment, referral, date range)
// with logical AND. cutoff is zero when the range carries no cutoff.
func (e *Engine) passes(rec UserRecord, filter FilterSpec, cutoff time.Time) bool {
	if e.Classify(rec.Email) != filter.Segment {
		return false
	}

	if filter.Referral != ReferralAll {
		referral := rec.ReferralSource
		if strings.TrimSpace(referral) == "" {
			referral = fallbackReferral
		}
		if referral != filter.Referral {
			return false
		}
	}

	if !cutoff.IsZero() && rec.CreatedAt.Before(cutoff) {
		return false
	}

	return true
}

// cutoffFor resolves a range preset into its inclusive signup cutoff:
// start of day, N days before now. The zero time means no cutoff.
func (e *Engine) cutoffFor(rng enums.DateRange) time.Time {
	days, ok := rng.Days()
	if !ok {
		return time.Time{}
	}
	now := e.now().UTC()
	day := now.AddDate(0, 0, -days)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
