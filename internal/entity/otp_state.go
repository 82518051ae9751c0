package entity

import (
	"crypto/subtle"
	"time"
)

type OTPPhase string

const (
	OTPPhaseNotStarted OTPPhase = "not_started"
	OTPPhasePending    OTPPhase = "pending"
	OTPPhaseLocked     OTPPhase = "locked"
)

type OTPOutcome int

const (
	OTPOutcomeOK OTPOutcome = iota
	OTPOutcomeMismatch
	OTPOutcomeExpired
	OTPOutcomeLocked
)

const (
	OTPCodeTTL     = 5 * time.Minute
	OTPLockoutTTL  = 5 * time.Minute
	OTPMaxAttempts = 5
)

// OTPState is the lifecycle of one emailed verification code. Transitions
// return a new value; the caller persists whatever comes back.
type OTPState struct {
	Code        *string    `gorm:"column:code;type:varchar(16)"`
	ExpiresAt   *time.Time `gorm:"column:expires_at"`
	Attempts    int        `gorm:"column:attempts;default:0;not null"`
	LockedUntil *time.Time `gorm:"column:locked_until"`
}

func (s OTPState) Phase(now time.Time) OTPPhase {
	if s.LockedUntil != nil && s.LockedUntil.After(now) {
		return OTPPhaseLocked
	}
	if s.Code != nil {
		return OTPPhasePending
	}
	return OTPPhaseNotStarted
}

// Issue starts a fresh pending code. Attempts reset and any lock is cleared,
// regardless of the previous phase.
func (s OTPState) Issue(code string, now time.Time) OTPState {
	expires := now.Add(OTPCodeTTL)
	return OTPState{Code: &code, ExpiresAt: &expires}
}

// Verify applies one verification attempt. A locked state rejects every code
// without counting the attempt. A mismatch counts, and the attempt that
// reaches the limit sets the lock. A matching but stale code expires without
// counting. A match clears the state entirely.
func (s OTPState) Verify(code string, now time.Time) (OTPState, OTPOutcome) {
	if s.LockedUntil != nil && s.LockedUntil.After(now) {
		return s, OTPOutcomeLocked
	}
	if s.Code == nil || subtle.ConstantTimeCompare([]byte(*s.Code), []byte(code)) != 1 {
		next := s
		next.Attempts++
		if next.Attempts >= OTPMaxAttempts {
			until := now.Add(OTPLockoutTTL)
			next.LockedUntil = &until
			return next, OTPOutcomeLocked
		}
		return next, OTPOutcomeMismatch
	}
	if s.ExpiresAt == nil || s.ExpiresAt.Before(now) {
		return s, OTPOutcomeExpired
	}
	return OTPState{}, OTPOutcomeOK
}
