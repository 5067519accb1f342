/*
bonus.go - Time-gated bonus eligibility

PURPOSE:
  Pure functions deciding whether a bonus is claimable given the account
  state and the current time. No I/O here: the Service reads the account,
  asks this engine, and applies the resulting mutation atomically.

DAILY STREAK RULES:
  - No prior claim:        streak becomes 1
  - elapsed <  24h:        rejected, no mutation
  - 24h <= elapsed < 48h:  streak continues (+1)
  - elapsed >= 48h:        streak broken, reset to 1
  Reward is WeeklyBonus (10 GC) on every 7th streak day, DailyBonus (1 GC)
  otherwise.

BOUNDARY POLICY:
  Exactly 24h elapsed counts as eligible; exactly 48h counts as a reset.
  Anything not strictly under the window falls on the stricter side.
*/
package ledger

import "time"

const (
	dailyCooldown = 24 * time.Hour
	streakWindow  = 48 * time.Hour
)

// EvaluateWelcome returns the welcome bonus amount if the account is still
// eligible. One claim per account, ever.
func EvaluateWelcome(acct *Account) (int64, error) {
	if acct.HasClaimedWelcome {
		return 0, ErrWelcomeAlreadyClaimed
	}
	return WelcomeBonus, nil
}

// DailyEvaluation is the outcome of a successful daily-bonus check.
type DailyEvaluation struct {
	Amount int64
	Streak int // streak day number after this claim
}

// EvaluateDaily computes the daily-bonus transition for the account at the
// given instant. Returns ErrDailyNotReady inside the 24h cooldown.
func EvaluateDaily(acct *Account, now time.Time) (DailyEvaluation, error) {
	streak := 1
	if acct.LastDailyClaimAt != nil {
		elapsed := now.Sub(*acct.LastDailyClaimAt)
		switch {
		case elapsed < dailyCooldown:
			return DailyEvaluation{}, ErrDailyNotReady
		case elapsed < streakWindow:
			streak = acct.DailyStreak + 1
		}
	}

	amount := int64(DailyBonus)
	if streak%7 == 0 {
		amount = WeeklyBonus
	}
	return DailyEvaluation{Amount: amount, Streak: streak}, nil
}
