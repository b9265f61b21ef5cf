package domain

import "time"

// CreditBalance is the spendable state of one account.
type CreditBalance struct {
	UserID              string    `json:"user_id"`
	Credits             int       `json:"credits"`
	Unlimited           bool      `json:"unlimited"`
	LifetimeGenerations int       `json:"lifetime_generations"`
	FirstBonusClaimed   bool      `json:"first_bonus_claimed"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CanAfford reports whether a generation of the given cost can be debited.
func (b CreditBalance) CanAfford(cost int) bool {
	return b.Unlimited || b.Credits >= cost
}

// BonusEligible reports whether the first-time bonus may still be claimed.
func (b CreditBalance) BonusEligible() bool {
	return !b.FirstBonusClaimed && b.LifetimeGenerations == 0
}
