package domain

import "context"

// CreditRepository persists credit balances. Every write returns the balance after the write.
type CreditRepository interface {
	// GetBalance returns the account, creating it with the default grant on first access.
	GetBalance(ctx context.Context, userID string) (CreditBalance, error)
	// Debit subtracts amount unless the account is unlimited and counts one generation.
	// It fails with ErrInsufficientCredits when the balance does not cover amount.
	Debit(ctx context.Context, userID string, amount int) (CreditBalance, error)
	Grant(ctx context.Context, userID string, amount int, reason string) (CreditBalance, error)
	SetUnlimited(ctx context.Context, userID string, unlimited bool) (CreditBalance, error)
	// ClaimFirstBonus fails with ErrBonusUnavailable once claimed or after the first generation.
	ClaimFirstBonus(ctx context.Context, userID string, amount int) (CreditBalance, error)
}

// UsageRepository records generation activity.
type UsageRepository interface {
	Record(ctx context.Context, event UsageEvent) error
	ListRecent(ctx context.Context, userID string, limit int) ([]UsageEvent, error)
}

// SystemPromptRepository stores editable LLM instruction templates.
type SystemPromptRepository interface {
	Get(ctx context.Context, key string) (string, error)
}
