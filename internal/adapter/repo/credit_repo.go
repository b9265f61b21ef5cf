package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"luxeprompt/internal/domain"
	"luxeprompt/internal/infra"
	"luxeprompt/internal/sqlinline"
)

// CreditRepositoryPG implements domain.CreditRepository on top of the audited SQL runner.
type CreditRepositoryPG struct {
	db             infra.SQLExecutor
	defaultCredits int
}

// NewCreditRepository creates a repository that opens new accounts with defaultCredits.
func NewCreditRepository(db infra.SQLExecutor, defaultCredits int) *CreditRepositoryPG {
	return &CreditRepositoryPG{db: db, defaultCredits: defaultCredits}
}

func (r *CreditRepositoryPG) GetBalance(ctx context.Context, userID string) (domain.CreditBalance, error) {
	b, err := scanBalance(r.db.QueryRow(ctx, sqlinline.QEnsureCreditAccount, userID, r.defaultCredits))
	if err != nil {
		return domain.CreditBalance{}, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

func (r *CreditRepositoryPG) Debit(ctx context.Context, userID string, amount int) (domain.CreditBalance, error) {
	if amount < 0 {
		return domain.CreditBalance{}, fmt.Errorf("debit: negative amount %d", amount)
	}
	b, err := scanBalance(r.db.QueryRow(ctx, sqlinline.QDebitCredits, userID, amount))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.CreditBalance{}, domain.ErrInsufficientCredits
	}
	if err != nil {
		return domain.CreditBalance{}, fmt.Errorf("debit: %w", err)
	}
	return b, nil
}

func (r *CreditRepositoryPG) Grant(ctx context.Context, userID string, amount int, reason string) (domain.CreditBalance, error) {
	if amount <= 0 {
		return domain.CreditBalance{}, fmt.Errorf("grant: amount must be positive, got %d", amount)
	}
	if reason == "" {
		reason = "grant"
	}
	b, err := scanBalance(r.db.QueryRow(ctx, sqlinline.QGrantCredits, userID, amount, reason))
	if err != nil {
		return domain.CreditBalance{}, fmt.Errorf("grant: %w", err)
	}
	return b, nil
}

func (r *CreditRepositoryPG) SetUnlimited(ctx context.Context, userID string, unlimited bool) (domain.CreditBalance, error) {
	b, err := scanBalance(r.db.QueryRow(ctx, sqlinline.QSetUnlimited, userID, unlimited))
	if err != nil {
		return domain.CreditBalance{}, fmt.Errorf("set unlimited: %w", err)
	}
	return b, nil
}

func (r *CreditRepositoryPG) ClaimFirstBonus(ctx context.Context, userID string, amount int) (domain.CreditBalance, error) {
	b, err := scanBalance(r.db.QueryRow(ctx, sqlinline.QClaimFirstBonus, userID, amount))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.CreditBalance{}, domain.ErrBonusUnavailable
	}
	if err != nil {
		return domain.CreditBalance{}, fmt.Errorf("claim first bonus: %w", err)
	}
	return b, nil
}

func scanBalance(row pgx.Row) (domain.CreditBalance, error) {
	var b domain.CreditBalance
	if err := row.Scan(&b.UserID, &b.Credits, &b.Unlimited, &b.LifetimeGenerations, &b.FirstBonusClaimed, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CreditBalance{}, domain.ErrNotFound
		}
		return domain.CreditBalance{}, err
	}
	return b, nil
}

var _ domain.CreditRepository = (*CreditRepositoryPG)(nil)
