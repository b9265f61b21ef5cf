package repo

import (
	"context"
	"errors"
	"testing"

	"luxeprompt/internal/domain"
	"luxeprompt/internal/sqlinline"
)

const testUserID = "7b0c6c55-3c1e-4d7a-9d4b-2f9a1e0c8b11"

func TestCreditRepositoryGetBalanceCreatesWithDefault(t *testing.T) {
	exec := &stubExecutor{row: balanceRow(testUserID, 5, false, 0, false)}
	r := NewCreditRepository(exec, 5)

	b, err := r.GetBalance(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("GetBalance returned error: %v", err)
	}
	if b.Credits != 5 || b.UserID != testUserID {
		t.Fatalf("balance = %+v", b)
	}
	if len(exec.calls) != 1 || exec.calls[0].query != sqlinline.QEnsureCreditAccount {
		t.Fatalf("calls = %+v", exec.calls)
	}
	if got := exec.calls[0].args[1]; got != 5 {
		t.Fatalf("default credits arg = %v, want 5", got)
	}
}

func TestCreditRepositoryDebit(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		exec := &stubExecutor{row: balanceRow(testUserID, 2, false, 1, true)}
		b, err := NewCreditRepository(exec, 5).Debit(context.Background(), testUserID, 8)
		if err != nil {
			t.Fatalf("Debit returned error: %v", err)
		}
		if b.Credits != 2 || b.LifetimeGenerations != 1 {
			t.Fatalf("balance = %+v", b)
		}
		if exec.calls[0].query != sqlinline.QDebitCredits || exec.calls[0].args[1] != 8 {
			t.Fatalf("calls = %+v", exec.calls)
		}
	})
	t.Run("insufficient", func(t *testing.T) {
		exec := &stubExecutor{}
		_, err := NewCreditRepository(exec, 5).Debit(context.Background(), testUserID, 8)
		if !errors.Is(err, domain.ErrInsufficientCredits) {
			t.Fatalf("err = %v, want ErrInsufficientCredits", err)
		}
	})
	t.Run("negative", func(t *testing.T) {
		exec := &stubExecutor{}
		if _, err := NewCreditRepository(exec, 5).Debit(context.Background(), testUserID, -1); err == nil {
			t.Fatal("expected error for negative debit")
		}
		if len(exec.calls) != 0 {
			t.Fatalf("no query expected, got %+v", exec.calls)
		}
	})
}

func TestCreditRepositoryGrant(t *testing.T) {
	exec := &stubExecutor{row: balanceRow(testUserID, 55, false, 3, true)}
	b, err := NewCreditRepository(exec, 5).Grant(context.Background(), testUserID, 50, "")
	if err != nil {
		t.Fatalf("Grant returned error: %v", err)
	}
	if b.Credits != 55 {
		t.Fatalf("Credits = %d, want 55", b.Credits)
	}
	if exec.calls[0].args[2] != "grant" {
		t.Fatalf("reason = %v, want default grant", exec.calls[0].args[2])
	}
	if _, err := NewCreditRepository(exec, 5).Grant(context.Background(), testUserID, 0, "pack"); err == nil {
		t.Fatal("expected error for zero grant")
	}
}

func TestCreditRepositoryClaimFirstBonus(t *testing.T) {
	exec := &stubExecutor{row: balanceRow(testUserID, 10, false, 0, true)}
	b, err := NewCreditRepository(exec, 5).ClaimFirstBonus(context.Background(), testUserID, 5)
	if err != nil {
		t.Fatalf("ClaimFirstBonus returned error: %v", err)
	}
	if !b.FirstBonusClaimed || b.Credits != 10 {
		t.Fatalf("balance = %+v", b)
	}

	_, err = NewCreditRepository(&stubExecutor{}, 5).ClaimFirstBonus(context.Background(), testUserID, 5)
	if !errors.Is(err, domain.ErrBonusUnavailable) {
		t.Fatalf("err = %v, want ErrBonusUnavailable", err)
	}
}

func TestCreditRepositorySetUnlimitedMissingAccount(t *testing.T) {
	_, err := NewCreditRepository(&stubExecutor{}, 5).SetUnlimited(context.Background(), testUserID, true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
