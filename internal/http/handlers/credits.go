package handlers

import (
	"net/http"

	"luxeprompt/internal/domain"
	"luxeprompt/internal/middleware"
)

type balanceResponse struct {
	Balance       domain.CreditBalance `json:"balance"`
	BonusEligible bool                 `json:"bonus_eligible"`
}

func (a *App) GetCredits(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	bal, err := a.Generation.Balance(r.Context(), userID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, balanceResponse{Balance: bal, BonusEligible: bal.BonusEligible()})
}

func (a *App) ClaimBonus(w http.ResponseWriter, r *http.Request) {
	userID := a.requireUser(w, r)
	if userID == "" {
		return
	}
	bal, err := a.Generation.ClaimBonus(r.Context(), userID, middleware.RequestIDFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, balanceResponse{Balance: bal, BonusEligible: bal.BonusEligible()})
}
