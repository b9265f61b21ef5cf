package generation

import (
	"fmt"

	"luxeprompt/internal/domain"
	"luxeprompt/internal/validation"
)

// InvalidPromptError carries the validation result that blocked a generation.
type InvalidPromptError struct {
	Result validation.Result
}

func (e *InvalidPromptError) Error() string {
	return fmt.Sprintf("%v: %d blocking conflict(s)", domain.ErrInvalidPrompt, countErrors(e.Result))
}

func (e *InvalidPromptError) Unwrap() error { return domain.ErrInvalidPrompt }

// InsufficientCreditsError reports the quoted cost next to what the account holds.
type InsufficientCreditsError struct {
	Cost    int
	Balance domain.CreditBalance
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("%v: cost %d, balance %d", domain.ErrInsufficientCredits, e.Cost, e.Balance.Credits)
}

func (e *InsufficientCreditsError) Unwrap() error { return domain.ErrInsufficientCredits }

func countErrors(res validation.Result) int {
	n := 0
	for _, c := range res.Conflicts {
		if c.Severity == validation.SeverityError {
			n++
		}
	}
	return n
}
