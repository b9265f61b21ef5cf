// Package generation runs one prompt generation end to end: validation,
// pricing, formatting, optional LLM refinement and the credit debit.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"luxeprompt/internal/catalog"
	"luxeprompt/internal/domain"
	"luxeprompt/internal/domain/jsoncfg"
	"luxeprompt/internal/formatter"
	"luxeprompt/internal/pricing"
	"luxeprompt/internal/providers/prompt"
	"luxeprompt/internal/validation"
)

const (
	SourceLLM   = "llm"
	SourceLocal = "local"

	defaultRefineTimeout = 20 * time.Second
)

type Options struct {
	Credits       domain.CreditRepository
	Usage         domain.UsageRepository
	SystemPrompts domain.SystemPromptRepository
	Refiner       prompt.Refiner
	Logger        zerolog.Logger
	RefineTimeout time.Duration
	BonusCredits  int
	Now           func() time.Time
	NewID         func() string
}

type Service struct {
	credits       domain.CreditRepository
	usage         domain.UsageRepository
	systemPrompts domain.SystemPromptRepository
	refiner       prompt.Refiner
	logger        zerolog.Logger
	refineTimeout time.Duration
	bonusCredits  int
	now           func() time.Time
	newID         func() string
}

func NewService(opts Options) *Service {
	s := &Service{
		credits:       opts.Credits,
		usage:         opts.Usage,
		systemPrompts: opts.SystemPrompts,
		refiner:       opts.Refiner,
		logger:        opts.Logger,
		refineTimeout: opts.RefineTimeout,
		bonusCredits:  opts.BonusCredits,
		now:           opts.Now,
		newID:         opts.NewID,
	}
	if s.refineTimeout <= 0 {
		s.refineTimeout = defaultRefineTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

type GenerateInput struct {
	UserID     string
	RequestID  string
	Spec       jsoncfg.PromptSpec
	Selections jsoncfg.Selections
	Model      jsoncfg.ModelID
	Locale     string
	SkipRefine bool
}

type GenerateResult struct {
	ID            string                    `json:"id"`
	Validation    validation.Result         `json:"validation"`
	Optimizations []validation.Suggestion   `json:"optimizations"`
	Cost          pricing.Breakdown         `json:"cost"`
	Formatted     formatter.FormattedPrompt `json:"formatted"`
	Refined       *prompt.RefineResponse    `json:"refined,omitempty"`
	Output        string                    `json:"output"`
	Source        string                    `json:"source"`
	Balance       domain.CreditBalance      `json:"balance"`
}

type QuoteResult struct {
	Cost          pricing.Breakdown    `json:"cost"`
	Balance       domain.CreditBalance `json:"balance"`
	Affordable    bool                 `json:"affordable"`
	BonusEligible bool                 `json:"bonus_eligible"`
}

// Prepared is a specification resolved against the catalog and checked.
type Prepared struct {
	// Raw is the user's own input after normalization; pricing reads it.
	Raw jsoncfg.PromptSpec
	// Spec has catalog defaults applied; validation and formatting read it.
	Spec       jsoncfg.PromptSpec
	Selections jsoncfg.Selections
	Model      jsoncfg.ModelID
	Validation validation.Result
}

// Prepare normalizes spec, applies catalog picks and validates the result.
// It fails only on malformed parameters or unknown catalog IDs.
func Prepare(spec jsoncfg.PromptSpec, sel jsoncfg.Selections, model jsoncfg.ModelID) (Prepared, error) {
	spec.Normalize()
	if err := spec.Check(); err != nil {
		return Prepared{}, err
	}
	applied, err := catalog.Apply(spec, sel)
	if err != nil {
		return Prepared{}, err
	}
	if strings.TrimSpace(string(model)) == "" {
		model = applied.TargetModel
	} else {
		applied.TargetModel = formatter.Resolve(model)
	}
	return Prepared{
		Raw:        spec,
		Spec:       applied,
		Selections: sel,
		Model:      formatter.Resolve(model),
		Validation: validation.Validate(applied),
	}, nil
}

// Project reduces a prepared request to the pricing view. Advanced options are
// read from the user's own fields so catalog defaults are not charged twice.
func Project(p Prepared, lifetimeGenerations int) pricing.Selections {
	sel := pricing.Selections{
		Model:            p.Model,
		TotalGenerations: lifetimeGenerations,
		Advanced: pricing.AdvancedOptions{
			Lighting:         p.Raw.Lighting != "",
			Scene:            p.Raw.Scene != "" || p.Raw.Background != "",
			CameraAngle:      p.Raw.CameraAngle != "" || p.Raw.Composition != "",
			NegativePrompts:  len(p.Raw.NegativePrompt) > 0,
			CustomParameters: p.Raw.HasCustomParameters(),
		},
	}
	if a, ok := catalog.LookupAesthetic(p.Selections.Aesthetic); ok {
		sel.Aesthetic = a.ID
		sel.AestheticPremium = a.Premium
	}
	if st, ok := catalog.LookupShotType(p.Selections.ShotType); ok {
		sel.ShotType = st.ID
	}
	if w, ok := catalog.LookupWardrobe(p.Selections.Wardrobe); ok {
		sel.Wardrobe = w.ID
	}
	return sel
}

// Quote prices a generation for userID without debiting.
func (s *Service) Quote(ctx context.Context, userID string, spec jsoncfg.PromptSpec, sel jsoncfg.Selections, model jsoncfg.ModelID) (QuoteResult, error) {
	p, err := Prepare(spec, sel, model)
	if err != nil {
		return QuoteResult{}, err
	}
	bal, err := s.credits.GetBalance(ctx, userID)
	if err != nil {
		return QuoteResult{}, fmt.Errorf("quote: %w", err)
	}
	cost, err := pricing.Calculate(Project(p, bal.LifetimeGenerations))
	if err != nil {
		return QuoteResult{}, err
	}
	return QuoteResult{
		Cost:          cost,
		Balance:       bal,
		Affordable:    bal.CanAfford(cost.TotalCost),
		BonusEligible: bal.BonusEligible(),
	}, nil
}

// Generate validates, prices, formats and refines one prompt, then debits
// exactly the quoted total.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	started := s.now()
	p, err := Prepare(in.Spec, in.Selections, in.Model)
	if err != nil {
		return nil, err
	}
	if !p.Validation.IsValid {
		return nil, &InvalidPromptError{Result: p.Validation}
	}

	var (
		bal      domain.CreditBalance
		template string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bal, err = s.credits.GetBalance(gctx, in.UserID)
		return err
	})
	g.Go(func() error {
		template = s.loadTemplate(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load balance: %w", err)
	}

	cost, err := pricing.Calculate(Project(p, bal.LifetimeGenerations))
	if err != nil {
		return nil, err
	}
	if !bal.CanAfford(cost.TotalCost) {
		return nil, &InsufficientCreditsError{Cost: cost.TotalCost, Balance: bal}
	}

	formatted, err := formatter.Format(p.Spec, p.Model)
	if err != nil {
		return nil, err
	}

	res := &GenerateResult{
		ID:            s.newID(),
		Validation:    p.Validation,
		Optimizations: validation.Optimize(p.Spec),
		Cost:          cost,
		Formatted:     formatted,
		Output:        formatted.Full,
		Source:        SourceLocal,
	}
	if !in.SkipRefine {
		res.Refined = s.refine(ctx, prompt.RefineRequest{
			Skeleton: formatted.Full,
			Negative: formatted.Negative,
			Model:    p.Model,
			Locale:   in.Locale,
			Spec:     p.Spec,
			Template: template,
		})
		if r := res.Refined; r != nil && !r.Fallback() && r.Provider != prompt.ProviderStatic && strings.TrimSpace(r.RefinedPrompt) != "" {
			res.Output = r.RefinedPrompt
			res.Source = SourceLLM
		}
	}

	res.Balance, err = s.credits.Debit(ctx, in.UserID, cost.TotalCost)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCredits) {
			return nil, &InsufficientCreditsError{Cost: cost.TotalCost, Balance: bal}
		}
		return nil, fmt.Errorf("debit: %w", err)
	}

	s.recordUsage(ctx, in, res, p, started)
	return res, nil
}

// ClaimBonus grants the first-time bonus when the account is still eligible.
func (s *Service) ClaimBonus(ctx context.Context, userID, requestID string) (domain.CreditBalance, error) {
	bal, err := s.credits.ClaimFirstBonus(ctx, userID, s.bonusCredits)
	if err != nil {
		return domain.CreditBalance{}, err
	}
	if s.usage != nil {
		ev := domain.UsageEvent{
			UserID:     userID,
			RequestID:  requestID,
			EventType:  domain.UsageEventBonusClaim,
			Success:    true,
			Properties: jsoncfg.MustMarshal(map[string]int{"credits": s.bonusCredits}),
		}
		if err := s.usage.Record(ctx, ev); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("record bonus usage failed")
		}
	}
	return bal, nil
}

// Balance returns the current balance for userID.
func (s *Service) Balance(ctx context.Context, userID string) (domain.CreditBalance, error) {
	return s.credits.GetBalance(ctx, userID)
}

// History lists the newest usage events for userID.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]domain.UsageEvent, error) {
	if s.usage == nil {
		return []domain.UsageEvent{}, nil
	}
	return s.usage.ListRecent(ctx, userID, limit)
}

func (s *Service) loadTemplate(ctx context.Context) string {
	if s.systemPrompts == nil {
		return ""
	}
	tpl, err := s.systemPrompts.Get(ctx, prompt.TemplateKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("load refine template failed, using default")
		}
		return ""
	}
	return tpl
}

func (s *Service) refine(ctx context.Context, req prompt.RefineRequest) *prompt.RefineResponse {
	if s.refiner == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.refineTimeout)
	defer cancel()
	res, err := s.refiner.Refine(ctx, req)
	if err != nil {
		s.logger.Warn().Err(err).Str("model", string(req.Model)).Msg("refine failed, using local prompt")
		return nil
	}
	if res != nil && res.Fallback() {
		s.logger.Info().
			Str("provider", res.Provider).
			Str("reason", res.Metadata["fallback_reason"]).
			Msg("refine fell back")
	}
	return res
}

func (s *Service) recordUsage(ctx context.Context, in GenerateInput, res *GenerateResult, p Prepared, started time.Time) {
	if s.usage == nil {
		return
	}
	payload := jsoncfg.UsageEventPayload{
		GenerationID: res.ID,
		Model:        p.Model,
		Cost:         res.Cost.TotalCost,
		Source:       res.Source,
		Completeness: res.Validation.Completeness,
		Aesthetic:    in.Selections.Aesthetic,
		ShotType:     in.Selections.ShotType,
		Wardrobe:     in.Selections.Wardrobe,
	}
	if res.Refined != nil {
		payload.Provider = res.Refined.Provider
	}
	ev := domain.UsageEvent{
		UserID:     in.UserID,
		RequestID:  in.RequestID,
		EventType:  domain.UsageEventGeneration,
		Success:    true,
		LatencyMS:  int(s.now().Sub(started).Milliseconds()),
		Properties: jsoncfg.MustMarshal(payload),
	}
	if err := s.usage.Record(ctx, ev); err != nil {
		s.logger.Error().Err(err).Str("user_id", in.UserID).Str("generation_id", res.ID).Msg("record usage failed")
	}
}
