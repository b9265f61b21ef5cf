package repo

import (
	"context"
	"fmt"

	"luxeprompt/internal/domain"
	"luxeprompt/internal/infra"
	"luxeprompt/internal/sqlinline"
)

const maxUsageListLimit = 100

// UsageRepositoryPG implements domain.UsageRepository.
type UsageRepositoryPG struct {
	db infra.SQLExecutor
}

func NewUsageRepository(db infra.SQLExecutor) *UsageRepositoryPG {
	return &UsageRepositoryPG{db: db}
}

// Record inserts one usage event. Properties default to an empty object.
func (r *UsageRepositoryPG) Record(ctx context.Context, event domain.UsageEvent) error {
	var props any
	if len(event.Properties) > 0 {
		props = string(event.Properties)
	}
	if _, err := r.db.Exec(ctx, sqlinline.QInsertUsageEvent,
		event.UserID,
		event.RequestID,
		event.EventType,
		event.Success,
		event.LatencyMS,
		props,
	); err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// ListRecent returns the newest events first. limit is clamped to [1, 100].
func (r *UsageRepositoryPG) ListRecent(ctx context.Context, userID string, limit int) ([]domain.UsageEvent, error) {
	if limit <= 0 || limit > maxUsageListLimit {
		limit = maxUsageListLimit
	}
	rows, err := r.db.Query(ctx, sqlinline.QListUsageEvents, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	defer rows.Close()

	events := make([]domain.UsageEvent, 0, limit)
	for rows.Next() {
		var (
			ev    domain.UsageEvent
			props []byte
		)
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.RequestID, &ev.EventType, &ev.Success, &ev.LatencyMS, &props, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		ev.Properties = props
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage: %w", err)
	}
	return events, nil
}

var _ domain.UsageRepository = (*UsageRepositoryPG)(nil)
