package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"luxeprompt/internal/domain"
	"luxeprompt/internal/infra"
	"luxeprompt/internal/sqlinline"
)

// SystemPromptRepositoryPG reads instruction templates from system_prompts.
type SystemPromptRepositoryPG struct {
	db infra.SQLExecutor
}

func NewSystemPromptRepository(db infra.SQLExecutor) *SystemPromptRepositoryPG {
	return &SystemPromptRepositoryPG{db: db}
}

// Get returns the active template for key, or domain.ErrNotFound.
func (r *SystemPromptRepositoryPG) Get(ctx context.Context, key string) (string, error) {
	var content string
	if err := r.db.QueryRow(ctx, sqlinline.QSelectSystemPrompt, key).Scan(&content); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("system prompt %q: %w", key, err)
	}
	if strings.TrimSpace(content) == "" {
		return "", domain.ErrNotFound
	}
	return content, nil
}

var _ domain.SystemPromptRepository = (*SystemPromptRepositoryPG)(nil)
