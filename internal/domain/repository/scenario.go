package repository

import (
	"context"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
)

type ScenarioRepository interface {
	Create(ctx context.Context, sc *scenario.Scenario) error
	GetByID(ctx context.Context, id string) (*scenario.Scenario, error)
	ListAll(ctx context.Context) ([]*scenario.Scenario, error)
	Update(ctx context.Context, sc *scenario.Scenario) error
	Delete(ctx context.Context, id string) error

	SaveDraft(ctx context.Context, id string, doc scenario.Document) error
	ClearDraft(ctx context.Context, id string) error
	ApplyDraft(ctx context.Context, id string, triggers []scenario.Trigger) error
}
