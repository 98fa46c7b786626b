package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/VladKovDev/botconstructor/internal/domain/repository"
	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresScenarioRepository struct {
	db *pgxpool.Pool
}

func NewPostgresScenarioRepository(db *pgxpool.Pool) repository.ScenarioRepository {
	return &PostgresScenarioRepository{db: db}
}

const scenarioColumns = `id, name, enabled, data, draft, triggers, created_at, updated_at`

func (r *PostgresScenarioRepository) Create(ctx context.Context, sc *scenario.Scenario) error {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}

	data, draft, triggers, err := encodeScenario(sc)
	if err != nil {
		return err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO scenarios (id, name, enabled, data, draft, triggers)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		sc.ID, sc.Name, sc.Enabled, data, draft, triggers,
	)
	if err := row.Scan(&sc.CreatedAt, &sc.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create scenario: %w", err)
	}
	return nil
}

func (r *PostgresScenarioRepository) GetByID(ctx context.Context, id string) (*scenario.Scenario, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+scenarioColumns+` FROM scenarios WHERE id = $1`, id)

	sc, err := scanScenario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", scenario.ErrScenarioNotFound, id)
		}
		return nil, fmt.Errorf("failed to get scenario by id: %w", err)
	}
	return sc, nil
}

func (r *PostgresScenarioRepository) ListAll(ctx context.Context) ([]*scenario.Scenario, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+scenarioColumns+` FROM scenarios ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var out []*scenario.Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}
	return out, nil
}

func (r *PostgresScenarioRepository) Update(ctx context.Context, sc *scenario.Scenario) error {
	data, draft, triggers, err := encodeScenario(sc)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE scenarios
		SET name = $2, enabled = $3, data = $4, draft = $5, triggers = $6, updated_at = now()
		WHERE id = $1`,
		sc.ID, sc.Name, sc.Enabled, data, draft, triggers,
	)
	if err != nil {
		return fmt.Errorf("failed to update scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", scenario.ErrScenarioNotFound, sc.ID)
	}
	return nil
}

func (r *PostgresScenarioRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", scenario.ErrScenarioNotFound, id)
	}
	return nil
}

func (r *PostgresScenarioRepository) SaveDraft(ctx context.Context, id string, doc scenario.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE scenarios SET draft = $2, updated_at = now() WHERE id = $1`,
		id, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", scenario.ErrScenarioNotFound, id)
	}
	return nil
}

func (r *PostgresScenarioRepository) ClearDraft(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE scenarios SET draft = NULL, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", scenario.ErrScenarioNotFound, id)
	}
	return nil
}

// ApplyDraft promotes the draft to the live document and replaces the
// trigger projection in one statement, so a crash can never leave the
// scenario half-published.
func (r *PostgresScenarioRepository) ApplyDraft(ctx context.Context, id string, triggers []scenario.Trigger) error {
	trgData, err := json.Marshal(triggers)
	if err != nil {
		return fmt.Errorf("failed to encode triggers: %w", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE scenarios
		SET data = draft, draft = NULL, triggers = $2, updated_at = now()
		WHERE id = $1 AND draft IS NOT NULL`,
		id, trgData,
	)
	if err != nil {
		return fmt.Errorf("failed to apply draft: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM scenarios WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check scenario: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", scenario.ErrScenarioNotFound, id)
		}
		return fmt.Errorf("%w: %s", scenario.ErrNoDraft, id)
	}
	return nil
}

func encodeScenario(sc *scenario.Scenario) (data, draft, triggers []byte, err error) {
	data, err = sc.Data.Encode()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if sc.Draft != nil {
		draft, err = sc.Draft.Data.Encode()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode draft: %w", err)
		}
	}
	if sc.Triggers == nil {
		triggers = []byte("[]")
	} else if triggers, err = json.Marshal(sc.Triggers); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode triggers: %w", err)
	}
	return data, draft, triggers, nil
}

func scanScenario(row pgx.Row) (*scenario.Scenario, error) {
	var (
		sc        scenario.Scenario
		data      []byte
		draft     []byte
		triggers  []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&sc.ID, &sc.Name, &sc.Enabled, &data, &draft, &triggers, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	doc, err := scenario.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	sc.Data = doc

	if draft != nil {
		draftDoc, err := scenario.Decode(draft)
		if err != nil {
			return nil, fmt.Errorf("failed to decode draft: %w", err)
		}
		sc.Draft = &scenario.Draft{Data: draftDoc}
	}

	if triggers != nil {
		if err := json.Unmarshal(triggers, &sc.Triggers); err != nil {
			return nil, fmt.Errorf("failed to decode triggers: %w", err)
		}
	}

	sc.CreatedAt = createdAt
	sc.UpdatedAt = updatedAt
	return &sc, nil
}
