package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fitpose/fitpose/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseNotFound = errors.New("exercise not found")

type ListParams struct {
	Search     string
	Category   string
	Difficulty string
	Page       int
	Size       int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, category, description, difficulty, target_muscles, equipment, video_url, created_at
			FROM exercise WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	catalog, err := r.rows2exercises(rows)
	if err != nil {
		return nil, err
	}

	if len(catalog) != 1 {
		return nil, ErrExerciseNotFound
	}

	return &catalog[0], nil
}

// List returns one catalog page filtered by name substring, category
// and difficulty, together with the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Exercise, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	span.SetAttributes(attribute.String("search", params.Search))
	span.SetAttributes(attribute.String("category", params.Category))
	span.SetAttributes(attribute.String("difficulty", params.Difficulty))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	countRows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM exercise
			WHERE ($1::text = '' OR name ILIKE '%' || $1 || '%')
			AND ($2::text = '' OR category = $2)
			AND ($3::text = '' OR difficulty = $3);`,
		params.Search, params.Category, params.Difficulty,
	)
	if err != nil {
		return nil, -1, err
	}
	defer countRows.Close()

	if !countRows.Next() {
		return nil, -1, errors.New("unexpected error, failed to get exercises count")
	}
	if err := countRows.Scan(&total); err != nil {
		return nil, -1, fmt.Errorf("scan exercises count: %w", err)
	}
	countRows.Close()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, category, description, difficulty, target_muscles, equipment, video_url, created_at
			FROM exercise
			WHERE ($1::text = '' OR name ILIKE '%' || $1 || '%')
			AND ($2::text = '' OR category = $2)
			AND ($3::text = '' OR difficulty = $3)
			ORDER BY name ASC
			LIMIT $4
			OFFSET $5;`,
		params.Search, params.Category, params.Difficulty,
		params.Size, (params.Page-1)*params.Size,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	catalog, err := r.rows2exercises(rows)
	if err != nil {
		return nil, -1, err
	}
	return catalog, total, nil
}

func (r *Repo) rows2exercises(rows pgx.Rows) ([]Exercise, error) {
	var catalog []Exercise
	for rows.Next() {
		var e Exercise
		var description, videoURL *string
		var targetMusclesBytes, equipmentBytes []byte
		var createdAt time.Time
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Category, &description, &e.Difficulty,
			&targetMusclesBytes, &equipmentBytes, &videoURL, &createdAt,
		); err != nil {
			return nil, err
		}

		if description != nil {
			e.Description = *description
		}
		if videoURL != nil {
			e.VideoURL = *videoURL
		}
		e.CreatedAt = createdAt

		if len(targetMusclesBytes) > 0 {
			if err := json.Unmarshal(targetMusclesBytes, &e.TargetMuscles); err != nil {
				return nil, fmt.Errorf("unmarshal target muscles for exercise %s: %w", e.ID, err)
			}
		}
		if e.TargetMuscles == nil {
			e.TargetMuscles = make([]string, 0)
		}

		if len(equipmentBytes) > 0 {
			if err := json.Unmarshal(equipmentBytes, &e.Equipment); err != nil {
				return nil, fmt.Errorf("unmarshal equipment for exercise %s: %w", e.ID, err)
			}
		}
		if e.Equipment == nil {
			e.Equipment = make([]string, 0)
		}

		catalog = append(catalog, e)
	}

	if catalog == nil {
		catalog = make([]Exercise, 0)
	}

	return catalog, nil
}
