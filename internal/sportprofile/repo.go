package sportprofile

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

var ErrProfileNotFound = errors.New("sport profile not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID string) (_ *SportProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sportprofile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	profile := &SportProfile{UserID: userID}
	var injuriesBytes, sportsBytes []byte
	err = r.db.QueryRow(ctx, `
		SELECT level, objective, frequency, injuries, sports, updated_at
			FROM sport_profile WHERE user_id = $1;`,
		userID,
	).Scan(
		&profile.Level, &profile.Objective, &profile.Frequency,
		&injuriesBytes, &sportsBytes, &profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	if len(injuriesBytes) > 0 {
		if err := json.Unmarshal(injuriesBytes, &profile.Injuries); err != nil {
			return nil, fmt.Errorf("unmarshal injuries: %w", err)
		}
	}
	if profile.Injuries == nil {
		profile.Injuries = make([]string, 0)
	}
	if len(sportsBytes) > 0 {
		if err := json.Unmarshal(sportsBytes, &profile.Sports); err != nil {
			return nil, fmt.Errorf("unmarshal sports: %w", err)
		}
	}
	if profile.Sports == nil {
		profile.Sports = make([]string, 0)
	}

	return profile, nil
}

// Upsert stores the full profile for the user, creating it on first
// write.
func (r *Repo) Upsert(ctx context.Context, profile SportProfile) (_ *SportProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sportprofile.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", profile.UserID))

	profile.UpdatedAt = time.Now()
	if profile.Injuries == nil {
		profile.Injuries = make([]string, 0)
	}
	if profile.Sports == nil {
		profile.Sports = make([]string, 0)
	}

	injuriesJson, err := json.Marshal(profile.Injuries)
	if err != nil {
		return nil, fmt.Errorf("marshal injuries: %w", err)
	}
	sportsJson, err := json.Marshal(profile.Sports)
	if err != nil {
		return nil, fmt.Errorf("marshal sports: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO sport_profile (user_id, level, objective, frequency, injuries, sports, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			level = $2,
			objective = $3,
			frequency = $4,
			injuries = $5,
			sports = $6,
			updated_at = $7;`,
		profile.UserID, profile.Level, profile.Objective, profile.Frequency,
		injuriesJson, sportsJson, profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}
