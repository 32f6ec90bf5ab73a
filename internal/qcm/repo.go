package qcm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fitpose/fitpose/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.qcm.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	session.ID = uuid.NewString()
	session.CompletedAt = time.Now()

	responsesJson, err := json.Marshal(session.Responses)
	if err != nil {
		return nil, fmt.Errorf("marshal responses: %w", err)
	}
	recommendationsJson, err := json.Marshal(session.Recommendations)
	if err != nil {
		return nil, fmt.Errorf("marshal recommendations: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO qcm_session (id, user_id, responses, score, recommendations, duration_sec, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		session.ID, session.UserID, responsesJson, session.Score,
		recommendationsJson, session.Duration, session.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("qcm.id", session.ID))
	return &session, nil
}

// List returns the user's most recent questionnaire sessions.
func (r *Repo) List(ctx context.Context, userID string, limit int) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.qcm.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("limit", limit))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, responses, score, recommendations, duration_sec, completed_at
			FROM qcm_session
			WHERE user_id = $1
			ORDER BY completed_at DESC
			LIMIT $2;`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var sessions []Session
	for rows.Next() {
		var s Session
		var responsesBytes, recommendationsBytes []byte
		if err := rows.Scan(
			&s.ID, &s.UserID, &responsesBytes, &s.Score,
			&recommendationsBytes, &s.Duration, &s.CompletedAt,
		); err != nil {
			return nil, err
		}

		if len(responsesBytes) > 0 {
			if err := json.Unmarshal(responsesBytes, &s.Responses); err != nil {
				return nil, fmt.Errorf("unmarshal responses for session %s: %w", s.ID, err)
			}
		}
		if len(recommendationsBytes) > 0 {
			if err := json.Unmarshal(recommendationsBytes, &s.Recommendations); err != nil {
				return nil, fmt.Errorf("unmarshal recommendations for session %s: %w", s.ID, err)
			}
		}

		sessions = append(sessions, s)
	}

	if sessions == nil {
		sessions = make([]Session, 0)
	}

	return sessions, nil
}
