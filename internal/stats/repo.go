package stats

import (
	"context"
	"errors"
	"time"

	"github.com/fitpose/fitpose/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

// SessionDates returns the dates of all sessions recorded in
// [from, to], newest first.
func (r *Repo) SessionDates(ctx context.Context, userID string, from, to time.Time) (_ []time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.sessionDates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT date FROM workout_session
			WHERE user_id = $1 AND date >= $2 AND date <= $3
			ORDER BY date DESC;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, err
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("dates.count", len(dates)))
	return dates, nil
}

// Activity rolls sessions since `from` up into per-day buckets,
// ascending by day.
func (r *Repo) Activity(ctx context.Context, userID string, from time.Time) (_ []ActivityBucket, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.activity")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT
			DATE(date) AS day,
			COUNT(*) AS workouts,
			COALESCE(SUM(duration_min), 0) AS duration,
			COALESCE(SUM(COALESCE(calories, 0)), 0) AS calories
		FROM workout_session
		WHERE user_id = $1 AND date >= $2
		GROUP BY DATE(date)
		ORDER BY day ASC;`,
		userID, from,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []ActivityBucket
	for rows.Next() {
		var b ActivityBucket
		if err := rows.Scan(&b.Date, &b.Workouts, &b.Duration, &b.Calories); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buckets, nil
}

// WorkoutDistribution counts performed exercises per catalog category
// since `from`.
func (r *Repo) WorkoutDistribution(ctx context.Context, userID string, from time.Time) (_ []CategoryCount, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.workoutDistribution")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT e.category, COUNT(*) AS count
		FROM exercise_performance p
		INNER JOIN workout_session s ON s.id = p.session_id
		INNER JOIN exercise e ON e.id = p.exercise_id
		WHERE s.user_id = $1 AND s.date >= $2
		GROUP BY e.category
		ORDER BY count DESC;`,
		userID, from,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var distribution []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Type, &c.Count); err != nil {
			return nil, err
		}
		distribution = append(distribution, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return distribution, nil
}

// MuscleFocus counts how often each muscle was the primary target of a
// performed exercise since `from`, top 6 by count. The primary target
// is the first entry of the catalog's target muscle list.
func (r *Repo) MuscleFocus(ctx context.Context, userID string, from time.Time) (_ []MuscleCount, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.muscleFocus")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT e.target_muscles->>0 AS muscle, COUNT(*) AS count
		FROM exercise_performance p
		INNER JOIN workout_session s ON s.id = p.session_id
		INNER JOIN exercise e ON e.id = p.exercise_id
		WHERE s.user_id = $1 AND s.date >= $2 AND e.target_muscles->>0 IS NOT NULL
		GROUP BY e.target_muscles->>0
		ORDER BY count DESC
		LIMIT 6;`,
		userID, from,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var focus []MuscleCount
	for rows.Next() {
		var m MuscleCount
		if err := rows.Scan(&m.Muscle, &m.Count); err != nil {
			return nil, err
		}
		focus = append(focus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return focus, nil
}

// RecentWorkouts returns the newest sessions, slim, for the dashboard.
func (r *Repo) RecentWorkouts(ctx context.Context, userID string, limit int) (_ []RecentWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.recentWorkouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT id, date, duration_min, calories, satisfaction
			FROM workout_session
			WHERE user_id = $1
			ORDER BY date DESC
			LIMIT $2;`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []RecentWorkout
	for rows.Next() {
		var w RecentWorkout
		if err := rows.Scan(&w.ID, &w.Date, &w.Duration, &w.Calories, &w.Satisfaction); err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}

// AnalysisStats aggregates the posture scans stored since `from`.
// Users without scans get a zeroed aggregate.
func (r *Repo) AnalysisStats(ctx context.Context, userID string, from time.Time) (_ *AnalysisStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.analysisStats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var stats AnalysisStats
	err = r.db.QueryRow(ctx, `
		SELECT
			COALESCE(AVG(global_score), 0),
			COALESCE(MAX(global_score), 0),
			COALESCE(AVG(symmetry), 0),
			COUNT(*)
		FROM posture_analysis
		WHERE user_id = $1 AND created_at >= $2;`,
		userID, from,
	).Scan(&stats.AvgGlobalScore, &stats.MaxGlobalScore, &stats.AvgSymmetry, &stats.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &AnalysisStats{}, nil
		}
		return nil, err
	}

	return &stats, nil
}

// AddPostureAnalysis stores a new posture scan result.
func (r *Repo) AddPostureAnalysis(ctx context.Context, analysis PostureAnalysis) (_ *PostureAnalysis, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.addPostureAnalysis")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	analysis.ID = uuid.NewString()
	analysis.CreatedAt = time.Now()

	_, err = r.db.Exec(ctx, `
		INSERT INTO posture_analysis (id, user_id, global_score, symmetry, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6);`,
		analysis.ID, analysis.UserID, analysis.GlobalScore,
		analysis.Symmetry, analysis.Notes, analysis.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("analysis.id", analysis.ID))
	return &analysis, nil
}
