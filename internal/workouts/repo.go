package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fitpose/fitpose/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type ListParams struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Page   int
	Size   int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// RecordWorkout stores a new session with its performances, bumps the
// user statistics and appends a history record, all in one transaction.
func (r *Repo) RecordWorkout(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.record")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := time.Now()
	workout.ID = uuid.NewString()
	workout.CreatedAt = now
	if workout.Date.IsZero() {
		workout.Date = now
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO workout_session
			(id, user_id, name, date, duration_min, calories, satisfaction, notes, is_completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		workout.ID, workout.UserID, workout.Name, workout.Date, workout.Duration,
		workout.Calories, workout.Satisfaction, workout.Notes, workout.IsCompleted, workout.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	for i := range workout.Exercises {
		perf := &workout.Exercises[i]
		perf.SessionID = workout.ID
		if err = tx.QueryRow(ctx, `
			INSERT INTO exercise_performance
				(session_id, exercise_id, set_number, target_reps, weight, rest_seconds, difficulty)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`,
			perf.SessionID, perf.ExerciseID, perf.SetNumber,
			perf.TargetReps, perf.Weight, perf.RestSeconds, perf.Difficulty,
		).Scan(&perf.ID); err != nil {
			return nil, fmt.Errorf("insert performance %d: %w", i, err)
		}
	}

	calories := 0
	if workout.Calories != nil {
		calories = *workout.Calories
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO user_statistics
			(user_id, sessions_total, training_time_total, calories_total, exercises_total, updated_at)
		VALUES ($1, 1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			sessions_total = user_statistics.sessions_total + 1,
			training_time_total = user_statistics.training_time_total + $2,
			calories_total = user_statistics.calories_total + $3,
			exercises_total = user_statistics.exercises_total + $4,
			updated_at = $5;`,
		workout.UserID, workout.Duration, calories, len(workout.Exercises), now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert statistics: %w", err)
	}

	details, err := json.Marshal(map[string]interface{}{
		"workoutId":     workout.ID,
		"duration":      workout.Duration,
		"calories":      workout.Calories,
		"exerciseCount": len(workout.Exercises),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal history details: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO workout_history (user_id, event_type, action, details, created_at)
		VALUES ($1, 'workout', 'completed', $2, $3);`,
		workout.UserID, details, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert history: %w", err)
	}

	span.SetAttributes(attribute.String("workout.id", workout.ID))
	return &workout, nil
}

func (r *Repo) Get(ctx context.Context, userID, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, date, duration_min, calories, satisfaction, notes, is_completed, created_at
			FROM workout_session
			WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions, err := r.rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) != 1 {
		return nil, ErrWorkoutNotFound
	}

	workout := &sessions[0]
	if err := r.loadPerformances(ctx, []*Workout{workout}); err != nil {
		return nil, err
	}
	return workout, nil
}

// List returns one page of the user's workouts, newest first,
// optionally bounded by a date range.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Workout, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	countRows, err := r.db.Query(ctx, `
		SELECT COUNT(*) FROM workout_session
			WHERE user_id = $1
			AND ($2::timestamptz IS NULL OR date >= $2)
			AND ($3::timestamptz IS NULL OR date <= $3);`,
		params.UserID, params.From, params.To,
	)
	if err != nil {
		return nil, -1, err
	}
	defer countRows.Close()

	if !countRows.Next() {
		return nil, -1, errors.New("unexpected error, failed to get workouts count")
	}
	if err := countRows.Scan(&total); err != nil {
		return nil, -1, fmt.Errorf("scan workouts count: %w", err)
	}
	countRows.Close()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, date, duration_min, calories, satisfaction, notes, is_completed, created_at
			FROM workout_session
			WHERE user_id = $1
			AND ($2::timestamptz IS NULL OR date >= $2)
			AND ($3::timestamptz IS NULL OR date <= $3)
			ORDER BY date DESC
			LIMIT $4
			OFFSET $5;`,
		params.UserID, params.From, params.To,
		params.Size, (params.Page-1)*params.Size,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	sessions, err := r.rows2workouts(rows)
	if err != nil {
		return nil, -1, err
	}

	sessionPtrs := make([]*Workout, len(sessions))
	for i := range sessions {
		sessionPtrs[i] = &sessions[i]
	}
	if err := r.loadPerformances(ctx, sessionPtrs); err != nil {
		return nil, -1, err
	}

	return sessions, total, nil
}

// Update partially updates a session. When entries is non-nil, the
// session's performances are replaced wholesale in the same transaction.
func (r *Repo) Update(ctx context.Context, userID, id string, req UpdateRequest) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, `
		UPDATE workout_session SET
			duration_min = COALESCE($1::int, duration_min),
			calories = COALESCE($2::int, calories),
			satisfaction = COALESCE($3::int, satisfaction),
			notes = COALESCE($4::text, notes),
			is_completed = COALESCE($5::boolean, is_completed),
			date = COALESCE($6::timestamptz, date)
		WHERE id = $7 AND user_id = $8;`,
		req.Duration, req.Calories, req.Satisfaction,
		req.Notes, req.IsCompleted, req.Date,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	if req.Exercises == nil {
		return nil
	}

	if _, err = tx.Exec(ctx,
		`DELETE FROM exercise_performance WHERE session_id = $1;`, id,
	); err != nil {
		return fmt.Errorf("delete performances: %w", err)
	}

	for i, entry := range *req.Exercises {
		if _, err = tx.Exec(ctx, `
			INSERT INTO exercise_performance
				(session_id, exercise_id, set_number, target_reps, weight, rest_seconds, difficulty)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			id, entry.ExerciseID, i+1,
			entry.Reps, entry.Weight, entry.Rest, entry.Difficulty,
		); err != nil {
			return fmt.Errorf("insert performance %d: %w", i, err)
		}
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	// performances go with the session via FK cascade
	tag, err := tx.Exec(ctx,
		`DELETE FROM workout_session WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	details, err := json.Marshal(map[string]interface{}{
		"workoutId": id,
	})
	if err != nil {
		return fmt.Errorf("marshal history details: %w", err)
	}
	if _, err = tx.Exec(ctx, `
		INSERT INTO workout_history (user_id, event_type, action, details, created_at)
		VALUES ($1, 'workout', 'deleted', $2, $3);`,
		userID, details, time.Now(),
	); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	return nil
}

// GetStatistics returns the user's running totals, zeroed when the
// user has not recorded anything yet.
func (r *Repo) GetStatistics(ctx context.Context, userID string) (_ *UserStatistics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.statistics")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stats := &UserStatistics{UserID: userID}
	err = r.db.QueryRow(ctx, `
		SELECT sessions_total, training_time_total, calories_total, exercises_total, updated_at
			FROM user_statistics WHERE user_id = $1;`,
		userID,
	).Scan(
		&stats.SessionsTotal, &stats.TrainingTimeTotal,
		&stats.CaloriesTotal, &stats.ExercisesTotal, &stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return stats, nil
		}
		return nil, err
	}
	return stats, nil
}

func (r *Repo) loadPerformances(ctx context.Context, sessions []*Workout) error {
	if len(sessions) == 0 {
		return nil
	}

	sessionIDs := make([]string, 0, len(sessions))
	byID := make(map[string]*Workout, len(sessions))
	for _, s := range sessions {
		sessionIDs = append(sessionIDs, s.ID)
		byID[s.ID] = s
		s.Exercises = make([]ExercisePerformance, 0)
	}

	rows, err := r.db.Query(ctx, `
		SELECT
			p.id, p.session_id, p.exercise_id, p.set_number, p.target_reps,
			p.weight, p.rest_seconds, p.difficulty,
			e.id, e.name, e.category, e.description
		FROM exercise_performance p
		LEFT JOIN exercise e ON p.exercise_id = e.id
		WHERE p.session_id = ANY($1)
		ORDER BY p.session_id, p.set_number;`,
		sessionIDs,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	for rows.Next() {
		var p ExercisePerformance
		var weight *string
		var restSeconds, difficulty *int
		var exID, exName, exCategory, exDescription *string
		if err := rows.Scan(
			&p.ID, &p.SessionID, &p.ExerciseID, &p.SetNumber, &p.TargetReps,
			&weight, &restSeconds, &difficulty,
			&exID, &exName, &exCategory, &exDescription,
		); err != nil {
			return err
		}

		if weight != nil {
			p.Weight = *weight
		}
		if restSeconds != nil {
			p.RestSeconds = *restSeconds
		}
		if difficulty != nil {
			p.Difficulty = *difficulty
		}
		if exID != nil {
			info := &ExerciseInfo{ID: *exID}
			if exName != nil {
				info.Name = *exName
			}
			if exCategory != nil {
				info.Category = *exCategory
			}
			if exDescription != nil {
				info.Description = *exDescription
			}
			p.Exercise = info
		}

		session, ok := byID[p.SessionID]
		if !ok {
			continue
		}
		session.Exercises = append(session.Exercises, p)
	}

	return nil
}

func (r *Repo) rows2workouts(rows pgx.Rows) ([]Workout, error) {
	var sessions []Workout
	for rows.Next() {
		var w Workout
		var name, notes *string
		if err := rows.Scan(
			&w.ID, &w.UserID, &name, &w.Date, &w.Duration,
			&w.Calories, &w.Satisfaction, &notes, &w.IsCompleted, &w.CreatedAt,
		); err != nil {
			return nil, err
		}
		if name != nil {
			w.Name = *name
		}
		if notes != nil {
			w.Notes = *notes
		}
		sessions = append(sessions, w)
	}

	if sessions == nil {
		sessions = make([]Workout, 0)
	}

	return sessions, nil
}
