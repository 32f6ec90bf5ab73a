package workouts

import (
	"context"
	"fmt"
	"sort"
	"time"
)

type repoMock struct {
	workouts     map[string]*Workout
	stats        map[string]*UserStatistics
	historyCount int
	nextID       int
}

func NewMockWorkoutsRepo() *repoMock {
	return &repoMock{
		workouts: make(map[string]*Workout),
		stats:    make(map[string]*UserStatistics),
	}
}

func (r *repoMock) RecordWorkout(_ context.Context, workout Workout) (*Workout, error) {
	r.nextID++
	workout.ID = fmt.Sprintf("workout-%d", r.nextID)
	workout.CreatedAt = time.Now()
	if workout.Date.IsZero() {
		workout.Date = time.Now()
	}
	for i := range workout.Exercises {
		workout.Exercises[i].ID = r.nextID*100 + i
		workout.Exercises[i].SessionID = workout.ID
	}
	r.workouts[workout.ID] = &workout

	stats, ok := r.stats[workout.UserID]
	if !ok {
		stats = &UserStatistics{UserID: workout.UserID}
		r.stats[workout.UserID] = stats
	}
	stats.SessionsTotal++
	stats.TrainingTimeTotal += workout.Duration
	if workout.Calories != nil {
		stats.CaloriesTotal += *workout.Calories
	}
	stats.ExercisesTotal += len(workout.Exercises)
	stats.UpdatedAt = time.Now()

	r.historyCount++
	return &workout, nil
}

func (r *repoMock) Get(_ context.Context, userID, id string) (*Workout, error) {
	workout, ok := r.workouts[id]
	if !ok || workout.UserID != userID {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

func (r *repoMock) List(_ context.Context, params ListParams) ([]Workout, int, error) {
	var all []Workout
	for _, w := range r.workouts {
		if w.UserID != params.UserID {
			continue
		}
		if params.From != nil && w.Date.Before(*params.From) {
			continue
		}
		if params.To != nil && w.Date.After(*params.To) {
			continue
		}
		all = append(all, *w)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})

	total := len(all)
	from := (params.Page - 1) * params.Size
	if from > total {
		from = total
	}
	to := from + params.Size
	if to > total {
		to = total
	}
	return all[from:to], total, nil
}

func (r *repoMock) Update(ctx context.Context, userID, id string, req UpdateRequest) error {
	workout, err := r.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if req.Duration != nil {
		workout.Duration = *req.Duration
	}
	if req.Calories != nil {
		workout.Calories = req.Calories
	}
	if req.Satisfaction != nil {
		workout.Satisfaction = *req.Satisfaction
	}
	if req.Notes != nil {
		workout.Notes = *req.Notes
	}
	if req.IsCompleted != nil {
		workout.IsCompleted = *req.IsCompleted
	}
	if req.Date != nil {
		workout.Date = *req.Date
	}
	if req.Exercises != nil {
		workout.Exercises = nil
		for i, entry := range *req.Exercises {
			workout.Exercises = append(workout.Exercises, ExercisePerformance{
				ID:          i + 1,
				SessionID:   workout.ID,
				ExerciseID:  entry.ExerciseID,
				SetNumber:   i + 1,
				TargetReps:  entry.Reps,
				Weight:      entry.Weight,
				RestSeconds: entry.Rest,
				Difficulty:  entry.Difficulty,
			})
		}
	}
	return nil
}

func (r *repoMock) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.Get(ctx, userID, id); err != nil {
		return err
	}
	delete(r.workouts, id)
	r.historyCount++
	return nil
}

func (r *repoMock) GetStatistics(_ context.Context, userID string) (*UserStatistics, error) {
	stats, ok := r.stats[userID]
	if !ok {
		return &UserStatistics{UserID: userID}, nil
	}
	return stats, nil
}
