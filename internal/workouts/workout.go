package workouts

import (
	"fmt"
	"time"
)

// Workout is one recorded training session with its exercise
// performances, joined with catalog info for each exercise.
type Workout struct {
	ID           string                `json:"id"`
	UserID       string                `json:"userId"`
	Name         string                `json:"name,omitempty"`
	Date         time.Time             `json:"date"`
	Duration     int                   `json:"duration"`
	Calories     *int                  `json:"calories,omitempty"`
	Satisfaction int                   `json:"satisfaction"`
	Notes        string                `json:"notes,omitempty"`
	IsCompleted  bool                  `json:"isCompleted"`
	CreatedAt    time.Time             `json:"createdAt"`
	Exercises    []ExercisePerformance `json:"exercises"`
}

// ExercisePerformance is one performed exercise within a session.
// SetNumber is the 1-based position of the exercise in the session.
type ExercisePerformance struct {
	ID          int           `json:"id"`
	SessionID   string        `json:"sessionId"`
	ExerciseID  string        `json:"exerciseId"`
	SetNumber   int           `json:"setNumber"`
	TargetReps  string        `json:"reps"`
	Weight      string        `json:"weight,omitempty"`
	RestSeconds int           `json:"restSeconds,omitempty"`
	Difficulty  int           `json:"difficulty,omitempty"`
	Exercise    *ExerciseInfo `json:"exercise,omitempty"`
}

// ExerciseInfo is the catalog subset joined into workout responses.
type ExerciseInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// UserStatistics are running per-user totals, incremented on every
// recorded workout.
type UserStatistics struct {
	UserID            string    `json:"userId"`
	SessionsTotal     int       `json:"sessionsTotal"`
	TrainingTimeTotal int       `json:"trainingTimeTotal"`
	CaloriesTotal     int       `json:"caloriesTotal"`
	ExercisesTotal    int       `json:"exercisesTotal"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type ExerciseEntry struct {
	ExerciseID string `json:"exerciseId"`
	Sets       int    `json:"sets"`
	Reps       string `json:"reps"`
	Weight     string `json:"weight,omitempty"`
	Rest       int    `json:"rest,omitempty"`
	Difficulty int    `json:"difficulty,omitempty"`
}

type CreateRequest struct {
	Name         string          `json:"name,omitempty"`
	Duration     int             `json:"duration"`
	Calories     *int            `json:"calories,omitempty"`
	Satisfaction int             `json:"satisfaction,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Date         *time.Time      `json:"date,omitempty"`
	Exercises    []ExerciseEntry `json:"exercises,omitempty"`
}

// Validate returns a map of violated fields to messages, empty when
// the request is valid.
func (req CreateRequest) Validate() map[string]string {
	violations := make(map[string]string)
	if req.Duration < 1 {
		violations["duration"] = "duration must be at least 1 minute"
	}
	if req.Calories != nil && *req.Calories < 0 {
		violations["calories"] = "calories cannot be negative"
	}
	if req.Satisfaction != 0 && (req.Satisfaction < 1 || req.Satisfaction > 5) {
		violations["satisfaction"] = "satisfaction must be between 1 and 5"
	}
	if len(req.Name) > 100 {
		violations["name"] = "name too long, max 100 characters"
	}
	validateEntries(req.Exercises, violations)
	return violations
}

type UpdateRequest struct {
	Duration     *int             `json:"duration,omitempty"`
	Calories     *int             `json:"calories,omitempty"`
	Satisfaction *int             `json:"satisfaction,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	IsCompleted  *bool            `json:"isCompleted,omitempty"`
	Date         *time.Time       `json:"date,omitempty"`
	Exercises    *[]ExerciseEntry `json:"exercises,omitempty"`
}

func (req UpdateRequest) Validate() map[string]string {
	violations := make(map[string]string)
	if req.Duration != nil && *req.Duration < 1 {
		violations["duration"] = "duration must be at least 1 minute"
	}
	if req.Calories != nil && *req.Calories < 0 {
		violations["calories"] = "calories cannot be negative"
	}
	if req.Satisfaction != nil && (*req.Satisfaction < 1 || *req.Satisfaction > 5) {
		violations["satisfaction"] = "satisfaction must be between 1 and 5"
	}
	if req.Exercises != nil {
		validateEntries(*req.Exercises, violations)
	}
	return violations
}

func validateEntries(entries []ExerciseEntry, violations map[string]string) {
	for i, entry := range entries {
		if entry.ExerciseID == "" {
			violations[fmt.Sprintf("exercises[%d].exerciseId", i)] = "exerciseId is required"
		}
		if entry.Sets < 1 {
			violations[fmt.Sprintf("exercises[%d].sets", i)] = "sets must be at least 1"
		}
		if entry.Reps == "" {
			violations[fmt.Sprintf("exercises[%d].reps", i)] = "reps is required"
		}
		if entry.Difficulty != 0 && (entry.Difficulty < 1 || entry.Difficulty > 10) {
			violations[fmt.Sprintf("exercises[%d].difficulty", i)] = "difficulty must be between 1 and 10"
		}
	}
}
