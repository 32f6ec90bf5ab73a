package stats

import "time"

// ActivityBucket is the per-day rollup of recorded sessions. Days
// without sessions produce no bucket.
type ActivityBucket struct {
	Date     time.Time `json:"date"`
	Workouts int       `json:"workouts"`
	Duration int       `json:"duration"`
	Calories int       `json:"calories"`
}

// CategoryCount says how many performances fall into one exercise
// category within the observed period.
type CategoryCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// MuscleCount says how often a muscle was the primary target of a
// performed exercise within the observed period.
type MuscleCount struct {
	Muscle string `json:"muscle"`
	Count  int    `json:"count"`
}

// RecentWorkout is a slim session summary for the dashboard.
type RecentWorkout struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Duration     int       `json:"duration"`
	Calories     *int      `json:"calories"`
	Satisfaction int       `json:"satisfaction"`
}

// PostureAnalysis is one stored posture scan result.
type PostureAnalysis struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	GlobalScore int       `json:"globalScore"`
	Symmetry    int       `json:"symmetry"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AnalysisStats aggregates the stored posture scans of one user.
type AnalysisStats struct {
	AvgGlobalScore float64 `json:"avgGlobalScore"`
	MaxGlobalScore int     `json:"maxGlobalScore"`
	AvgSymmetry    float64 `json:"avgSymmetry"`
	Count          int     `json:"count"`
}

// GoalProgress is one tracked goal with its completion percentage.
type GoalProgress struct {
	Title    string  `json:"title"`
	Target   int     `json:"target"`
	Current  int     `json:"current"`
	Progress float64 `json:"progress"`
}
