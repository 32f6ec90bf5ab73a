package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fitpose/fitpose/internal/sportprofile"
	"github.com/fitpose/fitpose/internal/telemetry/tracing"
	"github.com/fitpose/fitpose/internal/workouts"

	"go.opentelemetry.io/otel/attribute"
)

// maxStreakLookbackDays bounds the streak range query so one SELECT
// covers the whole walk, no matter how old the account is.
const maxStreakLookbackDays = 3650

const (
	goalTitleConsistency = "Workout Consistency"
	goalTitleCalories    = "Calories Burned"

	// monthly calorie target, same for everyone
	caloriesGoalTarget = 20000

	// a weekly frequency goal projected over four weeks
	weeksPerGoalPeriod = 4
)

type sessionDatesRepo interface {
	SessionDates(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
}

// Analyzer derives streaks, goal progress and insights from the raw
// aggregates.
type Analyzer struct {
	repo sessionDatesRepo
}

func NewAnalyzer(repo sessionDatesRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// Streak counts consecutive days with at least one session, walking
// backward from today. A day without sessions ends the walk, except
// today itself: a streak kept up through yesterday still counts until
// today's session is recorded.
func (a *Analyzer) Streak(ctx context.Context, userID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.stats.streak")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	now := time.Now()
	dates, err := a.repo.SessionDates(ctx, userID, now.AddDate(0, 0, -maxStreakLookbackDays), now)
	if err != nil {
		return 0, err
	}

	sessionDays := make(map[string]struct{}, len(dates))
	for _, date := range dates {
		sessionDays[dayKey(date)] = struct{}{}
	}

	cursor := now
	if _, ok := sessionDays[dayKey(cursor)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for i := 0; i <= maxStreakLookbackDays; i++ {
		if _, ok := sessionDays[dayKey(cursor)]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	span.SetAttributes(attribute.Int("streak", streak))
	return streak, nil
}

func dayKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// GoalsProgress projects the running totals onto the profile's goals.
// Users without a profile have no goals.
func GoalsProgress(profile *sportprofile.SportProfile, statistics *workouts.UserStatistics) []GoalProgress {
	if profile == nil {
		return []GoalProgress{}
	}

	goals := []GoalProgress{
		{
			Title:   goalTitleConsistency,
			Target:  profile.Frequency * weeksPerGoalPeriod,
			Current: statistics.SessionsTotal,
		},
		{
			Title:   goalTitleCalories,
			Target:  caloriesGoalTarget,
			Current: statistics.CaloriesTotal,
		},
	}

	for i := range goals {
		goals[i].Progress = progressPercent(goals[i].Current, goals[i].Target)
	}
	return goals
}

func progressPercent(current, target int) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(100, float64(current)/float64(target)*100)
}

// Insights derives advice strings from the aggregates, in a fixed
// order. The encouragement string appears only when nothing else does.
func Insights(
	statistics *workouts.UserStatistics,
	distribution []CategoryCount,
	muscleFocus []MuscleCount,
) []string {
	var insights []string

	if float64(statistics.SessionsTotal)/4 < 3 {
		insights = append(insights, "Try to increase your workout frequency to at least 3 times per week")
	}
	if len(distribution) < 3 {
		insights = append(insights, "Add more variety to your workouts for balanced development")
	}
	if len(muscleFocus) > 0 && muscleFocus[0].Count > 10 {
		insights = append(insights, fmt.Sprintf(
			"You focus heavily on %s. Consider training other muscle groups",
			muscleFocus[0].Muscle,
		))
	}

	if len(insights) == 0 {
		insights = append(insights, "Great progress! Keep up the consistent work")
	}
	return insights
}

// PeriodStart maps a period token to its lower time bound. Unknown
// tokens behave like "month".
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7)
	case "year":
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}
