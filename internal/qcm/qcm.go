package qcm

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fitpose/fitpose/internal/sportprofile"
)

// Response is one answered questionnaire item. Answer is either a
// string or a list of strings, depending on the question.
type Response struct {
	QuestionID string `json:"questionId"`
	Answer     any    `json:"answer"`
}

// Session is one stored questionnaire submission.
type Session struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Responses       []Response `json:"responses"`
	Score           int        `json:"score"`
	Recommendations []string   `json:"recommendations"`
	Duration        *int       `json:"duration,omitempty"`
	CompletedAt     time.Time  `json:"completedAt"`
}

// Score is the share of answered questions, as a rounded percentage.
// Only non-empty string answers count as answered.
func Score(responses []Response) int {
	if len(responses) == 0 {
		return 0
	}

	answered := 0
	for _, r := range responses {
		if s, ok := r.Answer.(string); ok && s != "" {
			answered++
		}
	}

	return int(math.Round(float64(answered) / float64(len(responses)) * 100))
}

// Recommendations derives advice strings from the score band, plus
// injury specific ones when back pain was reported.
func Recommendations(responses []Response, score int) []string {
	var recommendations []string

	switch {
	case score < 50:
		recommendations = append(recommendations,
			"Start with beginner-friendly exercises",
			"Focus on form over intensity",
		)
	case score < 75:
		recommendations = append(recommendations,
			"Consider intermediate level workouts",
			"Add variety to your routine",
		)
	default:
		recommendations = append(recommendations,
			"You can handle advanced exercises",
			"Focus on progressive overload",
		)
	}

	for _, r := range responses {
		if r.QuestionID == "previous_injuries" && answerContains(r.Answer, "back_pain") {
			recommendations = append(recommendations,
				"Include core strengthening exercises",
				"Avoid exercises that strain your back",
			)
			break
		}
	}

	return recommendations
}

var experience2Level = map[string]string{
	"beginner":     sportprofile.LevelBeginner,
	"intermediate": sportprofile.LevelIntermediate,
	"advanced":     sportprofile.LevelAdvanced,
	"expert":       sportprofile.LevelExpert,
}

var goal2Objective = map[string]string{
	"strength":       sportprofile.ObjectiveStrength,
	"weight_loss":    sportprofile.ObjectiveWeightLoss,
	"flexibility":    sportprofile.ObjectiveFlexibility,
	"endurance":      sportprofile.ObjectiveEndurance,
	"rehabilitation": sportprofile.ObjectiveRehab,
	"performance":    sportprofile.ObjectivePerformance,
}

// ApplyToProfile patches the profile from the recognized questionnaire
// answers. Unknown question ids are ignored.
func ApplyToProfile(profile *sportprofile.SportProfile, responses []Response) {
	for _, r := range responses {
		switch r.QuestionID {
		case "experience_level":
			if answer, ok := r.Answer.(string); ok {
				if level, ok := experience2Level[answer]; ok {
					profile.Level = level
				}
			}
		case "goal":
			if answer, ok := r.Answer.(string); ok {
				if objective, ok := goal2Objective[answer]; ok {
					profile.Objective = objective
				}
			}
		case "frequency":
			profile.Frequency = answer2Frequency(r.Answer)
		case "previous_injuries":
			profile.Injuries = answer2Strings(r.Answer)
		case "sports":
			profile.Sports = answer2Strings(r.Answer)
		}
	}
}

func answer2Frequency(answer any) int {
	switch v := answer.(type) {
	case string:
		if freq, err := strconv.Atoi(v); err == nil && freq > 0 {
			return freq
		}
	case float64:
		if v > 0 {
			return int(v)
		}
	}
	return 3
}

func answer2Strings(answer any) []string {
	switch v := answer.(type) {
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return values
	case []string:
		return v
	}
	return []string{}
}

func answerContains(answer any, value string) bool {
	// a plain string answer matches on substring, list answers on element
	if s, ok := answer.(string); ok {
		return strings.Contains(s, value)
	}
	for _, s := range answer2Strings(answer) {
		if s == value {
			return true
		}
	}
	return false
}
