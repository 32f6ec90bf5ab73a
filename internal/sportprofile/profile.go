package sportprofile

import "time"

// Level and objective values follow the questionnaire vocabulary.
const (
	LevelBeginner     = "DEBUTANT"
	LevelIntermediate = "INTERMEDIAIRE"
	LevelAdvanced     = "AVANCE"
	LevelExpert       = "EXPERT"

	ObjectiveStrength    = "MUSCULATION"
	ObjectiveWeightLoss  = "PERDRE_POIDS"
	ObjectiveFlexibility = "SOUPLESSE"
	ObjectiveEndurance   = "ENDURANCE"
	ObjectiveRehab       = "REEDUCATION"
	ObjectivePerformance = "PERFORMANCE"
)

var (
	validLevels = map[string]bool{
		LevelBeginner:     true,
		LevelIntermediate: true,
		LevelAdvanced:     true,
		LevelExpert:       true,
	}
	validObjectives = map[string]bool{
		ObjectiveStrength:    true,
		ObjectiveWeightLoss:  true,
		ObjectiveFlexibility: true,
		ObjectiveEndurance:   true,
		ObjectiveRehab:       true,
		ObjectivePerformance: true,
	}
)

func ValidLevel(level string) bool {
	return validLevels[level]
}

func ValidObjective(objective string) bool {
	return validObjectives[objective]
}

// SportProfile holds a user's stated training goals and constraints,
// one per user, fed by the questionnaire or edited directly.
type SportProfile struct {
	UserID    string    `json:"userId"`
	Level     string    `json:"level"`
	Objective string    `json:"objective"`
	Frequency int       `json:"frequency"`
	Injuries  []string  `json:"injuries"`
	Sports    []string  `json:"sports"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpdateRequest struct {
	Level     *string   `json:"level,omitempty"`
	Objective *string   `json:"objective,omitempty"`
	Frequency *int      `json:"frequency,omitempty"`
	Injuries  *[]string `json:"injuries,omitempty"`
	Sports    *[]string `json:"sports,omitempty"`
}

func (req UpdateRequest) Validate() map[string]string {
	violations := make(map[string]string)
	if req.Level != nil && !ValidLevel(*req.Level) {
		violations["level"] = "unknown level"
	}
	if req.Objective != nil && !ValidObjective(*req.Objective) {
		violations["objective"] = "unknown objective"
	}
	if req.Frequency != nil && (*req.Frequency < 0 || *req.Frequency > 14) {
		violations["frequency"] = "frequency must be between 0 and 14"
	}
	return violations
}
