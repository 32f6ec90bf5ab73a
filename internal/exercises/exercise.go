package exercises

import "time"

// Exercise is one entry of the exercise catalog. The catalog is
// read-only from the API perspective, it gets seeded via SQL.
type Exercise struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
	Difficulty    string    `json:"difficulty"`
	TargetMuscles []string  `json:"targetMuscles"`
	Equipment     []string  `json:"equipment"`
	VideoURL      string    `json:"videoUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
