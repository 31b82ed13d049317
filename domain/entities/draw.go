package entities

import (
	"time"
)

// Draw represents one completed draw period. A period's record is created
// exactly once and is immutable thereafter.
type Draw struct {
	Period  int64     `json:"period"`
	Numbers []int64   `json:"numbers"` // PickCount distinct values in [MinNumber, MaxNumber]
	DrawnAt time.Time `json:"drawn_at"`
}
