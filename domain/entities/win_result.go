package entities

// WinResult reports how one of an owner's tickets fared against a period's
// winning numbers.
type WinResult struct {
	TicketID       int64   `json:"ticket_id"`
	Numbers        []int64 `json:"numbers"`
	Period         int64   `json:"period"`
	MatchCount     int     `json:"match_count"`
	MatchedNumbers []int64 `json:"matched_numbers"`
	// Eligible is false when the ticket was purchased at or after the draw
	// timestamp; such tickets report zero matches without error.
	Eligible bool `json:"eligible"`
}

// CheckResult is one row of the administrator reconciliation scan: a live,
// draw-eligible ticket resolved through the reverse index with its match
// detail.
type CheckResult struct {
	TicketID       int64   `json:"ticket_id"`
	OwnerID        int64   `json:"owner_id"`
	Numbers        []int64 `json:"numbers"`
	MatchCount     int     `json:"match_count"`
	MatchedNumbers []int64 `json:"matched_numbers"`
}
