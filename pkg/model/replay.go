package model

// Replay associates a request pattern with the body returned when a live
// request matches it. Replays are values and are never mutated once built.
type Replay struct {
	When Request `json:"when"`
	Then Body    `json:"then"`
}
