package models

// WordHistory tracks a learner's interactions with a single word
type WordHistory struct {
	Attempts   int   `json:"attempts"`
	LastRating int   `json:"last_rating"` // 0-5 recall quality of the last attempt
	LastSeen   int64 `json:"last_seen"`   // epoch millis
	NextReview int64 `json:"next_review"` // epoch millis
}
