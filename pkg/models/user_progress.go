package models

// UserProgress is a read projection of SessionData plus the word catalog,
// passed into the session generator. It owns no independent lifecycle.
type UserProgress struct {
	WordsCompleted    int            `json:"words_completed"`
	CurrentDifficulty int            `json:"current_difficulty"`
	RememberedWords   []int          `json:"remembered_words"`
	ForgottenWords    []int          `json:"forgotten_words"`
	ExcludedWords     []int          `json:"excluded_words"`
	CategoryProgress  map[string]int `json:"category_progress"` // category name -> words mastered
}
