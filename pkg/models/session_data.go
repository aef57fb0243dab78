package models

// SessionData is the canonical record of a learner's in-progress state.
// One record exists per learner-browser pairing; it is owned by the
// session store and persisted as a JSON blob.
type SessionData struct {
	ActiveTab        string              `json:"active_tab"`
	SelectedCategory string              `json:"selected_category"`
	LearningMode     string              `json:"learning_mode"`
	CurrentWordIndex int                 `json:"current_word_index"`
	RememberedWords  []int               `json:"remembered_words"`
	ForgottenWords   []int               `json:"forgotten_words"`
	ExcludedWordIDs  []int               `json:"excluded_word_ids"`
	SessionNumber    int                 `json:"session_number"`
	UserWordHistory  map[int]WordHistory `json:"user_word_history"`
	LastUpdated      int64               `json:"last_updated"`       // epoch millis, stamped by the store at write time
	SessionStartTime int64               `json:"session_start_time"` // epoch millis, immutable once created
	Version          string              `json:"version"`
}

// Clone returns a deep copy so callers can hold a snapshot without
// racing against later updates to the store's record.
func (d SessionData) Clone() SessionData {
	out := d
	out.RememberedWords = append([]int(nil), d.RememberedWords...)
	out.ForgottenWords = append([]int(nil), d.ForgottenWords...)
	out.ExcludedWordIDs = append([]int(nil), d.ExcludedWordIDs...)
	if d.UserWordHistory != nil {
		out.UserWordHistory = make(map[int]WordHistory, len(d.UserWordHistory))
		for id, h := range d.UserWordHistory {
			out.UserWordHistory[id] = h
		}
	}
	return out
}
