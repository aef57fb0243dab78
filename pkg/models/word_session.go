package models

// DashboardWordSession is the batch of words produced for one learning
// session. It is created fresh on every generation call and never
// mutated after return.
type DashboardWordSession struct {
	Words       []Word      `json:"words"`
	SessionInfo SessionInfo `json:"session_info"`
}

// SessionInfo describes how a word batch was assembled
type SessionInfo struct {
	Difficulty       string   `json:"difficulty"`
	CategoriesUsed   []string `json:"categories_used"`
	SessionNumber    int      `json:"session_number"`
	ProgressionStage string   `json:"progression_stage"`
	WordCount        int      `json:"word_count"`
}
