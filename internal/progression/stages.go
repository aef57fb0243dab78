package progression

import "github.com/example/kidvocab/pkg/models"

// Stage identifies where a learner sits in the difficulty progression.
// The stage is a pure function of words completed, recomputed on every
// call; losing progress silently demotes the stage and that is accepted
// behavior.
type Stage string

const (
	// StageEasyFocus selects easy words only
	StageEasyFocus Stage = "easy_focus"
	// StageMixedEasyMedium selects 70% easy, 30% medium
	StageMixedEasyMedium Stage = "mixed_easy_medium"
	// StageMixedMediumHard selects 50% medium, 50% hard
	StageMixedMediumHard Stage = "mixed_medium_hard"
	// StageAllDifficulties is the terminal steady state: 30/40/30
	StageAllDifficulties Stage = "all_difficulties"
)

// StageFor maps cumulative words completed to a progression stage
func (c Config) StageFor(wordsCompleted int) Stage {
	switch {
	case wordsCompleted < c.EasyThreshold:
		return StageEasyFocus
	case wordsCompleted < c.MediumThreshold:
		return StageMixedEasyMedium
	case wordsCompleted < c.HardThreshold:
		return StageMixedMediumHard
	default:
		return StageAllDifficulties
	}
}

// difficultyShare pairs a difficulty level with its percentage of a
// session. Slot counts are computed with integer math so the floors come
// out exact.
type difficultyShare struct {
	difficulty int
	percent    int
}

// stageShares returns the difficulty mix for a stage in a fixed order
func stageShares(stage Stage) []difficultyShare {
	switch stage {
	case StageEasyFocus:
		return []difficultyShare{
			{models.DifficultyEasy, 100},
		}
	case StageMixedEasyMedium:
		return []difficultyShare{
			{models.DifficultyEasy, 70},
			{models.DifficultyMedium, 30},
		}
	case StageMixedMediumHard:
		return []difficultyShare{
			{models.DifficultyMedium, 50},
			{models.DifficultyHard, 50},
		}
	default:
		return []difficultyShare{
			{models.DifficultyEasy, 30},
			{models.DifficultyMedium, 40},
			{models.DifficultyHard, 30},
		}
	}
}

// stageDifficultyLabel is the human-readable difficulty summary reported
// in session info
func stageDifficultyLabel(stage Stage) string {
	switch stage {
	case StageEasyFocus:
		return "easy"
	case StageMixedEasyMedium:
		return "easy-medium"
	case StageMixedMediumHard:
		return "medium-hard"
	default:
		return "mixed"
	}
}

// Info is the display-facing summary of a learner's progression
type Info struct {
	Stage              Stage   `json:"stage"`
	Label              string  `json:"label"`
	Description        string  `json:"description"`
	WordsCompleted     int     `json:"words_completed"`
	NextMilestone      int     `json:"next_milestone"` // 0 in the terminal stage
	PercentToMilestone float64 `json:"percent_to_milestone"`
}

// ProgressionInfo maps words completed to a display summary using the same
// thresholds as stage selection
func (c Config) ProgressionInfo(wordsCompleted int) Info {
	info := Info{
		Stage:          c.StageFor(wordsCompleted),
		WordsCompleted: wordsCompleted,
	}

	var prevMilestone int
	switch info.Stage {
	case StageEasyFocus:
		info.Label = "Getting Started"
		info.Description = "Building confidence with easy words"
		info.NextMilestone = c.EasyThreshold
	case StageMixedEasyMedium:
		info.Label = "Branching Out"
		info.Description = "Mixing medium words in with easy ones"
		info.NextMilestone = c.MediumThreshold
		prevMilestone = c.EasyThreshold
	case StageMixedMediumHard:
		info.Label = "Rising Challenge"
		info.Description = "Working through medium and hard words"
		info.NextMilestone = c.HardThreshold
		prevMilestone = c.MediumThreshold
	default:
		info.Label = "Word Master"
		info.Description = "Practicing words across all difficulties"
		info.PercentToMilestone = 100
		return info
	}

	span := info.NextMilestone - prevMilestone
	if span > 0 {
		info.PercentToMilestone = float64(wordsCompleted-prevMilestone) / float64(span) * 100
	}
	return info
}
