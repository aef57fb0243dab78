package progression

import "github.com/example/kidvocab/pkg/models"

// BuildUserProgress derives the generator's input projection from the
// canonical session record and the word catalog. Words completed counts
// every attempted word, remembered or forgotten; category progress counts
// mastered words per category.
func BuildUserProgress(data models.SessionData, catalog []models.Word, cfg Config) models.UserProgress {
	byID := make(map[int]models.Word, len(catalog))
	for _, w := range catalog {
		byID[w.ID] = w
	}

	progress := models.UserProgress{
		WordsCompleted:   len(data.RememberedWords) + len(data.ForgottenWords),
		RememberedWords:  append([]int(nil), data.RememberedWords...),
		ForgottenWords:   append([]int(nil), data.ForgottenWords...),
		ExcludedWords:    append([]int(nil), data.ExcludedWordIDs...),
		CategoryProgress: make(map[string]int),
	}

	for _, id := range data.RememberedWords {
		if w, ok := byID[id]; ok && w.Category != "" {
			progress.CategoryProgress[w.Category]++
		}
	}

	switch cfg.StageFor(progress.WordsCompleted) {
	case StageEasyFocus:
		progress.CurrentDifficulty = models.DifficultyEasy
	case StageMixedEasyMedium:
		progress.CurrentDifficulty = models.DifficultyMedium
	default:
		progress.CurrentDifficulty = models.DifficultyHard
	}

	return progress
}
