package progression

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/example/kidvocab/pkg/models"
)

// Generator produces the word batch for a learning session. It holds the
// static catalog and a random source but no learner state: every call is
// independent and side-effect-free.
type Generator struct {
	cfg     Config
	catalog []models.Word
	rnd     *rand.Rand
}

// NewGenerator creates a generator over a snapshot of the word catalog
func NewGenerator(cfg Config, catalog []models.Word) *Generator {
	return &Generator{
		cfg:     cfg,
		catalog: append([]models.Word(nil), catalog...),
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate computes the next session batch for the learner's progress.
//
// Per difficulty bucket of the current stage: candidates are catalog words
// at that difficulty minus remembered and excluded words, partitioned into
// forgotten (due for review) and new. ReviewPercent of the bucket, rounded
// down, is reserved for forgotten-word review, the remainder goes to new
// words, each partition shuffled independently. After the buckets are
// combined and shuffled, any shortfall against WordsPerSession is
// backfilled from the remaining eligible catalog irrespective of
// difficulty: session size wins over mix fidelity when the catalog is
// thin. Oversupply is truncated to WordsPerSession.
func (g *Generator) Generate(progress models.UserProgress, sessionNumber int) (*models.DashboardWordSession, error) {
	if progress.WordsCompleted < 0 {
		return nil, fmt.Errorf("words completed cannot be negative: %d", progress.WordsCompleted)
	}
	if sessionNumber < 1 {
		return nil, fmt.Errorf("session number must be positive: %d", sessionNumber)
	}

	remembered := toSet(progress.RememberedWords)
	forgotten := toSet(progress.ForgottenWords)
	excluded := toSet(progress.ExcludedWords)

	stage := g.cfg.StageFor(progress.WordsCompleted)
	selected := make([]models.Word, 0, g.cfg.WordsPerSession)
	picked := make(map[int]bool)

	for _, ds := range stageShares(stage) {
		n := g.cfg.WordsPerSession * ds.percent / 100
		if n <= 0 {
			continue
		}

		var forgottenCandidates, newCandidates []models.Word
		for _, w := range g.catalog {
			if w.Difficulty != ds.difficulty || remembered[w.ID] || excluded[w.ID] || picked[w.ID] {
				continue
			}
			if forgotten[w.ID] {
				forgottenCandidates = append(forgottenCandidates, w)
			} else {
				newCandidates = append(newCandidates, w)
			}
		}

		g.shuffle(forgottenCandidates)
		g.shuffle(newCandidates)

		// Reserved review slots; a short partition is not backfilled here,
		// the combined backfill below handles any deficit
		reviewSlots := n * g.cfg.ReviewPercent / 100
		newSlots := n - reviewSlots

		for _, w := range take(forgottenCandidates, reviewSlots) {
			selected = append(selected, w)
			picked[w.ID] = true
		}
		for _, w := range take(newCandidates, newSlots) {
			selected = append(selected, w)
			picked[w.ID] = true
		}
	}

	g.shuffle(selected)

	if len(selected) < g.cfg.WordsPerSession {
		var fill []models.Word
		for _, w := range g.catalog {
			if remembered[w.ID] || excluded[w.ID] || picked[w.ID] {
				continue
			}
			fill = append(fill, w)
		}
		g.shuffle(fill)
		selected = append(selected, take(fill, g.cfg.WordsPerSession-len(selected))...)
	}

	if len(selected) > g.cfg.WordsPerSession {
		selected = selected[:g.cfg.WordsPerSession]
	}

	return &models.DashboardWordSession{
		Words: selected,
		SessionInfo: models.SessionInfo{
			Difficulty:       stageDifficultyLabel(stage),
			CategoriesUsed:   categoriesOf(selected),
			SessionNumber:    sessionNumber,
			ProgressionStage: string(stage),
			WordCount:        len(selected),
		},
	}, nil
}

// shuffle is an in-place Fisher-Yates shuffle
func (g *Generator) shuffle(words []models.Word) {
	g.rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
}

// take returns at most n leading elements
func take(words []models.Word, n int) []models.Word {
	if n < 0 {
		n = 0
	}
	if len(words) > n {
		return words[:n]
	}
	return words
}

// categoriesOf returns the distinct categories present in the selection,
// in order of first appearance
func categoriesOf(words []models.Word) []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, w := range words {
		if w.Category == "" || seen[w.Category] {
			continue
		}
		seen[w.Category] = true
		categories = append(categories, w.Category)
	}
	return categories
}

func toSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
