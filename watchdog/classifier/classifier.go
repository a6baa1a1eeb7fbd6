package classifier

import (
	"math"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/helpers"
	"github.com/trendai/watchdog/watchdog/keyword"
)

// Posts scoring at or above this are labeled Organic
const OrganicThreshold = 0.55

type Classification struct {
	OrganicScore float64 `json:"organic_score"`
	Label        string  `json:"label"`
	Confidence   float64 `json:"confidence"`
}

// Scores a single post text. Implementations must be pure: same text, same result.
type Classifier interface {
	Classify(text string) Classification
}

// Lexical stand-in for a trained model: penalizes known pump/shill phrases, plus a small deterministic jitter.
type HeuristicClassifier struct {
	Phrases keyword.Lexicon
	Base    float64
	Penalty float64
	// total width of the jitter band; 0.2 means +/- 0.1
	Jitter float64
}

var _ Classifier = (*HeuristicClassifier)(nil)

func NewHeuristicClassifier(phrases []string) *HeuristicClassifier {
	if len(phrases) == 0 {
		phrases = keyword.DefaultSuspiciousPhrases
	}
	return &HeuristicClassifier{
		Phrases: keyword.NewLexicon(phrases...),
		Base:    0.85,
		Penalty: 0.28,
		Jitter:  0.2,
	}
}

func (hc *HeuristicClassifier) Classify(text string) Classification {
	score := hc.Base
	score -= hc.Penalty * float64(hc.Phrases.Count(text))
	score -= (helpers.HashToUnit(text) - 0.5) * hc.Jitter
	score = helpers.Round(helpers.Clamp(score, 0, 1), 3)
	return NewClassification(score)
}

// Derives label and confidence from an organic score.
func NewClassification(score float64) Classification {
	label := models.LabelSuspicious
	if score >= OrganicThreshold {
		label = models.LabelOrganic
	}
	return Classification{
		OrganicScore: score,
		Label:        label,
		Confidence:   helpers.Round(math.Abs(score-0.5)+0.5, 3),
	}
}
