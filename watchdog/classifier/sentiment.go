package classifier

import (
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/trendai/watchdog/watchdog/helpers"
	"github.com/trendai/watchdog/watchdog/keyword"
)

// Sentiment labels
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// Returns a polarity in [-1, 1]; 0 is neutral.
type SentimentAnalyzer interface {
	Polarity(text string) float64
}

func SentimentLabel(polarity float64) string {
	switch {
	case polarity > 0.3:
		return SentimentPositive
	case polarity < -0.3:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

const (
	// normalization constant, approximating the max expected summed valence
	sentimentAlpha   = 15.0
	negationScalar   = -0.74
	boosterIncrease  = 0.293
	exclaimIncrease  = 0.292
	maxExclaims      = 4
	negationLookback = 3
)

// Valence-lexicon sentiment, with simple negation and intensifier handling.
//
// Word valences are on a -4 to +4 scale. Summed valence is squashed in to [-1, 1] with x/sqrt(x^2+alpha).
type LexiconSentiment struct {
	Words     map[string]float64
	Emoji     map[string]float64
	Negations map[string]bool
	Boosters  map[string]bool
}

var _ SentimentAnalyzer = (*LexiconSentiment)(nil)

func NewLexiconSentiment() *LexiconSentiment {
	return &LexiconSentiment{
		Words:     defaultValence,
		Emoji:     defaultEmojiValence,
		Negations: defaultNegations,
		Boosters:  defaultBoosters,
	}
}

func (ls *LexiconSentiment) Polarity(text string) float64 {
	toks := keyword.TokenizeText(text)
	sum := 0.0
	for i, tok := range toks {
		v, ok := ls.Words[tok]
		if !ok {
			continue
		}
		if i > 0 && ls.Boosters[toks[i-1]] {
			if v > 0 {
				v += boosterIncrease
			} else {
				v -= boosterIncrease
			}
		}
		for j := i - 1; j >= 0 && j >= i-negationLookback; j-- {
			if ls.Negations[toks[j]] {
				v *= negationScalar
				break
			}
		}
		sum += v
	}
	// sorted for a stable summation order
	for _, e := range slices.Sorted(maps.Keys(ls.Emoji)) {
		sum += ls.Emoji[e] * float64(strings.Count(text, e))
	}
	if sum == 0 {
		return 0
	}
	exclaims := min(strings.Count(text, "!"), maxExclaims)
	if sum > 0 {
		sum += exclaimIncrease * float64(exclaims)
	} else {
		sum -= exclaimIncrease * float64(exclaims)
	}
	compound := sum / math.Sqrt(sum*sum+sentimentAlpha)
	return helpers.Round(helpers.Clamp(compound, -1, 1), 4)
}

var defaultNegations = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"nothing": true,
	"without": true,
	"don":     true,
	"dont":    true,
	"isn":     true,
	"isnt":    true,
	"wasn":    true,
	"aren":    true,
	"won":     true,
	"cannot":  true,
	"nor":     true,
}

var defaultBoosters = map[string]bool{
	"very":       true,
	"really":     true,
	"extremely":  true,
	"super":      true,
	"so":         true,
	"totally":    true,
	"incredibly": true,
	"massively":  true,
}

var defaultValence = map[string]float64{
	// positive
	"good":        1.9,
	"great":       3.1,
	"amazing":     2.8,
	"awesome":     3.1,
	"best":        3.2,
	"love":        3.2,
	"happy":       2.7,
	"excited":     2.2,
	"exciting":    2.2,
	"win":         2.8,
	"winning":     2.4,
	"profit":      1.8,
	"profits":     1.8,
	"gain":        2.0,
	"gains":       2.0,
	"rich":        2.6,
	"strong":      2.3,
	"safe":        1.9,
	"solid":       1.6,
	"bullish":     2.0,
	"moon":        1.2,
	"mooning":     1.5,
	"rocket":      1.5,
	"huge":        1.3,
	"incredible":  3.0,
	"legit":       1.5,
	"opportunity": 1.8,
	"growth":      1.6,
	"undervalued": 1.2,
	"gem":         1.8,
	"wow":         2.8,
	"nice":        1.8,
	"lfg":         1.8,
	// negative
	"bad":        -2.5,
	"terrible":   -2.5,
	"awful":      -2.0,
	"worst":      -3.1,
	"hate":       -2.7,
	"scam":       -2.6,
	"scammers":   -2.6,
	"fraud":      -2.8,
	"fake":       -2.1,
	"avoid":      -1.2,
	"warning":    -1.4,
	"danger":     -2.4,
	"dangerous":  -2.1,
	"fear":       -2.2,
	"panic":      -2.3,
	"crash":      -1.7,
	"crashing":   -1.9,
	"dump":       -1.6,
	"dumping":    -1.6,
	"rug":        -1.5,
	"rugged":     -2.0,
	"hack":       -1.6,
	"hacked":     -2.0,
	"exploit":    -1.5,
	"stolen":     -2.2,
	"lost":       -1.3,
	"loss":       -1.3,
	"losses":     -1.5,
	"bearish":    -2.0,
	"rekt":       -2.0,
	"dead":       -3.3,
	"dying":      -2.9,
	"worthless":  -1.9,
	"ponzi":      -2.5,
	"sell":       -0.4,
	"overvalued": -1.0,
	"risky":      -1.2,
	"suspicious": -1.5,
}

var defaultEmojiValence = map[string]float64{
	"🚀":  1.5,
	"📈":  1.5,
	"🔥":  1.2,
	"💎":  1.2,
	"🎉":  2.0,
	"📉":  -1.6,
	"🚨":  -1.8,
	"⚠️": -1.5,
	"💀":  -1.8,
	"😱":  -2.0,
}
