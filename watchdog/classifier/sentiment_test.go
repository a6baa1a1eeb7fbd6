package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexiconSentiment(t *testing.T) {
	assert := assert.New(t)

	ls := NewLexiconSentiment()

	fixtures := []struct {
		text  string
		label string
	}{
		{text: "This is a great project, love it", label: SentimentPositive},
		{text: "Huge gains 🚀🚀 to the moon!!", label: SentimentPositive},
		{text: "scam, avoid, funds stolen", label: SentimentNegative},
		{text: "not good", label: SentimentNegative},
		{text: "⚠️ rug pull incoming 💀", label: SentimentNegative},
		{text: "the chart moved sideways today", label: SentimentNeutral},
		{text: "", label: SentimentNeutral},
	}

	for _, f := range fixtures {
		p := ls.Polarity(f.text)
		assert.Equal(f.label, SentimentLabel(p), "%q => %f", f.text, p)
		assert.GreaterOrEqual(p, -1.0)
		assert.LessOrEqual(p, 1.0)
		assert.Equal(p, ls.Polarity(f.text))
	}

	assert.InDelta(0.852, ls.Polarity("great love"), 0.001)
	assert.Greater(ls.Polarity("really great"), ls.Polarity("great"))
	assert.Greater(ls.Polarity("great!!!"), ls.Polarity("great"))
	assert.Less(ls.Polarity("not great"), 0.0)
}

func TestSentimentLabel(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(SentimentPositive, SentimentLabel(0.31))
	assert.Equal(SentimentNeutral, SentimentLabel(0.3))
	assert.Equal(SentimentNeutral, SentimentLabel(-0.3))
	assert.Equal(SentimentNegative, SentimentLabel(-0.31))
}
