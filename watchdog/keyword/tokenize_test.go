package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeText(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		text string
		out  []string
	}{
		{text: "", out: []string{}},
		{text: "Hello, โลก!", out: []string{"hello", "โลก"}},
		{text: "Gdańsk", out: []string{"gdansk"}},
		{text: "$DOGE to the MOON!!! 🚀🚀", out: []string{"$doge", "to", "the", "moon"}},
	}

	for _, fix := range fixtures {
		assert.Equal(fix.out, TokenizeText(fix.text))
	}
}

func TestNormalizeText(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("buy now", NormalizeText("  BUY \t\n now "))
	assert.Equal("", NormalizeText("   "))
	assert.Equal(NormalizeText("Buy  NOW"), NormalizeText("buy now"))
}
