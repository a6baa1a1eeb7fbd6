package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		raw string
		out string
	}{
		{raw: "https://Example.com/pump/", out: "https://example.com/pump"},
		{raw: "https://www.example.com/a?utm_source=tw&id=3", out: "https://example.com/a?id=3"},
		{raw: "example.com/a#top", out: "https://example.com/a"},
		{raw: "t.me/pumpgroup", out: "https://t.me/pumpgroup"},
		{raw: "1.5", out: ""},
		{raw: "10.0.0.1", out: ""},
	}
	for _, f := range fixtures {
		assert.Equal(f.out, NormalizeURL(f.raw), f.raw)
	}
}

func TestTextLinks(t *testing.T) {
	assert := assert.New(t)

	links := TextLinks("join t.me/pumpgroup and https://T.me/pumpgroup?utm_source=x, up 1.5x")
	assert.Equal([]string{"https://t.me/pumpgroup"}, links)
	assert.Nil(TextLinks("nothing to see"))
}
