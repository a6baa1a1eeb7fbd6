package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeParsing(t *testing.T) {
	assert := assert.New(t)

	fixtures := []struct {
		in  string
		out time.Time
	}{
		{in: "2023-07-19T21:54:14.165300Z", out: time.Date(2023, 7, 19, 21, 54, 14, 165300000, time.UTC)},
		{in: "2023-07-19T21:52:02.000+00:00", out: time.Date(2023, 7, 19, 21, 52, 2, 0, time.UTC)},
		{in: "2023-09-13T11:23:33+09:00", out: time.Date(2023, 9, 13, 2, 23, 33, 0, time.UTC)},
		{in: "2024-03-01 10:05:00", out: time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)},
		{in: "1709287500", out: time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)},
		{in: "3/1/2024 10:05", out: time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)},
	}
	for _, f := range fixtures {
		got, err := ParseTimestamp(f.in)
		assert.NoError(err, f.in)
		assert.True(f.out.Equal(got), "%s: got %s", f.in, got)
		assert.Equal(time.UTC, got.Location())
	}

	for _, bad := range []string{"", "   ", "not a time"} {
		_, err := ParseTimestamp(bad)
		assert.Error(err, bad)
	}
}
