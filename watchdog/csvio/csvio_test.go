package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trendai/watchdog/models"
)

func TestReadPosts(t *testing.T) {
	assert := assert.New(t)

	in := `Post_ID,token,user_id,content,timestamp,likes,extra
p1,$DOGE,a1,"to the moon, again",2024-03-01T10:05:00Z,3,x
p2,DOGE,a2,second post,2024-03-01 10:06:00,,y
p3,DOGE,a2,bad time,yesterday-ish,1,z
p4,DOGE,a2,bad likes,2024-03-01T10:05:00Z,many,z
p5,DOGE,a3,no time,,0,z
`
	posts, bad, err := ReadPosts(strings.NewReader(in))
	assert.NoError(err)
	assert.Len(posts, 3)
	assert.Len(bad, 2)

	assert.Equal("p1", posts[0].ID)
	assert.Equal("DOGE", posts[0].TokenID)
	assert.Equal("a1", posts[0].AccountID)
	assert.Equal("to the moon, again", posts[0].Text)
	assert.Equal(3, posts[0].Likes)
	assert.True(posts[0].Timestamp.Equal(time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)))
	assert.True(posts[1].Timestamp.Equal(time.Date(2024, 3, 1, 10, 6, 0, 0, time.UTC)))

	// missing timestamps are left for ingestion to reject
	assert.True(posts[2].Timestamp.IsZero())
	_, err = posts[2].Validate()
	assert.ErrorIs(err, models.ErrMissingTimestamp)

	assert.Equal(2, bad[0].Index)
	assert.Equal("p3", bad[0].ID)
	assert.Equal("p4", bad[1].ID)

	_, _, err = ReadPosts(strings.NewReader("id,text\np1,hello\n"))
	assert.ErrorContains(err, "token_id")
}

func TestPostsRoundTrip(t *testing.T) {
	assert := assert.New(t)

	ts := time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)
	posts := []models.RawPost{
		{ID: "p1", TokenID: "PEPE", AccountID: "a1", Text: "line one\nline \"two\"", Timestamp: ts, DeclaredType: models.PostTypeBot, Likes: 4},
	}
	var buf bytes.Buffer
	assert.NoError(WritePosts(&buf, posts))
	back, bad, err := ReadPosts(&buf)
	assert.NoError(err)
	assert.Empty(bad)
	assert.Equal(posts, back)
}

func TestAccounts(t *testing.T) {
	assert := assert.New(t)

	created := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	accounts := []*models.Account{
		{ID: "a1", Username: "alice", CreatedAt: &created, Followers: 10, Following: 20, PostsPerDay: 1.5, Credibility: models.CredibilityHigh},
		{ID: "a2", Username: "moonbot9999"},
	}
	var buf bytes.Buffer
	assert.NoError(WriteAccounts(&buf, accounts))
	back, bad, err := ReadAccounts(&buf)
	assert.NoError(err)
	assert.Empty(bad)
	assert.Len(back, 2)
	assert.Equal("alice", back[0].Username)
	assert.True(created.Equal(*back[0].CreatedAt))
	assert.Equal(1.5, back[0].PostsPerDay)
	assert.Nil(back[1].CreatedAt)

	back, bad, err = ReadAccounts(strings.NewReader("id,followers\n,3\na3,lots\na4,7\n"))
	assert.NoError(err)
	assert.Len(back, 1)
	assert.Len(bad, 2)
	assert.ErrorIs(bad[0], models.ErrMissingID)
}
