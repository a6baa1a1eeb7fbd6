// CSV import and export of posts and accounts.
//
// Columns are matched by header name, so column order is free and unknown columns are ignored. Timestamps accept anything util.ParseTimestamp does.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/util"
)

var PostColumns = []string{"id", "token_id", "account_id", "text", "timestamp", "declared_type", "likes"}

var AccountColumns = []string{"id", "username", "created_at", "followers", "following", "posts_per_day", "credibility"}

// alternate header spellings seen in collector exports
var headerAliases = map[string]string{
	"post_id":   "id",
	"user_id":   "account_id",
	"author_id": "account_id",
	"token":     "token_id",
	"post_type": "declared_type",
	"content":   "text",
	"posted_at": "timestamp",
}

type header map[string]int

func readHeader(r *csv.Reader, required ...string) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	h := make(header, len(row))
	for i, col := range row {
		col = strings.ToLower(strings.TrimSpace(col))
		if alias, ok := headerAliases[col]; ok {
			col = alias
		}
		h[col] = i
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("csv header missing required column %q", col)
		}
	}
	return h, nil
}

func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Reads raw posts. Rows which cannot be parsed at all are returned as record errors and skipped; field-level validation is left to ingestion.
func ReadPosts(in io.Reader) ([]models.RawPost, []models.RecordError, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	h, err := readHeader(r, "id", "token_id", "text", "timestamp")
	if err != nil {
		return nil, nil, err
	}

	var posts []models.RawPost
	var bad []models.RecordError
	for idx := 0; ; idx++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				bad = append(bad, models.RecordError{Index: idx, Err: err})
				continue
			}
			return nil, nil, err
		}
		raw := models.RawPost{
			ID:           h.get(row, "id"),
			TokenID:      strings.TrimPrefix(h.get(row, "token_id"), "$"),
			AccountID:    h.get(row, "account_id"),
			Text:         h.get(row, "text"),
			DeclaredType: h.get(row, "declared_type"),
		}
		if ts := h.get(row, "timestamp"); ts != "" {
			raw.Timestamp, err = util.ParseTimestamp(ts)
			if err != nil {
				bad = append(bad, models.RecordError{Index: idx, ID: raw.ID, Err: err})
				continue
			}
		}
		if likes := h.get(row, "likes"); likes != "" {
			raw.Likes, err = strconv.Atoi(likes)
			if err != nil {
				bad = append(bad, models.RecordError{Index: idx, ID: raw.ID, Err: fmt.Errorf("likes: %w", err)})
				continue
			}
		}
		posts = append(posts, raw)
	}
	return posts, bad, nil
}

func ReadAccounts(in io.Reader) ([]*models.Account, []models.RecordError, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	h, err := readHeader(r, "id")
	if err != nil {
		return nil, nil, err
	}

	var accounts []*models.Account
	var bad []models.RecordError
	for idx := 0; ; idx++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		acct, err := parseAccount(h, row)
		if err != nil {
			bad = append(bad, models.RecordError{Index: idx, ID: h.get(row, "id"), Err: err})
			continue
		}
		accounts = append(accounts, acct)
	}
	return accounts, bad, nil
}

func parseAccount(h header, row []string) (*models.Account, error) {
	acct := &models.Account{
		ID:          h.get(row, "id"),
		Username:    h.get(row, "username"),
		Credibility: strings.ToLower(h.get(row, "credibility")),
	}
	if acct.ID == "" {
		return nil, models.ErrMissingID
	}
	if v := h.get(row, "created_at"); v != "" {
		t, err := util.ParseTimestamp(v)
		if err != nil {
			return nil, err
		}
		acct.CreatedAt = &t
	}
	var err error
	if v := h.get(row, "followers"); v != "" {
		if acct.Followers, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("followers: %w", err)
		}
	}
	if v := h.get(row, "following"); v != "" {
		if acct.Following, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("following: %w", err)
		}
	}
	if v := h.get(row, "posts_per_day"); v != "" {
		if acct.PostsPerDay, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("posts_per_day: %w", err)
		}
	}
	return acct, nil
}

func WritePosts(out io.Writer, posts []models.RawPost) error {
	w := csv.NewWriter(out)
	if err := w.Write(PostColumns); err != nil {
		return err
	}
	for _, p := range posts {
		row := []string{
			p.ID,
			p.TokenID,
			p.AccountID,
			p.Text,
			p.Timestamp.UTC().Format(time.RFC3339),
			p.DeclaredType,
			strconv.Itoa(p.Likes),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WriteAccounts(out io.Writer, accounts []*models.Account) error {
	w := csv.NewWriter(out)
	if err := w.Write(AccountColumns); err != nil {
		return err
	}
	for _, a := range accounts {
		created := ""
		if a.CreatedAt != nil {
			created = a.CreatedAt.UTC().Format(time.RFC3339)
		}
		row := []string{
			a.ID,
			a.Username,
			created,
			strconv.Itoa(a.Followers),
			strconv.Itoa(a.Following),
			strconv.FormatFloat(a.PostsPerDay, 'f', -1, 64),
			a.Credibility,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
