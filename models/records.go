package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMissingID        = errors.New("record has no id")
	ErrMissingToken     = errors.New("record has no token id")
	ErrMissingText      = errors.New("record has no text")
	ErrMissingTimestamp = errors.New("record has no timestamp")
	ErrDuplicateID      = errors.New("duplicate record id in batch")
)

// Unvalidated post record, as received from collectors or CSV imports.
type RawPost struct {
	ID           string    `json:"id"`
	TokenID      string    `json:"token_id"`
	AccountID    string    `json:"account_id"`
	Text         string    `json:"text"`
	Timestamp    time.Time `json:"timestamp"`
	DeclaredType string    `json:"declared_type,omitempty"`
	Likes        int       `json:"likes,omitempty"`
}

// Checks required fields and returns a fresh, unscored Post.
func (r *RawPost) Validate() (*Post, error) {
	if strings.TrimSpace(r.ID) == "" {
		return nil, ErrMissingID
	}
	if strings.TrimSpace(r.TokenID) == "" {
		return nil, ErrMissingToken
	}
	if strings.TrimSpace(r.Text) == "" {
		return nil, ErrMissingText
	}
	if r.Timestamp.IsZero() {
		return nil, ErrMissingTimestamp
	}
	return &Post{
		ID:           r.ID,
		TokenID:      r.TokenID,
		AccountID:    r.AccountID,
		Text:         r.Text,
		Timestamp:    r.Timestamp.UTC(),
		DeclaredType: r.DeclaredType,
		Likes:        r.Likes,
	}, nil
}

// A record which was skipped during batch processing. Index is the position in the input batch.
type RecordError struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Err   error  `json:"-"`
}

func (e RecordError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("record %d (%s): %s", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("record %d: %s", e.Index, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// The cause is serialized as a message under "error".
func (e RecordError) MarshalJSON() ([]byte, error) {
	out := struct {
		Index int    `json:"index"`
		ID    string `json:"id,omitempty"`
		Error string `json:"error,omitempty"`
	}{Index: e.Index, ID: e.ID}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	return json.Marshal(out)
}
