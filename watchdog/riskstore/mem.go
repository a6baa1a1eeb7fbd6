package riskstore

import (
	"context"
	"sort"
	"sync"

	"github.com/trendai/watchdog/models"
)

type MemStore struct {
	mu         sync.RWMutex
	posts      map[string]*models.Post
	accounts   map[string]*models.Account
	risks      map[string]*models.TokenRiskScore
	narratives map[string][]*models.Narrative
}

var _ RiskStore = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		posts:      make(map[string]*models.Post),
		accounts:   make(map[string]*models.Account),
		risks:      make(map[string]*models.TokenRiskScore),
		narratives: make(map[string][]*models.Narrative),
	}
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	return &c
}

func (s *MemStore) SavePosts(ctx context.Context, posts []*models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range posts {
		s.posts[p.ID] = copyPost(p)
	}
	return nil
}

func (s *MemStore) PostsForToken(ctx context.Context, tokenID string, limit int) ([]*models.Post, error) {
	s.mu.RLock()
	var out []*models.Post
	for _, p := range s.posts {
		if p.TokenID == tokenID {
			out = append(out, copyPost(p))
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) PostsForAccount(ctx context.Context, accountID string) ([]*models.Post, error) {
	s.mu.RLock()
	var out []*models.Post
	for _, p := range s.posts {
		if p.AccountID == accountID {
			out = append(out, copyPost(p))
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) PostsByID(ctx context.Context, ids []string) (map[string]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.Post, len(ids))
	for _, id := range ids {
		if p, ok := s.posts[id]; ok {
			out[id] = copyPost(p)
		}
	}
	return out, nil
}

func (s *MemStore) Tokens(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	seen := make(map[string]bool)
	for _, p := range s.posts {
		seen[p.TokenID] = true
	}
	s.mu.RUnlock()
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemStore) SaveAccount(ctx context.Context, acct *models.Account) error {
	c := *acct
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acct.ID] = &c
	return nil
}

func (s *MemStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[accountID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *acct
	return &c, nil
}

func (s *MemStore) UpsertRiskScore(ctx context.Context, score *models.TokenRiskScore) error {
	c := *score
	s.mu.Lock()
	defer s.mu.Unlock()
	s.risks[score.TokenID] = &c
	return nil
}

func (s *MemStore) GetRiskScore(ctx context.Context, tokenID string) (*models.TokenRiskScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.risks[tokenID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *r
	return &c, nil
}

func (s *MemStore) TopRisks(ctx context.Context, minScore float64, limit int) ([]*models.TokenRiskScore, error) {
	s.mu.RLock()
	var out []*models.TokenRiskScore
	for _, r := range s.risks {
		if r.Score >= minScore {
			c := *r
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].TokenID < out[j].TokenID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemStore) ReplaceNarratives(ctx context.Context, tokenID string, narratives []*models.Narrative) error {
	cp := make([]*models.Narrative, len(narratives))
	for i, n := range narratives {
		c := *n
		c.PostIDs = append([]string(nil), n.PostIDs...)
		cp[i] = &c
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(cp) == 0 {
		delete(s.narratives, tokenID)
		return nil
	}
	s.narratives[tokenID] = cp
	return nil
}

func (s *MemStore) NarrativesForToken(ctx context.Context, tokenID string) ([]*models.Narrative, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.narratives[tokenID]
	out := make([]*models.Narrative, len(src))
	for i, n := range src {
		c := *n
		out[i] = &c
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
