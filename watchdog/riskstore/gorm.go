package riskstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trendai/watchdog/models"
)

type GormStore struct {
	db *gorm.DB
}

var _ RiskStore = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.Post{}, &models.Account{}, &models.TokenRiskScore{}, &models.Narrative{}); err != nil {
		return nil, fmt.Errorf("migrating risk store: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) SavePosts(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"organic_score", "label", "bot_score", "cluster_id", "sentiment", "likes"}),
	}).CreateInBatches(posts, 500).Error
}

func (s *GormStore) PostsForToken(ctx context.Context, tokenID string, limit int) ([]*models.Post, error) {
	var out []*models.Post
	q := s.db.WithContext(ctx).Where("token_id = ?", tokenID).Order("timestamp desc").Order("id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) PostsForAccount(ctx context.Context, accountID string) ([]*models.Post, error) {
	var out []*models.Post
	if err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Order("timestamp asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) PostsByID(ctx context.Context, ids []string) (map[string]*models.Post, error) {
	out := make(map[string]*models.Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var posts []*models.Post
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, err
	}
	for _, p := range posts {
		out[p.ID] = p
	}
	return out, nil
}

func (s *GormStore) Tokens(ctx context.Context) ([]string, error) {
	var out []string
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Distinct("token_id").Order("token_id").Pluck("token_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) SaveAccount(ctx context.Context, acct *models.Account) error {
	return s.db.WithContext(ctx).Save(acct).Error
}

func (s *GormStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	var acct models.Account
	if err := s.db.WithContext(ctx).Where("id = ?", accountID).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &acct, nil
}

func (s *GormStore) UpsertRiskScore(ctx context.Context, score *models.TokenRiskScore) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "label", "reason", "policy", "updated_at"}),
	}).Create(score).Error
}

func (s *GormStore) GetRiskScore(ctx context.Context, tokenID string) (*models.TokenRiskScore, error) {
	var score models.TokenRiskScore
	if err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&score).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &score, nil
}

func (s *GormStore) TopRisks(ctx context.Context, minScore float64, limit int) ([]*models.TokenRiskScore, error) {
	var out []*models.TokenRiskScore
	q := s.db.WithContext(ctx).Where("score >= ?", minScore).Order("score desc").Order("token_id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) ReplaceNarratives(ctx context.Context, tokenID string, narratives []*models.Narrative) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token_id = ?", tokenID).Delete(&models.Narrative{}).Error; err != nil {
			return err
		}
		if len(narratives) == 0 {
			return nil
		}
		return tx.Create(narratives).Error
	})
}

func (s *GormStore) NarrativesForToken(ctx context.Context, tokenID string) ([]*models.Narrative, error) {
	var out []*models.Narrative
	if err := s.db.WithContext(ctx).Where("token_id = ?", tokenID).Order("id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
