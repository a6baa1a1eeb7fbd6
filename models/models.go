package models

import (
	"time"
)

// Declared post types, as supplied by upstream collectors. Informational only: scoring never trusts them.
const (
	PostTypeOrganic     = "organic"
	PostTypeBot         = "bot"
	PostTypeCoordinated = "coordinated"
	PostTypeFakeNews    = "fake_news"
	PostTypeDoubt       = "doubt"
)

// Post classification labels
const (
	LabelOrganic    = "Organic"
	LabelSuspicious = "Suspicious"
)

type Post struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	TokenID      string    `gorm:"index:idx_post_token_ts;not null" json:"token_id"`
	AccountID    string    `gorm:"index;not null" json:"account_id"`
	Text         string    `gorm:"not null" json:"text"`
	Timestamp    time.Time `gorm:"index:idx_post_token_ts;not null" json:"timestamp"`
	DeclaredType string    `json:"declared_type,omitempty"`
	Likes        int       `json:"likes,omitempty"`

	// derived fields; nil until the post has been scored
	OrganicScore *float64 `json:"organic_score,omitempty"`
	Label        string   `json:"label,omitempty"`
	BotScore     *float64 `json:"bot_score,omitempty"`
	ClusterID    *int     `json:"cluster_id,omitempty"`
	Sentiment    *float64 `json:"sentiment,omitempty"`
}

func (p *Post) IsSuspicious() bool {
	return p.Label == LabelSuspicious
}

func (p *Post) Clustered() bool {
	return p.ClusterID != nil
}

// Credibility tiers for accounts
const (
	CredibilityBot    = "bot"
	CredibilityLow    = "low"
	CredibilityMedium = "medium"
	CredibilityHigh   = "high"
)

// Account trust labels
const (
	TrustReliable = "Reliable"
	TrustNeutral  = "Neutral"
	TrustBot      = "Bot/Malicious"
)

type Account struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"index" json:"username"`
	CreatedAt   *time.Time `gorm:"autoCreateTime:false" json:"created_at,omitempty"`
	Followers   int        `json:"followers"`
	Following   int        `json:"following"`
	PostsPerDay float64    `json:"posts_per_day"`
	Credibility string     `json:"credibility,omitempty"`

	TrustScore *float64  `json:"trust_score,omitempty"`
	TrustLabel string    `json:"trust_label,omitempty"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// Token risk labels. The last two are only produced by the sentiment policy.
const (
	RiskSafe       = "Safe"
	RiskSuspicious = "Suspicious"
	RiskHigh       = "High Risk"
	RiskPumpDump   = "Pump & Dump"
	RiskFUD        = "FUD Attack"
)

// One live record per token; writers upsert on TokenID.
type TokenRiskScore struct {
	TokenID   string    `gorm:"primaryKey" json:"token_id"`
	Score     float64   `gorm:"not null" json:"score"`
	Label     string    `gorm:"not null" json:"label"`
	Reason    string    `gorm:"not null" json:"reason"`
	Policy    string    `json:"policy"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

// Elevated labels are the ones worth alerting a human about.
func (r *TokenRiskScore) Elevated() bool {
	switch r.Label {
	case RiskHigh, RiskPumpDump, RiskFUD:
		return true
	}
	return false
}

type Narrative struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	TokenID   string    `gorm:"index;not null" json:"token_id"`
	Topic     string    `json:"topic"`
	PostIDs   []string  `gorm:"serializer:json" json:"post_ids"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
}
