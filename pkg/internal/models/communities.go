package models

type Community struct {
	BaseModel

	Name        string  `json:"name" gorm:"uniqueIndex;size:120"`
	Description string  `json:"description"`
	Icon        *string `json:"icon"`

	// AccountID is the creator, communities without one are official.
	AccountID *uint    `json:"account_id"`
	Account   *Account `json:"account,omitempty"`

	Posts   []Post            `json:"-"`
	Follows []CommunityFollow `json:"-"`

	Metric CommunityMetric `json:"metric" gorm:"-"`
}

type CommunityMetric struct {
	FollowerCount int64 `json:"follower_count"`
}

// IsOfficial reports whether the community was created by the system.
func (v Community) IsOfficial() bool {
	return v.AccountID == nil
}

type CommunityFollow struct {
	BaseModel

	AccountID   uint `json:"account_id" gorm:"uniqueIndex:idx_account_community"`
	CommunityID uint `json:"community_id" gorm:"uniqueIndex:idx_account_community;index"`
}
