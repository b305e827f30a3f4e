package models

import "gorm.io/datatypes"

type Post struct {
	BaseModel

	Body     string                      `json:"body"`
	Language string                      `json:"language"`
	Images   datatypes.JSONSlice[string] `json:"images"`
	Video    *string                     `json:"video"`

	Replies []Reply    `json:"-"`
	Likes   []PostLike `json:"-"`

	// CommunityID is nil for legacy posts which were created before communities existed.
	CommunityID *uint      `json:"community_id" gorm:"index"`
	Community   *Community `json:"community,omitempty"`

	AccountID uint    `json:"account_id" gorm:"index"`
	Account   Account `json:"account"`

	Metric PostMetric `json:"metric" gorm:"-"`
}

type PostMetric struct {
	LikeCount  int64 `json:"like_count"`
	ReplyCount int64 `json:"reply_count"`
}

type PostLike struct {
	BaseModel

	AccountID uint `json:"account_id" gorm:"uniqueIndex:idx_account_post"`
	PostID    uint `json:"post_id" gorm:"uniqueIndex:idx_account_post;index"`
}
