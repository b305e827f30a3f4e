package models

import "gorm.io/datatypes"

type Reply struct {
	BaseModel

	Body   string                      `json:"body"`
	Images datatypes.JSONSlice[string] `json:"images"`
	Video  *string                     `json:"video"`

	PostID   uint  `json:"post_id" gorm:"index"`
	ParentID *uint `json:"parent_id" gorm:"index"`

	AccountID uint    `json:"account_id"`
	Account   Account `json:"account"`

	Likes []ReplyLike `json:"-"`

	Metric ReplyMetric `json:"metric" gorm:"-"`
}

type ReplyMetric struct {
	LikeCount int64 `json:"like_count"`
}

type ReplyLike struct {
	BaseModel

	AccountID uint `json:"account_id" gorm:"uniqueIndex:idx_account_reply"`
	ReplyID   uint `json:"reply_id" gorm:"uniqueIndex:idx_account_reply;index"`
}
