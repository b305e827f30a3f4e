package models

import "time"

type Message struct {
	BaseModel

	Body string `json:"body"`

	SenderID    uint     `json:"sender_id" gorm:"index"`
	Sender      Account  `json:"sender"`
	RecipientID *uint    `json:"recipient_id" gorm:"index"`
	Recipient   *Account `json:"recipient,omitempty"`

	IsRead bool       `json:"is_read"`
	ReadAt *time.Time `json:"read_at"`
}
