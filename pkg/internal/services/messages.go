package services

import (
	"fmt"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationPartner struct {
	Account     models.Account `json:"account"`
	LastMessage models.Message `json:"last_message"`
	UnreadCount int64          `json:"unread_count"`
}

func FilterMessageWithConversation(tx *gorm.DB, account, partner uint) *gorm.DB {
	return tx.Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		account, partner, partner, account,
	)
}

func GetMessage(tx *gorm.DB, id uint) (models.Message, error) {
	var message models.Message
	if err := tx.Where("id = ?", id).First(&message).Error; err != nil {
		return message, wrapQueryError(err, "message")
	}
	return message, nil
}

func SendMessage(user models.Account, recipientName, body string) (models.Message, error) {
	body = strings.TrimSpace(body)
	if len(body) == 0 {
		return models.Message{}, ErrEmptyContent
	}

	recipient, err := GetAccountByName(database.C, strings.TrimSpace(recipientName))
	if err != nil {
		return models.Message{}, fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}
	if recipient.ID == user.ID {
		return models.Message{}, fmt.Errorf("%w: cannot message yourself", ErrInvalidRecipient)
	}

	message := models.Message{
		Body:        body,
		SenderID:    user.ID,
		RecipientID: &recipient.ID,
	}
	if err := database.C.Omit(clause.Associations).Create(&message).Error; err != nil {
		return message, err
	}
	message.Sender = user
	message.Recipient = &recipient

	return message, nil
}

// ListConversation returns the messages exchanged between the two accounts, oldest first.
func ListConversation(tx *gorm.DB, account, partner uint) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	err := FilterMessageWithConversation(tx.Model(&models.Message{}), account, partner).
		Preload("Sender").
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// ListConversationPartners lists everyone the account talked with, most recent conversation first.
func ListConversationPartners(tx *gorm.DB, account uint) ([]ConversationPartner, error) {
	var messages []models.Message
	if err := tx.
		Where("sender_id = ? OR recipient_id = ?", account, account).
		Where("recipient_id IS NOT NULL").
		Order("created_at DESC, id DESC").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	partners := make([]ConversationPartner, 0)
	index := make(map[uint]int)
	for _, message := range messages {
		partner := lo.Ternary(message.SenderID == account, *message.RecipientID, message.SenderID)
		at, ok := index[partner]
		if !ok {
			at = len(partners)
			index[partner] = at
			partners = append(partners, ConversationPartner{
				Account:     models.Account{BaseModel: models.BaseModel{ID: partner}},
				LastMessage: message,
			})
		}
		if message.SenderID == partner && !message.IsRead {
			partners[at].UnreadCount++
		}
	}

	if len(partners) == 0 {
		return partners, nil
	}

	var accounts []models.Account
	if err := tx.Session(&gorm.Session{NewDB: true}).
		Where("id IN ?", lo.Keys(index)).
		Find(&accounts).Error; err != nil {
		return partners, err
	}
	for _, item := range accounts {
		partners[index[item.ID]].Account = item
	}

	return partners, nil
}

func MarkConversationRead(account, partner uint) (int64, error) {
	now := time.Now().UTC()
	tx := database.C.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND is_read = ?", partner, account, false).
		Updates(map[string]any{"is_read": true, "read_at": now})
	return tx.RowsAffected, tx.Error
}

func CountUnreadMessages(tx *gorm.DB, account uint) (int64, error) {
	var count int64
	err := tx.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", account, false).
		Count(&count).Error
	return count, err
}

func DeleteMessage(user models.Account, message models.Message) error {
	if message.SenderID != user.ID {
		return fmt.Errorf("you can only delete messages you sent: %w", ErrForbidden)
	}
	return database.C.Delete(&models.Message{}, message.ID).Error
}
