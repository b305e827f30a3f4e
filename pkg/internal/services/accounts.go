package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var accountNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{2,80}$`)

func GetAccount(tx *gorm.DB, id uint) (models.Account, error) {
	var account models.Account
	if err := tx.Where("id = ?", id).First(&account).Error; err != nil {
		return account, wrapQueryError(err, "account")
	}
	return account, nil
}

func GetAccountByName(tx *gorm.DB, name string) (models.Account, error) {
	var account models.Account
	if err := tx.Where("name = ?", name).First(&account).Error; err != nil {
		return account, wrapQueryError(err, "account")
	}
	return account, nil
}

func RegisterAccount(name, password string) (models.Account, error) {
	name = strings.TrimSpace(name)
	if !accountNamePattern.MatchString(name) {
		return models.Account{}, fmt.Errorf("invalid username, use 2 to 80 letters, digits, dots, dashes or underscores")
	}

	if _, err := GetAccountByName(database.C, name); err == nil {
		return models.Account{}, ErrAccountExists
	} else if !errors.Is(err, ErrNotFound) {
		return models.Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("unable to hash password: %v", err)
	}

	account := models.Account{
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := database.C.Create(&account).Error; err != nil {
		return account, err
	}

	log.Info().Uint("account", account.ID).Str("name", account.Name).Msg("A new account registered.")
	return account, nil
}

func AuthenticateAccount(name, password string) (models.Account, error) {
	account, err := GetAccountByName(database.C, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return account, ErrInvalidCredentials
		}
		return account, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return account, ErrInvalidCredentials
	}
	return account, nil
}

func EditAccount(account models.Account) (models.Account, error) {
	if account.Nick != nil && len(strings.TrimSpace(*account.Nick)) == 0 {
		account.Nick = nil
	}

	err := database.C.Model(&account).
		Select("nick", "description", "avatar").
		Updates(&account).Error
	return account, err
}
