package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// useTestDatabase points database.C at a fresh in-memory store for the running test.
func useTestDatabase(t *testing.T) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), database.NewConfig("", logger.Silent))
	require.NoError(t, err)

	raw, err := db.DB()
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigration(db))

	previous := database.C
	database.C = db
	t.Cleanup(func() {
		database.C = previous
		_ = raw.Close()
	})
}

var testEpoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func seedAccount(t *testing.T, name string) models.Account {
	t.Helper()
	account := models.Account{Name: name, PasswordHash: "-"}
	require.NoError(t, database.C.Create(&account).Error)
	return account
}

func seedCommunity(t *testing.T, name string, owner *models.Account) models.Community {
	t.Helper()
	community := models.Community{Name: name}
	if owner != nil {
		community.AccountID = &owner.ID
	}
	require.NoError(t, database.C.Omit(clause.Associations).Create(&community).Error)
	return community
}

func seedPost(t *testing.T, author models.Account, community *models.Community, body string, createdAt time.Time) models.Post {
	t.Helper()
	post := models.Post{Body: body, AccountID: author.ID}
	post.CreatedAt = createdAt
	post.UpdatedAt = createdAt
	if community != nil {
		post.CommunityID = &community.ID
	}
	require.NoError(t, database.C.Omit(clause.Associations).Create(&post).Error)
	return post
}

func seedReply(t *testing.T, author models.Account, post models.Post, parent *models.Reply, createdAt time.Time) models.Reply {
	t.Helper()
	reply := models.Reply{Body: "reply", PostID: post.ID, AccountID: author.ID}
	reply.CreatedAt = createdAt
	reply.UpdatedAt = createdAt
	if parent != nil {
		reply.ParentID = &parent.ID
	}
	require.NoError(t, database.C.Omit(clause.Associations).Create(&reply).Error)
	return reply
}

func postIDs(posts []models.Post) []uint {
	out := make([]uint, len(posts))
	for i, item := range posts {
		out[i] = item.ID
	}
	return out
}

func communityNames(communities []models.Community) []string {
	out := make([]string, len(communities))
	for i, item := range communities {
		out[i] = item.Name
	}
	return out
}
