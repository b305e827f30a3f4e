package services

import (
	"testing"
	"time"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost(t *testing.T) {
	useTestDatabase(t)
	author := seedAccount(t, "author")
	community := seedCommunity(t, "gophers", nil)

	item, err := NewPost(author, models.Post{
		Body:        "  hello gophers  ",
		Images:      []string{"b.png", "a.png"},
		CommunityID: &community.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello gophers", item.Body)

	stored, err := GetPost(database.C, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.png", "a.png"}, []string(stored.Images))
	require.NotNil(t, stored.Community)
	assert.Equal(t, "gophers", stored.Community.Name)
	assert.Equal(t, "author", stored.Account.Name)

	_, err = NewPost(author, models.Post{Body: "  "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	missing := uint(4242)
	_, err = NewPost(author, models.Post{Body: "lost", CommunityID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)

	legacy, err := NewPost(author, models.Post{Images: []string{"only.png"}})
	require.NoError(t, err)
	assert.Nil(t, legacy.CommunityID)
}

func TestGetPostNotFound(t *testing.T) {
	useTestDatabase(t)

	_, err := GetPost(database.C, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost(t *testing.T) {
	useTestDatabase(t)
	author := seedAccount(t, "author")
	stranger := seedAccount(t, "stranger")
	post := seedPost(t, author, nil, "hello", testEpoch)
	reply := seedReply(t, stranger, post, nil, testEpoch)

	_, err := LikePost(stranger, post)
	require.NoError(t, err)
	_, err = LikeReply(author, reply)
	require.NoError(t, err)

	assert.ErrorIs(t, DeletePost(stranger, post), ErrForbidden)
	require.NoError(t, DeletePost(author, post))

	_, err = GetPost(database.C, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = GetReply(database.C, reply.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	likes, err := CountPostLikes(database.C, post.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)
	likes, err = CountReplyLikes(database.C, reply.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)
}

func TestLikePostIdempotent(t *testing.T) {
	useTestDatabase(t)
	author := seedAccount(t, "author")
	post := seedPost(t, author, nil, "hello", testEpoch)

	changed, err := LikePost(author, post)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = LikePost(author, post)
	require.NoError(t, err)
	assert.False(t, changed)

	likes, err := CountPostLikes(database.C, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)
	liked, err := IsPostLiked(database.C, author.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	changed, err = UnlikePost(author, post)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = UnlikePost(author, post)
	require.NoError(t, err)
	assert.False(t, changed)

	likes, err = CountPostLikes(database.C, post.ID)
	require.NoError(t, err)
	assert.Zero(t, likes)
	liked, err = IsPostLiked(database.C, author.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestListAuthorAndCommunityPosts(t *testing.T) {
	useTestDatabase(t)
	author := seedAccount(t, "author")
	other := seedAccount(t, "other")
	community := seedCommunity(t, "gophers", nil)

	first := seedPost(t, author, &community, "one", testEpoch)
	legacy := seedPost(t, author, nil, "two", testEpoch.AddDate(0, 0, 1))
	foreign := seedPost(t, other, &community, "three", testEpoch.AddDate(0, 0, 2))

	posts, err := ListAuthorPosts(database.C, author.ID, PostSortLatest)
	require.NoError(t, err)
	assert.Equal(t, []uint{legacy.ID, first.ID}, postIDs(posts))

	posts, err = ListCommunityPosts(database.C, community.ID, PostSortLatest)
	require.NoError(t, err)
	assert.Equal(t, []uint{foreign.ID, first.ID}, postIDs(posts))
}

func TestReplyCountIncludesNestedReplies(t *testing.T) {
	useTestDatabase(t)
	author := seedAccount(t, "author")
	community := seedCommunity(t, "gophers", nil)

	threaded := seedPost(t, author, &community, "threaded", testEpoch)
	single := seedPost(t, author, &community, "single", testEpoch.Add(time.Hour))
	quiet := seedPost(t, author, &community, "quiet", testEpoch.Add(2*time.Hour))

	top := seedReply(t, author, threaded, nil, testEpoch.Add(time.Minute))
	seedReply(t, author, threaded, &top, testEpoch.Add(2*time.Minute))
	seedReply(t, author, single, nil, testEpoch.Add(time.Hour+time.Minute))

	stored, err := GetPost(database.C, threaded.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Metric.ReplyCount)

	posts, err := ListLatestPosts(database.C, PostSortReplies)
	require.NoError(t, err)
	assert.Equal(t, []uint{threaded.ID, single.ID, quiet.ID}, postIDs(posts))
	assert.Equal(t, []int64{2, 1, 0}, []int64{
		posts[0].Metric.ReplyCount,
		posts[1].Metric.ReplyCount,
		posts[2].Metric.ReplyCount,
	})
}

func TestLikeQueriesReportStoreErrors(t *testing.T) {
	useTestDatabase(t)
	author := seedAccount(t, "author")
	post := seedPost(t, author, nil, "hello", testEpoch)
	reply := seedReply(t, author, post, nil, testEpoch)

	require.NoError(t, database.C.Migrator().DropTable(&models.PostLike{}, &models.ReplyLike{}))

	_, err := CountPostLikes(database.C, post.ID)
	assert.Error(t, err)
	_, err = CountReplyLikes(database.C, reply.ID)
	assert.Error(t, err)
	_, err = IsPostLiked(database.C, author.ID, post.ID)
	assert.Error(t, err)
	_, err = IsReplyLiked(database.C, author.ID, reply.ID)
	assert.Error(t, err)
}
