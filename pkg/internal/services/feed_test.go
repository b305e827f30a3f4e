package services

import (
	"testing"
	"time"

	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedFixture struct {
	author  models.Account
	viewer  models.Account
	first   models.Community
	second  models.Community
	a, b, c models.Post
	legacy  models.Post
}

func seedFeedFixture(t *testing.T) feedFixture {
	t.Helper()

	var v feedFixture
	v.author = seedAccount(t, "author")
	v.viewer = seedAccount(t, "viewer")
	v.first = seedCommunity(t, "first", nil)
	v.second = seedCommunity(t, "second", nil)

	v.a = seedPost(t, v.author, &v.first, "post a", testEpoch)
	v.b = seedPost(t, v.author, &v.first, "post b", testEpoch.Add(time.Hour))
	v.c = seedPost(t, v.author, &v.second, "post c", testEpoch.Add(2*time.Hour))
	v.legacy = seedPost(t, v.author, nil, "legacy", testEpoch.Add(3*time.Hour))

	for _, name := range []string{"liker1", "liker2", "liker3"} {
		liker := seedAccount(t, name)
		_, err := LikePost(liker, v.b)
		require.NoError(t, err)
		if name == "liker1" {
			_, err = LikePost(liker, v.c)
			require.NoError(t, err)
		}
	}

	return v
}

func TestAssembleFeedLatest(t *testing.T) {
	useTestDatabase(t)
	v := seedFeedFixture(t)

	feed, err := AssembleFeed(database.C, Viewer{}, FeedRequest{Tab: FeedTabLatest, Sort: "likes"})
	require.NoError(t, err)
	assert.Equal(t, FeedTabLatest, feed.Tab)
	assert.Equal(t, []uint{v.b.ID, v.c.ID, v.a.ID}, postIDs(feed.Posts))
	assert.NotNil(t, feed.Communities)

	feed, err = AssembleFeed(database.C, Viewer{}, FeedRequest{Tab: FeedTabLatest, Sort: "latest"})
	require.NoError(t, err)
	assert.Equal(t, []uint{v.c.ID, v.b.ID, v.a.ID}, postIDs(feed.Posts))

	assert.Equal(t, int64(3), feed.Posts[1].Metric.LikeCount)
	assert.Equal(t, "author", feed.Posts[0].Account.Name)
}

func TestAssembleFeedAnonymousHome(t *testing.T) {
	useTestDatabase(t)
	seedFeedFixture(t)

	home, err := AssembleFeed(database.C, Viewer{}, FeedRequest{Tab: FeedTabHome})
	require.NoError(t, err)
	latest, err := AssembleFeed(database.C, Viewer{}, FeedRequest{Tab: FeedTabLatest})
	require.NoError(t, err)

	assert.Equal(t, FeedTabLatest, home.Tab)
	assert.Equal(t, postIDs(latest.Posts), postIDs(home.Posts))
}

func TestAssembleFeedHome(t *testing.T) {
	useTestDatabase(t)
	v := seedFeedFixture(t)
	viewer := Viewer{AccountID: &v.viewer.ID}

	feed, err := AssembleFeed(database.C, viewer, FeedRequest{Tab: FeedTabHome})
	require.NoError(t, err)
	require.NotNil(t, feed.Posts)
	assert.Empty(t, feed.Posts)

	_, err = FollowCommunity(v.viewer, v.first)
	require.NoError(t, err)

	feed, err = AssembleFeed(database.C, viewer, FeedRequest{Tab: "unknown"})
	require.NoError(t, err)
	assert.Equal(t, FeedTabHome, feed.Tab)
	assert.Equal(t, []uint{v.b.ID, v.a.ID}, postIDs(feed.Posts))

	posts, err := ListHomePosts(database.C, v.viewer.ID, PostSortLatest)
	require.NoError(t, err)
	assert.Equal(t, postIDs(feed.Posts), postIDs(posts))
}

func TestAssembleFeedSearch(t *testing.T) {
	useTestDatabase(t)
	v := seedFeedFixture(t)

	_, err := FollowCommunity(v.viewer, v.second)
	require.NoError(t, err)

	feed, err := AssembleFeed(database.C, Viewer{}, FeedRequest{
		Tab:             FeedTabSearch,
		Sort:            "followers",
		CommunitySearch: ParseCommunitySearchFilter("", "", ""),
	})
	require.NoError(t, err)
	assert.Empty(t, feed.Posts)
	assert.Equal(t, []string{"second", "first"}, communityNames(feed.Communities))
}

func TestResolveFeedTab(t *testing.T) {
	id := uint(1)
	signed := Viewer{AccountID: &id}

	assert.Equal(t, FeedTabLatest, ResolveFeedTab("home", Viewer{}))
	assert.Equal(t, FeedTabLatest, ResolveFeedTab("", Viewer{}))
	assert.Equal(t, FeedTabHome, ResolveFeedTab("", signed))
	assert.Equal(t, FeedTabSearch, ResolveFeedTab("Search", Viewer{}))
	assert.Equal(t, FeedTabLatest, ResolveFeedTab("latest", signed))
}

func TestSearchPosts(t *testing.T) {
	useTestDatabase(t)
	v := seedFeedFixture(t)
	other := seedAccount(t, "someone_else")
	d := seedPost(t, other, &v.second, "100% Gopher", testEpoch.AddDate(0, 0, 2))

	t.Run("unknown username matches nothing", func(t *testing.T) {
		filter := ParsePostSearchFilter("nobody_exists", "post", "2024-01-01", "2030-01-01")
		posts, err := SearchPosts(database.C, filter, PostSortLatest)
		require.NoError(t, err)
		require.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("username is a case-insensitive substring", func(t *testing.T) {
		posts, err := SearchPosts(database.C, ParsePostSearchFilter("ELSE", "", "", ""), PostSortLatest)
		require.NoError(t, err)
		assert.Equal(t, []uint{d.ID}, postIDs(posts))
	})

	t.Run("body wildcards are literal", func(t *testing.T) {
		posts, err := SearchPosts(database.C, ParsePostSearchFilter("", "100%", "", ""), PostSortLatest)
		require.NoError(t, err)
		assert.Equal(t, []uint{d.ID}, postIDs(posts))

		posts, err = SearchPosts(database.C, ParsePostSearchFilter("", "POST", "", ""), PostSortLatest)
		require.NoError(t, err)
		assert.Equal(t, []uint{v.c.ID, v.b.ID, v.a.ID}, postIDs(posts))
	})

	t.Run("date bounds include the whole end date", func(t *testing.T) {
		posts, err := SearchPosts(database.C, ParsePostSearchFilter("", "", "2024-03-01", "2024-03-01"), PostSortLatest)
		require.NoError(t, err)
		assert.Equal(t, []uint{v.c.ID, v.b.ID, v.a.ID}, postIDs(posts))

		posts, err = SearchPosts(database.C, ParsePostSearchFilter("", "", "2024-03-02", ""), PostSortLatest)
		require.NoError(t, err)
		assert.Equal(t, []uint{d.ID}, postIDs(posts))
	})

	t.Run("malformed dates are ignored", func(t *testing.T) {
		filter := ParsePostSearchFilter("", "", "yesterday", "03/01/2024")
		assert.Nil(t, filter.From)
		assert.Nil(t, filter.Until)

		posts, err := SearchPosts(database.C, filter, PostSortLatest)
		require.NoError(t, err)
		assert.Len(t, posts, 4)
	})
}

func TestSearchPostsWithZonedTimestamps(t *testing.T) {
	useTestDatabase(t)
	author := seedAccount(t, "author")
	community := seedCommunity(t, "gophers", nil)

	tokyo := time.FixedZone("JST", 9*60*60)
	late := seedPost(t, author, &community, "late night", time.Date(2024, time.March, 1, 8, 0, 0, 0, tokyo))

	stored, err := GetPost(database.C, late.ID)
	require.NoError(t, err)
	_, offset := stored.CreatedAt.Zone()
	assert.Zero(t, offset)
	assert.True(t, stored.CreatedAt.Equal(time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC)))

	posts, err := SearchPosts(database.C, ParsePostSearchFilter("", "", "2024-02-29", "2024-02-29"), PostSortLatest)
	require.NoError(t, err)
	assert.Equal(t, []uint{late.ID}, postIDs(posts))

	posts, err = SearchPosts(database.C, ParsePostSearchFilter("", "", "2024-03-01", "2024-03-01"), PostSortLatest)
	require.NoError(t, err)
	assert.Empty(t, posts)

	stamped, err := NewPost(author, models.Post{Body: "now", CommunityID: &community.ID})
	require.NoError(t, err)
	stored, err = GetPost(database.C, stamped.ID)
	require.NoError(t, err)
	_, offset = stored.CreatedAt.Zone()
	assert.Zero(t, offset)
}

func TestAssembleFeedPaging(t *testing.T) {
	useTestDatabase(t)
	v := seedFeedFixture(t)

	feed, err := AssembleFeed(database.C, Viewer{}, FeedRequest{Tab: FeedTabLatest, Take: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), feed.Count)
	assert.Equal(t, []uint{v.b.ID, v.a.ID}, postIDs(feed.Posts))
	assert.Equal(t, int64(3), feed.Posts[0].Metric.LikeCount)

	feed, err = AssembleFeed(database.C, Viewer{}, FeedRequest{Tab: FeedTabLatest, Sort: "likes", Take: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), feed.Count)
	assert.Equal(t, []uint{v.b.ID}, postIDs(feed.Posts))

	feed, err = AssembleFeed(database.C, Viewer{}, FeedRequest{Tab: FeedTabLatest, Take: 2, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), feed.Count)
	require.NotNil(t, feed.Posts)
	assert.Empty(t, feed.Posts)

	_, err = FollowCommunity(v.viewer, v.first)
	require.NoError(t, err)

	feed, err = AssembleFeed(database.C, Viewer{AccountID: &v.viewer.ID}, FeedRequest{Tab: FeedTabHome, Take: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), feed.Count)
	assert.Equal(t, []uint{v.b.ID}, postIDs(feed.Posts))

	feed, err = AssembleFeed(database.C, Viewer{}, FeedRequest{Tab: FeedTabSearch, Take: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), feed.Count)
	assert.Equal(t, []string{"second"}, communityNames(feed.Communities))
}
