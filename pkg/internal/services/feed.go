package services

import (
	"strings"
	"time"

	"git.solsynth.dev/hypernet/community/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Viewer is the identity a request is served for, AccountID is nil for anonymous visitors.
type Viewer struct {
	AccountID *uint
}

func (v Viewer) IsAnonymous() bool {
	return v.AccountID == nil
}

const (
	FeedTabHome   = "home"
	FeedTabLatest = "latest"
	FeedTabSearch = "search"
)

// FeedRequest selects a feed, Take <= 0 returns every entry after Offset.
type FeedRequest struct {
	Tab             string
	Sort            string
	CommunitySearch CommunitySearchFilter
	Take            int
	Offset          int
}

// Feed holds one page of the feed, Count is the size of the whole candidate set.
type Feed struct {
	Tab         string             `json:"tab"`
	Count       int64              `json:"count"`
	Posts       []models.Post      `json:"posts"`
	Communities []models.Community `json:"communities"`
}

// ResolveFeedTab applies the fallback rules, anonymous viewers have no follow set
// so their home tab is the latest tab.
func ResolveFeedTab(tab string, viewer Viewer) string {
	switch tab = strings.ToLower(strings.TrimSpace(tab)); tab {
	case FeedTabSearch, FeedTabLatest:
		return tab
	}
	if viewer.IsAnonymous() {
		return FeedTabLatest
	}
	return FeedTabHome
}

// AssembleFeed selects the candidate set for the tab and hands it to the sort engine.
// The search tab returns communities instead of posts.
func AssembleFeed(tx *gorm.DB, viewer Viewer, req FeedRequest) (Feed, error) {
	start := time.Now()
	feed := Feed{
		Tab:         ResolveFeedTab(req.Tab, viewer),
		Posts:       make([]models.Post, 0),
		Communities: make([]models.Community, 0),
	}
	defer func() {
		observeFeedAssembly(feed.Tab, time.Since(start))
	}()

	var err error
	switch feed.Tab {
	case FeedTabSearch:
		var communities []models.Community
		communities, err = SearchCommunities(tx, req.CommunitySearch, ParseCommunitySortKey(req.Sort))
		feed.Count = int64(len(communities))
		feed.Communities = Paginate(communities, req.Take, req.Offset)
	case FeedTabHome:
		var idx []uint
		if idx, err = GetFollowedCommunityIDs(tx, *viewer.AccountID); err == nil {
			query := FilterPostWithCommunities(tx.Model(&models.Post{}), idx)
			feed.Posts, feed.Count, err = listPostPage(query, ParsePostSortKey(req.Sort), req.Take, req.Offset)
		}
	default:
		query := FilterPostWithCommunityAssigned(tx.Model(&models.Post{}))
		feed.Posts, feed.Count, err = listPostPage(query, ParsePostSortKey(req.Sort), req.Take, req.Offset)
	}
	if err != nil {
		return feed, err
	}

	log.Debug().
		Str("tab", feed.Tab).
		Int("posts", len(feed.Posts)).
		Int("communities", len(feed.Communities)).
		Dur("elapsed", time.Since(start)).
		Msg("Assembled feed.")
	return feed, nil
}

func ListHomePosts(tx *gorm.DB, account uint, key PostSortKey) ([]models.Post, error) {
	idx, err := GetFollowedCommunityIDs(tx, account)
	if err != nil {
		return make([]models.Post, 0), err
	}
	return listSortedPosts(FilterPostWithCommunities(tx.Model(&models.Post{}), idx), key)
}

func ListLatestPosts(tx *gorm.DB, key PostSortKey) ([]models.Post, error) {
	return listSortedPosts(FilterPostWithCommunityAssigned(tx.Model(&models.Post{})), key)
}

// ListAuthorPosts includes posts without a community as well.
func ListAuthorPosts(tx *gorm.DB, account uint, key PostSortKey) ([]models.Post, error) {
	return listSortedPosts(FilterPostWithAuthor(tx.Model(&models.Post{}), account), key)
}

func ListCommunityPosts(tx *gorm.DB, community uint, key PostSortKey) ([]models.Post, error) {
	return listSortedPosts(FilterPostWithCommunity(tx.Model(&models.Post{}), community), key)
}

type PostSearchFilter struct {
	Username string
	Body     string
	From     *time.Time
	Until    *time.Time
}

const searchDateLayout = "2006-01-02"

// ParsePostSearchFilter builds the filter from raw query values.
// Dates that cannot be parsed are dropped, the end date is turned into an exclusive
// bound on the next day so the whole end date is included.
func ParsePostSearchFilter(username, body, from, to string) PostSearchFilter {
	filter := PostSearchFilter{
		Username: strings.TrimSpace(username),
		Body:     strings.TrimSpace(body),
	}
	if date, err := time.ParseInLocation(searchDateLayout, strings.TrimSpace(from), time.UTC); err == nil {
		filter.From = &date
	}
	if date, err := time.ParseInLocation(searchDateLayout, strings.TrimSpace(to), time.UTC); err == nil {
		until := date.AddDate(0, 0, 1)
		filter.Until = &until
	}
	return filter
}

func SearchPosts(tx *gorm.DB, filter PostSearchFilter, key PostSortKey) ([]models.Post, error) {
	query := FilterPostWithCommunityAssigned(tx.Model(&models.Post{}))
	query = FilterPostWithUsername(query, filter.Username)
	query = FilterPostWithBody(query, filter.Body)
	query = FilterPostWithCreatedAt(query, filter.From, filter.Until)
	return listSortedPosts(query, key)
}

func listSortedPosts(tx *gorm.DB, key PostSortKey) ([]models.Post, error) {
	posts, err := ListPost(tx)
	if err != nil {
		return make([]models.Post, 0), err
	}
	return SortPosts(posts, key), nil
}

// listPostPage returns one page of the filtered posts and the size of the whole set.
// The latest key is ordered and paged by the store. The count keys need the metric
// of every candidate, so those are sorted and paged in memory.
func listPostPage(tx *gorm.DB, key PostSortKey, take, offset int) ([]models.Post, int64, error) {
	if key != PostSortLatest {
		posts, err := listSortedPosts(tx, key)
		if err != nil {
			return make([]models.Post, 0), 0, err
		}
		return Paginate(posts, take, offset), int64(len(posts)), nil
	}

	query := tx.Session(&gorm.Session{})
	count, err := CountPost(query)
	if err != nil {
		return make([]models.Post, 0), 0, err
	}
	posts, err := ListPostInPage(query, take, offset)
	if err != nil {
		return make([]models.Post, 0), 0, err
	}
	return posts, count, nil
}
