package services

import (
	"cmp"
	"slices"
	"strings"

	"git.solsynth.dev/hypernet/community/pkg/internal/models"
)

type PostSortKey string

const (
	PostSortLatest  = PostSortKey("latest")
	PostSortLikes   = PostSortKey("likes")
	PostSortReplies = PostSortKey("replies")
)

type CommunitySortKey string

const (
	CommunitySortName      = CommunitySortKey("name")
	CommunitySortFollowers = CommunitySortKey("followers")
	CommunitySortCreatedAt = CommunitySortKey("created_at")
)

func ParsePostSortKey(in string) PostSortKey {
	switch key := PostSortKey(strings.ToLower(strings.TrimSpace(in))); key {
	case PostSortLikes, PostSortReplies:
		return key
	default:
		return PostSortLatest
	}
}

func ParseCommunitySortKey(in string) CommunitySortKey {
	switch key := CommunitySortKey(strings.ToLower(strings.TrimSpace(in))); key {
	case CommunitySortFollowers, CommunitySortCreatedAt:
		return key
	default:
		return CommunitySortName
	}
}

// SortPosts returns a reordered copy of the posts, the input slice is left untouched.
// The like and reply keys read Metric, so fill it via CompletePostMetric beforehand.
func SortPosts(posts []models.Post, key PostSortKey) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)

	var compare func(a, b models.Post) int
	switch key {
	case PostSortLikes:
		compare = func(a, b models.Post) int {
			return cmp.Or(
				cmp.Compare(b.Metric.LikeCount, a.Metric.LikeCount),
				cmp.Compare(a.ID, b.ID),
			)
		}
	case PostSortReplies:
		compare = func(a, b models.Post) int {
			return cmp.Or(
				cmp.Compare(b.Metric.ReplyCount, a.Metric.ReplyCount),
				cmp.Compare(a.ID, b.ID),
			)
		}
	default:
		compare = func(a, b models.Post) int {
			return cmp.Or(
				b.CreatedAt.Compare(a.CreatedAt),
				cmp.Compare(b.ID, a.ID),
			)
		}
	}

	slices.SortStableFunc(out, compare)
	return out
}

// SortCommunities works like SortPosts, the followers key reads Metric.FollowerCount.
func SortCommunities(communities []models.Community, key CommunitySortKey) []models.Community {
	out := make([]models.Community, len(communities))
	copy(out, communities)

	var compare func(a, b models.Community) int
	switch key {
	case CommunitySortFollowers:
		compare = func(a, b models.Community) int {
			return cmp.Or(
				cmp.Compare(b.Metric.FollowerCount, a.Metric.FollowerCount),
				cmp.Compare(a.ID, b.ID),
			)
		}
	case CommunitySortCreatedAt:
		compare = func(a, b models.Community) int {
			return cmp.Or(
				b.CreatedAt.Compare(a.CreatedAt),
				cmp.Compare(a.ID, b.ID),
			)
		}
	default:
		compare = func(a, b models.Community) int {
			return cmp.Or(
				strings.Compare(a.Name, b.Name),
				cmp.Compare(a.ID, b.ID),
			)
		}
	}

	slices.SortStableFunc(out, compare)
	return out
}
