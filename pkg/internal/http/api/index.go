package api

import "github.com/gofiber/fiber/v2"

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		auth := api.Group("/auth").Name("Auth API")
		{
			auth.Post("/register", register)
			auth.Post("/login", login)
		}

		users := api.Group("/users").Name("Users API")
		{
			users.Get("/me", getMyself)
			users.Put("/me", editMyself)
			users.Get("/me/communities", listFollowedCommunity)
			users.Get("/:name", getAccount)
			users.Get("/:name/posts", listAccountPost)
		}

		api.Get("/feed", getFeed)

		communities := api.Group("/communities").Name("Communities API")
		{
			communities.Get("/", searchCommunity)
			communities.Post("/", createCommunity)
			communities.Get("/:communityId", getCommunity)
			communities.Get("/:communityId/posts", listCommunityPost)
			communities.Delete("/:communityId", deleteCommunity)
			communities.Post("/:communityId/follow", followCommunity)
			communities.Delete("/:communityId/follow", unfollowCommunity)
		}

		posts := api.Group("/posts").Name("Posts API")
		{
			posts.Get("/search", searchPost)
			posts.Post("/", createPost)
			posts.Get("/:postId", getPost)
			posts.Delete("/:postId", deletePost)
			posts.Post("/:postId/like", likePost)
			posts.Post("/:postId/unlike", unlikePost)
			posts.Get("/:postId/replies", listPostReply)
			posts.Post("/:postId/replies", createReply)
		}

		replies := api.Group("/replies").Name("Replies API")
		{
			replies.Delete("/:replyId", deleteReply)
			replies.Post("/:replyId/like", likeReply)
			replies.Post("/:replyId/unlike", unlikeReply)
		}

		messages := api.Group("/messages").Name("Messages API")
		{
			messages.Get("/", listConversation)
			messages.Get("/unread", countUnreadMessage)
			messages.Post("/", sendMessage)
			messages.Get("/:name", getConversation)
			messages.Delete("/:messageId", deleteMessage)
		}

		api.Post("/attachments", uploadAttachment)
	}
}
