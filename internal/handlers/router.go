package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/workspace-api/internal/auth"
	"github.com/yukikurage/workspace-api/internal/constants"
	"github.com/yukikurage/workspace-api/internal/middleware"
	"github.com/yukikurage/workspace-api/internal/services"
	"github.com/yukikurage/workspace-api/internal/tenancy"
)

// Services groups everything the HTTP layer depends on.
type Services struct {
	Auth         *services.AuthService
	Workspaces   *services.WorkspaceService
	Channels     *services.ChannelService
	Publications *services.PublicationService
	Comments     *services.CommentService
	Reactions    *services.ReactionService
	Media        *services.MediaService

	Resolver       *tenancy.Resolver
	Tokens         *auth.TokenManager
	SessionStore   sessions.Store
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(deps Services) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	authHandler := NewAuthHandler(deps.Auth, deps.Workspaces, deps.Tokens)
	channelHandler := NewChannelHandler(deps.Channels)
	publicationHandler := NewPublicationHandler(deps.Publications)
	commentHandler := NewCommentHandler(deps.Comments)
	reactionHandler := NewReactionHandler(deps.Reactions)
	mediaHandler := NewMediaHandler(deps.Media, deps.MaxUploadBytes)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Workspace API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (global, emails are unique across workspaces)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
		}

		ws := api.Group("/:" + constants.WorkspaceSlugParam)
		ws.Use(middleware.ResolveWorkspace(deps.Resolver, logger))
		{
			// Public workspace routes
			ws.GET("", authHandler.GetWorkspace)
			ws.POST("/register", authHandler.Register)

			members := ws.Group("")
			members.Use(middleware.RequireAuth(deps.Auth, deps.Tokens))
			{
				members.GET("/users/me", authHandler.GetCurrentUser)
				members.POST("/join-code", authHandler.RotateJoinCode)

				channels := members.Group("/channels")
				{
					channels.GET("", channelHandler.ListChannels)
					channels.POST("", channelHandler.CreateChannel)
					channels.GET("/:id", channelHandler.GetChannel)
					channels.PATCH("/:id", channelHandler.UpdateChannel)
					channels.DELETE("/:id", channelHandler.DeleteChannel)
				}

				publications := members.Group("/publications")
				{
					publications.GET("", publicationHandler.ListPublications)
					publications.POST("", publicationHandler.CreatePublication)
					publications.GET("/:id", publicationHandler.GetPublication)
					publications.PATCH("/:id", publicationHandler.UpdatePublication)
					publications.DELETE("/:id", publicationHandler.DeletePublication)
				}

				comments := members.Group("/comments")
				{
					comments.GET("", commentHandler.ListComments)
					comments.POST("", commentHandler.CreateComment)
					comments.GET("/:id", commentHandler.GetComment)
					comments.PATCH("/:id", commentHandler.UpdateComment)
					comments.DELETE("/:id", commentHandler.DeleteComment)
				}

				reactions := members.Group("/reactions")
				{
					reactions.GET("", reactionHandler.ListReactions)
					reactions.POST("", reactionHandler.CreateReaction)
					reactions.DELETE("/:id", reactionHandler.DeleteReaction)
				}

				media := members.Group("/media")
				{
					media.GET("", mediaHandler.ListMedia)
					media.POST("", mediaHandler.UploadMedia)
					media.GET("/:id", mediaHandler.GetMedia)
					media.GET("/:id/content", mediaHandler.DownloadMedia)
					media.DELETE("/:id", mediaHandler.DeleteMedia)
				}
			}
		}
	}

	return r
}
