package router

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/mathieu-neron/vixtube/internal/handler"
	"github.com/mathieu-neron/vixtube/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Health   *handler.HealthHandler
	Reaction *handler.ReactionHandler
	Video    *handler.VideoHandler
	Comment  *handler.CommentHandler
	Tweet    *handler.TweetHandler
	Playlist *handler.PlaylistHandler
	Channel  *handler.ChannelHandler
	User     *handler.UserHandler
	AI       *handler.AIHandler
}

// NewApp returns a Fiber app using go-json and the envelope error handler.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		ServerHeader: name,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    1 << 20,
	})
}

// Setup configures the middleware stack and all API routes on the given Fiber
// app. The returned func stops the rate limiters' background sweeps.
func Setup(app *fiber.App, h *Handlers, auth *middleware.Auth, corsOrigins string) (stop func()) {
	apiLimiter := middleware.NewAPIRateLimiter()
	toggleLimiter := middleware.NewToggleRateLimiter()
	aiLimiter := middleware.NewAIRateLimiter()
	stop = func() {
		apiLimiter.Stop()
		toggleLimiter.Stop()
		aiLimiter.Stop()
	}

	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))

	// Probes and metrics (no auth)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	api := app.Group("/api/v1", apiLimiter.Handler())
	public := auth.Optional()
	private := auth.Required()
	toggle := toggleLimiter.Handler()

	// Route methods take the handler first; trailing middleware runs before it.

	// Likes
	likes := api.Group("/likes")
	likes.Post("/toggle/v/:videoId", h.Reaction.ToggleVideoLike, private, toggle)
	likes.Post("/toggle/v/:videoId/dislike", h.Reaction.ToggleVideoDislike, private, toggle)
	likes.Post("/toggle/c/:commentId", h.Reaction.ToggleCommentLike, private, toggle)
	likes.Post("/toggle/t/:tweetId", h.Reaction.ToggleTweetLike, private, toggle)
	likes.Get("/videos", h.Reaction.LikedVideos, private)
	likes.Get("/status/v/:videoId", h.Reaction.VideoLikeStatus, private)

	// Subscriptions
	subs := api.Group("/subscriptions")
	subs.Post("/c/:channelId", h.Reaction.ToggleSubscription, private, toggle)
	subs.Get("/c/:channelId/count", h.Reaction.SubscriberCount, public)
	subs.Get("/u/:subscriberId", h.Reaction.SubscribedChannels, public)

	// Users: saved videos, watch history, accounts
	users := api.Group("/users")
	users.Post("/save/:videoId", h.Reaction.ToggleSaved, private, toggle)
	users.Get("/saved-videos", h.Reaction.SavedVideos, private)
	users.Get("/saved/check/:videoId", h.Reaction.SavedStatus, private)
	users.Post("/watch-history/:videoId", h.User.AddToWatchHistory, private)
	users.Get("/watch-history", h.User.WatchHistory, private)
	users.Get("/me", h.User.Me, private)
	users.Get("/:userId", h.User.GetByID, public)

	// Generic reactions
	reactions := api.Group("/reactions")
	reactions.Get("/:subjectType/mine", h.Reaction.Mine, private)
	reactions.Get("/:subjectType/:subjectId/count", h.Reaction.Count, public)
	reactions.Get("/:subjectType/:subjectId/status", h.Reaction.Status, private)
	reactions.Post("/:subjectType/:subjectId/:kind", h.Reaction.Toggle, private, toggle)

	// Videos
	videos := api.Group("/videos")
	videos.Get("/", h.Video.List, public)
	videos.Post("/", h.Video.Publish, private)
	videos.Get("/mine", h.Video.ListMine, private)
	videos.Patch("/toggle/publish/:videoId", h.Video.TogglePublish, private)
	videos.Get("/:videoId", h.Video.Get, public)
	videos.Patch("/:videoId", h.Video.Update, private)
	videos.Delete("/:videoId", h.Video.Delete, private)

	// Comments
	comments := api.Group("/comments")
	comments.Get("/t/:tweetId", h.Comment.ListForTweet, public)
	comments.Post("/t/:tweetId", h.Comment.AddToTweet, private)
	comments.Patch("/c/:commentId", h.Comment.Update, private)
	comments.Delete("/c/:commentId", h.Comment.Delete, private)
	comments.Get("/:videoId", h.Comment.ListForVideo, public)
	comments.Post("/:videoId", h.Comment.AddToVideo, private)

	// Tweets
	tweets := api.Group("/tweets")
	tweets.Get("/", h.Tweet.ListAll, public)
	tweets.Post("/", h.Tweet.Create, private)
	tweets.Get("/user/:userId", h.Tweet.ListByUser, public)
	tweets.Patch("/:tweetId", h.Tweet.Update, private)
	tweets.Delete("/:tweetId", h.Tweet.Delete, private)

	// Playlists
	playlists := api.Group("/playlists")
	playlists.Post("/", h.Playlist.Create, private)
	playlists.Get("/user/:userId", h.Playlist.ListByUser, public)
	playlists.Patch("/add/:videoId/:playlistId", h.Playlist.AddVideo, private)
	playlists.Patch("/remove/:videoId/:playlistId", h.Playlist.RemoveVideo, private)
	playlists.Get("/:playlistId", h.Playlist.Get, public)
	playlists.Patch("/:playlistId", h.Playlist.Update, private)
	playlists.Delete("/:playlistId", h.Playlist.Delete, private)

	// Channels
	api.Get("/channels/id/:channelId", h.Channel.GetByID, public)
	api.Get("/channels/:username", h.Channel.GetByUsername, public)

	// Search and stats
	api.Get("/search", h.User.Search, public)
	api.Get("/stats", h.User.Stats, public)

	// AI helpers
	ai := api.Group("/ai", private, aiLimiter.Handler())
	ai.Post("/chat", h.AI.Chat)
	ai.Post("/video-overview", h.AI.VideoOverview)
	ai.Post("/recommendations", h.AI.Recommendations)
	ai.Post("/write-tweet", h.AI.WriteTweet)
	ai.Post("/improve-tweet", h.AI.ImproveTweet)
	ai.Post("/titles", h.AI.Titles)

	return stop
}
