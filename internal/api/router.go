package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/communityhub/internal/middleware"
)

// Handlers groups every route handler Register mounts.
type Handlers struct {
	Auth          *AuthHandler
	Channels      *ChannelHandler
	DMs           *DMHandler
	Notifications *NotificationHandler
	Jobs          *JobHandler
	Matrimony     *MatrimonyHandler
	Directory     *DirectoryHandler
	Events        *EventHandler
	News          *NewsHandler
	Reports       *ReportHandler
	Uploads       *UploadHandler
}

// Register mounts every route on v1. Browsing routes accept anonymous
// callers; everything that writes or reads private data needs a token,
// and moderation lives under /admin.
func Register(v1 *gin.RouterGroup, jwtSecret string, h Handlers) {
	v1.POST("/auth/signup", h.Auth.Signup)
	v1.POST("/auth/login", h.Auth.Login)

	public := v1.Group("")
	public.Use(middleware.OptionalAuth(jwtSecret))
	{
		public.GET("/channels", h.Channels.List)
		public.GET("/channels/:id/messages", h.Channels.Messages)
		public.GET("/channels/:id/members", h.Channels.Members)

		public.GET("/jobs", h.Jobs.List)
		public.GET("/jobs/:id", h.Jobs.Get)

		public.GET("/businesses", h.Directory.Businesses)
		public.GET("/businesses/:id", h.Directory.Business)
		public.GET("/profiles/:user_id", h.Directory.Profile)

		public.GET("/events", h.Events.List)
		public.GET("/events/:id", h.Events.Get)
		public.GET("/articles", h.News.List)
		public.GET("/articles/:id", h.News.Get)
	}

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(jwtSecret))
	{
		authed.GET("/users/me", h.Auth.Me)

		authed.POST("/channels/:id/join", h.Channels.Join)
		authed.POST("/channels/:id/leave", h.Channels.Leave)
		authed.POST("/channels/:id/messages", h.Channels.Send)
		authed.DELETE("/messages/:id", h.Channels.DeleteMessage)
		authed.POST("/uploads/attachments", h.Uploads.Attachment)

		authed.GET("/threads", h.DMs.Threads)
		authed.POST("/dm/:user_id", h.DMs.GetOrCreate)
		authed.GET("/dm/:user_id/messages", h.DMs.Conversation)
		authed.POST("/dm/:user_id/messages", h.DMs.Send)
		authed.POST("/dm/:user_id/read", h.DMs.MarkRead)

		authed.GET("/notifications", h.Notifications.List)
		authed.GET("/notifications/unread-count", h.Notifications.UnreadCount)
		authed.POST("/notifications/read-all", h.Notifications.MarkAllRead)
		authed.POST("/notifications/:id/read", h.Notifications.MarkRead)
		authed.GET("/activity/me", h.Notifications.MyActivity)

		authed.POST("/jobs", h.Jobs.Create)
		authed.DELETE("/jobs/:id", h.Jobs.Delete)
		authed.POST("/jobs/:id/save", h.Jobs.Save)
		authed.DELETE("/jobs/:id/save", h.Jobs.Unsave)
		authed.POST("/jobs/:id/apply", h.Jobs.Apply)
		authed.GET("/jobs/:id/applications", h.Jobs.Applications)
		authed.PUT("/applications/:id/status", h.Jobs.SetApplicationStatus)
		authed.GET("/me/saved-jobs", h.Jobs.Saved)

		authed.GET("/matrimony", h.Matrimony.List)
		authed.POST("/matrimony", h.Matrimony.Create)
		authed.POST("/matrimony/:id/interest", h.Matrimony.SendInterest)
		authed.GET("/me/matrimony", h.Matrimony.Own)
		authed.GET("/me/interests", h.Matrimony.SentInterests)

		authed.POST("/businesses", h.Directory.CreateBusiness)
		authed.GET("/me/profile", h.Directory.OwnProfile)
		authed.PATCH("/me/profile", h.Directory.UpdateProfile)

		authed.POST("/events", h.Events.Create)
		authed.GET("/events/:id/registration", h.Events.Registration)
		authed.POST("/events/:id/register", h.Events.Register)

		authed.POST("/articles/:id/bookmark", h.News.Bookmark)
		authed.DELETE("/articles/:id/bookmark", h.News.Unbookmark)
		authed.GET("/me/bookmarks", h.News.Bookmarks)

		authed.POST("/reports", h.Reports.Create)
	}

	admin := authed.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.POST("/channels", h.Channels.Create)
		admin.PUT("/channels/:id", h.Channels.Update)
		admin.DELETE("/channels/:id", h.Channels.Delete)

		admin.PUT("/admin/jobs/:id/status", h.Jobs.SetStatus)
		admin.PUT("/admin/matrimony/:id/status", h.Matrimony.SetStatus)
		admin.PUT("/admin/businesses/:id/status", h.Directory.SetBusinessStatus)
		admin.PUT("/admin/events/:id", h.Events.Update)
		admin.PUT("/admin/events/:id/status", h.Events.SetStatus)
		admin.DELETE("/admin/events/:id", h.Events.Delete)
		admin.POST("/admin/articles", h.News.Create)
		admin.PUT("/admin/articles/:id", h.News.Update)
		admin.DELETE("/admin/articles/:id", h.News.Delete)
		admin.GET("/admin/reports", h.Reports.List)
		admin.POST("/admin/reports/:id/resolve", h.Reports.Resolve)
		admin.GET("/admin/activity", h.Notifications.Activity)
	}
}
