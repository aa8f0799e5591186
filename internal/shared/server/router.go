package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "fileuploader-backend/internal/auth"
	"fileuploader-backend/internal/files"
	"fileuploader-backend/internal/folders"
	"fileuploader-backend/internal/shared/config"
	"fileuploader-backend/internal/shared/metrics"
	"fileuploader-backend/internal/shared/server/middleware"
	"fileuploader-backend/internal/shared/server/respond"
	"fileuploader-backend/internal/stats"
	"fileuploader-backend/internal/users"
)

// RouterDeps carries the handlers the router mounts. Optional fields (Google
// auth, the dev blob dir) may be nil or empty.
type RouterDeps struct {
	Config         config.Config
	UsersHandler   *users.Handler
	FoldersHandler *folders.Handler
	FilesHandler   *files.Handler
	StatsHandler   *stats.Handler
	GoogleAuth     *googleauth.GoogleService

	// LocalBlobDir, when set, serves stored objects from disk under
	// /local-blobs so dev-mode download URLs resolve.
	LocalBlobDir string
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(rateLimitConfig()),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.LocalBlobDir != "" {
		r.Static("/local-blobs", deps.LocalBlobDir)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	authGroup := api.Group("/auth")
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterAuthRoutes(authGroup)
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(authGroup)
	}
	if deps.FoldersHandler != nil {
		deps.FoldersHandler.RegisterRoutes(api)
	}
	if deps.FilesHandler != nil {
		deps.FilesHandler.RegisterRoutes(api)
	}
	if deps.StatsHandler != nil {
		deps.StatsHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig throttles uploads harder than the rest of the API.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/files" {
				return "UPLOAD"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 20, Burst: 40},
			"UPLOAD":  {Rate: 2, Burst: 5},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
