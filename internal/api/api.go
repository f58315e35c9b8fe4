// Package api exposes the HTTP surface: browse and detail endpoints, auth,
// watchlist and profile management.
package api

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mwielgos/kinoteka/internal/auth"
	"github.com/mwielgos/kinoteka/internal/avatar"
	"github.com/mwielgos/kinoteka/internal/browse"
	"github.com/mwielgos/kinoteka/internal/config"
	"github.com/mwielgos/kinoteka/internal/external/tmdb"
	"github.com/mwielgos/kinoteka/internal/logger"
	"github.com/mwielgos/kinoteka/internal/users"
	"github.com/mwielgos/kinoteka/internal/watchlist"
)

// sessionCookie is the cookie carrying the signed session token.
const sessionCookie = "kinoteka_session"

// Deps collects everything the server needs. HealthCheck reports database
// connectivity; Google may be nil when OAuth is not configured.
type Deps struct {
	Config      *config.Config
	Browse      *browse.Service
	Metadata    *tmdb.Client
	Watchlist   *watchlist.Service
	Users       *users.Service
	Tokens      *auth.TokenIssuer
	Google      *auth.GoogleProvider
	Avatars     *avatar.Store
	HealthCheck func() error
}

// Server represents the API server
type Server struct {
	router *gin.Engine
	deps   Deps
	logger *logger.Logger
}

// NewServer creates a new API server instance
func NewServer(deps Deps) *Server {
	router := gin.New()

	s := &Server{
		router: router,
		deps:   deps,
		logger: logger.AppLogger(),
	}

	router.Use(requestIDMiddleware())
	router.Use(errorHandlerMiddleware())
	router.Use(cors.New(s.corsConfig()))

	s.setupRoutes()

	return s
}

// Run starts the API server on the specified port
func (s *Server) Run(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}

// Handler returns the underlying handler, for embedding in an http.Server.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowCredentials = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	if origins := s.deps.Config.Server.AllowedOrigins; len(origins) > 0 {
		cfg.AllowOrigins = origins
	} else {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cfg
}

func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// Uploaded avatars are served as static files
	s.router.Static(avatar.PublicPrefix, s.deps.Avatars.Dir())

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	v1.Use(s.sessionMiddleware())
	{
		// Discovery endpoints
		v1.GET("/browse", s.browsePage)
		v1.GET("/genres", s.listGenres)
		v1.GET("/home", s.homeSections)
		v1.GET("/movies/:id", s.movieDetails)
		v1.GET("/tv/:id", s.tvDetails)
		v1.GET("/person/:id", s.personDetails)

		// Auth endpoints
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", s.register)
			authGroup.POST("/login", s.login)
			authGroup.POST("/logout", s.logout)
			authGroup.GET("/session", s.session)
			authGroup.GET("/google", s.googleRedirect)
			authGroup.GET("/google/callback", s.googleCallback)
		}

		// Watchlist endpoints
		wl := v1.Group("/watchlist", s.requireAuth())
		{
			wl.GET("", s.listWatchlist)
			wl.POST("", s.addToWatchlist)
			wl.PATCH("/:id", s.updateWatchlistEntry)
			wl.DELETE("/:id", s.removeFromWatchlist)
		}

		// Profile endpoints
		profile := v1.Group("/profile", s.requireAuth())
		{
			profile.PUT("/name", s.updateName)
			profile.PUT("/password", s.updatePassword)
			profile.POST("/avatar", s.uploadAvatar)
			profile.DELETE("/avatar", s.removeAvatar)
		}
	}
}
