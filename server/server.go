package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"story_engine/generator"
)

//go:embed web/dist
var embeddedStatic embed.FS

// StoryService generates and revises stories.
type StoryService interface {
	Categories() []string
	Generate(ctx context.Context, req generator.StoryRequest) (generator.Result, error)
	Revise(ctx context.Context, storyText, feedback string) (string, error)
}

// SpeechService narrates stories. AudioURL returns "" when no audio is
// available.
type SpeechService interface {
	Available() bool
	AudioURL(ctx context.Context, text string) string
}

type Options struct {
	// StaticDir overrides the embedded frontend when set.
	StaticDir string
	// AudioDir is served under /static/audio when set.
	AudioDir       string
	FrontendOrigin string
	RequestTimeout time.Duration
	Metrics        bool
	Logger         *zap.Logger
}

type Server struct {
	stories        StoryService
	speech         SpeechService
	opts           Options
	log            *zap.Logger
	requestTimeout time.Duration
	staticFS       http.Handler
}

func New(stories StoryService, speech SpeechService, opts Options) (*Server, error) {
	if stories == nil {
		return nil, errors.New("story service required")
	}
	if speech == nil {
		speech = noSpeech{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 180 * time.Second
	}

	var static http.Handler
	if opts.StaticDir != "" {
		static = http.FileServer(http.Dir(opts.StaticDir))
	} else {
		sub, err := fs.Sub(embeddedStatic, "web/dist")
		if err != nil {
			return nil, err
		}
		static = http.FileServer(http.FS(sub))
	}

	return &Server{
		stories:        stories,
		speech:         speech,
		opts:           opts,
		log:            log,
		requestTimeout: timeout,
		staticFS:       static,
	}, nil
}

func (s *Server) Routes() http.Handler {
	router := gin.New()
	router.Use(RequestLogger(s.log))
	router.Use(gin.Recovery())
	router.Use(cors.New(s.corsConfig()))

	if s.opts.Metrics {
		// registered before the routes so they pick up the middleware
		p := ginprometheus.NewPrometheus("gin")
		p.ReqCntURLLabelMappingFn = routeLabel
		p.Use(router)
	}

	router.GET("/health", s.handleHealth)
	router.HEAD("/health", s.handleHealth)

	api := router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/categories", s.handleCategories)
	api.POST("/generate", s.handleGenerate)
	api.POST("/revise", s.handleRevise)

	if s.opts.AudioDir != "" {
		router.Static("/static/audio", s.opts.AudioDir)
	}
	router.NoRoute(s.handleStatic)
	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	origin := strings.TrimSpace(s.opts.FrontendOrigin)
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		for _, o := range strings.Split(origin, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

func (s *Server) handleStatic(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	s.staticFS.ServeHTTP(c.Writer, c.Request)
}

// unmatchedRoute labels requests that hit no registered route, so arbitrary
// paths served by the static fallback do not each get a metric series.
const unmatchedRoute = "unmatched"

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}

type noSpeech struct{}

func (noSpeech) Available() bool                         { return false }
func (noSpeech) AudioURL(context.Context, string) string { return "" }
