// Package server exposes the HTTP surface: the scoring API, cover-letter
// generation, and the dashboard.
package server

import (
	"fmt"
	"html/template"
	"time"

	_ "embed"

	"job-agent/internal/ai"
	"job-agent/internal/results"
	"job-agent/internal/scoring"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// llmTimeout bounds every LLM call so a hung upstream cannot tie up the
// request indefinitely.
const llmTimeout = 60 * time.Second

//go:embed dashboard.html
var dashboardHTML string

type Server struct {
	logger     *zap.Logger
	scorer     *scoring.Scorer
	letters    ai.LetterWriter
	store      *results.Store
	lettersDir string
	cv         string
}

func New(logger *zap.Logger, scorer *scoring.Scorer, letters ai.LetterWriter, store *results.Store, lettersDir, cv string) *Server {
	return &Server{
		logger:     logger,
		scorer:     scorer,
		letters:    letters,
		store:      store,
		lettersDir: lettersDir,
		cv:         cv,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	router.Use(cors.New(corsConfig))

	router.SetHTMLTemplate(template.Must(template.New("dashboard").Parse(dashboardHTML)))

	router.GET("/health", s.health)
	router.POST("/analyze-fit", s.analyzeFit)
	router.GET("/test", s.testAnalyze)
	router.POST("/save-results", s.saveResults)
	router.POST("/generate-cover-letter", s.generateCoverLetter)

	router.GET("/", s.dashboard)
	router.GET("/api/jobs", s.apiJobs)
	router.GET("/api/stats", s.apiStats)
	router.GET("/dashboard/generate-cover-letter/:index", s.dashboardCoverLetter)

	return router
}

// Run serves until the listener fails.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.Info("starting http server", zap.String("addr", addr))

	return s.Router().Run(addr)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
