package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"job-agent/internal/ai"
	"job-agent/internal/letters"
	"job-agent/internal/results"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sampleJob is scored by the /test endpoint.
var sampleJob = ai.JobPosting{
	Title:    "Junior Data Scientist",
	Company:  "Tech Startup Paris",
	Location: "Paris, France",
	Description: `We are looking for a Junior Data Scientist to join our team.
Requirements:
- Bachelor's or Master's degree in Computer Science, Statistics, or related field
- 1-2 years of experience in data analysis
- Strong Python programming skills
- Experience with pandas, numpy, scikit-learn
- Knowledge of SQL databases
- Good communication skills in English
Nice to have:
- Experience with machine learning projects
- Knowledge of deep learning frameworks (TensorFlow, PyTorch)
- French language skills`,
	URL: "https://example.com/job/123",
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Job Agent API is running",
	})
}

func (s *Server) analyzeFit(c *gin.Context) {
	var job ai.JobPosting
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
		return
	}

	s.scoreAndRespond(c, &job)
}

func (s *Server) testAnalyze(c *gin.Context) {
	job := sampleJob
	s.scoreAndRespond(c, &job)
}

func (s *Server) scoreAndRespond(c *gin.Context, job *ai.JobPosting) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), llmTimeout)
	defer cancel()

	analysis, err := s.scorer.Score(ctx, job)
	if err != nil {
		s.respondScoringError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (s *Server) respondScoringError(c *gin.Context, err error) {
	if ai.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var parseErr *ai.ParseError
	if errors.As(err, &parseErr) {
		s.logger.Error("unparseable model reply",
			zap.Error(parseErr.Err),
			zap.String("raw", parseErr.Raw),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to parse AI response",
			"details": parseErr.Err.Error(),
		})
		return
	}

	s.logger.Error("scoring failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) saveResults(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	count, err := s.store.SaveRaw(payload)
	if err != nil {
		s.logger.Error("saving results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "Saved " + strconv.Itoa(count) + " jobs",
		"filepath": s.store.Path(),
	})
}

type coverLetterRequest struct {
	ai.LetterRequest
	Save bool `json:"save"`
}

func (s *Server) generateCoverLetter(c *gin.Context) {
	var req coverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body: " + err.Error()})
		return
	}

	letter, ok := s.generate(c, &req.LetterRequest)
	if !ok {
		return
	}

	if req.Save {
		path, err := letters.Save(s.lettersDir, letter)
		if err != nil {
			s.logger.Warn("saving cover letter", zap.Error(err))
		} else {
			letter.Filepath = path
		}
	}

	c.JSON(http.StatusOK, letter)
}

func (s *Server) dashboardCoverLetter(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	jobs := s.store.Load()
	if index >= len(jobs) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	job := jobs[index]
	req := &ai.LetterRequest{
		JobTitle:       job.Title,
		Company:        job.Company,
		Description:    job.Description,
		MatchingSkills: job.MatchingSkills,
		MissingSkills:  job.MissingSkills,
		Language:       c.DefaultQuery("language", "fr"),
	}

	letter, ok := s.generate(c, req)
	if !ok {
		return
	}

	// Dashboard-triggered letters are always persisted.
	path, err := letters.Save(s.lettersDir, letter)
	if err != nil {
		s.logger.Warn("saving cover letter", zap.Error(err))
	} else {
		letter.Filepath = path
	}

	c.JSON(http.StatusOK, letter)
}

// generate runs the letter writer under the LLM timeout. On failure it
// writes the error response and returns ok=false.
func (s *Server) generate(c *gin.Context, req *ai.LetterRequest) (*ai.CoverLetter, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), llmTimeout)
	defer cancel()

	letter, err := s.letters.GenerateLetter(ctx, s.cv, req)
	if err != nil {
		s.logger.Error("cover letter generation failed",
			zap.String("job_title", req.JobTitle),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate cover letter"})
		return nil, false
	}

	return letter, true
}

func (s *Server) dashboard(c *gin.Context) {
	jobs := s.store.Load()

	c.HTML(http.StatusOK, "dashboard", gin.H{
		"Stats":       results.CalculateStatistics(jobs),
		"TopMissing":  results.TopMissingSkills(jobs, 10),
		"Jobs":        results.SortByScore(jobs),
		"LastUpdated": time.Now().Format("2006-01-02 15:04"),
	})
}

func (s *Server) apiJobs(c *gin.Context) {
	jobs := s.store.LoadRaw()
	if jobs == nil {
		jobs = []any{}
	}
	c.JSON(http.StatusOK, jobs)
}

func (s *Server) apiStats(c *gin.Context) {
	c.JSON(http.StatusOK, results.CalculateStatistics(s.store.Load()))
}
