package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"job-agent/internal/adzuna"
	"job-agent/internal/ai"
	"job-agent/internal/letters"
	"job-agent/internal/logger"
	"job-agent/internal/results"
	"job-agent/internal/scoring"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var prompt = promptui.Select{
	Label: "Analyze found jobs now?",
	Items: []string{PromptYes, PromptNo},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search job boards with the configured matrix and score the results",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before analyzing found jobs")
}

// search is the batch pipeline: query the search matrix, dump the raw
// listings, then score every job against the CV and persist the analyses.
func search(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-agent search", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	client, err := newAdzunaClient(config, logger)
	if err != nil {
		logger.Fatal("building adzuna client", zap.Error(err))
	}

	listings, err := client.SearchAll(ctx, config.Search)
	if err != nil {
		logger.Fatal("searching jobs", zap.Error(err))
	}

	if len(listings) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	for _, listing := range listings {
		logger.Debug("found job",
			zap.String("job_title", listing.Title),
			zap.String("company", listing.Company),
			zap.String("posting_language", letters.DetectPostingLanguage(listing.Description)),
		)
	}

	dumpFile, err := dumpListings(listings)
	if err != nil {
		logger.Warn("dumping found jobs to file", zap.Error(err))
	} else {
		logger.Info("dumped found jobs to file", zap.String("filename", dumpFile))
	}

	if cmd.Flag("auto-approve").Value.String() == "false" {
		logger.Info("found jobs", zap.Int("count", len(listings)))

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	cv := loadCV(config, logger)

	scorer, _, err := buildAI(ctx, config, cv, logger)
	if err != nil {
		logger.Fatal("building AI components", zap.Error(err))
	}

	analyzed := analyzeAll(ctx, scorer, listings, logger)
	if len(analyzed) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs analyzed"))
		return
	}

	store := results.NewStore(config.ResultsFile, logger)
	if err := store.SaveJobs(analyzed); err != nil {
		logger.Fatal("saving analyses", zap.Error(err))
	}

	logger.Info("analyses saved",
		zap.Int("count", len(analyzed)),
		zap.String("filepath", store.Path()),
	)
}

// analyzeAll scores every listing. A failed analysis is logged and skipped so
// one bad model reply cannot sink the whole batch.
func analyzeAll(ctx context.Context, scorer *scoring.Scorer, listings []*adzuna.JobListing, logger *zap.Logger) []results.Job {
	analyzed := make([]results.Job, 0, len(listings))

	for i, listing := range listings {
		logger.Info("scoring job",
			zap.Int("n", i+1),
			zap.Int("total", len(listings)),
			zap.String("job_title", listing.Title),
			zap.String("company", listing.Company),
		)

		analysis, err := scorer.Score(ctx, &ai.JobPosting{
			Title:       listing.Title,
			Company:     listing.Company,
			Location:    listing.Location,
			Description: listing.Description,
			URL:         listing.URL,
		})
		if err != nil {
			logger.Warn("skipping job, analysis failed",
				zap.String("job_title", listing.Title),
				zap.String("company", listing.Company),
				zap.Error(err),
			)
			continue
		}

		score := analysis.OverallScore
		analyzed = append(analyzed, results.Job{
			Title:            listing.Title,
			Company:          listing.Company,
			Location:         listing.Location,
			URL:              listing.URL,
			Description:      listing.Description,
			OverallScore:     &score,
			SkillsMatchScore: analysis.Breakdown.SkillsMatch,
			MatchingSkills:   analysis.MatchingSkills,
			MissingSkills:    analysis.MissingSkills,
			Priority:         analysis.Priority,
			Recommendation:   analysis.Recommendation,
			ShouldApply:      analysis.ShouldApply,
		})
	}

	return analyzed
}

// dumpListings writes the raw search results to a timestamped file next to
// the result file, for inspection and replay.
func dumpListings(listings []*adzuna.JobListing) (string, error) {
	pretty, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("jobs_found_%s.json", time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filename, pretty, 0o644); err != nil {
		return "", err
	}

	return filename, nil
}
