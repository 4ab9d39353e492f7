package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"job-agent/internal/adzuna"
	"job-agent/internal/ai/gemini"
	"job-agent/internal/cache"
	"job-agent/internal/scoring"
	"job-agent/internal/secrets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "job-agent"

	defaultServerPort  = 5000
	defaultResultsFile = "job_results.json"
	defaultLettersDir  = "cover_letters"

	cvFallback = "CV not configured. Set CV_CONTENT environment variable."
)

type Config struct {
	Search      *adzuna.SearchConfig `mapstructure:"search"`
	Country     string               `mapstructure:"country"`
	CVFile      string               `mapstructure:"cv-file"`
	ResultsFile string               `mapstructure:"results-file"`
	LettersDir  string               `mapstructure:"letters-dir"`
	Server      *ServerConfig        `mapstructure:"server"`
	AI          *AIConfig            `mapstructure:"ai"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

// defaultConfigYAML is written on first run so the search matrix is
// editable without reading any docs.
const defaultConfigYAML = `search:
  job_titles:
    - Data Scientist
    - AI Engineer
    - Machine Learning Engineer
  locations:
    - Paris
    - Remote
  max_results_per_search: 10

country: fr
cv-file: my_cv.txt
results-file: job_results.json
letters-dir: cover_letters

server:
  port: 5000

ai:
  gemini:
    model: gemini-2.5-flash
`

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-agent is a personal job search assistant: it finds postings, scores your fit with Gemini and writes cover letters",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	for key, env := range map[string]string{
		"ai.gemini.api-key": "GEMINI_API_KEY",
		"adzuna-app-id":     "ADZUNA_APP_ID",
		"adzuna-app-key":    "ADZUNA_APP_KEY",
		"cv-content":        "CV_CONTENT",
		"server.port":       "PORT",
	} {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-agent.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is not needed to print the version.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || cfgFile != "" {
			log.Fatal(err)
		}

		// First run without a config: write the default one and use it.
		path := app + ".yaml"
		if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
			log.Fatalf("creating default config %s: %v", path, err)
		}
		log.Printf("created default config: %s", path)

		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		return nil, fmt.Errorf("config is required")
	}

	if config.Search == nil {
		config.Search = adzuna.DefaultSearchConfig()
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaultServerPort
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.ResultsFile == "" {
		config.ResultsFile = defaultResultsFile
	}
	if config.LettersDir == "" {
		config.LettersDir = defaultLettersDir
	}

	return config, nil
}

// loadCV resolves the candidate CV once per process. The CV_CONTENT
// environment variable wins over the configured file.
func loadCV(config *Config, logger *zap.Logger) string {
	if content := strings.TrimSpace(viper.GetString("cv-content")); content != "" {
		logger.Info("using CV from environment", zap.Int("characters", len(content)))
		return content
	}

	if config.CVFile != "" {
		data, err := os.ReadFile(config.CVFile)
		if err == nil {
			logger.Info("CV loaded", zap.String("file", config.CVFile), zap.Int("characters", len(data)))
			return string(data)
		}
		logger.Warn("reading CV file", zap.String("file", config.CVFile), zap.Error(err))
	}

	logger.Warn("no CV configured, analyses will be meaningless")
	return cvFallback
}

// buildAI wires a Gemini generator into a scorer and a letter writer.
func buildAI(ctx context.Context, config *Config, cv string, logger *zap.Logger) (*scoring.Scorer, *gemini.LetterWriter, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: viper.GetString("ai.gemini.api-key"),
		File:  config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set GEMINI_API_KEY or ai.gemini.api-key-file)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model)
	if err != nil {
		return nil, nil, err
	}

	aiLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	analyzer := gemini.NewAnalyzer(generator, aiLogger, config.AI.Gemini.MaxLogLength)
	writer := gemini.NewLetterWriter(generator, aiLogger, config.AI.Gemini.MaxLogLength)
	scorer := scoring.New(analyzer, cache.New(), cv, logger)

	return scorer, writer, nil
}

func newAdzunaClient(config *Config, logger *zap.Logger) (*adzuna.Client, error) {
	appID := strings.TrimSpace(viper.GetString("adzuna-app-id"))
	appKey := strings.TrimSpace(viper.GetString("adzuna-app-key"))
	if appID == "" || appKey == "" {
		return nil, fmt.Errorf("missing Adzuna credentials (set ADZUNA_APP_ID and ADZUNA_APP_KEY)")
	}

	return adzuna.New(logger, appID, appKey, config.Country), nil
}
