package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"job-agent/internal/logger"
	"job-agent/internal/results"
	"job-agent/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring API and the dashboard",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides server.port)")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func serve(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-agent server", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	cv := loadCV(config, logger)

	scorer, writer, err := buildAI(ctx, config, cv, logger)
	if err != nil {
		logger.Fatal("building AI components", zap.Error(err))
	}

	store := results.NewStore(config.ResultsFile, logger)

	srv := server.New(logger, scorer, writer, store, config.LettersDir, cv)
	if err := srv.Run(config.Server.Port); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}
