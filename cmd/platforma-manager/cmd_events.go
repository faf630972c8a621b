package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iyhunko/platforma-manager/internal/config"
	"github.com/iyhunko/platforma-manager/internal/logger"
	sqspkg "github.com/iyhunko/platforma-manager/internal/sqs"
)

func init() {
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Tail catalog change events from the SQS queue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger.InitJSONLogger(false)
		conf, err := config.LoadFromEnv()
		if err != nil {
			return err
		}
		logger.InitJSONLogger(conf.DebugMode)
		if conf.AWS.SQSQueueURL == "" {
			return fmt.Errorf("%w for key: %s", config.ErrMissingConfig, config.SQSQueueURLEnv)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		client, err := sqspkg.NewClient(ctx, conf.AWS.Region, conf.AWS.Endpoint)
		if err != nil {
			return fmt.Errorf("loading AWS config: %w", err)
		}
		consumer := sqspkg.NewConsumer(client, conf.AWS.SQSQueueURL, nil)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
