// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"relaychart/annotstore"
	"relaychart/backtest"
	"relaychart/cache"
	"relaychart/chartviz"
	"relaychart/config"
	"relaychart/logger"
	"relaychart/mock"

	"gioui.org/app"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	resultFile string
	feedUrl    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Interactive viewer for backtest results",
		RunE:  runView,
	}
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Log level (default from configuration)")
	// Without a sub command, the viewer is started.
	addViewFlags(rootCmd)
	rootCmd.AddCommand(buildViewCmd(), buildInspectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&resultFile, "result", "r", "", "Backtest result file (JSON) to show on startup")
	cmd.Flags().StringVarP(&feedUrl, "feed", "f", "", "Websocket url of the backtest backend, stored in the configuration")
}

func buildViewCmd() *cobra.Command {
	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Show backtest results in a chart window",
		RunE:  runView,
	}
	addViewFlags(viewCmd)
	return viewCmd
}

func buildInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the statistics and trades of a backtest result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := readResult(args[0])
			if err != nil {
				return err
			}
			backtest.WriteStatsTable(cmd.OutOrStdout(), r)
			backtest.WriteTradeTable(cmd.OutOrStdout(), r.Dataset())
			return nil
		},
	}
}

func readResult(name string) (*backtest.Result, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return backtest.Decode(f)
}

func newLogger(c config.Config) (zerolog.Logger, error) {
	level := logLevel
	if len(level) == 0 {
		appConfig, err := c.Copy()
		if err != nil {
			return zerolog.Nop(), err
		}
		level = appConfig.LogLevel
	}
	return logger.New(level, os.Stderr, true)
}

func initialResult(resultCache cache.ResultCache, log zerolog.Logger) (*backtest.Result, error) {
	if len(resultFile) > 0 {
		return readResult(resultFile)
	}
	if r, ok := resultCache.LastResult(); ok {
		log.Info().Str("run", r.RunId).Msg("showing cached result")
		return r, nil
	}
	log.Info().Msg("no result available, showing random walk")
	return mock.NewRandomWalkResult(mock.NewRandomWalkConfig()), nil
}

func runView(cmd *cobra.Command, args []string) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	bootLog, err := logger.New(logLevel, os.Stderr, true)
	if err != nil {
		return err
	}
	c := config.NewGlobalConfig(dir, logger.Component(bootLog, "config"))
	log, err := newLogger(c)
	if err != nil {
		return err
	}

	appConfig, err := c.Lock()
	if err != nil {
		return err
	}
	if len(feedUrl) > 0 {
		appConfig.FeedConfig.Url = feedUrl
	}
	storeFile := filepath.Join(dir, appConfig.StoreConfig.FileName)
	if err = c.Unlock(appConfig); err != nil {
		return err
	}

	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("error creating configuration directory: %w", err)
	}
	store, err := annotstore.Open(storeFile, logger.Component(log, "store"))
	if err != nil {
		return err
	}
	resultCache, err := cache.NewLocalResultCache(config.AppName, "results", logger.Component(log, "cache"))
	if err != nil {
		return err
	}
	initial, err := initialResult(resultCache, log)
	if err != nil {
		return err
	}

	a := chartviz.NewChartApp(c, store, resultCache, log)
	if err = a.Initialize(initial); err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	go func() {
		a.Run(context.Background())
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("error closing annotation store")
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}
