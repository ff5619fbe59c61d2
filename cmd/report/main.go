package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/agridata-lab/produce-report/internal/datasource"
	"github.com/agridata-lab/produce-report/internal/logger"
	"github.com/agridata-lab/produce-report/internal/replay/engine"
	v1 "github.com/agridata-lab/produce-report/internal/replay/engine/engine_v1"
	"github.com/agridata-lab/produce-report/internal/strategy"
	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"
)

const defaultEngineConfig = "initial_capital: 100000\n"

// reportAction is the core logic executed by the CLI command.
// It wires the data source, replay engine, and reporting strategy together
// and runs the replay.
func reportAction(ctx context.Context, cmd *cli.Command) error {
	dataPath := cmd.String("data")
	configPath := cmd.String("config")
	strategyConfigPath := cmd.String("strategy-config")
	outputFolder := cmd.String("output")

	// Read the engine configuration
	engineConfig := defaultEngineConfig

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to read engine config: %w", err)
		}

		engineConfig = string(content)
	}

	zapLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	source, err := datasource.NewDataSource(":memory:", zapLogger)
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}
	defer source.Close()

	replay := v1.NewReplayEngineV1()

	if err := replay.Initialize(engineConfig); err != nil {
		return fmt.Errorf("failed to initialize replay engine: %w", err)
	}

	if err := replay.SetDataSource(source); err != nil {
		return fmt.Errorf("failed to set data source: %w", err)
	}

	if err := replay.SetDataPath(dataPath); err != nil {
		return fmt.Errorf("failed to set data path: %w", err)
	}

	if err := replay.SetConfigPath(strategyConfigPath); err != nil {
		return fmt.Errorf("failed to set strategy config path: %w", err)
	}

	if err := replay.SetResultsFolder(outputFolder); err != nil {
		return fmt.Errorf("failed to set results folder: %w", err)
	}

	// The replay start, when configured, anchors the strategy's warm-up
	// history fetch.
	startTime := optional.None[time.Time]()

	var parsedConfig v1.ReplayEngineV1Config
	if err := yaml.Unmarshal([]byte(engineConfig), &parsedConfig); err != nil {
		return fmt.Errorf("failed to parse engine config: %w", err)
	}

	if parsedConfig.StartTime.IsSome() {
		startTime = parsedConfig.StartTime
	}

	if err := replay.LoadStrategy(strategy.NewUSDAReportStrategy(startTime)); err != nil {
		return fmt.Errorf("failed to load strategy: %w", err)
	}

	// Progress bar over processed data points
	var bar *progressbar.ProgressBar

	callback := engine.OnProcessDataCallback(func(current int, total int) error {
		if bar == nil {
			bar = progressbar.Default(int64(total))
			bar.Describe(fmt.Sprintf("Processing %s", filepath.Base(dataPath)))
		}

		return bar.Set(current)
	})

	if err := replay.Run(optional.Some(callback)); err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	fmt.Printf("Report written to %s\n", outputFolder)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "report",
		Usage: "Replay USDA produce pricing data through the reporting strategy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the produce pricing CSV data (glob patterns supported)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the engine configuration YAML file",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "strategy-config",
				Aliases:  []string{"s"},
				Usage:    "Path to the strategy configuration YAML file (glob patterns supported)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Path to the results output directory",
				Value:    "results",
				Required: false,
			},
		},
		Action: reportAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
