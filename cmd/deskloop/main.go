package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/v0xg/deskloop/internal/agent"
	"github.com/v0xg/deskloop/internal/ai"
	"github.com/v0xg/deskloop/internal/config"
	"github.com/v0xg/deskloop/internal/executor"
	"github.com/v0xg/deskloop/internal/pipeline"
	"github.com/v0xg/deskloop/internal/target"
)

var configFile string

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "deskloop",
		Short: "Drive a vision-language model in a desktop action loop",
		Long: `deskloop runs a closed loop between a vision-language model and a
desktop (or a headless browser page): every turn it captures an
annotated screenshot, sends it to the model together with the model's
own previous narrative, and executes the action script that comes back.`,
	}

	flags := rootCmd.PersistentFlags()
	flags.Int("width", 736, "Screenshot width sent to the model")
	flags.Int("height", 464, "Screenshot height sent to the model")
	flags.Bool("marks", true, "Draw visual marks for dispatched actions")
	flags.Bool("execute", true, "Master switch for real input injection")
	flags.Float64("loop-delay", 1.0, "Seconds between turns")
	flags.Float64("start-wait", 3.0, "Seconds before the first capture")
	flags.String("provider", "claude", "Model provider: claude, openai, local")
	flags.String("model", "", "Specific model override")
	flags.String("base-url", "", "OpenAI-compatible endpoint override")
	flags.String("target", "desktop", "Action target: desktop or browser")
	flags.Int("display", 0, "Desktop display index")
	flags.String("url", "", "Start page for the browser target")
	flags.String("dump-dir", "dump", "Directory for per-run state dumps")
	flags.BoolP("verbose", "v", false, "Debug logging")
	flags.StringVar(&configFile, "config", "", "Optional config file")

	rootCmd.AddCommand(newRunCmd(), newReplayCmd(), newShotCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the live inference loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			provider, err := ai.NewProvider(cfg)
			if err != nil {
				return fmt.Errorf("provider init: %w", err)
			}

			pipe, cleanup, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			err = agent.New(pipe, provider, cfg, logger).Run(ctx, nil)
			if errors.Is(err, context.Canceled) {
				logger.Info("interrupted")
				return nil
			}
			return err
		},
	}
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <response.json>...",
		Short: "Run the loop against saved model responses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			injected := make([]string, 0, len(args))
			for _, path := range args {
				raw, err := agent.LoadInjectedResponse(path)
				if err != nil {
					return err
				}
				injected = append(injected, raw)
			}

			pipe, cleanup, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return agent.New(pipe, nil, cfg, logger).Run(ctx, injected)
		},
	}
}

func newShotCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "shot [script-file]",
		Short: "Take one annotated screenshot for a given action script",
		Long: `shot runs a single pipeline pass: the script is parsed and marked
on a fresh capture, but nothing is injected unless --execute is set.
Reads the script from the file argument, or stdin with "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			script := ""
			if len(args) == 1 {
				var data []byte
				if args[0] == "-" {
					data, err = io.ReadAll(cmd.InOrStdin())
				} else {
					data, err = os.ReadFile(args[0])
				}
				if err != nil {
					return fmt.Errorf("read script: %w", err)
				}
				script = string(data)
			}

			pipe, cleanup, err := buildPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := pipe.Run(cmd.Context(), pipeline.Request{
				RawActionText: script,
				TargetWidth:   cfg.Width,
				TargetHeight:  cfg.Height,
				Annotate:      cfg.Marks,
				Policy:        executor.Policy{PerKind: cfg.Tools, Master: cfg.Execute},
			})
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, resp.ImageBytes, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			for _, line := range resp.ExecutedLines {
				fmt.Printf("executed: %s\n", line)
			}
			for _, line := range resp.NotedLines {
				fmt.Printf("noted:    %s\n", line)
			}
			fmt.Printf("saved %s (%d bytes)\n", output, len(resp.ImageBytes))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "shot.png", "Output filename")
	return cmd
}

// setup resolves configuration and builds the logger.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	zapCfg := zap.NewDevelopmentConfig()
	if !cfg.Verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("logger init: %w", err)
	}
	return cfg, logger, nil
}

// buildPipeline opens the configured target and wires the pipeline
// over it. The cleanup func releases target resources.
func buildPipeline(cfg config.Config, logger *zap.Logger) (*pipeline.Pipeline, func(), error) {
	var (
		capture target.CaptureSource
		input   target.Inputter
		cleanup = func() {}
	)
	switch cfg.Target {
	case "browser":
		browser, err := target.NewBrowser(cfg.URL, cfg.Width, cfg.Height)
		if err != nil {
			return nil, nil, err
		}
		capture, input = browser, browser
		cleanup = browser.Close
	default:
		desktop, err := target.NewDesktop(cfg.Display)
		if err != nil {
			return nil, nil, err
		}
		capture, input = desktop, desktop
	}

	nativeW, nativeH, err := capture.NativeSize()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("query native size: %w", err)
	}
	logger.Debug("target ready",
		zap.String("target", cfg.Target),
		zap.Int("native_width", nativeW),
		zap.Int("native_height", nativeH))

	dispatcher := executor.New(input, nativeW, nativeH, executor.DefaultPacing, logger)
	return pipeline.New(capture, dispatcher, logger), cleanup, nil
}
