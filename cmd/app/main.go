package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/abhijeet/cadence/internal"
	"github.com/abhijeet/cadence/internal/assistant"
	pkgconfig "github.com/abhijeet/cadence/pkg/config"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithMCPMode(cmd.Bool("mcp")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

// setup creates the coach assistant and conversation thread once and
// prints the IDs to put into the environment.
func setup(ctx context.Context, cmd *cli.Command) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	res, err := assistant.Bootstrap(ctx, apiKey, cmd.String("model"))
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	fmt.Println("Assistant ID:", res.AssistantID)
	fmt.Println("Thread ID:", res.ThreadID)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "cadence",
		Usage:  "Personal daily-accountability assistant: AI-generated daily plans, progress check-ins, and email delivery",
		Action: run,
		Commands: []*cli.Command{
			{
				Name:   "setup",
				Usage:  "Create the coach assistant and conversation thread (run once)",
				Action: setup,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "model",
						Usage: "Model backing the assistant",
						Value: "gpt-4.1",
					},
				},
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "mcp",
				Usage: "Serve check-in tools over MCP stdio instead of HTTP",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
