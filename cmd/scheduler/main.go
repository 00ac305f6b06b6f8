// Command scheduler triggers the daily cycle on a fixed interval by
// issuing one GET request per period against a running cadence server.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

func trigger(ctx context.Context, client *http.Client, url string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Error("build request failed", slog.String("error", err.Error()))
		return
	}
	resp, err := client.Do(req)
	if err != nil {
		slog.Error("trigger failed", slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		slog.Info("triggered daily email",
			slog.Int("http_status", resp.StatusCode),
			slog.Any("response", payload))
		return
	}
	slog.Info("triggered daily email", slog.Int("http_status", resp.StatusCode))
}

func run(ctx context.Context, cmd *cli.Command) error {
	url := cmd.String("url") + "/send_daily_email"
	interval := cmd.Duration("interval")

	client := &http.Client{}

	slog.Info("scheduler running",
		slog.String("url", url),
		slog.String("interval", interval.String()))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			trigger(ctx, client, url)
		}
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "cadence-scheduler",
		Usage:  "Trigger the daily accountability cycle on a fixed interval",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "Base URL of the cadence server",
				Value:   "http://127.0.0.1:8080",
				Sources: cli.EnvVars("CADENCE_URL"),
			},
			&cli.DurationFlag{
				Name:    "interval",
				Usage:   "Trigger period (use a short value like 1m for testing)",
				Value:   24 * time.Hour,
				Sources: cli.EnvVars("CADENCE_INTERVAL"),
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("scheduler error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
