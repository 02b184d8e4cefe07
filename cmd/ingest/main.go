// Command ingest runs one ingestion trigger synchronously and prints the
// sweep summary.
//
// Usage:
//
//	ingest leagues
//	ingest teams --league 39 --season 2024
//	ingest fixtures --league 39 --season 2024 --date 2024-08-16
//	ingest daily --date 2024-08-16
//	ingest live
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/sports-data-service/internal/app"
	"github.com/riskibarqy/sports-data-service/internal/config"
	"github.com/riskibarqy/sports-data-service/internal/domain/ingestionrun"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
	"github.com/spf13/cobra"
)

type output struct {
	RunID  string              `json:"run_id"`
	Status ingestionrun.Status `json:"status"`
	Error  string              `json:"error,omitempty"`
	Sweep  usecase.SweepResult `json:"sweep"`
}

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "ingest",
		Short:         "Run API-Football ingestion triggers against the configured store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		leaguesCmd(),
		teamsCmd(),
		fixturesCmd(),
		dailyCmd(),
		liveCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func leaguesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leagues",
		Short: "Ingest the league catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd.Context(), usecase.TriggerRequest{Job: usecase.JobIngestLeagues})
		},
	}
}

func teamsCmd() *cobra.Command {
	var leagueID int64
	var season int
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Ingest the teams of one league season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd.Context(), usecase.TriggerRequest{
				Job:         usecase.JobIngestTeams,
				LeagueAPIID: leagueID,
				Season:      season,
			})
		},
	}
	cmd.Flags().Int64Var(&leagueID, "league", 0, "API-Football league id")
	cmd.Flags().IntVar(&season, "season", 0, "Season year")
	_ = cmd.MarkFlagRequired("league")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func fixturesCmd() *cobra.Command {
	var leagueID int64
	var season int
	var date string
	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "Ingest the fixtures of one league season, optionally for one date",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := usecase.TriggerRequest{
				Job:         usecase.JobIngestSeasonFixtures,
				LeagueAPIID: leagueID,
				Season:      season,
			}
			if date != "" {
				req.Job = usecase.JobIngestDailyFixtures
				req.Date = date
			}
			return runTrigger(cmd.Context(), req)
		},
	}
	cmd.Flags().Int64Var(&leagueID, "league", 0, "API-Football league id")
	cmd.Flags().IntVar(&season, "season", 0, "Season year")
	cmd.Flags().StringVar(&date, "date", "", "Fixture date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("league")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func dailyCmd() *cobra.Command {
	var leagueID int64
	var season int
	var date string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Run the daily fixtures sweep over every known league",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd.Context(), usecase.TriggerRequest{
				Job:         usecase.JobIngestDailyFixtures,
				LeagueAPIID: leagueID,
				Season:      season,
				Date:        date,
			})
		},
	}
	cmd.Flags().Int64Var(&leagueID, "league", 0, "Restrict the sweep to one API-Football league id")
	cmd.Flags().IntVar(&season, "season", 0, "Season year (defaults to INGEST_DEFAULT_SEASON or the current year)")
	cmd.Flags().StringVar(&date, "date", "", "Anchor date (YYYY-MM-DD, defaults to today in UTC)")
	return cmd
}

func liveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "Ingest fixtures currently in play",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd.Context(), usecase.TriggerRequest{Job: usecase.JobIngestLiveFixtures})
		},
	}
}

func runTrigger(parent context.Context, req usecase.TriggerRequest) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.SchedulerEnabled = false

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "command", req.Job)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := application.Close(30 * time.Second); err != nil {
			logger.Error("close app", "error", err)
		}
	}()

	req.Source = ingestionrun.SourceCLI
	run, sweep, runErr := application.Runner.Run(ctx, req)

	out := output{RunID: run.ID, Status: run.Status, Sweep: sweep}
	if runErr != nil {
		out.Error = runErr.Error()
	}
	raw, err := sonic.ConfigStd.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sweep: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(raw))

	return runErr
}
