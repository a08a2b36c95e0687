// cmd/leaguepool/main.go
//
// Entry point for the league-pool CLI. Running `leaguepool` with no
// subcommand opens the picker TUI for the current directory.

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kingrea/league-pool/internal/config"
	"github.com/kingrea/league-pool/internal/logbook"
	"github.com/kingrea/league-pool/internal/poolclient"
	"github.com/kingrea/league-pool/internal/rolecache"
	"github.com/kingrea/league-pool/internal/session"
	"github.com/kingrea/league-pool/internal/tui"
)

var (
	projectDir string

	rootCmd = &cobra.Command{
		Use:   "leaguepool",
		Short: "Build a champion pool that counters every champion in a role",
		Long: `leaguepool picks a role, lets you add champions to your pool or exclude
them, and asks the recommendation service which champions complete the pool.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}
	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive picker (default)",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", cwd, "project directory holding .leaguepool/")
	rootCmd.AddCommand(tuiCmd, queryCmd, serveCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig initializes the .leaguepool directory and reads its config.
func loadConfig() (*config.Config, error) {
	if err := config.InitProjectDir(projectDir); err != nil {
		return nil, fmt.Errorf("initialize %s: %w", config.DirName, err)
	}
	return config.NewConfig(projectDir)
}

// newSession wires the picker session to the configured remote services.
func newSession(cfg *config.Config, logger session.Logger) *session.Session {
	svc := cfg.Services()
	client := poolclient.New(svc.CandidateURL, svc.RecommendationURL, poolclient.WithTimeout(svc.Timeout))
	return session.New(rolecache.New(client), client, session.WithLogger(logger))
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("the picker needs a terminal; use `leaguepool query` for scripted runs")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lb, err := logbook.Open(cfg.LogsDir())
	if err != nil {
		return err
	}
	lb.Info("Session opened · candidates from %s", cfg.Services().CandidateURL)

	app := tui.NewApp(newSession(cfg, lb), cfg.Roles(),
		tui.WithLogbook(lb),
		tui.WithRequestTimeout(cfg.Services().Timeout),
	)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	lb.Info("Session closed")
	return nil
}
