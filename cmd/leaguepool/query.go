package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/league-pool/internal/champion"
	"github.com/kingrea/league-pool/internal/logbook"
)

var (
	queryRole    string
	queryInclude []string
	queryExclude []string

	queryCmd = &cobra.Command{
		Use:   "query",
		Short: "Ask for pool suggestions without the TUI",
		Example: `  leaguepool query --role top --include Garen --exclude Teemo,Kayle`,
		Args: cobra.NoArgs,
		RunE: runQuery,
	}
)

func init() {
	queryCmd.Flags().StringVarP(&queryRole, "role", "r", "", "role to load (required)")
	queryCmd.Flags().StringSliceVarP(&queryInclude, "include", "i", nil, "champions already in the pool")
	queryCmd.Flags().StringSliceVarP(&queryExclude, "exclude", "x", nil, "champions never to suggest")
	_ = queryCmd.MarkFlagRequired("role")
}

func runQuery(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lb, err := logbook.Open(cfg.LogsDir())
	if err != nil {
		return err
	}
	sess := newSession(cfg, lb)
	ctx := cmd.Context()

	if err := sess.LoadRole(ctx, champion.Role(queryRole)); err != nil {
		return fmt.Errorf("load role %s: %w", queryRole, err)
	}
	for _, c := range queryInclude {
		if err := sess.Include(champion.Candidate(c)); err != nil {
			return err
		}
	}
	for _, c := range queryExclude {
		if err := sess.Exclude(champion.Candidate(c)); err != nil {
			return err
		}
	}
	if err := sess.Query(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	suggestions := sess.Suggestions()
	latest := suggestions[len(suggestions)-1]
	if len(latest.Pools) == 0 {
		fmt.Fprintln(out, "no pool covers every champion within the search bound")
		return nil
	}
	for _, pool := range latest.Pools {
		fmt.Fprintln(out, pool)
	}
	return nil
}
