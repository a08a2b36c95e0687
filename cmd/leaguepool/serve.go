package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/league-pool/internal/config"
	"github.com/kingrea/league-pool/internal/dataset"
	"github.com/kingrea/league-pool/internal/logging"
	"github.com/kingrea/league-pool/internal/poolserver"
)

var (
	seedDataset string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the reference champion-list and champion-pool service",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Import a YAML dataset into the badger store used by serve",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}
)

func init() {
	seedCmd.Flags().StringVarP(&seedDataset, "dataset", "d", "", "YAML dataset to import (defaults to server.dataset)")
}

// openStore returns the dataset store named by the server config and a
// function releasing it.
func openStore(srv config.ServerConfig) (dataset.Store, func() error, error) {
	switch srv.Store {
	case config.StoreBadger:
		store, err := dataset.OpenBadger(srv.StorePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		ds, err := dataset.LoadFile(srv.Dataset)
		if err != nil {
			return nil, nil, fmt.Errorf("%w (set server.dataset in %s)", err, config.DirName+"/config.yaml")
		}
		return dataset.NewMemoryStore(ds), func() error { return nil }, nil
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogsDir(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	srvCfg := cfg.Server()
	store, closeStore, err := openStore(srvCfg)
	if err != nil {
		return err
	}
	defer closeStore()
	roles, err := store.RoleNames()
	if err != nil {
		return err
	}
	logger.Printf("serve: %s store with %d role(s)", srvCfg.Store, len(roles))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := poolserver.NewServer(poolserver.SettingsFromConfig(cfg), store, poolserver.WithLogger(logger))
	if err := server.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	logger.Printf("serve: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	srvCfg := cfg.Server()
	path := seedDataset
	if path == "" {
		path = srvCfg.Dataset
	}
	ds, err := dataset.LoadFile(path)
	if err != nil {
		return err
	}
	store, err := dataset.OpenBadger(srvCfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()
	n, err := store.Import(ds)
	if err != nil {
		return err
	}
	return report(cmd.OutOrStdout(), n, srvCfg.StorePath)
}

func report(w io.Writer, roles int, path string) error {
	_, err := fmt.Fprintf(w, "imported %d role(s) into %s\n", roles, path)
	return err
}
