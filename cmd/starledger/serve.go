package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/alexsserban/starledger/api"
	"github.com/alexsserban/starledger/archive"
	"github.com/alexsserban/starledger/config"
	"github.com/alexsserban/starledger/ledger"
	"github.com/alexsserban/starledger/ownership"
	"github.com/alexsserban/starledger/registry"
)

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the registry API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				if cfg, err = config.Load(configPath); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := newLogger(level)

	arch, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer arch.Close()

	records, err := arch.Records()
	if err != nil {
		return errors.Wrap(err, "load archive")
	}
	ledgerOpts := []ledger.Option{ledger.WithHasher(cfg.Hasher()), ledger.WithLogger(logger)}
	if cfg.Ledger.StrictAppend {
		ledgerOpts = append(ledgerOpts, ledger.WithStrictAppend())
	}
	store, violations := ledger.Restore(records, ledgerOpts...)
	if len(violations) > 0 {
		pterm.Warning.Printfln("archive %s has %d integrity violations", cfg.Archive.Path, len(violations))
		if err := renderViolations(violations); err != nil {
			return err
		}
	}

	verifier, err := ownership.NewVerifier(cfg.Scheme())
	if err != nil {
		return err
	}
	gate := ownership.NewGate(verifier,
		ownership.WithWindow(cfg.Window()),
		ownership.WithDomainTag(cfg.Ownership.DomainTag),
		ownership.WithLogger(logger),
	)
	svc := registry.New(store, gate, registry.WithArchive(arch), registry.WithLogger(logger))
	if err := svc.Start(); err != nil {
		return err
	}
	height, _ := svc.Height()
	pterm.Info.Printfln("ledger at height %d (%s, %s signatures)", height, cfg.Hasher().Name(), cfg.Scheme())

	serverOpts := []api.Option{api.WithLogger(logger)}
	if cfg.Server.TLS {
		serverOpts = append(serverOpts, api.WithSelfSignedTLS())
	}
	server, err := api.NewServer(svc, cfg.Server.ListenAddress, serverOpts...)
	if err != nil {
		return err
	}
	l, err := net.Listen("tcp", cfg.Server.ListenAddress)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", cfg.Server.ListenAddress)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(l) }()
	pterm.Success.Printfln("listening on %s", l.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	pterm.Info.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
