package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bkyoung/diffcover/internal/adapter/cli"
	"github.com/bkyoung/diffcover/internal/adapter/git"
	"github.com/bkyoung/diffcover/internal/adapter/observability"
	"github.com/bkyoung/diffcover/internal/adapter/store/sqlite"
	"github.com/bkyoung/diffcover/internal/config"
	"github.com/bkyoung/diffcover/internal/domain"
	"github.com/bkyoung/diffcover/internal/usecase/report"
	"github.com/bkyoung/diffcover/internal/version"
)

func main() {
	if err := run(); err != nil {
		var threshold *domain.BelowThresholdError
		if errors.As(err, &threshold) {
			// The report has already been printed; the exit code is the signal.
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "diffcover",
		EnvPrefix:   "DIFFCOVER",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	repoDir := cfg.Git.RepositoryDir
	if repoDir == "" {
		repoDir = "."
	}

	gitEngine := git.NewEngine(repoDir)

	var logger report.Logger
	if cfg.Observability.Logging.Enabled {
		logger = observability.NewDefaultLogger(
			observability.ParseLevel(cfg.Observability.Logging.Level),
			observability.ParseFormat(cfg.Observability.Logging.Format),
		)
	}

	var runStore *sqlite.Store
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0o755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else if runStore, err = sqlite.NewStore(cfg.Store.Path); err != nil {
			log.Printf("warning: failed to initialize store: %v", err)
			runStore = nil
		} else {
			defer func() { _ = runStore.Close() }()
		}
	}

	runner := &report.Runner{
		Diff:   gitEngine,
		Logger: logger,
		Out:    os.Stdout,
	}
	if runStore != nil {
		runner.Store = runStore
	}

	deps := cli.Dependencies{
		Runner:           runner,
		DefaultBaseRef:   cfg.Git.BaseRef,
		DefaultHTMLPath:  cfg.Report.HTMLPath,
		DefaultFailUnder: cfg.Report.FailUnder,
		DefaultRepo:      repositoryName(repoDir),
		Version:          version.Value(),
	}
	if runStore != nil {
		deps.History = runStore
	}

	root := cli.NewRootCommand(deps)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return err
	}
	return nil
}

func repositoryName(repoDir string) string {
	abs, err := filepath.Abs(repoDir)
	if err != nil {
		return "unknown"
	}
	return filepath.Base(abs)
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "diffcover"))
	}
	return paths
}
