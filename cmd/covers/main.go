// Command covers maintains the game-cover assets served under /game-covers.
//
//	covers download [-concurrency n]
//	covers rename [-source dir] [-target dir] [-titledb file]
//	covers cleanup [-yes] [-dry-run]
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"dekugames/internal/backend"
	"dekugames/internal/cli"
	"dekugames/internal/config"
	"dekugames/internal/core"
	"dekugames/internal/covers"
	"dekugames/internal/inventory"
	"dekugames/internal/log"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: covers <download|rename|cleanup> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentCovers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "download":
		err = runDownload(ctx, cfg, logger, args)
	case "rename":
		err = runRename(cfg, logger, args)
	case "cleanup":
		err = runCleanup(ctx, cfg, logger, args)
	default:
		usage()
	}
	if err != nil {
		logger.Error("Command failed", log.FieldOperation, os.Args[1], log.FieldError, err.Error())
		os.Exit(1)
	}
}

func runDownload(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	concurrency := fs.Int("concurrency", 4, "parallel downloads")
	_ = fs.Parse(args)

	accounts, err := loadAccounts(ctx, cfg, logger)
	if err != nil {
		return err
	}
	titles := inventory.GameTitles(accounts)
	logger.Info("Found unique game titles", "count", len(titles))

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	searcher := covers.NewSearcher(&http.Client{Timeout: 30 * time.Second}, cfg.CoversSearchURL)
	res, err := covers.NewDownloader(searcher, store, *concurrency, logger).Download(ctx, titles)
	if err != nil {
		return err
	}

	for _, title := range covers.SortedKeys(res.Failures) {
		fmt.Printf("failed: %s: %v\n", title, res.Failures[title])
	}
	if err := covers.WriteMapping(filepath.Join(cfg.CoversDir, covers.MappingFile), res.Mapping); err != nil {
		return err
	}
	fmt.Printf("downloaded %d of %d covers\n", len(res.Mapping), len(titles))
	return nil
}

func runRename(cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("rename", flag.ExitOnError)
	source := fs.String("source", filepath.Join(cfg.CoversDir, "by-code"), "directory of CODE.png files")
	target := fs.String("target", cfg.CoversDir, "destination directory")
	titleDB := fs.String("titledb", filepath.Join(cfg.CoversDir, "switchtdb.txt"), "title database")
	_ = fs.Parse(args)

	f, err := os.Open(*titleDB)
	if err != nil {
		return fmt.Errorf("open title database: %w", err)
	}
	defer f.Close()

	entries, err := covers.ParseTitleDB(f)
	if err != nil {
		return err
	}
	res, err := covers.NewRenamer(*source, *target, logger).Rename(entries)
	if err != nil {
		return err
	}
	fmt.Printf("renamed %d, skipped %d\n", res.Renamed, res.Skipped)
	if res.SourceRemoved {
		fmt.Printf("removed empty directory %s\n", *source)
	}
	return nil
}

func runCleanup(ctx context.Context, cfg *config.Config, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("cleanup", flag.ExitOnError)
	yes := fs.Bool("yes", false, "delete without asking")
	dryRun := fs.Bool("dry-run", false, "list unused files only")
	_ = fs.Parse(args)

	accounts, err := loadAccounts(ctx, cfg, logger)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cleaner := covers.NewCleaner(store, logger)
	unused, err := cleaner.Find(ctx, inventory.CoverRefs(accounts))
	if err != nil {
		return err
	}
	if len(unused) == 0 {
		fmt.Println("no unused covers")
		return nil
	}
	for _, f := range unused {
		fmt.Println(f)
	}
	fmt.Printf("%d unused covers\n", len(unused))

	if *dryRun {
		return nil
	}
	if !*yes && !confirm("delete these files? type 'yes' to continue: ") {
		fmt.Println("aborted")
		return nil
	}

	res := cleaner.Delete(ctx, unused)
	for _, f := range covers.SortedKeys(res.Failed) {
		fmt.Printf("failed: %s: %v\n", f, res.Failed[f])
	}
	fmt.Printf("deleted %d of %d\n", len(res.Deleted), len(unused))
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.EqualFold(strings.TrimSpace(line), "yes")
}

func loadAccounts(ctx context.Context, cfg *config.Config, logger *log.Logger) ([]core.Account, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	inv, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	defer inv.Close()

	accounts, err := inv.Backend.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func openStore(ctx context.Context, cfg *config.Config) (covers.AssetStore, func(), error) {
	if cfg.CoversBucket != "" {
		gcs, err := covers.NewGCSStore(ctx, cfg.CoversBucket, cfg.CoversPrefix)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { _ = gcs.Close() }, nil
	}
	local, err := covers.NewDirStore(cfg.CoversDir)
	if err != nil {
		return nil, nil, err
	}
	return local, func() {}, nil
}
