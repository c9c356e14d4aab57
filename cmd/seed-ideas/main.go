package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/ideaboard-api/internal/repository"
	"github.com/noah-isme/ideaboard-api/pkg/config"
	"github.com/noah-isme/ideaboard-api/pkg/logger"
	"github.com/noah-isme/ideaboard-api/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	count := pflag.IntP("count", "n", 50, "number of ideas to generate")
	dataDir := pflag.String("data-dir", cfg.Storage.DataDir, "directory holding the tables")
	file := pflag.String("file", cfg.Storage.IdeasFile, "idea table file name")
	seed := pflag.Int64("seed", 0, "random seed, 0 uses the clock")
	force := pflag.BoolP("force", "f", false, "overwrite a non-empty idea table")
	pflag.Parse()

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if *count <= 0 {
		logr.Fatal("count must be positive", zap.Int("count", *count))
	}

	files, err := storage.NewLocalStorage(*dataDir)
	if err != nil {
		logr.Fatal("failed to prepare data directory", zap.Error(err))
	}
	store := repository.NewIdeaCSVRepository(files, *file, logr)

	ctx := context.Background()
	existing, err := store.Load(ctx)
	if err != nil {
		logr.Fatal("failed to read idea table", zap.Error(err))
	}
	if len(existing.Ideas) > 0 && !*force {
		fmt.Fprintf(os.Stderr, "%s already holds %d ideas, rerun with --force to replace them\n", files.Path(*file), len(existing.Ideas))
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	table := generateIdeas(*count, time.Now(), rand.New(rand.NewSource(*seed)))
	if table.LastID < existing.LastID {
		table.LastID = existing.LastID
	}
	if err := store.Save(ctx, table); err != nil {
		logr.Fatal("failed to save idea table", zap.Error(err))
	}

	owners := map[string]int{}
	statuses := map[string]int{}
	for _, idea := range table.Ideas {
		owners[idea.Owner]++
		statuses[string(idea.Status)]++
	}
	logr.Info("generated ideas",
		zap.String("file", files.Path(*file)),
		zap.Int("count", len(table.Ideas)),
		zap.Int("admin_owned", owners["admin"]),
		zap.Any("statuses", statuses),
		zap.Int64("seed", *seed),
	)
}
