package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/semscout/semscout/internal/cachestore"
	"github.com/semscout/semscout/internal/config"
	"github.com/semscout/semscout/internal/embedder"
	"github.com/semscout/semscout/internal/retriever"
	"github.com/semscout/semscout/internal/source"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// logNotifier forwards progress signals to stderr.
type logNotifier struct{}

func (logNotifier) Notify(kind, payload string) {
	log.Printf("[%s] %s", kind, payload)
}

func main() {
	// Results go to stdout, everything else to stderr.
	log.SetOutput(os.Stderr)

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (default: semscout.yaml, then ~/.config/semscout/config.yaml)")
	root := flag.String("root", ".", "workspace root to search")
	topK := flag.Int("k", 0, "number of files to return (overrides config)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("semscout\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Embedding Provider: %s\n", embedder.DetectProvider())
		os.Exit(0)
	}

	query := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(query) == "" {
		log.Fatal("usage: semscout [flags] <query>")
	}

	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *topK > 0 {
		cfg.Retrieval.TopK = *topK
	}

	emb, err := newEmbedder(cfg)
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}
	defer emb.Close()
	log.Printf("semscout v%s, provider: %s, model: %s", version, emb.Provider(), emb.Model())

	absRoot, err := filepath.Abs(*root)
	if err != nil {
		log.Fatalf("Failed to resolve workspace root: %v", err)
	}

	src, err := source.NewFSSource(absRoot, cfg.Retrieval.Include)
	if err != nil {
		log.Fatalf("Failed to open workspace: %v", err)
	}

	store, err := cachestore.New(cfg.Cache.Root, absRoot)
	if err != nil {
		log.Fatalf("Failed to initialize embedding cache: %v", err)
	}

	ret, err := retriever.New(src, emb, store, retriever.Options{
		TopK:          cfg.Retrieval.TopK,
		BatchSize:     cfg.Retrieval.BatchSize,
		ProgressAfter: cfg.ProgressAfter(),
		Notifier:      logNotifier{},
	})
	if err != nil {
		log.Fatalf("Failed to create retriever: %v", err)
	}

	// Cancel the call on interrupt; in-flight embedding results are still
	// persisted by the pipeline before ranking.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, cancelling...", sig)
		cancel()
	}()

	result, err := ret.Retrieve(ctx, query)
	if err != nil {
		log.Fatalf("Retrieval failed: %v", err)
	}

	log.Printf("Ranked %d of %d files (%d reused, %d embedded, %d failed) in %s",
		len(result.Ranked), result.Stats.FilesListed, result.Stats.FilesReused,
		result.Stats.FilesEmbedded, result.Stats.FilesFailed, result.Stats.Duration)

	for _, res := range result.Ranked {
		log.Printf("  %-30s distance=%.4f", res.DisplayName, res.Distance)
	}

	fmt.Println(result.Context)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

func newEmbedder(cfg *config.Config) (embedder.Embedder, error) {
	if cfg.Embedder.Provider != "" {
		return embedder.New(embedder.Config{
			Provider:  cfg.Embedder.Provider,
			CacheSize: cfg.Embedder.CacheSize,
		})
	}
	return embedder.NewFromEnv()
}
