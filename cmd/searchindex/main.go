// Command searchindex loads a serialized fuzzy index and answers one
// query per line of a query file, printing '1' or '0' per line with no
// separators, matching the reference search_casefilter driver's output
// format exactly. Argv contract: searchindex <query-file> <index-file>.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/nibblematch/levdex/internal/config"
	"github.com/nibblematch/levdex/pkg/codec"
	"github.com/nibblematch/levdex/pkg/fuzzyindex"
	"github.com/nibblematch/levdex/pkg/search"
)

var (
	configPath  string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "searchindex <query-file> <index-file>",
	Short: "Answers approximate-membership queries against a fuzzy index",
	Args:  cobra.ExactArgs(2),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "listen address for a /metrics endpoint (empty disables it)")
}

var (
	queriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "levdex_searchindex_queries_total",
		Help: "Queries answered by this searchindex run.",
	})
	hitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "levdex_searchindex_hits_total",
		Help: "Queries that found a match within the edit-distance threshold.",
	})
)

func run(cmd *cobra.Command, args []string) error {
	queryPath, indexPath := args[0], args[1]

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger, closer, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	if metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddress = metricsAddr
	}

	var srv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{Addr: cfg.Metrics.ListenAddress, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info("metrics endpoint listening", "addr", cfg.Metrics.ListenAddress)
	}

	indexFile, err := os.Open(indexPath)
	if err != nil {
		return fmt.Errorf("open index file: %w", err)
	}
	idx, err := fuzzyindex.Deserialize(indexFile)
	indexFile.Close()
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	logger.Info("index loaded", "keywords", idx.Len())

	queryFile, err := os.Open(queryPath)
	if err != nil {
		return fmt.Errorf("open query file: %w", err)
	}
	defer queryFile.Close()

	ctx := search.NewContext(idx.Len())
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	scanner := bufio.NewScanner(queryFile)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) != codec.KeywordLen {
			out.WriteByte('0')
			continue
		}
		found := search.Search(ctx, idx, line, cfg.Search.MaxEditDistance)
		queriesTotal.Inc()
		if found {
			hitsTotal.Inc()
			out.WriteByte('1')
		} else {
			out.WriteByte('0')
		}
	}
	out.WriteByte('\n')
	return scanner.Err()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("searchindex failed", "error", err)
		os.Exit(1)
	}
}
