// Command prepindex reads newline-delimited keywords, builds the
// dual-case fuzzy index, and writes its serialized form to stdout.
// Matches the reference prep_casefilter driver's argv contract:
// prepindex <db_file>.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nibblematch/levdex/internal/catalog"
	"github.com/nibblematch/levdex/internal/config"
	"github.com/nibblematch/levdex/pkg/codec"
	"github.com/nibblematch/levdex/pkg/diagnostics"
	"github.com/nibblematch/levdex/pkg/fuzzyindex"
)

var (
	configPath string
	catalogDSN string
	validate   bool
)

var rootCmd = &cobra.Command{
	Use:   "prepindex <db_file>",
	Short: "Builds a dual-case fuzzy index from a keyword list and writes it to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&catalogDSN, "catalog", "", "SQLite DSN for the build catalog (empty disables it)")
	rootCmd.Flags().BoolVar(&validate, "validate", true, "run structural validation after building")
}

func run(cmd *cobra.Command, args []string) error {
	keywordPath := args[0]

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

	kwFile, err := os.Open(keywordPath)
	if err != nil {
		return fmt.Errorf("open keyword file: %w", err)
	}
	defer kwFile.Close()

	idx := fuzzyindex.Create(cfg.Build.InitCapacity)
	scanner := bufio.NewScanner(kwFile)
	skipped := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) != codec.KeywordLen {
			skipped++
			continue
		}
		idx.Insert(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read keyword file: %w", err)
	}
	logger.Info("loaded keywords", "count", idx.Len(), "skipped", skipped)

	idx.Finalize()

	if validate {
		report := diagnostics.Validate(idx.Len(), idx.Pair, idx.Del)
		logger.Info("validation complete", "summary", report.Summary())
		if !report.OK() {
			return fmt.Errorf("prepindex: built index failed validation: %s", report.Summary())
		}
	}

	if err := idx.Serialize(os.Stdout); err != nil {
		return fmt.Errorf("serialize index: %w", err)
	}

	if catalogDSN != "" {
		if err := recordBuild(catalogDSN, keywordPath, idx); err != nil {
			logger.Warn("failed to record build in catalog", "error", err)
		}
	}

	logger.Info("index written", "keywords", idx.Len())
	return nil
}

func recordBuild(dsn, sourcePath string, idx *fuzzyindex.Index) error {
	cat, err := catalog.Open(dsn)
	if err != nil {
		return err
	}
	defer cat.Close()

	pairWidth := 16
	if idx.Pair.MaxCount() > 0xFFFF {
		pairWidth = 32
	}
	delWidth := 16
	if idx.Del.MaxCount() > 0xFFFF {
		delWidth = 32
	}

	_, err = cat.Record(catalog.BuildRecord{
		SourcePath:     sourcePath,
		OutputPath:     "stdout",
		KeywordCount:   idx.Len(),
		PairCountWidth: pairWidth,
		DelCountWidth:  delWidth,
		BuiltAtUnix:    time.Now().Unix(),
	})
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("prepindex failed", "error", err)
		os.Exit(1)
	}
}
