// Command perfwrap runs a search driver under timing and, with
// --record, appends a one-line performance record to a per-dataset CSV
// file. It wraps an
// arbitrary "<search-exe> <query-file> <index-file>" invocation the
// same way the reference tooling's record_perf does, rather than
// linking the search path directly, so it can time cmd/searchindex (or
// any future driver with the same argv contract) as a black box.
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nibblematch/levdex/internal/config"
)

var (
	record      bool
	datasetFlag string
	recordsDir  string

	// childExitCode carries the wrapped search driver's exit code out
	// of run(), so main() can os.Exit with it after run()'s own defers
	// (closing the log file handle) have had a chance to fire.
	childExitCode int
)

var rootCmd = &cobra.Command{
	Use:   "perfwrap [flags] -- <search-exe> <query-file> <index-file> [...]",
	Short: "Times a search driver invocation and optionally records it to CSV",
	Args:  cobra.MinimumNArgs(3),
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVar(&record, "record", false, "append a CSV performance record")
	rootCmd.Flags().StringVar(&datasetFlag, "dataset", "", "dataset name override (default: derived from query file name)")
	rootCmd.Flags().StringVar(&recordsDir, "records-dir", "records", "directory CSV records are written under")
}

func deriveDataset(queryPath string) string {
	base := filepath.Base(queryPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if rest, ok := strings.CutPrefix(base, "query_"); ok && rest != "" {
		return rest
	}
	if base == "" {
		return "unknown"
	}
	return base
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	logger, closer, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closer.Close()

	executable, queryFile, indexFile := args[0], args[1], args[2]

	start := time.Now()
	child := exec.Command(executable, args[1:]...)
	child.Stderr = os.Stderr

	var captured bytes.Buffer
	child.Stdout = &captured
	runErr := child.Run()
	elapsed := time.Since(start)

	os.Stdout.Write(captured.Bytes())

	hits := bytes.Count(captured.Bytes(), []byte{'1'})
	returnCode := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			returnCode = exitErr.ExitCode()
		} else {
			return fmt.Errorf("perfwrap: %w", runErr)
		}
	}

	if record {
		if err := appendRecord(recordsDir, datasetFlag, executable, queryFile, indexFile, elapsed, hits, returnCode); err != nil {
			logger.Error("failed to record perf run", "error", err)
			return err
		}
		logger.Info("perf record appended", "dataset", datasetOrDerived(datasetFlag, queryFile), "elapsed", elapsed, "hits", hits)
	}

	childExitCode = returnCode
	return nil
}

func datasetOrDerived(override, queryFile string) string {
	if override != "" {
		return override
	}
	return deriveDataset(queryFile)
}

func appendRecord(dir, datasetOverride, executable, queryFile, indexFile string, elapsed time.Duration, hits, returnCode int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir records dir: %w", err)
	}

	dataset := datasetOrDerived(datasetOverride, queryFile)
	csvPath := filepath.Join(dir, fmt.Sprintf("perf_%s.csv", dataset))

	_, statErr := os.Stat(csvPath)
	newFile := os.IsNotExist(statErr)

	f, err := os.OpenFile(csvPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write([]string{"timestamp_utc", "executable", "query_file", "index_file", "dataset", "elapsed_seconds", "hit_count", "return_code"}); err != nil {
			return err
		}
	}
	row := []string{
		time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		executable,
		queryFile,
		indexFile,
		dataset,
		strconv.FormatFloat(elapsed.Seconds(), 'f', 6, 64),
		strconv.Itoa(hits),
		strconv.Itoa(returnCode),
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("perfwrap failed", "error", err)
		os.Exit(1)
	}
	os.Exit(childExitCode)
}
