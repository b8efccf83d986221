package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kurenai-dev/fileindexer/internal/bridge"
	"github.com/kurenai-dev/fileindexer/internal/index"
)

var (
	configPath string
	excludeDir []string
	excludeGlob []string

	namePrefix string
	fileType   string
	minSize    uint64
	maxSize    uint64
	minDate    int64
	maxDate    int64
)

func main() {
	cfg := index.DefaultConfig()
	var engine *index.Engine
	var br *bridge.Bridge

	var rootCmd = &cobra.Command{
		Use:   "fileindexer",
		Short: "Concurrent filesystem indexer and search engine",
		Long: `fileindexer walks a directory tree with a bounded worker pool,
builds an in-memory name/path/extension index, and answers
prefix and filter queries against it while indexing continues.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := index.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			engine = index.New(cfg)
			br = bridge.New(engine)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a fileindexer YAML config file")

	var indexCmd = &cobra.Command{
		Use:   "index [rootPath]",
		Short: "Start indexing rootPath and wait for it to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			watchInterrupt(ctx, engine)

			if _, err := br.Dispatch("initializeIndex", []any{args[0], excludeDir, excludeGlob}); err != nil {
				return err
			}

			bar := progressbar.NewOptions(1000,
				progressbar.OptionSetDescription("indexing"),
				progressbar.OptionShowCount())
			for engine.IsIndexing() {
				bar.Set(int(engine.Progress() * 1000))
				time.Sleep(50 * time.Millisecond)
			}
			bar.Set(1000)
			fmt.Println()
			return nil
		},
	}
	indexCmd.Flags().StringSliceVar(&excludeDir, "exclude-dir", nil, "additional directory prefixes to exclude")
	indexCmd.Flags().StringSliceVar(&excludeGlob, "exclude-glob", nil, "gitignore-style glob patterns to exclude")

	var updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Re-index the previously initialized root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := br.Dispatch("updateIndex", nil)
			return err
		},
	}

	var statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Print the current indexing progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			progress, err := br.Dispatch("getIndexingStatus", nil)
			if err != nil {
				return err
			}
			fmt.Printf("progress: %.4f  indexing: %v  generation: %s\n",
				progress, engine.IsIndexing(), engine.Generation())
			return nil
		},
	}

	var cancelCmd = &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the in-progress indexing pass, if any",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := br.Dispatch("cancelIndexing", nil)
			return err
		},
	}

	var searchCmd = &cobra.Command{
		Use:   "search",
		Short: "Query the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := br.Dispatch("search", []any{namePrefix, fileType, minSize, maxSize, minDate, maxDate})
			if err != nil {
				return err
			}
			matches := result.([]bridge.FileMetadataWire)
			for _, m := range matches {
				fmt.Printf("%s\t%d\t%s\n", m.Path, m.Size, time.Unix(m.LastModified, 0).Format(time.RFC3339))
			}
			fmt.Printf("\n%d matches\n", len(matches))
			return nil
		},
	}
	searchCmd.Flags().StringVar(&namePrefix, "prefix", "", "case-insensitive filename prefix")
	searchCmd.Flags().StringVar(&fileType, "type", "", "file extension, without the dot")
	searchCmd.Flags().Uint64Var(&minSize, "min-size", 0, "minimum file size in bytes")
	searchCmd.Flags().Uint64Var(&maxSize, "max-size", index.DefaultMaxSize, "maximum file size in bytes")
	searchCmd.Flags().Int64Var(&minDate, "min-date", 0, "minimum last-modified time, unix seconds")
	searchCmd.Flags().Int64Var(&maxDate, "max-date", index.DefaultMaxDate, "maximum last-modified time, unix seconds")

	rootCmd.AddCommand(indexCmd, updateCmd, statusCmd, cancelCmd, searchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if engine != nil {
		engine.Close()
	}
}

func watchInterrupt(ctx context.Context, engine *index.Engine) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Println("\ninterrupted, cancelling indexing")
			engine.Cancel()
			os.Exit(1)
		case <-ctx.Done():
		}
	}()
}
