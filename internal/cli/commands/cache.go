package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/commitlens/pkg/cache"
	"github.com/ccollicutt/commitlens/pkg/config"
)

// CacheOptions holds command-line options for the cache command.
type CacheOptions struct {
	Purge bool
}

// NewCacheCommand creates the cache command.
func NewCacheCommand() *cobra.Command {
	opts := &CacheOptions{}

	cmd := &cobra.Command{
		Use:   "cache <config-file>",
		Short: "Show or purge the parsed-log cache",
		Long: `Report how many parsed log files the cache named by cache.path holds.
With --purge every entry is removed, so the next load parses all logs again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCache(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Purge, "purge", false, "Remove every cached entry")

	return cmd
}

func runCache(cmd *cobra.Command, args []string, opts *CacheOptions) error {
	cfg, err := config.Load(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Cache.Path == "" {
		return errors.New("no cache configured (set cache.path)")
	}

	store, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	n, err := store.Len()
	if err != nil {
		return fmt.Errorf("reading cache: %w", err)
	}
	if !opts.Purge {
		_, _ = fmt.Fprintf(w, "%s: %d cached log file(s)\n", cfg.Cache.Path, n)
		return nil
	}

	if err := store.Purge(); err != nil {
		return fmt.Errorf("purging cache: %w", err)
	}
	_, _ = fmt.Fprintf(w, "%s: purged %d cached log file(s)\n", cfg.Cache.Path, n)
	return nil
}
