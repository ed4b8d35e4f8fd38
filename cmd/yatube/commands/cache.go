package commands

import (
	"yatube/internal/cache"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the page cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop every cached page",
	Long: `Drop every cached home feed page so the next request renders fresh data.

Only the redis backend is shared between processes; with the memory backend
a running server keeps its own copy until the entries expire.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pageCache, err := cache.FromConfig(cfg)
		if err != nil {
			return err
		}
		if closer, ok := pageCache.(interface{ Close() error }); ok {
			defer closer.Close()
		}
		if cfg.CacheDriver != "redis" {
			log.Warn().Str("driver", cfg.CacheDriver).Msg("The memory cache lives inside the server process, nothing to purge here")
		}
		if err := pageCache.Invalidate(cmd.Context()); err != nil {
			return err
		}
		log.Info().Msg("Page cache purged")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
