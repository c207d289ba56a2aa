package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/KeenanSylo/TreasureHunt/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the search result cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired entries from the sqlite cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Cache.Driver != "sqlite" {
			return eris.New("cache purge only applies to the sqlite driver (redis expires keys itself)")
		}

		store, err := cache.NewSQLite(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.DeleteExpired(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("purged %d expired entries\n", n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
