package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the analysis cache",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired cache entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		// newApp already swept once; run again so the count reflects this
		// command, not the startup sweep.
		purged, err := a.cache.PurgeExpired(ctx)
		if err != nil {
			return err
		}

		fmt.Println(labelStyle.Render(fmt.Sprintf("已清理 %d 条过期缓存", purged)))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cache entry, expired or not",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := confirm("Clear the whole analysis cache?")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		cleared, err := a.cache.Clear(ctx)
		if err != nil {
			return err
		}

		fmt.Println(labelStyle.Render(fmt.Sprintf("已清空 %d 条缓存", cleared)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
