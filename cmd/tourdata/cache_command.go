package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cheeseinvert/tour-data-eda/internal/config"
	"github.com/cheeseinvert/tour-data-eda/internal/lookupcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the lookup caches",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

type cacheDomain struct {
	name string
	path func(cfg *config.Config) string
}

var cacheDomains = []cacheDomain{
	{name: "genres", path: func(cfg *config.Config) string { return cfg.Paths.GenreCache }},
	{name: "states", path: func(cfg *config.Config) string { return cfg.Paths.StateCache }},
}

func selectDomains(domainFlag string) ([]cacheDomain, error) {
	domain := strings.ToLower(strings.TrimSpace(domainFlag))
	if domain == "" {
		return cacheDomains, nil
	}
	for _, d := range cacheDomains {
		if d.name == domain {
			return []cacheDomain{d}, nil
		}
	}
	return nil, fmt.Errorf("unknown cache domain %q (available: genres, states)", domainFlag)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var domainFlag string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cached lookup counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			domains, err := selectDomains(domainFlag)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(domains))
			for _, d := range domains {
				// Genre and state caches share one entry layout; the value
				// type only matters when values are read back.
				cache := lookupcache.New[any](d.path(cfg), nil)
				stats := cache.Stats()
				rows = append(rows, []string{
					d.name,
					d.path(cfg),
					strconv.Itoa(stats.Total),
					strconv.Itoa(stats.DistinctSubjects),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Domain", "Path", "Entries", "Subjects"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&domainFlag, "domain", "", "Limit to one cache: genres or states")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var domainFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached lookup results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			domains, err := selectDomains(domainFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range domains {
				cache := lookupcache.New[any](d.path(cfg), nil)
				count := cache.Count()
				if err := cache.Clear(); err != nil {
					return fmt.Errorf("clear %s cache: %w", d.name, err)
				}
				fmt.Fprintf(out, "Cleared %d %s cache entries\n", count, d.name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&domainFlag, "domain", "", "Limit to one cache: genres or states")
	return cmd
}
