package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
	"github.com/cheeseinvert/tour-data-eda/internal/geocode"
	"github.com/cheeseinvert/tour-data-eda/internal/lookupcache"
)

func newStatesCommand(ctx *commandContext) *cobra.Command {
	var providerFlag string
	var mappingFlag string
	var outputFlag string
	var apiKeyFlag string
	var accessTokenFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "states <csv_file>",
		Short: "Add a State column for United States concert cities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			// Credential flags override config and environment.
			if strings.TrimSpace(apiKeyFlag) != "" {
				cfg.GoogleMaps.APIKey = strings.TrimSpace(apiKeyFlag)
			}
			if strings.TrimSpace(accessTokenFlag) != "" {
				cfg.Mapbox.AccessToken = strings.TrimSpace(accessTokenFlag)
			}

			provider, err := geocode.NewProvider(providerFlag, cfg)
			if err != nil {
				return err
			}

			cache := lookupcache.New[string](cfg.Paths.StateCache, logger)
			service, err := enrich.NewService[string](provider, cache, provider.Country(), logger)
			if err != nil {
				return err
			}
			driver, err := enrich.NewDriver(geocode.Target(), service, logger)
			if err != nil {
				return err
			}

			mappingPath := strings.TrimSpace(mappingFlag)
			if mappingPath == "" {
				mappingPath = cfg.Paths.StateMapping
			}

			summary, err := driver.Run(cmd.Context(), enrich.RunOptions[string]{
				DatasetPath: args[0],
				MappingPath: mappingPath,
				OutputPath:  strings.TrimSpace(outputFlag),
				DryRun:      dryRun,
				Progress:    newProgress[string](logger, "Resolving states"),
			})
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&providerFlag, "provider", geocode.DefaultProvider, "State provider: "+strings.Join(geocode.Providers(), ", "))
	cmd.Flags().StringVar(&mappingFlag, "mapping-file", "", "City to state mapping file (default from config)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Enriched CSV destination (default <input>_with_states.csv)")
	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "Google Geocoding API key")
	cmd.Flags().StringVar(&accessTokenFlag, "access-token", "", "Mapbox access token")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report lookups without writing the mapping or output")
	return cmd
}
