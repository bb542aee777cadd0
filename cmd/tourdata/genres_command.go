package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cheeseinvert/tour-data-eda/internal/enrich"
	"github.com/cheeseinvert/tour-data-eda/internal/lookupcache"
	"github.com/cheeseinvert/tour-data-eda/internal/music"
)

func newGenresCommand(ctx *commandContext) *cobra.Command {
	var providerFlag string
	var mappingFlag string
	var outputFlag string
	var clientIDFlag string
	var clientSecretFlag string
	var apiKeyFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "genres <csv_file>",
		Short: "Add Genre and All_Genres columns resolved per artist",
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
			if strings.TrimSpace(clientIDFlag) != "" {
				cfg.Spotify.ClientID = strings.TrimSpace(clientIDFlag)
			}
			if strings.TrimSpace(clientSecretFlag) != "" {
				cfg.Spotify.ClientSecret = strings.TrimSpace(clientSecretFlag)
			}
			if strings.TrimSpace(apiKeyFlag) != "" {
				cfg.LastFM.APIKey = strings.TrimSpace(apiKeyFlag)
			}

			provider, err := music.NewProvider(providerFlag, cfg)
			if err != nil {
				return err
			}

			cache := lookupcache.New[[]string](cfg.Paths.GenreCache, logger)
			service, err := enrich.NewService[[]string](provider, cache, "", logger)
			if err != nil {
				return err
			}
			driver, err := enrich.NewDriver(music.Target(), service, logger)
			if err != nil {
				return err
			}

			mappingPath := strings.TrimSpace(mappingFlag)
			if mappingPath == "" {
				mappingPath = cfg.Paths.GenreMapping
			}

			summary, err := driver.Run(cmd.Context(), enrich.RunOptions[[]string]{
				DatasetPath: args[0],
				MappingPath: mappingPath,
				OutputPath:  strings.TrimSpace(outputFlag),
				DryRun:      dryRun,
				Progress:    newProgress[[]string](logger, "Resolving genres"),
			})
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&providerFlag, "provider", music.DefaultProvider, "Genre provider: "+strings.Join(music.Providers(), ", "))
	cmd.Flags().StringVar(&mappingFlag, "mapping-file", "", "Artist to genre mapping file (default from config)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Enriched CSV destination (default <input>_with_genres.csv)")
	cmd.Flags().StringVar(&clientIDFlag, "client-id", "", "Spotify client id")
	cmd.Flags().StringVar(&clientSecretFlag, "client-secret", "", "Spotify client secret")
	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "Last.fm API key")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report lookups without writing the mapping or output")
	return cmd
}
