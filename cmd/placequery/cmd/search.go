package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/place-search/internal/app"
	"github.com/couchcryptid/place-search/internal/config"
	"github.com/couchcryptid/place-search/internal/domain"
	"github.com/couchcryptid/place-search/internal/observability"
)

type searchFlags struct {
	lat, lng float64
	pretty   bool
	verbose  bool
}

func newSearchCmd() *cobra.Command {
	var flags searchFlags

	c := &cobra.Command{
		Use:   "search <text>",
		Short: "search places and print the ranked JSON results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logOut := io.Discard
			if flags.verbose {
				logOut = os.Stderr
			}
			logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

			svc := app.NewService(cfg, logger, observability.NewMetricsForTesting(), nil)
			defer svc.Close()

			var origin *domain.Coordinates
			if c.Flags().Changed("lat") && c.Flags().Changed("lng") {
				origin = &domain.Coordinates{Lat: flags.lat, Lng: flags.lng}
			}

			places, err := svc.Query(c.Context(), strings.Join(args, " "), origin)
			if err != nil {
				return err
			}
			return writeResults(c.OutOrStdout(), places, flags.pretty)
		},
	}

	c.Flags().Float64Var(&flags.lat, "lat", 0, "caller latitude; used only together with --lng")
	c.Flags().Float64Var(&flags.lng, "lng", 0, "caller longitude; used only together with --lat")
	c.Flags().BoolVar(&flags.pretty, "pretty", false, "indent the JSON output")
	c.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "log provider activity to stderr")
	return c
}

func writeResults(w io.Writer, places []domain.Place, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if places == nil {
		places = []domain.Place{}
	}
	if err := enc.Encode(map[string][]domain.Place{"results": places}); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newSearchCmd())
}
