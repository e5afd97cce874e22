package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/localization"
)

func newLocateCmd(app *cli) *cobra.Command {
	var (
		refresh  bool
		skipIP   bool
		asJSON   bool
		ip       string
		lat, lon float64
	)

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Resolve the current location",
		Long: `Runs the detection chain: the stored record, then IP providers, then the
position given with --lat/--lon. Detected locations are stored for later runs.`,
		Example: `  hireloop locate
  hireloop locate --refresh --ip 203.0.113.7
  hireloop locate --skip-ip --lat 52.52 --lon 13.40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ip != "" {
				ctx = geo.WithClientIP(ctx, ip)
			}

			var opts []geo.ResolverOption
			if !skipIP {
				s, closeProviders, err := app.ipStrategy(nil)
				if err != nil {
					return err
				}
				defer func() { _ = closeProviders() }()
				opts = append(opts, geo.WithIPStrategy(s))
			}

			latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
			if latSet != lonSet {
				return errors.New("--lat and --lon must be given together")
			}
			if latSet {
				geocoder := app.cfg.Geo.Geocoder(nil)
				if geocoder == nil {
					return errors.New("--lat and --lon need reverse geocoding, which is disabled")
				}
				opts = append(opts, geo.WithBrowserStrategy(geo.NewBrowserStrategy(app.registry,
					geo.NewStaticPositioner(lat, lon),
					geocoder,
					geo.WithBrowserLogger(app.log),
				)))
			}

			return app.session(ctx, func(r *geo.Resolver) error {
				l := localization.New(r, localization.WithLogger(app.log))
				if refresh {
					l.Refresh(ctx)
				} else {
					l.Start(ctx)
					l.Wait()
				}
				return printLocation(cmd.OutOrStdout(), l.Result(), asJSON)
			}, opts...)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&refresh, "refresh", false, "ignore the stored record and detect again")
	f.BoolVar(&skipIP, "skip-ip", false, "do not query IP geolocation providers")
	f.StringVar(&ip, "ip", "", "address to locate instead of this machine's public address")
	f.Float64Var(&lat, "lat", 0, "device latitude")
	f.Float64Var(&lon, "lon", 0, "device longitude")
	f.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
