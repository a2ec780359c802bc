package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/bibnet/pkg/api"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored reports and run analyses over HTTP",
		Long: `Serve starts the report API. Reports live in MongoDB when store.mongo_uri is
configured and as files otherwise; null samples are cached in Redis when
cache.redis_url is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") && c.Config.Server.Addr != "" {
				addr = c.Config.Server.Addr
			}

			st, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := api.New(api.Config{
				Store:          st,
				Runner:         runner,
				Logger:         c.Logger,
				Defaults:       c.Config.Analysis,
				MaxSamples:     c.Config.Server.MaxSamples,
				RequestTimeout: c.Config.Server.RequestTimeout,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
