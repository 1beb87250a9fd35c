package cli

import (
	"github.com/spf13/cobra"

	"github.com/kaedeh1ra/QR-Detector/internal/api"
	"github.com/kaedeh1ra/QR-Detector/internal/scanner"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scanner over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner(cmd, false)
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			addr := a.cfg.Server.Addr
			if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
				addr = flagAddr
			}
			session := scanner.New(a.analyzer, a.logger)
			router := api.NewRouter(api.NewHandlers(session, a.logger))
			return api.Serve(cmd.Context(), addr, router, a.logger)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from config)")
	return cmd
}
