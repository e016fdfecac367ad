package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/kamusis/pixdex/internal/httpapi"
	"github.com/spf13/cobra"
)

var (
	flagServeAddr    string
	flagServeOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve keyword and color queries as a read-only JSON API",
	Long: `Serve the query surface over HTTP:

  GET /v1/search?q=<term>[&cap=<n>]
  GET /v1/color?color=<name>[&category=<name>]
  GET /healthz

Responses are JSON envelopes {"data": ..., "error": ..., "request_id": ...}.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default: config 'http.addr')")
	serveCmd.Flags().StringSliceVar(&flagServeOrigins, "cors-origin", nil, "Allowed CORS origins (default: any)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, appOptions{catalog: true, store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.HTTP.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}
	printInfo("", "listening on "+addr)
	srv := httpapi.NewServer(a.engine(), httpapi.Options{
		Addr:           addr,
		DefaultCap:     a.cfg.NumShownPic,
		AllowedOrigins: flagServeOrigins,
	})
	return srv.Run(ctx)
}
