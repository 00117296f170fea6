package cli

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"pantry-cli/internal/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Run the browser UI and JSON API",
		Long: strings.TrimSpace(`
Run the browser intake UI served from a local HTTP server.

Server-rendered HTML plus a JSON API over the same store the CLI and
TUI use. Receipts finalized in the browser open a print-ready page.
`),
		Example: strings.TrimSpace(`
# Serve on localhost
pantry web --addr 127.0.0.1:8765

# Read-only kiosk display
pantry web --addr :8765 --read-only
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := loadDB(app); err != nil {
				return writeErr(cmd, err)
			}

			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			logger, err := zap.NewProduction()
			if err != nil {
				return writeErr(cmd, err)
			}
			defer logger.Sync()

			srv, err := web.NewServer(web.ServerConfig{
				Dir:      app.Dir,
				ReadOnly: readOnly,
			}, logger)
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			url := "http://" + ln.Addr().String() + "/"
			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":     ln.Addr().String(),
					"url":      url,
					"dir":      app.Dir,
					"readOnly": readOnly,
				},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Pantry web running at %s (dir=%s)\n", url, app.Dir)

			return http.Serve(ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8765", "Bind address (host:port or :port)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject all mutating requests")
	return cmd
}
