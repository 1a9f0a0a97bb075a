package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lattice-ui/lattice/pkg/hooks"
	"github.com/lattice-ui/lattice/pkg/layout"
	"github.com/lattice-ui/lattice/pkg/server"
	"github.com/lattice-ui/lattice/pkg/vdom"
)

func serveCmd() *cobra.Command {
	var (
		addr       string
		debug      bool
		concurrent bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo counter application",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel(debug),
			}))

			layoutCfg := layout.DefaultConfig().
				WithDebug(debug).
				WithLogger(logger)
			if concurrent {
				layoutCfg.WithMode(layout.ModeConcurrent)
			}

			cfg := server.DefaultServerConfig().
				WithAddress(addr).
				WithLogger(logger)
			cfg.SessionConfig.Layout = layoutCfg

			srv := server.New(counterApp, nil, cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				_ = srv.Shutdown(context.Background())
			}()

			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	cmd.Flags().BoolVar(&debug, "debug", false, "include render errors in client placeholders")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "render scheduled instances concurrently")
	return cmd
}

func logLevel(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// counterApp is the demo root: a counter with increment and reset.
func counterApp() vdom.Component {
	return vdom.Func("CounterApp", func(s *hooks.Scope) any {
		n, setN := hooks.UseState(s, func() int { return 0 })
		return vdom.Div(
			vdom.H1(vdom.Text("lattice demo")),
			vdom.P(vdom.Textf("count: %d", n)),
			vdom.Button(
				vdom.Text("+1"),
				vdom.OnClick(func(ctx context.Context, data []any) error {
					setN(n + 1)
					return nil
				}),
			),
			vdom.Button(
				vdom.Text("reset"),
				vdom.OnClick(func(ctx context.Context, data []any) error {
					setN(0)
					return nil
				}),
			),
		)
	})
}
