package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danmuck/ddeurl/internal/hostloop"
	"github.com/danmuck/ddeurl/internal/observability"
	"github.com/spf13/cobra"
)

func listenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Serve DDE conversations for the scheme and print activations",
	}
	cmd.Flags().Bool("install", true, "Install the scheme before serving")
	cmd.Flags().Bool("uninstall-on-exit", false, "Remove the scheme registration on exit")
	cmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address")
	return applyRun(cmd, func(ctx *rootContext) error {
		flags := ctx.cmd.Flags()
		if v, _ := flags.GetString("metrics-addr"); v != "" {
			ctx.cfg.MetricsAddr = v
		}

		w, err := ctx.wire()
		if err != nil {
			return err
		}
		defer w.reg.Close()

		if install, _ := flags.GetBool("install"); install {
			launch, err := ctx.launchPath()
			if err != nil {
				return err
			}
			if err := w.reg.Install(launch); err != nil {
				return err
			}
		}
		if uninstall, _ := flags.GetBool("uninstall-on-exit"); uninstall {
			defer func() {
				if err := w.reg.Uninstall(); err != nil {
					ctx.logger.Error().Err(err).Msg("uninstall on exit")
				}
			}()
		}

		err = w.reg.OnActivate(func(u *url.URL) {
			ctx.logger.Info().
				Str("url", u.String()).
				Str("color", activationColor(u)).
				Msg("activated")
		})
		if err != nil {
			return err
		}

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if ctx.cfg.MetricsAddr != "" {
			srv := &http.Server{Addr: ctx.cfg.MetricsAddr, Handler: observability.Handler()}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ctx.logger.Error().Err(err).Msg("metrics server")
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}

		cfg := w.reg.Config()
		ctx.logger.Info().
			Str("scheme", cfg.Scheme).
			Str("application", cfg.Application).
			Str("topic", cfg.Topic).
			Msg("listening")
		err = w.loop.Run(runCtx, hostloop.DefaultPumpConfig(), nil)
		if errors.Is(err, context.Canceled) {
			ctx.logger.Info().Msg("got termination signal, closing")
			return nil
		}
		return err
	})
}

// activationColor is the color named by an activation URL, as in
// "dde4qt:///red" or "dde4qt:%23ff8800".
func activationColor(u *url.URL) string {
	if p := strings.Trim(u.Path, "/"); p != "" {
		return p
	}
	if u.Fragment != "" {
		return "#" + u.Fragment
	}
	return u.Opaque
}
