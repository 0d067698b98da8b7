package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"BiasFeed/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the feed, profile and chat over HTTP.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := opts.open(ctx, cmd)
			if err != nil {
				return err
			}
			defer application.Close()
			logger := application.Logger().With("component", "server")

			if addr == "" {
				addr = application.Config().Server.Addr
			}

			gin.SetMode(gin.ReleaseMode)
			srv := server.New(server.Deps{
				Articles: application.Articles,
				Stories:  application.Stories,
				Chat:     application.Chat,
				Profile:  application.Profile,
				Logger:   logger,
			})
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.SetupRouter(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			if err := application.Refresher.Start(ctx); err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := application.Refresher.Stop(shutdownCtx); err != nil {
				logger.Warn("stop refresher", "error", err)
			}
			return httpServer.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
