package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"frontdesk/ai"
	"frontdesk/configs"
	"frontdesk/events"
	"frontdesk/middlewares"
	"frontdesk/routes"
	"frontdesk/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and websocket feed",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port")
	cobra.CheckErr(viper.BindPFlag("PORT", serveCmd.Flags().Lookup("port")))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	if err := configs.SeedAdmin(db, cfg); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	broker, closeBroker := openPublisher()
	defer closeBroker()
	hub := ws.NewHub()
	go hub.Run(ctx)

	assistant, err := ai.NewGoogle(ctx, cfg.GoogleAIKey, cfg.AIModel)
	if err != nil {
		log.Warn().Err(err).Msg("ai disabled")
		assistant = ai.New(nil)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger())
	routes.RegisterRoutes(r, routes.NewApp(db, cfg, events.Multi{hub, broker}, assistant, hub))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Bool("ai", assistant.Enabled()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server exited")
	return nil
}
