package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yatube/internal/cache"
	"yatube/internal/db"
	"yatube/internal/router"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the HTTP server until SIGINT or SIGTERM.

Examples:
  yatube serve                 # Listen on http.addr (default :8080)
  yatube serve --migrate       # Migrate the schema first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Run database auto migration before serving")
	rootCmd.AddCommand(serveCmd)
}

func banner() {
	fmt.Println(color.RedString(" __   __    _         _          \n \\ \\ / /_ _| |_ _   _| |__   ___ \n  \\ V / _` | __| | | | '_ \\ / _ \\\n   | | (_| | |_| |_| | |_) |  __/\n   |_|\\__,_|\\__|\\__,_|_.__/ \\___|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiRed).Add(color.Bold).Sprintf("Yatube"), AppVersion)
	fmt.Printf("A place to share your stories\n")
	color.HiBlack("=====================================================\n")
}

func runServe(ctx context.Context) error {
	banner()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	if migrateOnStart {
		if err := db.Migrate(conn); err != nil {
			return err
		}
	}

	pageCache, err := cache.FromConfig(cfg)
	if err != nil {
		return err
	}
	if closer, ok := pageCache.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	engine, err := router.New(router.Deps{
		Config:    cfg,
		DB:        conn,
		PageCache: pageCache,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("Yatube server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("An error occurred when running the HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down...")

	if ctx == nil {
		ctx = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
