package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/autolib/autolib/internal/auth"
	"github.com/autolib/autolib/internal/config"
	"github.com/autolib/autolib/internal/database"
	"github.com/autolib/autolib/internal/database/books"
	"github.com/autolib/autolib/internal/database/users"
	http_controllers "github.com/autolib/autolib/internal/http"
	"github.com/autolib/autolib/internal/loans"
	"github.com/autolib/autolib/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting AutoLib v%s", version)

	// The store must open or the process refuses to start; a service that
	// comes up without a database would fail on every data route.
	db, err := database.NewDatabase(cfg.Database.URL, cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)

	authService := auth.NewService(userRepo, cfg.Auth.BcryptCost)

	loanService, err := loans.NewService(bookRepo, userRepo, cfg.Loans.PeriodDays, cfg.Loans.Timezone)
	if err != nil {
		log.Fatalf("Failed to initialize loan service: %v", err)
	}

	var sweeper *tasks.OverdueSweeper
	if cfg.OverdueSweep.Enabled {
		sweeper = tasks.NewOverdueSweeper(bookRepo, cfg.OverdueSweep.Schedule)
		if err := sweeper.Start(); err != nil {
			log.Fatalf("Failed to start overdue sweep: %v", err)
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:    db,
		AuthService: authService,
		LoanService: loanService,
		BookStore:   bookRepo,
		Version:     version,
	})

	onShutdown := func(ctx context.Context) {
		if sweeper != nil {
			sweeper.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}
