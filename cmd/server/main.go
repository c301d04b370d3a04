package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/config"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/database"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/repository"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/scheduler"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/service"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/signing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	signer, err := signing.NewSigner(cfg.Signing.Key)
	if err != nil {
		log.Fatalf("Failed to load signing key: %v", err)
	}

	// Create repositories
	accountRepo := repository.NewAccountRepository(db)
	fundRepo := repository.NewFundRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	navRepo := repository.NewNavRepository(db)
	dividendRepo := repository.NewDividendRepository(db)
	logRepo := repository.NewOperationLogRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	tradeService := service.NewTradeService(
		db, accountRepo, fundRepo, holdingRepo, transactionRepo, logRepo, signer,
	)
	settlementService := service.NewSettlementService(
		db, accountRepo, fundRepo, holdingRepo, transactionRepo, logRepo,
	)
	fundService := service.NewFundService(db, fundRepo, logRepo)
	valuationService := service.NewValuationService(
		db, fundRepo, navRepo, holdingRepo, logRepo,
	)
	dividendService := service.NewDividendService(
		db, accountRepo, fundRepo, holdingRepo, transactionRepo, dividendRepo, logRepo,
	)
	accountService := service.NewAccountService(db, accountRepo, holdingRepo, logRepo)
	reportService := service.NewReportService(accountRepo, fundRepo, holdingRepo, transactionRepo)

	// Start the scheduled settlement sweep
	sched := scheduler.New(settlementService)
	if err := sched.Start(cfg.Settlement.CronSpec); err != nil {
		log.Fatalf("Failed to start settlement scheduler: %v", err)
	}
	defer sched.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:     systemService,
		Trade:      tradeService,
		Settlement: settlementService,
		Fund:       fundService,
		Valuation:  valuationService,
		Dividend:   dividendService,
		Account:    accountService,
		Report:     reportService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
