package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jinyang756/jijinjiaoyizhongduan/internal/api/handlers"
	custommiddleware "github.com/jinyang756/jijinjiaoyizhongduan/internal/api/middleware"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/config"
	"github.com/jinyang756/jijinjiaoyizhongduan/internal/service"
)

// Services bundles the service dependencies the router wires into
// handlers.
type Services struct {
	System     *service.SystemService
	Trade      *service.TradeService
	Settlement *service.SettlementService
	Fund       *service.FundService
	Valuation  *service.ValuationService
	Dividend   *service.DividendService
	Account    *service.AccountService
	Report     *service.ReportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/trade", func(r chi.Router) {
			tradeHandler := handlers.NewTradeHandler(svc.Trade)
			settlementHandler := handlers.NewSettlementHandler(svc.Settlement)

			r.Get("/", tradeHandler.Transactions)
			r.Get("/pending", tradeHandler.PendingTransactions)
			r.Post("/subscribe", tradeHandler.Subscribe)
			r.Post("/redeem", tradeHandler.Redeem)
			r.Post("/deposit", tradeHandler.Deposit)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", tradeHandler.GetTransaction)
				r.With(custommiddleware.APIKeyMiddleware).Post("/audit", settlementHandler.AuditTransaction)
			})
		})

		r.Route("/settlement", func(r chi.Router) {
			settlementHandler := handlers.NewSettlementHandler(svc.Settlement)
			r.Use(custommiddleware.APIKeyMiddleware)
			r.Post("/process", settlementHandler.ProcessSettlement)
		})

		r.Route("/fund", func(r chi.Router) {
			fundHandler := handlers.NewFundHandler(svc.Fund, svc.Valuation)
			settlementHandler := handlers.NewSettlementHandler(svc.Settlement)
			dividendHandler := handlers.NewDividendHandler(svc.Dividend)

			r.Get("/", fundHandler.Funds)
			r.With(custommiddleware.APIKeyMiddleware).Post("/", fundHandler.CreateFund)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", fundHandler.GetFund)
				r.Get("/nav", fundHandler.NavHistory)

				// Fund mutations are an administrative surface.
				r.Group(func(r chi.Router) {
					r.Use(custommiddleware.APIKeyMiddleware)
					r.Put("/", fundHandler.UpdateFund)
					r.Post("/nav", fundHandler.RecordNav)
					r.Post("/nav/batch", fundHandler.RecordNavBatch)
					r.Post("/dividend", dividendHandler.ExecuteDividend)
					r.Post("/liquidate", settlementHandler.LiquidateFund)
				})
			})
		})

		r.Route("/dividend", func(r chi.Router) {
			dividendHandler := handlers.NewDividendHandler(svc.Dividend)
			r.Get("/", dividendHandler.Dividends)
		})

		r.Route("/account", func(r chi.Router) {
			accountHandler := handlers.NewAccountHandler(svc.Account)

			r.Get("/", accountHandler.Accounts)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", accountHandler.GetAccount)
				r.Get("/holdings", accountHandler.Holdings)
				r.With(custommiddleware.APIKeyMiddleware).Put("/risk", accountHandler.UpdateRiskLevel)
			})
		})

		r.Route("/holding", func(r chi.Router) {
			accountHandler := handlers.NewAccountHandler(svc.Account)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.With(custommiddleware.APIKeyMiddleware).Put("/", accountHandler.AdjustHolding)
			})
		})

		r.Route("/logs", func(r chi.Router) {
			accountHandler := handlers.NewAccountHandler(svc.Account)
			r.Get("/", accountHandler.Logs)
		})

		r.Route("/report", func(r chi.Router) {
			reportHandler := handlers.NewReportHandler(svc.Report)
			r.Get("/summary", reportHandler.Summary)
		})
	})

	return r
}
