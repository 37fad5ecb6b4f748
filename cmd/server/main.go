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
	"go.uber.org/zap"

	billingapp "github.com/openbooks/ledger/internal/application/billing"
	ledgerapp "github.com/openbooks/ledger/internal/application/ledger"
	reportapp "github.com/openbooks/ledger/internal/application/report"
	voucherapp "github.com/openbooks/ledger/internal/application/voucher"
	"github.com/openbooks/ledger/internal/infrastructure/config"
	"github.com/openbooks/ledger/internal/infrastructure/event"
	"github.com/openbooks/ledger/internal/infrastructure/logger"
	"github.com/openbooks/ledger/internal/infrastructure/persistence"
	"github.com/openbooks/ledger/internal/interfaces/http/handler"
	"github.com/openbooks/ledger/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting ledger service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("db_driver", cfg.Database.Driver),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	accountRepo := persistence.NewGormAccountRepository(db)
	transactionRepo := persistence.NewGormTransactionRepository(db)
	groupRepo := persistence.NewGormTransactionGroupRepository(db)
	voucherRepo := persistence.NewGormVoucherRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	billRepo := persistence.NewGormBillRepository(db)
	txManager := persistence.NewGormTxManager(db)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewAuditLogHandler(log))
	if err := bus.Start(context.Background()); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}

	accountService := ledgerapp.NewAccountService(accountRepo, transactionRepo, txManager, bus, log)
	postingService := ledgerapp.NewPostingService(accountRepo, transactionRepo, txManager, bus, log)
	journalService := ledgerapp.NewJournalService(accountRepo, transactionRepo, groupRepo, postingService, txManager, bus, log)
	voucherService := voucherapp.NewVoucherService(voucherRepo, accountRepo, transactionRepo, txManager, bus, log)

	var billingOpts []billingapp.BillingServiceOption
	if !cfg.Billing.AllowOverpayment {
		billingOpts = append(billingOpts, billingapp.WithOverpaymentRejected())
	}
	billingService := billingapp.NewBillingService(invoiceRepo, billRepo, txManager, bus, log, billingOpts...)
	reportService := reportapp.NewReportService(accountRepo, invoiceRepo, billRepo, log)

	engine := router.New(log, cfg.HTTP.MaxBodyBytes).
		Register(
			handler.NewAccountHandler(accountService),
			handler.NewTransactionHandler(postingService),
			handler.NewJournalHandler(journalService),
			handler.NewVoucherHandler(voucherService),
			handler.NewBillingHandler(billingService),
			handler.NewReportHandler(reportService),
		).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	if cfg.Billing.OverdueSweepInterval > 0 {
		go runOverdueSweep(sweepCtx, billingService, cfg.Billing.OverdueSweepInterval, log)
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("event bus shutdown failed", zap.Error(err))
	}
	log.Info("stopped")
}

// runOverdueSweep periodically promotes past-due open documents to OVERDUE.
// Statuses also refresh on read; the sweep keeps listings correct for
// documents nobody touches.
func runOverdueSweep(ctx context.Context, svc *billingapp.BillingService, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, err := svc.RefreshOverdueStatuses(ctx, time.Now())
			if err != nil {
				log.Error("overdue sweep failed", zap.Error(err))
				continue
			}
			if changed > 0 {
				log.Info("overdue sweep finished", zap.Int("changed", changed))
			}
		}
	}
}
