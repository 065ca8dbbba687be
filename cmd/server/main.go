package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/controller"
	"github.com/api-sage/deposit-ledger/internal/adapter/http/middleware"
	"github.com/api-sage/deposit-ledger/internal/adapter/http/router"
	"github.com/api-sage/deposit-ledger/internal/adapter/repository/postgres"
	"github.com/api-sage/deposit-ledger/internal/config"
	"github.com/api-sage/deposit-ledger/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	contractRepo := postgres.NewContractRepository(db)
	operationRepo := postgres.NewOperationRepository(db)
	productRepo := postgres.NewProductRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	userRepo := postgres.NewUserRepository(db)

	contractService := services.NewContractService(contractRepo, operationRepo, productRepo, customerRepo)
	accrualService := services.NewAccrualService(contractRepo)
	productService := services.NewProductService(productRepo)
	customerService := services.NewCustomerService(customerRepo)
	userService := services.NewUserService(userRepo)
	reportService := services.NewReportService(contractRepo, operationRepo, customerRepo, productRepo)

	authMiddleware := middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey)

	mux := router.New(authMiddleware,
		controller.NewContractController(contractService, userService),
		controller.NewAccrualController(accrualService, userService),
		controller.NewProductController(productService, userService),
		controller.NewCustomerController(customerService, userService),
		controller.NewUserController(userService),
		controller.NewReportController(reportService, userService),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("deposit ledger listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("http server: %v", err)
	}
}
