package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/patriciomferrari-maker/passive-income-tracker/internal/auth"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/cashflow"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/contract"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/indicator"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/notification"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/notifier"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/property"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/reconcile"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/user"
	"github.com/patriciomferrari-maker/passive-income-tracker/internal/utils/db"
)

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()

	database, err := db.GetDB()
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := user.Migrate(database); err != nil {
		log.Fatal("migrate users:", err)
	}
	if err := property.Migrate(database); err != nil {
		log.Fatal("migrate properties:", err)
	}
	if err := contract.Migrate(database); err != nil {
		log.Fatal("migrate contracts:", err)
	}
	if err := cashflow.Migrate(database); err != nil {
		log.Fatal("migrate cashflows:", err)
	}
	if err := indicator.Migrate(database); err != nil {
		log.Fatal("migrate indicators:", err)
	}
	if err := notifier.Migrate(database); err != nil {
		log.Fatal("migrate adjustment notices:", err)
	}

	// Repositories and services
	contractRepo := contract.NewRepository(database)
	indicatorRepo := indicator.NewRepository(database)
	cashflowRepo := cashflow.NewRepository(database)
	propertyRepo := property.NewRepository(database)
	noticeRepo := notifier.NewRepository(database)

	reconciler := reconcile.NewService(database, contractRepo, indicatorRepo, cashflowRepo)
	sender := notification.NewWebhookSender(envStr("NOTIFY_WEBHOOK_URL", "http://localhost:9000/notify"))
	sweep := notifier.NewService(
		contractRepo,
		noticeRepo,
		sender,
		envInt("NOTIFY_WINDOW_BEHIND_DAYS", 7),
		envInt("NOTIFY_WINDOW_AHEAD_DAYS", 15),
	)

	// Handlers
	userHandler := user.NewHandler(database)
	propertyHandler := property.NewHandler(propertyRepo)
	contractHandler := contract.NewHandler(contractRepo, contract.RegeneratorFunc(func(ctx context.Context, id uint) error {
		_, err := reconciler.RegenerateContract(ctx, id)
		return err
	}))
	cashflowHandler := cashflow.NewHandler(cashflowRepo)
	indicatorHandler := indicator.NewHandler(indicatorRepo)
	reconcileHandler := reconcile.NewHandler(reconciler)
	notifierHandler := notifier.NewHandler(sweep)

	// Router
	r := mux.NewRouter()
	r.HandleFunc("/register", userHandler.Register).Methods("POST")
	r.HandleFunc("/login", userHandler.Login).Methods("POST")

	api := r.PathPrefix("/").Subrouter()
	api.Use(auth.Middleware)

	api.HandleFunc("/properties", propertyHandler.Create).Methods("POST")
	api.HandleFunc("/properties", propertyHandler.List).Methods("GET")
	api.HandleFunc("/properties/{id}", propertyHandler.FindByID).Methods("GET")
	api.HandleFunc("/properties/{id}", propertyHandler.Update).Methods("PUT")
	api.HandleFunc("/properties/{id}", propertyHandler.Delete).Methods("DELETE")

	api.HandleFunc("/contracts", contractHandler.Create).Methods("POST")
	api.HandleFunc("/contracts", contractHandler.List).Methods("GET")
	api.HandleFunc("/contracts/{id}", contractHandler.FindByID).Methods("GET")
	api.HandleFunc("/contracts/{id}", contractHandler.Update).Methods("PUT")
	api.HandleFunc("/contracts/{id}", contractHandler.Delete).Methods("DELETE")

	api.HandleFunc("/contracts/{id}/cashflows", cashflowHandler.ListByContract).Methods("GET")
	api.HandleFunc("/cashflows/{id}/confirm", cashflowHandler.Confirm).Methods("PUT")
	api.HandleFunc("/cashflows/{id}/revert", cashflowHandler.Revert).Methods("PUT")
	api.HandleFunc("/reports/monthly-income", cashflowHandler.MonthlyIncomeReport).Methods("GET")

	api.HandleFunc("/contracts/{id}/regenerate", reconcileHandler.RegenerateContract).Methods("POST")
	api.HandleFunc("/cashflows/regenerate-all", reconcileHandler.RegenerateAll).Methods("POST")

	api.HandleFunc("/indicators", indicatorHandler.Create).Methods("POST")
	api.HandleFunc("/indicators/batch", indicatorHandler.CreateBatch).Methods("POST")
	api.HandleFunc("/indicators", indicatorHandler.List).Methods("GET")

	api.HandleFunc("/admin/check-adjustments", notifierHandler.CheckAdjustments).Methods("POST")

	// Scheduled jobs: nightly full regeneration picks up freshly
	// ingested indices; the morning sweep notifies upcoming adjustments.
	c := cron.New()
	if _, err := c.AddFunc(envStr("CRON_REGENERATE", "30 3 * * *"), func() {
		if _, err := reconciler.RegenerateAll(context.Background()); err != nil {
			log.Printf("scheduled regenerate-all failed: %v", err)
		}
	}); err != nil {
		log.Fatal("invalid CRON_REGENERATE spec:", err)
	}
	if _, err := c.AddFunc(envStr("CRON_ADJUSTMENT_SWEEP", "0 8 * * *"), func() {
		if err := sweep.CheckContractAdjustments(context.Background()); err != nil {
			log.Printf("scheduled adjustment sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatal("invalid CRON_ADJUSTMENT_SWEEP spec:", err)
	}
	c.Start()

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	addr := ":" + envStr("PORT", "8080")
	log.Printf("server listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
