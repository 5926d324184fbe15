package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hospital-record-sync/internal/adapters/bus/membus"
	"hospital-record-sync/internal/adapters/bus/rabbitmq"
	"hospital-record-sync/internal/adapters/storage/memory"
	"hospital-record-sync/internal/adapters/storage/postgres"
	"hospital-record-sync/internal/domain/patients"
	"hospital-record-sync/internal/domain/replication"
	"hospital-record-sync/internal/platform/logger"
	"hospital-record-sync/internal/ports/bus"
	"hospital-record-sync/internal/router"
)

// @title Hospital Record Sync API
// @version 1.0
// @description Registro local de pacientes de un hospital, replicado al resto de la red vía eventos de difusión.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	nodeID := os.Getenv("HOSPITAL_ID")
	if nodeID == "" {
		nodeID = "hospital_a"
	}

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store  patients.Repository
		outbox replication.Outbox
	)
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := postgres.Open(dsn)
		if err != nil {
			log.Error("cannot open postgres", logger.Fields{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()

		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Error("cannot prepare schema", logger.Fields{"error": err.Error()})
			os.Exit(1)
		}
		store = postgres.NewPatientsRepo(db)
		outbox = postgres.NewOutboxRepo(db)
	} else {
		// Sin DSN arrancamos en memoria: útil para dev, se pierde todo al reiniciar.
		log.Warn("DB_DSN not set, using in-memory storage", nil)
		store = memory.NewPatientsRepo()
		outbox = memory.NewOutboxRepo()
	}

	var b bus.Bus
	if url := os.Getenv("AMQP_URL"); url != "" {
		b = rabbitmq.New(rabbitmq.Config{
			URL:      url,
			Exchange: os.Getenv("PATIENTS_EXCHANGE"),
			NodeID:   nodeID,
		}, log)
	} else {
		// Sin broker el nodo queda aislado: publica y consume contra un hub local.
		log.Warn("AMQP_URL not set, replication stays in-process", nil)
		b = membus.NewHub().Bind(nodeID)
	}
	defer b.Close()

	svc := patients.NewService(store, replication.NewOutboxPublisher(outbox, nodeID))
	engine := replication.NewEngine(store, log)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		replication.NewConsumer(b, engine, nodeID, log).Run(ctx)
	}()
	go func() {
		defer wg.Done()
		replication.NewRelay(outbox, b, log).Run(ctx)
	}()

	r := router.NewRouter(router.Options{Patients: svc, Log: log})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("server shutdown", logger.Fields{"error": err.Error()})
		}
	}()

	log.Info("starting server", logger.Fields{"addr": addr, "node": nodeID})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", logger.Fields{"error": err.Error()})
		stop()
	}

	wg.Wait()
	log.Info("server stopped", nil)
}
