package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Caseflow/internal/mq"
	"github.com/shaiso/Caseflow/internal/ordering"
	"github.com/shaiso/Caseflow/internal/repo"
)

const maintLockKey int64 = 575701

var rebalanceRuns = promauto.NewCounter(prometheus.CounterOpts{
	Name: "caseflow_maintenance_rebalance_runs_total",
	Help: "Total execution order rebalance passes",
})

func main() {
	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// DB pool
	pool, err := repo.NewPool(ctx)
	if err != nil {
		log.Fatalf("[maintenance] db connect: %v", err)
	}
	defer pool.Close()
	log.Printf("[maintenance] db connected")

	// расписание ребалансировки
	schedule, err := ordering.ParseSchedule(os.Getenv("REBALANCE_CRON"))
	if err != nil {
		log.Fatalf("[maintenance] %v", err)
	}

	// RabbitMQ опционален
	var publisher *mq.Publisher
	if url := os.Getenv("AMQP_URL"); url != "" {
		conn, err := mq.NewConnection(url, slog.Default())
		if err != nil {
			log.Fatalf("[maintenance] amqp connect: %v", err)
		}
		defer conn.Close()
		if err := mq.DeclareTopology(ctx, conn); err != nil {
			log.Fatalf("[maintenance] declare topology: %v", err)
		}
		publisher = mq.NewPublisher(conn, slog.Default())
		log.Printf("[maintenance] amqp connected")
	}

	rebalancer := ordering.NewRebalancer(ordering.Config{
		Store: repo.NewTestCaseRepo(pool),
	})

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// maintenance loop
	go func() {
		tk := time.NewTicker(1 * time.Second)
		defer tk.Stop()

		var hasLock bool
		var nextDue time.Time
		defer func() {
			if hasLock {
				_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", maintLockKey)
			}
		}()

		runPass := func() {
			updated, err := rebalancer.Tick(ctx)
			if err != nil {
				log.Printf("[maintenance] rebalance: %v", err)
				return
			}
			rebalanceRuns.Inc()
			log.Printf("[maintenance] rebalance done, updated=%d", updated)

			if publisher != nil {
				if err := publisher.PublishOrderRebalanced(ctx, updated); err != nil {
					log.Printf("[maintenance] publish order.rebalanced: %v", err)
				}
			}
		}

		for {
			select {
			case t := <-tk.C:
				// пытаемся стать лидером (или подтвердить лидерство)
				if !hasLock {
					var ok bool
					if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", maintLockKey).Scan(&ok); err != nil {
						log.Printf("[maintenance] lock err: %v", err)
						continue
					}
					hasLock = ok
					if hasLock {
						// свежий лидер делает проход сразу, не дожидаясь расписания
						log.Printf("[maintenance] became leader")
						runPass()
						nextDue = ordering.NextRun(schedule, t)
						log.Printf("[maintenance] next rebalance at %s", nextDue.Format(time.RFC3339))
					}
				}

				if !hasLock {
					// не лидер — пропускаем тик
					continue
				}

				if !t.Before(nextDue) {
					runPass()
					nextDue = ordering.NextRun(schedule, t)
					log.Printf("[maintenance] next rebalance at %s", nextDue.Format(time.RFC3339))
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// serve
	port := ":8081"
	if v := os.Getenv("MAINT_PORT"); v != "" {
		port = ":" + v
	}
	log.Printf("[maintenance] listening on %s", port)
	if err := http.ListenAndServe(port, mux); err != nil {
		log.Printf("[maintenance] http error: %v", err)
		cancel()
	}
}
