package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "vet-patient-flow/docs"
	"vet-patient-flow/internal/adapters/authz"
	"vet-patient-flow/internal/adapters/notify"
	mem "vet-patient-flow/internal/adapters/storage/memory"
	pg "vet-patient-flow/internal/adapters/storage/postgres"
	"vet-patient-flow/internal/domain/encounters"
	"vet-patient-flow/internal/middleware"
	"vet-patient-flow/internal/platform/logger"
	"vet-patient-flow/internal/platform/metrics"
	"vet-patient-flow/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcionales: overrides para tests. Si son nil se arman desde env.
	Gate     encounters.AuthorizationGate
	Notifier encounters.NotificationHook
	Log      logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to in-memory store", map[string]any{
					"err": err.Error(),
				})
			}
		}
	}

	var repo encounters.Repository
	if db != nil {
		repo = pg.NewEncountersRepo(db)
	} else {
		repo = mem.NewEncountersRepo()
	}

	gate := opts.Gate
	if gate == nil {
		gate = authz.NewRoleGate()
	}

	notifier := opts.Notifier
	if notifier == nil {
		if url := os.Getenv("NOTIFY_WEBHOOK_URL"); url != "" {
			notifier = notify.NewWebhookNotifier(url, 5*time.Second)
		} else {
			notifier = notify.NewLogNotifier(log)
		}
	}

	svc := encounters.NewService(repo, gate, notifier, log)
	encounters.RegisterRoutes(r, svc)

	return r
}
