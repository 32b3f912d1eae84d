package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learningjourney/journey/internal/config"
	"github.com/learningjourney/journey/internal/database"
	"github.com/learningjourney/journey/internal/utils"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	db     *pgxpool.Pool
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run(). With the database
// enabled it migrates the schema before building the services.
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	var db *pgxpool.Pool
	if cfg.Database.Enabled {
		version, err := database.Migrate(cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Infof("Database schema at version %d", version)

		db, err = database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("Database disabled, progress is kept in memory only")
	}

	deps, err := BuildDependencies(db, cfg, utils.SystemClock{})
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Server.Addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, db: db, deps: deps, router: r, srv: srv}, nil
}

// Run restores the day log, starts the midnight rollover and serves HTTP until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()
	if err := a.deps.ActivityService.Load(ctx); err != nil {
		return err
	}

	a.deps.RolloverScheduler.Start()
	defer a.deps.RolloverScheduler.Stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		serveErr <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}

func (a *Application) close() {
	if a.db != nil {
		a.db.Close()
	}
}
