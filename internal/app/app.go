package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kweku404/intervue/internal/ai"
	"github.com/kweku404/intervue/internal/config"
	"github.com/kweku404/intervue/internal/store"
)

// App is the dependency container for the CLI application
type App struct {
	Store      *store.Store
	Config     *config.Config
	AI         *ai.Client
	HTTPClient *http.Client
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context) (*App, error) {
	// Initialize config
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	// Open database
	st, err := initializeStore()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	// AI calls (question generation, evaluation) can be slow
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
	}

	return &App{
		Store:      st,
		Config:     config.AppConfig,
		AI:         ai.NewClient(httpClient),
		HTTPClient: httpClient,
	}, nil
}

// Close closes all resources
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// initializeStore creates the data directory and opens the SQLite store
func initializeStore() (*store.Store, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return store.Open(filepath.Join(dataDir, "intervue.db"))
}
