package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmoellenbeck/pidevclub/pkg/config"
	"github.com/dmoellenbeck/pidevclub/pkg/historian"
	"github.com/dmoellenbeck/pidevclub/pkg/httpx"
	"github.com/dmoellenbeck/pidevclub/pkg/query"
	"github.com/dmoellenbeck/pidevclub/pkg/storage"
	"github.com/dmoellenbeck/pidevclub/pkg/storage/badger"
	"github.com/dmoellenbeck/pidevclub/pkg/storage/memory"
	"github.com/dmoellenbeck/pidevclub/pkg/summary"
)

var startTime = time.Now()

// getEnv gets a string from an environment variable or returns the default
func getEnv(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvInt64 gets an int64 from an environment variable or returns the default
func getEnvInt64(key string, defaultValue int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
		log.Printf("Invalid value for %s: %q, using default %d", key, val, defaultValue)
	}
	return defaultValue
}

// openStorage selects the archive backend from the environment.
// PIDEVCLUB_STORAGE=memory gives an ephemeral archive for development;
// anything else opens BadgerDB at PIDEVCLUB_DATA_DIR.
func openStorage() (storage.Storage, error) {
	if getEnv("PIDEVCLUB_STORAGE", "badger") == "memory" {
		log.Println("Using in-memory archive (data is lost on restart)")
		return memory.New(), nil
	}

	dataDir := getEnv("PIDEVCLUB_DATA_DIR", "./data/pidevclub")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}
	log.Printf("Opening BadgerDB archive at %s", dataDir)

	return badger.New(badger.Config{
		Path:        dataDir,
		MaxMemoryMB: getEnvInt64("PIDEVCLUB_MAX_MEMORY_MB", config.DefaultMaxMemoryMB),
	})
}

// handleHealth returns service health status
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": time.Since(startTime).String(),
	})
}

// handleWrite archives a batch of samples from the request body
func handleWrite(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var samples []historian.Sample
		if err := httpx.DecodeJSON(r, &samples); err != nil {
			httpx.RespondError(w, http.StatusBadRequest, err)
			return
		}
		if len(samples) == 0 {
			httpx.RespondErrorString(w, http.StatusBadRequest, "request body holds no samples")
			return
		}

		for i, smp := range samples {
			if smp.Tag == "" {
				httpx.RespondErrorString(w, http.StatusBadRequest, fmt.Sprintf("sample %d has no tag", i))
				return
			}
			if smp.Timestamp.IsZero() {
				samples[i].Timestamp = time.Now()
			}
		}

		if err := store.Write(r.Context(), samples); err != nil {
			httpx.RespondError(w, http.StatusInternalServerError, err)
			return
		}
		httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"archived": len(samples),
		})
	}
}

// handleStats returns archive statistics
func handleStats(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.Stats(r.Context())
		if err != nil {
			httpx.RespondError(w, http.StatusInternalServerError, err)
			return
		}
		httpx.RespondJSON(w, http.StatusOK, stats)
	}
}

func main() {
	log.Println("Starting pidevclub server...")

	store, err := openStorage()
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	queryHandler := query.NewHandler(store)
	summaryHandler := summary.NewHandler(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Badger value logs accumulate garbage without periodic GC
	if badgerStore, ok := store.(*badger.Storage); ok {
		go runBadgerGC(ctx, badgerStore)
	}

	router := mux.NewRouter()

	// CORS middleware for API access
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	api := router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/write", handleWrite(store)).Methods("POST")
	api.HandleFunc("/query", queryHandler.HandleQuery).Methods("GET")
	api.HandleFunc("/query/stream", queryHandler.HandleQueryStream).Methods("GET")
	api.HandleFunc("/summary", summaryHandler.HandleSummary).Methods("GET")
	api.HandleFunc("/stats", handleStats(store)).Methods("GET")
	api.HandleFunc("/health", handleHealth).Methods("GET")

	port := getEnv("PIDEVCLUB_PORT", config.DefaultPort)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
	}

	go func() {
		log.Printf("Server listening on http://localhost:%s", port)
		log.Println("API endpoints:")
		log.Println("   POST /v1/write        - Archive a batch of samples")
		log.Println("   GET /v1/query         - Partitioned archive query")
		log.Println("   GET /v1/query/stream  - Stream partitions over WebSocket")
		log.Println("   GET /v1/summary       - Event-weighted summaries")
		log.Println("   GET /v1/stats         - Archive statistics")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutdown signal received...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown warning: %v", err)
	}

	log.Println("Server exited cleanly")
}

// runBadgerGC runs BadgerDB value log garbage collection periodically
func runBadgerGC(ctx context.Context, store *badger.Storage) {
	ticker := time.NewTicker(config.BadgerGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if err := store.RunGC(config.BadgerGCRatio); err != nil {
				// badger.ErrNoRewrite just means there was nothing to reclaim
				log.Printf("GC completed in %v (no rewrite needed)", time.Since(start).Round(time.Millisecond))
			} else {
				log.Printf("GC completed in %v (disk space reclaimed)", time.Since(start).Round(time.Millisecond))
			}
		}
	}
}
