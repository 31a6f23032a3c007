// Command offset-proxy serves offset/limit windows over a page-numbered
// upstream, either an HTTP endpoint or a Redis list of JSON items.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Sternrassler/offset-page/pkg/httpsource"
	"github.com/Sternrassler/offset-page/pkg/logging"
	"github.com/Sternrassler/offset-page/pkg/metrics"
	"github.com/Sternrassler/offset-page/pkg/offsetpage"
	"github.com/Sternrassler/offset-page/pkg/redissource"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const requestTimeout = 30 * time.Second

var (
	proxyMetrics = promauto.With(metrics.Registry)

	proxyRequests = proxyMetrics.NewCounterVec(prometheus.CounterOpts{
		Name: "offset_proxy_requests_total",
		Help: "Total /items responses by HTTP status",
	}, []string{"code"})

	proxyDuration = proxyMetrics.NewHistogram(prometheus.HistogramOpts{
		Name:    "offset_proxy_request_duration_seconds",
		Help:    "/items handling duration in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// Config is read from the environment.
type Config struct {
	Port        string `validate:"required,numeric"`
	Source      string `validate:"required,oneof=http redis"`
	UpstreamURL string `validate:"required_if=Source http,omitempty,url"`
	RedisURL    string `validate:"required_if=Source redis"`
	RedisKey    string `validate:"required_if=Source redis"`
	LogLevel    string `validate:"oneof=debug info warn error"`
	LogPretty   bool
}

var validate = validator.New()

func loadConfig() Config {
	pretty, _ := strconv.ParseBool(getEnv("LOG_PRETTY", "false"))
	return Config{
		Port:        getEnv("PORT", "8080"),
		Source:      getEnv("SOURCE", "http"),
		UpstreamURL: getEnv("UPSTREAM_URL", ""),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),
		RedisKey:    getEnv("REDIS_KEY", "offsetpage:items"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogPretty:   pretty,
	}
}

func main() {
	cfg := loadConfig()

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})
	logger := logging.NewLogger(logging.ComponentProxy)

	if err := validate.Struct(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, ready, cleanup, err := newSource(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("source", cfg.Source).Msg("Failed to open source")
	}
	defer cleanup()

	adapter := offsetpage.New[json.RawMessage](source)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newMux(adapter, ready, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", server.Addr).Str("source", cfg.Source).Msg("Starting offset proxy")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Server failed")
	}
	logger.Info().Msg("Offset proxy stopped")
}

// newSource opens the configured upstream. ready reports whether it can
// serve; cleanup releases its connections.
func newSource(ctx context.Context, cfg Config) (offsetpage.Source[json.RawMessage], func(context.Context) error, func(), error) {
	switch cfg.Source {
	case "http":
		src, err := httpsource.New[json.RawMessage](httpsource.DefaultConfig(cfg.UpstreamURL))
		if err != nil {
			return nil, nil, nil, err
		}
		ready := func(context.Context) error { return nil }
		return src, ready, func() {}, nil

	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisURL, err)
		}
		ready := func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		return redissource.New[json.RawMessage](redisClient, cfg.RedisKey), ready, func() { redisClient.Close() }, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

func newMux(adapter *offsetpage.Adapter[json.RawMessage], ready func(context.Context) error, logger zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(ready))
	mux.HandleFunc("/items", itemsHandler(adapter, logger))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Gatherer, promhttp.HandlerOpts{}))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func readyHandler(ready func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := ready(ctx); err != nil {
			http.Error(w, fmt.Sprintf("source not ready: %v", err), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

type itemsResponse struct {
	Items   []json.RawMessage `json:"items"`
	Fetched int               `json:"fetched"`
}

type errorResponse struct {
	Error   string         `json:"error"`
	Params  map[string]int `json:"params,omitempty"`
	Fetched int            `json:"fetched,omitempty"`
}

// paramsError is implemented by the adapter's argument errors.
type paramsError interface {
	error
	Params() map[string]int
}

func itemsHandler(adapter *offsetpage.Adapter[json.RawMessage], logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		defer func() {
			proxyDuration.Observe(time.Since(startTime).Seconds())
		}()

		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}

		offset, limit, delivered, err := parseWindow(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		result, err := adapter.Execute(ctx, offset, limit, delivered)
		if err != nil {
			resp := errorResponse{Error: err.Error()}
			var pe paramsError
			if errors.As(err, &pe) {
				resp.Params = pe.Params()
			}
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}

		items, err := result.FetchAll()
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, offsetpage.ErrPagination) {
				status = http.StatusInternalServerError
			}
			logger.Warn().
				Err(err).
				Int("offset", offset).
				Int("limit", limit).
				Int("delivered", delivered).
				Int("fetched", result.FetchedCount()).
				Msg("Upstream failed while serving window")
			writeJSON(w, status, errorResponse{Error: err.Error(), Fetched: result.FetchedCount()})
			return
		}

		logger.Info().
			Int("offset", offset).
			Int("limit", limit).
			Int("delivered", delivered).
			Int("fetched", result.FetchedCount()).
			Dur("duration", time.Since(startTime)).
			Msg("Served window")
		writeJSON(w, http.StatusOK, itemsResponse{Items: items, Fetched: result.FetchedCount()})
	}
}

// parseWindow reads offset, limit and delivered; missing values are 0.
// Range checks are left to the adapter.
func parseWindow(r *http.Request) (offset, limit, delivered int, err error) {
	query := r.URL.Query()
	values := []*int{&offset, &limit, &delivered}
	for i, name := range []string{offsetpage.FieldOffset, offsetpage.FieldLimit, offsetpage.FieldDelivered} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
		}
		*values[i] = n
	}
	return offset, limit, delivered, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	proxyRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
