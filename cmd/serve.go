package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glowmarket/hunter/internal/hunt"
	"github.com/glowmarket/hunter/internal/model"
	"github.com/glowmarket/hunter/internal/resilience"
	"github.com/glowmarket/hunter/pkg/google"
)

var servePort int

// cityRunner is the part of the Hunter the HTTP surface needs.
type cityRunner interface {
	RunCity(ctx context.Context, req hunt.Request) (*model.RunSummary, error)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server accepting run-city requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		cfg.Server.Port = port

		env, err := initHunter(ctx, "serve")
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env.Hunter, cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter wires the HTTP routes and middleware.
func newRouter(runner cityRunner, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/run-city", handleRunCity(runner))

	return r
}

// errorResponse is the body of every non-200 run-city response. The partial
// summary fields are present when the run got past validation.
type errorResponse struct {
	Status         string                  `json:"status"`
	Error          string                  `json:"error"`
	Fields         []string                `json:"fields,omitempty"`
	UpstreamStatus string                  `json:"upstream_status,omitempty"`
	Retryable      bool                    `json:"retryable,omitempty"`
	RunID          string                  `json:"run_id,omitempty"`
	SheetName      string                  `json:"sheetName,omitempty"`
	TotalFound     int                     `json:"total_found"`
	TotalAdded     int                     `json:"total_added"`
	PerCategory    []model.CategorySummary `json:"per_category,omitempty"`
}

func handleRunCity(runner cityRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hunt.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Status: hunt.StatusError,
				Error:  "invalid request body",
			})
			return
		}

		summary, err := runner.RunCity(r.Context(), req)
		if err != nil {
			code, resp := errorToResponse(err, summary)
			if code >= http.StatusInternalServerError {
				zap.L().Error("run-city failed", zap.Int("status", code), zap.Error(err))
			}
			writeJSON(w, code, resp)
			return
		}

		writeJSON(w, http.StatusOK, summary)
	}
}

// errorToResponse maps a run error to an HTTP status and body.
func errorToResponse(err error, summary *model.RunSummary) (int, errorResponse) {
	resp := errorResponse{
		Status:    hunt.StatusError,
		Error:     err.Error(),
		Retryable: resilience.IsTransient(err),
	}
	if summary != nil {
		resp.RunID = summary.RunID
		resp.SheetName = summary.SheetName
		resp.TotalFound = summary.TotalFound
		resp.TotalAdded = summary.TotalAdded
		resp.PerCategory = summary.PerCategory
	}

	var ve *hunt.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
		return http.StatusBadRequest, resp
	}

	var se *hunt.SearchError
	if errors.As(err, &se) {
		var st *google.StatusError
		if errors.As(err, &st) {
			resp.UpstreamStatus = st.Status
			if st.Status == google.StatusOverQueryLimit {
				resp.Retryable = true
			}
		}
		return http.StatusBadGateway, resp
	}

	return http.StatusInternalServerError, resp
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
