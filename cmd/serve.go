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
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/waypoint-cli/internal/config"
	"github.com/sells-group/waypoint-cli/internal/model"
	"github.com/sells-group/waypoint-cli/internal/waypoints"
)

var servePort int

// maxRequestBytes caps request bodies; notes are small.
const maxRequestBytes = 1 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for parsing and rendering notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := newParser()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(p, cfg.Render, cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// textRequest carries a note.
type textRequest struct {
	Text string `json:"text"`
}

// textResponse carries rendered or stripped note text.
type textResponse struct {
	Text string `json:"text"`
}

// renderRequest carries waypoints to render. Nil fields fall back to the
// render configuration.
type renderRequest struct {
	Text       string           `json:"text,omitempty"`
	Waypoints  []model.Waypoint `json:"waypoints"`
	MaxSize    *int             `json:"maxSize,omitempty"`
	BackupTags *bool            `json:"backupTags,omitempty"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Smallest int    `json:"smallest,omitempty"`
}

// buildRouter wires the API routes.
func buildRouter(p *waypoints.Parser, renderCfg config.RenderConfig, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(middleware.RequestSize(maxRequestBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/parse", func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		wps := p.ParseWaypoints(req.Text)
		if wps == nil {
			wps = []model.Waypoint{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"waypoints": wps})
	})

	r.Post("/render", func(w http.ResponseWriter, r *http.Request) {
		var req renderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		maxSize := renderCfg.MaxSize
		if req.MaxSize != nil {
			maxSize = *req.MaxSize
		}
		backupTags := renderCfg.BackupTags
		if req.BackupTags != nil {
			backupTags = *req.BackupTags
		}
		text, err := waypoints.RenderAll(req.Waypoints, maxSize, backupTags)
		if err != nil {
			writeRenderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, textResponse{Text: text})
	})

	r.Post("/embed", func(w http.ResponseWriter, r *http.Request) {
		var req renderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		maxSize := renderCfg.MaxSize
		if req.MaxSize != nil {
			maxSize = *req.MaxSize
		}
		text, err := waypoints.Embed(req.Text, req.Waypoints, maxSize)
		if err != nil {
			writeRenderError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, textResponse{Text: text})
	})

	r.Post("/strip", func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		writeJSON(w, http.StatusOK, textResponse{Text: waypoints.StripBackupRegion(req.Text)})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func writeRenderError(w http.ResponseWriter, err error) {
	var budget *waypoints.SizeBudgetError
	if errors.As(err, &budget) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: budget.Error(), Smallest: budget.Smallest})
		return
	}
	zap.L().Error("render failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "render failed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
