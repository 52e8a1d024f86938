// server/http.go
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"blackjack-arena/server/config"
	"blackjack-arena/server/engine"
	"blackjack-arena/server/game"
	"blackjack-arena/server/store"
)

func Router(db *store.DB, svc *game.Service, cfg *config.Config, m *Metrics, hub *Hub, logger *log.Logger) http.Handler {
	h := &handlers{db: db, svc: svc, cfg: cfg, metrics: m, hub: hub, logger: logger.WithPrefix("http")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.observe)

	r.Route("/api", func(r chi.Router) {
		r.Post("/start-game", h.startGame)
		r.Post("/hit", h.hit)
		r.Post("/stand", h.stand)
		r.Get("/stats", h.stats)
		r.Post("/reset", h.reset)
		r.Get("/watch", hub.HandleWatch)
	})

	r.Get("/health", h.health)
	r.Get("/ready", h.ready)
	r.Get("/live", h.live)
	r.Get("/metrics", h.metricsJSON)
	r.Get("/metrics/prometheus", h.metricsPrometheus)

	return r
}

type handlers struct {
	db      *store.DB
	svc     *game.Service
	cfg     *config.Config
	metrics *Metrics
	hub     *Hub
	logger  *log.Logger
}

// observe counts requests per route, response times and error responses.
func (h *handlers) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		h.metrics.IncRequest(r.URL.Path)
		h.metrics.RecordDuration(time.Since(start))
		if ww.Status() >= 400 {
			h.metrics.IncError()
		}
	})
}

/* -----------------------------
   Game API
------------------------------*/

func (h *handlers) startGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bet int `json:"bet"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sid := h.sessionID(w, r)
	view, err := h.svc.OpenRound(r.Context(), sid, req.Bet)
	if err != nil {
		h.writeGameError(w, err)
		return
	}
	h.publish(view)
	writeJSON(w, view)
}

func (h *handlers) hit(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	view, err := h.svc.Hit(r.Context(), sid)
	if err != nil {
		h.writeGameError(w, err)
		return
	}
	h.publish(view)
	writeJSON(w, view)
}

func (h *handlers) stand(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	view, err := h.svc.Stand(r.Context(), sid)
	if err != nil {
		h.writeGameError(w, err)
		return
	}
	h.publish(view)
	writeJSON(w, view)
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	stats, err := h.svc.Stats(r.Context(), sid)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if stats == nil {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	writeJSON(w, stats)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	sid := h.sessionID(w, r)
	player, err := h.svc.Reset(r.Context(), sid)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"balance": player.Balance,
		"message": "Balance reset successfully",
	})
}

// publish pushes settled rounds onto the observer feed.
func (h *handlers) publish(view *game.RoundView) {
	if !view.GameOver {
		return
	}
	h.hub.Broadcast(RoundEvent{
		Outcome:     view.Outcome,
		Bet:         view.Bet,
		PlayerScore: view.PlayerScore,
		DealerScore: view.DealerScore,
		Message:     view.Message,
	})
}

// writeGameError maps the engine error taxonomy onto responses. Everything
// except deck exhaustion is a caller error.
func (h *handlers) writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidBet):
		t := h.cfg.Table
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Bet must be between $%d and $%d and within your balance", t.MinBet, t.MaxBet))
	case errors.Is(err, engine.ErrRoundAlreadyOpen):
		writeError(w, http.StatusConflict, "Game already in progress")
	case errors.Is(err, engine.ErrInvalidPhase):
		writeError(w, http.StatusConflict, "That move is not available right now")
	case errors.Is(err, engine.ErrNoOpenRound):
		writeError(w, http.StatusNotFound, "No active game")
	default:
		h.internalError(w, err)
	}
}

func (h *handlers) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

/* -----------------------------
   Monitoring
------------------------------*/

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	dbStatus := "healthy"
	if err := h.db.Ping(ctx); err != nil {
		status = "degraded"
		dbStatus = "unhealthy: " + err.Error()
	}
	writeJSON(w, map[string]any{
		"status":         status,
		"version":        h.cfg.Version,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"database":       dbStatus,
		"uptime_seconds": round2(h.metrics.Uptime().Seconds()),
	})
}

func (h *handlers) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, map[string]string{"status": "ready"})
}

func (h *handlers) live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "alive"})
}

func (h *handlers) metricsJSON(w http.ResponseWriter, r *http.Request) {
	active, players := h.dbCounts(r.Context())
	writeJSON(w, h.metrics.Snapshot(active, players))
}

func (h *handlers) metricsPrometheus(w http.ResponseWriter, r *http.Request) {
	active, players := h.dbCounts(r.Context())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, h.metrics.Prometheus(active, players))
}

func (h *handlers) dbCounts(ctx context.Context) (activeRounds, totalPlayers int64) {
	var err error
	if activeRounds, err = h.db.CountOpenRounds(ctx); err != nil {
		h.logger.Warn("counting open rounds", "error", err)
	}
	if totalPlayers, err = h.db.CountPlayers(ctx); err != nil {
		h.logger.Warn("counting players", "error", err)
	}
	return activeRounds, totalPlayers
}

/* -----------------------------
   Helpers
------------------------------*/

const sessionCookie = "session_id"

// sessionID reads the session cookie, minting and setting one when absent.
func (h *handlers) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	sid := hex.EncodeToString(buf)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
	})
	return sid
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
