package dbstatus

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const maxStatusSize = 64 << 10

type Handler struct {
	checker     *Checker
	repo        schemaRepo
	invalidator cacheInvalidator
}

func NewHandler(checker *Checker, invalidator cacheInvalidator) *Handler {
	return &Handler{
		checker:     checker,
		repo:        checker.repo,
		invalidator: invalidator,
	}
}

// SetupRoutes registers the routes that work without a logged in user.
func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/database-status", handler.HandleGetStatus).Methods("GET", "OPTIONS").Name("database-status")
	r.HandleFunc("/database-status", handler.HandleCheckStatus).Methods("POST").Name("database-status-check")
	r.HandleFunc("/database-setup", handler.HandleSetup).Methods("POST", "OPTIONS").Name("database-setup")
}

// SetupUserRoutes registers the routes that act on the data of the logged in user.
func (handler *Handler) SetupUserRoutes(r *mux.Router) {
	r.HandleFunc("/database-status-store", handler.HandleGetStoredStatus).Methods("GET", "OPTIONS").Name("database-status-store")
	r.HandleFunc("/database-status-store", handler.HandleSaveStoredStatus).Methods("POST").Name("database-status-store-save")
	r.HandleFunc("/clear-progress", handler.HandleClearProgress).Methods("POST", "OPTIONS").Name("clear-progress")
}

func statusCode(status Status) int {
	if status.Ready {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func (handler *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	status := handler.checker.Current(r.Context())
	pkg.WriteJSON(w, statusCode(status), status)
}

func (handler *Handler) HandleCheckStatus(w http.ResponseWriter, r *http.Request) {
	status := handler.checker.Check(r.Context())
	pkg.WriteJSON(w, statusCode(status), status)
}

func (handler *Handler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dbstatus.setup")
	defer span.End()

	status, err := handler.checker.Setup(ctx)
	if err != nil {
		log.Errorf("database setup: %s", err)
		pkg.WriteJSON(w, http.StatusInternalServerError, status)
		return
	}
	pkg.WriteJSON(w, statusCode(status), status)
}

func (handler *Handler) HandleGetStoredStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dbstatus.stored.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	raw, err := handler.repo.GetDatabaseStatus(ctx, userID)
	if err != nil {
		log.Errorf("get stored database status of %s: %s", userID, err)
		store.WriteHTTPError(w, "failed to get database status", err)
		return
	}
	if len(raw) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, raw, http.StatusOK)
}

func (handler *Handler) HandleSaveStoredStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dbstatus.stored.save")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxStatusSize))
	if err != nil || !json.Valid(raw) {
		http.Error(w, "database status must be a json document", http.StatusBadRequest)
		return
	}

	if err := handler.repo.SaveDatabaseStatus(ctx, userID, raw); err != nil {
		log.Errorf("save database status of %s: %s", userID, err)
		store.WriteHTTPError(w, "failed to save database status", err)
		return
	}
	pkg.WriteTextResponseOK(w, "saved")
}

func (handler *Handler) HandleClearProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dbstatus.clear_progress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	// pending day writes are cancelled before the delete, so none of them lands after it
	handler.invalidate(ctx, userID)
	if err := handler.repo.ClearProgress(ctx, userID); err != nil {
		log.Errorf("clear progress of %s: %s", userID, err)
		store.WriteHTTPError(w, "failed to clear progress", err)
		return
	}
	handler.invalidate(ctx, userID)

	log.Printf("progress of %s cleared", userID)
	pkg.WriteTextResponseOK(w, "cleared")
}

func (handler *Handler) invalidate(ctx context.Context, userID string) {
	if handler.invalidator != nil {
		handler.invalidator.InvalidateCache(ctx, userID)
	}
}
