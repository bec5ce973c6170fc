package planmanager

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/cache"
	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// import documents are small, anything bigger is a mistake
const maxImportSize = 2 << 20

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager: manager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/home", handler.HandleHome).Methods("GET", "OPTIONS").Name("home")
	r.HandleFunc("/plans/current", handler.HandleCurrent).Methods("GET", "OPTIONS").Name("current-plans")
	r.HandleFunc("/plans/catalog", handler.HandleCatalog).Methods("GET", "OPTIONS").Name("plans-catalog")
	r.HandleFunc("/plans/import", handler.HandleImport).Methods("POST", "OPTIONS").Name("import-plans")
	r.HandleFunc("/plans/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("export-plans")
	r.HandleFunc("/plans/consistency", handler.HandleConsistency).Methods("POST", "OPTIONS").Name("plans-consistency")
	r.HandleFunc("/plans/reset", handler.HandleEmergencyReset).Methods("POST", "OPTIONS").Name("plans-reset")
	r.HandleFunc("/plans/{domain}", handler.HandleDeleteAll).Methods("DELETE", "OPTIONS").Name("delete-plans")
}

func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
	}
	return id, ok
}

func (handler *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.home")
	defer span.End()

	id, ok := userID(w, r)
	if !ok {
		return
	}

	snap, err := handler.manager.Home(ctx, id)
	if err != nil {
		log.Errorf("home of %s: %s", id, err)
		store.WriteHTTPError(w, "failed to load home", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, snap)
}

func (handler *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.current")
	defer span.End()

	id, ok := userID(w, r)
	if !ok {
		return
	}

	current, err := handler.manager.Load(ctx, id)
	if err != nil {
		log.Errorf("load plans of %s: %s", id, err)
		store.WriteHTTPError(w, "failed to load plans", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, current)
}

func (handler *Handler) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, http.StatusOK, handler.manager.Catalog())
}

func (handler *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.import")
	defer span.End()

	id, ok := userID(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		http.Error(w, "failed to read import document", http.StatusBadRequest)
		return
	}

	current, err := handler.manager.ImportDocument(ctx, id, data)
	var syntaxErr *json.SyntaxError
	switch {
	case err == nil:
	case errors.Is(err, plans.ErrNothingToImport),
		errors.Is(err, plans.ErrUnrecognizedDocument),
		errors.As(err, &syntaxErr):
		http.Error(w, fmt.Sprintf("invalid import document: %s", err), http.StatusBadRequest)
		return
	case errors.Is(err, ErrPartialImport):
		log.Errorf("import for %s: %s", id, err)
		pkg.WriteJSON(w, http.StatusInternalServerError, store.ErrorPayload{
			Error: "workout plan was imported, diet plan was not: " + err.Error(),
			Code:  "partial_import",
		})
		return
	case errors.Is(err, ErrImportNotPersisted):
		log.Errorf("import for %s: %s", id, err)
		pkg.WriteJSON(w, http.StatusInternalServerError, store.ErrorPayload{
			Error: "import was not saved, run the consistency check or a reset",
			Code:  "import_not_persisted",
		})
		return
	default:
		log.Errorf("import for %s: %s", id, err)
		store.WriteHTTPError(w, "import failed", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, current)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.export")
	defer span.End()

	id, ok := userID(w, r)
	if !ok {
		return
	}

	doc, err := handler.manager.Export(ctx, id)
	if err != nil {
		log.Errorf("export for %s: %s", id, err)
		store.WriteHTTPError(w, "export failed", err)
		return
	}

	filename := fmt.Sprintf("fittrack-plans-%s.json", time.Now().Format(pkg.DateLayout))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	pkg.WriteJSON(w, http.StatusOK, doc)
}

func (handler *Handler) HandleConsistency(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.consistency")
	defer span.End()

	id, ok := userID(w, r)
	if !ok {
		return
	}

	var view cache.PlanIDs
	if err := json.NewDecoder(r.Body).Decode(&view); err != nil {
		log.Tracef("consistency, unmarshal json params: %s", err)
		http.Error(w, "consistency check failed", http.StatusBadRequest)
		return
	}

	result, err := handler.manager.CheckConsistency(ctx, id, view)
	if err != nil {
		log.Errorf("consistency check for %s: %s", id, err)
		store.WriteHTTPError(w, "consistency check failed", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, result)
}

func (handler *Handler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.delete_all")
	defer span.End()

	id, ok := userID(w, r)
	if !ok {
		return
	}

	domain, err := plans.ParseDomain(mux.Vars(r)["domain"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode, err := ParseResetMode(r.URL.Query().Get("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.manager.DeleteAll(ctx, id, domain, mode); err != nil {
		log.Errorf("delete all %s for %s: %s", domain, id, err)
		store.WriteHTTPError(w, "delete failed", err)
		return
	}

	current, err := handler.manager.Load(ctx, id)
	if err != nil {
		store.WriteHTTPError(w, "failed to load plans", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, current)
}

func (handler *Handler) HandleEmergencyReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.reset")
	defer span.End()

	id, ok := userID(w, r)
	if !ok {
		return
	}

	if err := handler.manager.EmergencyReset(ctx, id); err != nil {
		store.WriteHTTPError(w, "reset failed", err)
		return
	}
	pkg.WriteTextResponseOK(w, "reset")
}
