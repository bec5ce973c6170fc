package stats

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/progress"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/stats/summary", handler.HandleSummary).Methods("GET", "OPTIONS").Name("stats-summary")
	r.HandleFunc("/stats/export", handler.HandleExport).Methods("GET", "OPTIONS").Name("stats-export")
}

// withUser resolves the user, and the client timezone when one is sent.
func withUser(w http.ResponseWriter, r *http.Request) (*http.Request, string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return nil, "", false
	}
	if tz := r.Header.Get(progress.TimezoneHeader); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			r = r.WithContext(progress.ContextWithLocation(r.Context(), loc))
		}
	}
	return r, userID, true
}

func writeError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, pkg.ErrInvalidDate) || errors.Is(err, ErrInvalidRange) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Errorf("%s: %s", message, err)
	store.WriteHTTPError(w, message, err)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.summary")
	defer span.End()

	r, userID, ok := withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}

	summary, err := handler.service.Summary(r.Context(), userID, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, "failed to get stats", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, summary)
}

func (handler *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.export")
	defer span.End()

	r, userID, ok := withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}
	ctx = r.Context()

	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	data, err := handler.service.Load(ctx, userID, from, to)
	if err != nil {
		writeError(w, "failed to load history", err)
		return
	}
	summary, err := handler.service.SummaryOf(ctx, userID, data)
	if err != nil {
		writeError(w, "failed to get stats", err)
		return
	}

	f, err := Workbook(data, summary)
	if err != nil {
		log.Errorf("build stats workbook for %s: %s", userID, err)
		http.Error(w, "failed to build export", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorf("close stats workbook: %s", err)
		}
	}()

	filename := fmt.Sprintf("fittrack-stats-%s-%s.xlsx", data.From, data.To)
	w.Header().Set("Content-Type", pkg.ContentType.XLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := f.Write(w); err != nil {
		log.Errorf("write stats workbook for %s: %s", userID, err)
	}
}
