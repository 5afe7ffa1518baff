package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/izzyreal/pagehist/internal/history"
	"github.com/izzyreal/pagehist/internal/store"
)

var tracer = otel.Tracer("github.com/izzyreal/pagehist/internal/server")

// historyError carries the HTTP status a history lookup failure maps to.
type historyError struct {
	status int
	err    error
}

func (e *historyError) Error() string { return e.err.Error() }
func (e *historyError) Unwrap() error { return e.err }

// loadHistory reads the newest maxBuilds builds of project and ranks their
// pages. A malformed outcome still yields a History carrying the project so
// callers can render an empty result.
func (s *stateStore) loadHistory(ctx context.Context, project string, maxBuilds int) (history.History, error) {
	_, span := tracer.Start(ctx, "history.compute", trace.WithAttributes(
		attribute.String("project", project),
		attribute.Int("history.max_builds", maxBuilds),
	))
	defer span.End()

	summary, err := s.db.GetProject(project)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrProjectNotFound) {
			status = http.StatusNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "get project")
		return history.History{}, &historyError{status: status, err: err}
	}
	builds, err := s.db.ListBuilds(project, maxBuilds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list builds")
		return history.History{Project: summary}, &historyError{status: http.StatusInternalServerError, err: err}
	}

	start := time.Now()
	h, err := history.Build(summary, builds)
	s.metrics.historyCompute.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("history.builds", len(builds)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "aggregate")
		return h, &historyError{status: http.StatusUnprocessableEntity, err: err}
	}
	span.SetAttributes(attribute.Int("history.pages", len(h.Pages)))
	s.metrics.historyPages.Observe(float64(len(h.Pages)))
	return h, nil
}

func (s *stateStore) maxBuildsFromQuery(r *http.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("max"))
	if raw == "" {
		return s.cfg.History.MaxBuilds, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (s *stateStore) projectHistoryHandler(w http.ResponseWriter, r *http.Request) {
	project := projectParam(r)
	maxBuilds, ok := s.maxBuildsFromQuery(r)
	if !ok {
		s.metrics.historyRequests.WithLabelValues("bad_request").Inc()
		writeError(w, "max must be a non-negative integer", http.StatusBadRequest)
		return
	}

	h, err := s.loadHistory(r.Context(), project, maxBuilds)
	if err != nil {
		var herr *historyError
		status := http.StatusInternalServerError
		if errors.As(err, &herr) {
			status = herr.status
		}
		s.metrics.historyRequests.WithLabelValues(strconv.Itoa(status)).Inc()
		if status == http.StatusUnprocessableEntity {
			// The consumer still gets a well-formed, empty ranking.
			resp := history.History{Project: h.Project}.Response()
			resp.Error = err.Error()
			writeJSON(w, status, resp)
			return
		}
		writeError(w, err.Error(), status)
		return
	}
	s.metrics.historyRequests.WithLabelValues("200").Inc()
	writeJSON(w, http.StatusOK, h.Response())
}
