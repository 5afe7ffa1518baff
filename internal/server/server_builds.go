package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/izzyreal/pagehist/internal/protocol"
	"github.com/izzyreal/pagehist/internal/store"
)

const maxBuildRequestBytes = 8 << 20

func (s *stateStore) recordBuildHandler(w http.ResponseWriter, r *http.Request) {
	project := projectParam(r)
	if project == "" {
		writeError(w, "project is required", http.StatusBadRequest)
		return
	}

	var req protocol.RecordBuildRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBuildRequestBytes)).Decode(&req); err != nil {
		writeError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, describeValidationError(err), http.StatusBadRequest)
		return
	}

	build, err := s.db.RecordBuild(project, req.StartedUTC, req.Outcomes)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrInvalidOutcome) {
			status = http.StatusBadRequest
		}
		writeError(w, err.Error(), status)
		return
	}
	s.metrics.buildsRecorded.WithLabelValues(project).Inc()
	s.metrics.outcomesRecorded.Add(float64(len(build.Outcomes)))
	slog.Info("build recorded", "project", project, "number", build.Number, "outcomes", len(build.Outcomes))

	if keep := s.cfg.History.RetainBuilds; keep > 0 {
		removed, err := s.db.PruneBuilds(project, keep)
		if err != nil {
			slog.Error("prune builds failed", "project", project, "error", err)
		} else if removed > 0 {
			s.metrics.buildsPruned.Add(float64(removed))
			slog.Info("builds pruned", "project", project, "removed", removed, "kept", keep)
		}
	}

	writeJSON(w, http.StatusCreated, protocol.RecordBuildResponse{Build: build})
}
