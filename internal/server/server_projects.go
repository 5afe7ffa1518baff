package server

import (
	"net/http"

	"github.com/izzyreal/pagehist/internal/protocol"
)

func (s *stateStore) listProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := s.db.ListProjects()
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, protocol.ListProjectsResponse{Projects: projects})
}
