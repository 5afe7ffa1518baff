package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/izzyreal/pagehist/internal/history"
	"github.com/izzyreal/pagehist/internal/protocol"
)

var (
	uiFuncs = template.FuncMap{"pathEscape": url.PathEscape}

	indexTemplate   = template.Must(template.New("index").Funcs(uiFuncs).Parse(uiSharedHead + indexHTML))
	historyTemplate = template.Must(template.New("history").Parse(uiSharedHead + historyHTML))
)

type historyCell struct {
	Status string
	Title  string
}

type historyRow struct {
	Rank  protocol.PageRank
	Cells []historyCell
}

type historyView struct {
	Project string
	Error   string
	Builds  []protocol.BuildResult
	Rows    []historyRow
}

// newHistoryView lays the ranking out as a grid with the newest build first.
func newHistoryView(h history.History) historyView {
	view := historyView{Project: h.Project.Name}
	for i := len(h.Builds) - 1; i >= 0; i-- {
		view.Builds = append(view.Builds, h.Builds[i])
	}
	byBuild := make([]map[string]protocol.ChildOutcome, len(view.Builds))
	for i, b := range view.Builds {
		m := make(map[string]protocol.ChildOutcome, len(b.Outcomes))
		for _, o := range b.Outcomes {
			m[o.Page] = o
		}
		byBuild[i] = m
	}
	for _, rank := range h.Ranking {
		row := historyRow{Rank: rank}
		for _, outcomes := range byBuild {
			o, ok := outcomes[rank.Page]
			if !ok {
				row.Cells = append(row.Cells, historyCell{Status: "none", Title: "not run"})
				continue
			}
			row.Cells = append(row.Cells, historyCell{
				Status: protocol.NormalizeOutcomeStatus(o.Status),
				Title:  cellTitle(o),
			})
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

func cellTitle(o protocol.ChildOutcome) string {
	if o.Right == 0 && o.Wrong == 0 && o.Ignores == 0 && o.Exceptions == 0 {
		return o.Status
	}
	return fmt.Sprintf("%s: %d right, %d wrong, %d ignored, %d exceptions",
		o.Status, o.Right, o.Wrong, o.Ignores, o.Exceptions)
}

func (s *stateStore) indexHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := s.db.ListProjects()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	renderHTML(w, http.StatusOK, indexTemplate, projects)
}

func (s *stateStore) historyPageHandler(w http.ResponseWriter, r *http.Request) {
	project := projectParam(r)
	maxBuilds, ok := s.maxBuildsFromQuery(r)
	if !ok {
		http.Error(w, "max must be a non-negative integer", http.StatusBadRequest)
		return
	}
	h, err := s.loadHistory(r.Context(), project, maxBuilds)
	if err != nil {
		var herr *historyError
		if errors.As(err, &herr) && herr.status == http.StatusUnprocessableEntity {
			view := newHistoryView(history.History{Project: h.Project})
			view.Error = err.Error()
			renderHTML(w, herr.status, historyTemplate, view)
			return
		}
		if errors.As(err, &herr) {
			http.Error(w, err.Error(), herr.status)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	renderHTML(w, http.StatusOK, historyTemplate, newHistoryView(h))
}

func renderHTML(w http.ResponseWriter, status int, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("render html", "template", tmpl.Name(), "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
