package history

import (
	"fmt"

	"github.com/izzyreal/pagehist/internal/protocol"
)

// History is what a page-history view needs: the project, the ranked pages and
// the builds they were computed from.
type History struct {
	Project protocol.ProjectSummary
	Pages   []string
	Ranking []protocol.PageRank
	Builds  []protocol.BuildResult
}

// Pages aggregates builds and returns the ranked page names.
func Pages(builds []protocol.BuildResult) ([]string, error) {
	stats, err := Aggregate(builds)
	if err != nil {
		return nil, err
	}
	return Rank(stats), nil
}

func Build(project protocol.ProjectSummary, builds []protocol.BuildResult) (History, error) {
	stats, err := Aggregate(builds)
	if err != nil {
		return History{Project: project}, fmt.Errorf("aggregate %s history: %w", project.Name, err)
	}
	ranking := RankStats(stats)
	pages := make([]string, 0, len(ranking))
	for _, r := range ranking {
		pages = append(pages, r.Page)
	}
	return History{
		Project: project,
		Pages:   pages,
		Ranking: ranking,
		Builds:  builds,
	}, nil
}

// Response converts h to its wire form. Nil slices become empty ones so the
// JSON body always carries arrays.
func (h History) Response() protocol.PageHistoryResponse {
	resp := protocol.PageHistoryResponse{
		Project: h.Project,
		Pages:   h.Pages,
		Ranking: h.Ranking,
		Builds:  h.Builds,
	}
	if resp.Pages == nil {
		resp.Pages = []string{}
	}
	if resp.Ranking == nil {
		resp.Ranking = []protocol.PageRank{}
	}
	if resp.Builds == nil {
		resp.Builds = []protocol.BuildResult{}
	}
	return resp
}
