// Package history turns a project's build outcomes into a ranking of pages by
// how often their result flips between pass and fail.
package history

import (
	"strings"

	"github.com/izzyreal/pagehist/internal/protocol"
)

// PageStats accumulates the outcomes of a single page across builds.
type PageStats struct {
	Page string
	// LastWasPass starts out true, so a page whose first definitive result
	// is a failure already counts one switch.
	LastWasPass bool
	// Switches counts transitions between pass and fail.
	Switches int
	// Occurrences counts outcomes that were either a pass or a fail.
	Occurrences int
}

func newPageStats(page string) *PageStats {
	return &PageStats{Page: page, LastWasPass: true}
}

// Record folds one outcome status into the running statistics. Statuses that
// are neither a pass nor a fail leave the stats untouched.
func (p *PageStats) Record(status string) {
	passed := protocol.IsPassedOverall(status)
	failed := protocol.IsFailedOverall(status)
	if !passed && !failed {
		return
	}
	p.Occurrences++
	if p.LastWasPass == failed {
		p.Switches++
	}
	p.LastWasPass = passed
}

// Erraticness is the truncated percentage of switches per occurrence.
func (p *PageStats) Erraticness() int {
	if p.Occurrences == 0 {
		return 0
	}
	return 100 * p.Switches / p.Occurrences
}

// Aggregate groups the outcomes of builds by page, in the order given. Callers
// pass builds oldest first. An outcome without a page name aborts the whole
// aggregation with an error wrapping ErrInvalidInput.
func Aggregate(builds []protocol.BuildResult) (map[string]*PageStats, error) {
	pages := map[string]*PageStats{}
	for _, build := range builds {
		for i, outcome := range build.Outcomes {
			if strings.TrimSpace(outcome.Page) == "" {
				return nil, &InvalidOutcomeError{Build: build.Number, Index: i, Reason: "page name is required"}
			}
			info, ok := pages[outcome.Page]
			if !ok {
				info = newPageStats(outcome.Page)
				pages[outcome.Page] = info
			}
			info.Record(outcome.Status)
		}
	}
	return pages, nil
}
