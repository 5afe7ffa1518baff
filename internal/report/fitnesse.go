package report

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/izzyreal/pagehist/internal/protocol"
)

type fitnesseTestResults struct {
	RootPath string           `xml:"rootPath"`
	Results  []fitnesseResult `xml:"result"`
}

type fitnesseResult struct {
	RelativePageName string         `xml:"relativePageName"`
	PageName         string         `xml:"pageName"`
	Counts           fitnesseCounts `xml:"counts"`
	RunTimeInMillis  string         `xml:"runTimeInMillis"`
}

type fitnesseCounts struct {
	Right      int `xml:"right"`
	Wrong      int `xml:"wrong"`
	Ignores    int `xml:"ignores"`
	Exceptions int `xml:"exceptions"`
}

// ParseFitnesseXML reads the <testResults> document FitNesse writes for a
// suite run. Each <result> becomes one page outcome.
func ParseFitnesseXML(data []byte) ([]protocol.ChildOutcome, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}
	if root != "testResults" {
		return nil, fmt.Errorf("%w: unexpected fitnesse root element %q", ErrUnknownFormat, root)
	}

	var doc fitnesseTestResults
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode fitnesse results: %w", err)
	}

	outcomes := make([]protocol.ChildOutcome, 0, len(doc.Results))
	for i, r := range doc.Results {
		page := strings.TrimSpace(r.RelativePageName)
		if page == "" {
			page = strings.TrimSpace(r.PageName)
		}
		if page == "" {
			return nil, fmt.Errorf("%w: fitnesse result %d", ErrMissingPageName, i)
		}
		outcomes = append(outcomes, protocol.ChildOutcome{
			Page:            page,
			Status:          fitnesseStatus(r.Counts),
			Right:           r.Counts.Right,
			Wrong:           r.Counts.Wrong,
			Ignores:         r.Counts.Ignores,
			Exceptions:      r.Counts.Exceptions,
			DurationSeconds: parseFloatDefault(r.RunTimeInMillis, 0) / 1000,
		})
	}
	return outcomes, nil
}

// fitnesseStatus: any wrong assertion fails the page; exceptions without wrong
// assertions leave it errored, neither passed nor failed.
func fitnesseStatus(c fitnesseCounts) string {
	switch {
	case c.Wrong > 0:
		return protocol.OutcomeStatusFail
	case c.Exceptions > 0:
		return protocol.OutcomeStatusError
	case c.Right > 0:
		return protocol.OutcomeStatusPass
	default:
		return protocol.OutcomeStatusSkip
	}
}
