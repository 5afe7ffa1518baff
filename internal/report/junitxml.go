package report

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/izzyreal/pagehist/internal/protocol"
)

type junitTestSuites struct {
	Suites []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name      string           `xml:"name,attr"`
	Package   string           `xml:"package,attr"`
	TestCases []junitTestCase  `xml:"testcase"`
	Suites    []junitTestSuite `xml:"testsuite"`
}

type junitTestCase struct {
	Name      string     `xml:"name,attr"`
	ClassName string     `xml:"classname,attr"`
	Time      string     `xml:"time,attr"`
	Failures  []struct{} `xml:"failure"`
	Errors    []struct{} `xml:"error"`
	Skipped   []struct{} `xml:"skipped"`
}

// ParseJUnitXML maps every testcase to a page named "classname.name".
// A testcase with both a failure and an error counts as failed.
func ParseJUnitXML(data []byte) ([]protocol.ChildOutcome, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}

	var suites []junitTestSuite
	switch root {
	case "testsuite":
		var ts junitTestSuite
		if err := xml.Unmarshal(data, &ts); err != nil {
			return nil, fmt.Errorf("decode junit testsuite: %w", err)
		}
		suites = flattenJUnitSuites(ts)
	case "testsuites":
		var tss junitTestSuites
		if err := xml.Unmarshal(data, &tss); err != nil {
			return nil, fmt.Errorf("decode junit testsuites: %w", err)
		}
		for _, child := range tss.Suites {
			suites = append(suites, flattenJUnitSuites(child)...)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected junit root element %q", ErrUnknownFormat, root)
	}

	outcomes := make([]protocol.ChildOutcome, 0)
	for _, ts := range suites {
		defaultPackage := strings.TrimSpace(ts.Package)
		if defaultPackage == "" {
			defaultPackage = strings.TrimSpace(ts.Name)
		}
		for i, tc := range ts.TestCases {
			status := protocol.OutcomeStatusPass
			switch {
			case len(tc.Failures) > 0:
				status = protocol.OutcomeStatusFail
			case len(tc.Errors) > 0:
				status = protocol.OutcomeStatusError
			case len(tc.Skipped) > 0:
				status = protocol.OutcomeStatusSkip
			}
			pkg := strings.TrimSpace(tc.ClassName)
			if pkg == "" {
				pkg = defaultPackage
			}
			page := junitPageName(pkg, tc.Name)
			if page == "" {
				return nil, fmt.Errorf("%w: junit testcase %d in suite %q", ErrMissingPageName, i, ts.Name)
			}
			outcomes = append(outcomes, protocol.ChildOutcome{
				Page:            page,
				Status:          status,
				DurationSeconds: parseFloatDefault(tc.Time, 0),
			})
		}
	}
	return outcomes, nil
}

func junitPageName(pkg, name string) string {
	name = strings.TrimSpace(name)
	if pkg == "" {
		return name
	}
	if name == "" {
		return pkg
	}
	return pkg + "." + name
}

func flattenJUnitSuites(ts junitTestSuite) []junitTestSuite {
	out := []junitTestSuite{ts}
	for _, child := range ts.Suites {
		out = append(out, flattenJUnitSuites(child)...)
	}
	return out
}
