// Package report reads test result files into page outcomes.
package report

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/izzyreal/pagehist/internal/protocol"
)

const (
	FormatAuto     = "auto"
	FormatFitnesse = "fitnesse-xml"
	FormatJUnit    = "junit-xml"
)

var ErrUnknownFormat = errors.New("unknown report format")

// ErrMissingPageName rejects results that cannot be attributed to a page.
var ErrMissingPageName = errors.New("report result without page name")

// Parse decodes data in the given format. FormatAuto (or "") picks the parser
// from the document's root element.
func Parse(format string, data []byte) ([]protocol.ChildOutcome, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatAuto:
		detected, err := Detect(data)
		if err != nil {
			return nil, err
		}
		return Parse(detected, data)
	case FormatFitnesse:
		return ParseFitnesseXML(data)
	case FormatJUnit:
		return ParseJUnitXML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func Detect(data []byte) (string, error) {
	root, err := rootElement(data)
	if err != nil {
		return "", err
	}
	switch root {
	case "testResults":
		return FormatFitnesse, nil
	case "testsuite", "testsuites":
		return FormatJUnit, nil
	default:
		return "", fmt.Errorf("%w: root element %q", ErrUnknownFormat, root)
	}
}

func IsValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatAuto, FormatFitnesse, FormatJUnit:
		return true
	default:
		return false
	}
}

func rootElement(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", fmt.Errorf("%w: empty document", ErrUnknownFormat)
		}
		if err != nil {
			return "", fmt.Errorf("read xml root: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

func parseFloatDefault(raw string, fallback float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
