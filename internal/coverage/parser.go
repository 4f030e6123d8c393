// Package coverage parses line-hit coverage reports (Cobertura-style XML)
// into per-file sets of executed and unexecuted line numbers.
package coverage

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bkyoung/diffcover/internal/domain"
)

// classEntry mirrors one <class> element: a source file with its
// instrumented lines. Attributes decode as strings so missing values are
// detectable and skippable.
type classEntry struct {
	Filename string      `xml:"filename,attr"`
	Lines    []lineEntry `xml:"lines>line"`
}

type lineEntry struct {
	Number string `xml:"number,attr"`
	Hits   string `xml:"hits,attr"`
}

// Parse reads a coverage report into per-file hit and missed line sets, keyed
// by the filename attribute verbatim (no path normalization; the surrounding
// tool is responsible for producing reports whose paths match the diff).
//
// Entries missing a filename, a line number, or a hits count are skipped.
// A document that cannot be tokenized at all is fatal. When the same line is
// reported more than once for a file, the later entry wins.
func Parse(reportText string) (map[string]domain.FileCoverage, error) {
	decoder := xml.NewDecoder(strings.NewReader(reportText))
	files := map[string]domain.FileCoverage{}
	sawRoot := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCoverage, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if start.Name.Local != "class" {
			continue
		}

		var entry classEntry
		if err := decoder.DecodeElement(&entry, &start); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCoverage, err)
		}
		if entry.Filename == "" {
			// Not a file entry; tolerated and skipped.
			continue
		}

		fc, exists := files[entry.Filename]
		if !exists {
			fc = domain.NewFileCoverage()
			files[entry.Filename] = fc
		}
		for _, l := range entry.Lines {
			recordLine(fc, l)
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("%w: no document root", domain.ErrMalformedCoverage)
	}
	return files, nil
}

// recordLine files one line entry into the hit or missed set, dropping it
// from the other set first so repeated entries resolve last-write-wins.
func recordLine(fc domain.FileCoverage, l lineEntry) {
	number, err := strconv.Atoi(l.Number)
	if err != nil || number < 1 {
		return
	}
	hits, err := strconv.Atoi(l.Hits)
	if err != nil || hits < 0 {
		return
	}

	delete(fc.Hit, number)
	delete(fc.Missed, number)
	if hits > 0 {
		fc.Hit[number] = struct{}{}
	} else {
		fc.Missed[number] = struct{}{}
	}
}
