package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedCoverage indicates the coverage document could not be read at
// all (no parseable root element). Individual defective entries inside an
// otherwise readable document are skipped, not fatal.
var ErrMalformedCoverage = errors.New("malformed coverage report")

// DiffSourceError indicates the diff subprocess reported a problem on its
// error channel. No report is produced when this occurs.
type DiffSourceError struct {
	Stderr string
	Err    error
}

func (e *DiffSourceError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("diff source failed: %s", msg)
}

func (e *DiffSourceError) Unwrap() error {
	return e.Err
}

// BelowThresholdError indicates the aggregate diff coverage fell short of the
// configured fail-under threshold. The report has already been written when
// this error is returned; it exists to drive the process exit code.
type BelowThresholdError struct {
	Percent   int
	Threshold int
}

func (e *BelowThresholdError) Error() string {
	return fmt.Sprintf("diff coverage %d%% is below the fail-under threshold of %d%%", e.Percent, e.Threshold)
}
