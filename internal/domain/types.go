package domain

// FileCoverage holds the instrumented line numbers for a single source file,
// split into lines that were executed at least once and lines that were not.
// A line number never appears in both sets; when a report lists the same line
// twice the later entry wins.
type FileCoverage struct {
	Hit    map[int]struct{}
	Missed map[int]struct{}
}

// NewFileCoverage returns an empty FileCoverage with both sets allocated.
func NewFileCoverage() FileCoverage {
	return FileCoverage{
		Hit:    map[int]struct{}{},
		Missed: map[int]struct{}{},
	}
}

// FileStat describes diff coverage for one file: how many changed lines are
// instrumented, which of those were never executed, and the resulting
// percentage. Missing is sorted ascending. Percent uses floored integer
// arithmetic and is always in [0,100].
type FileStat struct {
	Path    string
	Total   int
	Missing []int
	Percent int
}

// TotalStat aggregates FileStat counts across all reported files. Percent is
// computed over the summed counts, never by averaging per-file percentages.
type TotalStat struct {
	Total   int
	Missing int
	Percent int
}

// Report is the computed diff-coverage result handed to the renderers.
// Files are ordered by descending missing-line count; ties keep the order in
// which the files first appeared in the diff.
type Report struct {
	Files []FileStat
	Total TotalStat
}
