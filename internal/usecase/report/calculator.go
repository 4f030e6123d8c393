package report

import (
	"sort"

	"github.com/bkyoung/diffcover/internal/diff"
	"github.com/bkyoung/diffcover/internal/domain"
)

// Compute correlates a parsed diff with parsed coverage data.
//
// For each file in the patch, the changed lines are intersected with the
// union of the file's hit and missed sets; changed lines the coverage tool
// never instrumented (blank lines, comments) do not count. Files absent from
// the coverage report, and files whose intersection is empty, are omitted and
// contribute nothing to the aggregate.
//
// The result is ordered by descending missing-line count so the worst
// offenders come first; ties keep diff order.
func Compute(patch diff.Patch, coverage map[string]domain.FileCoverage) domain.Report {
	rep := domain.Report{}

	for _, fd := range patch.Files {
		fc, ok := coverage[fd.Path]
		if !ok {
			continue
		}

		stat := domain.FileStat{Path: fd.Path, Missing: []int{}}
		for _, line := range fd.Lines {
			if _, hit := fc.Hit[line]; hit {
				stat.Total++
				continue
			}
			if _, missed := fc.Missed[line]; missed {
				stat.Total++
				stat.Missing = append(stat.Missing, line)
			}
		}
		if stat.Total == 0 {
			continue
		}

		sort.Ints(stat.Missing)
		stat.Percent = percent(stat.Total, len(stat.Missing))
		rep.Files = append(rep.Files, stat)

		rep.Total.Total += stat.Total
		rep.Total.Missing += len(stat.Missing)
	}

	rep.Total.Percent = percent(rep.Total.Total, rep.Total.Missing)

	// Stable sort keeps diff-appearance order for equal missing counts.
	sort.SliceStable(rep.Files, func(i, j int) bool {
		return len(rep.Files[i].Missing) > len(rep.Files[j].Missing)
	})

	return rep
}

// percent computes floored integer coverage: 100*(total-missing)/total.
// An empty total means nothing needed covering, which reads as fully covered.
func percent(total, missing int) int {
	if total == 0 {
		return 100
	}
	return 100 * (total - missing) / total
}
