package diff

import (
	"strconv"
	"strings"
)

// FileDiff holds the changed-line numbers for a single file in a patch.
// Lines are 1-based new-file line numbers in ascending order. An empty slice
// means the file was touched but gained no lines (pure deletion, binary).
type FileDiff struct {
	Path  string
	Lines []int
}

// Patch is a parsed multi-file unified diff. Files preserve the order in
// which their `diff --git` headers appeared.
type Patch struct {
	Files []FileDiff
}

// Paths returns the touched file paths in diff order.
func (p Patch) Paths() []string {
	paths := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// ChangedLines returns the changed-line sets keyed by file path.
func (p Patch) ChangedLines() map[string][]int {
	fileLines := make(map[string][]int, len(p.Files))
	for _, f := range p.Files {
		fileLines[f.Path] = f.Lines
	}
	return fileLines
}

// Parse parses a multi-file unified diff into a Patch. It is a single pass
// over lines with explicit state: the current file and a running new-file
// line counter. Sections without a parseable hunk header (binary diffs,
// mode-only changes) still record the file with an empty line set. Malformed
// hunk headers are skipped and parsing resumes at the next recognizable
// header. Repeated sections for one path merge into a single entry.
func Parse(diffText string) (Patch, error) {
	if diffText == "" {
		return Patch{}, nil
	}

	lines := strings.Split(diffText, "\n")
	patch := Patch{}

	current := -1 // index into patch.Files
	seen := map[string]int{}
	inHunk := false
	currentNewLine := 0

	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git") {
			path := headerPath(line)
			if idx, ok := seen[path]; ok {
				current = idx
			} else {
				patch.Files = append(patch.Files, FileDiff{Path: path})
				current = len(patch.Files) - 1
				seen[path] = current
			}
			inHunk = false
			continue
		}

		if strings.HasPrefix(line, "@@") {
			start, ok := parseHunkHeader(line)
			if !ok || current < 0 {
				inHunk = false
				continue
			}
			inHunk = true
			currentNewLine = start
			continue
		}

		if !inHunk || current < 0 {
			// File metadata (index, ---, +++, mode lines, Binary files)
			// carries no line information.
			continue
		}

		if line == "" {
			continue
		}

		switch line[0] {
		case '+':
			patch.Files[current].Lines = append(patch.Files[current].Lines, currentNewLine)
			currentNewLine++
		case '-':
			// Removed from the old file; does not exist on the new side.
		case '\\':
			// "\ No newline at end of file" marker.
		default:
			// Context; some tools emit empty context lines without the
			// leading space, so anything unrecognized advances the counter.
			currentNewLine++
		}
	}

	return patch, nil
}

// headerPath extracts the new-file path from a `diff --git a/<p> b/<p>` line,
// stripping the b/ prefix.
func headerPath(line string) string {
	if idx := strings.Index(line, " b/"); idx >= 0 {
		return line[idx+len(" b/"):]
	}
	// Fall back to the last whitespace-separated field for unusual headers.
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[len(fields)-1], "b/")
}

// parseHunkHeader extracts the new-file start line from a header like
// "@@ -3,6 +3,7 @@ optional context". Only the start matters for the line
// counter; the count, when present, must still be numeric for the header to
// be accepted.
func parseHunkHeader(line string) (int, bool) {
	parts := strings.Split(line, "@@")
	if len(parts) < 2 {
		return 0, false
	}

	for _, part := range strings.Fields(strings.TrimSpace(parts[1])) {
		if !strings.HasPrefix(part, "+") {
			continue
		}
		return parseRange(strings.TrimPrefix(part, "+"))
	}
	return 0, false
}

// parseRange parses "start,count" or "start", returning the start line.
func parseRange(s string) (int, bool) {
	countText := ""
	if idx := strings.Index(s, ","); idx >= 0 {
		countText = s[idx+1:]
		s = s[:idx]
	}
	start, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if countText != "" {
		if _, err := strconv.Atoi(countText); err != nil {
			return 0, false
		}
	}
	return start, true
}
