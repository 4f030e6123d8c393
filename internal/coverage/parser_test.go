package coverage_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkyoung/diffcover/internal/coverage"
	"github.com/bkyoung/diffcover/internal/domain"
)

const sampleReport = `<coverage>
	<packages>
		<classes>
			<class filename="subdir/file1.py">
				<methods />
				<lines>
					<line hits="0" number="2" />
					<line hits="1" number="7" />
					<line hits="0" number="8" />
				</lines>
			</class>
			<class filename="subdir/file2.py">
				<methods />
				<lines>
					<line hits="3" number="7" />
					<line hits="0" number="8" />
				</lines>
			</class>
		</classes>
	</packages>
</coverage>`

func TestParse_SplitsHitAndMissed(t *testing.T) {
	files, err := coverage.Parse(sampleReport)
	require.NoError(t, err)
	require.Len(t, files, 2)

	file1 := files["subdir/file1.py"]
	assert.Contains(t, file1.Hit, 7)
	assert.Contains(t, file1.Missed, 2)
	assert.Contains(t, file1.Missed, 8)
	assert.NotContains(t, file1.Hit, 2)
	assert.NotContains(t, file1.Missed, 7)

	// Any positive hit count counts as hit.
	file2 := files["subdir/file2.py"]
	assert.Contains(t, file2.Hit, 7)
	assert.Contains(t, file2.Missed, 8)
}

func TestParse_DuplicateLineLastWriteWins(t *testing.T) {
	report := `<coverage>
		<class filename="main.go">
			<lines>
				<line number="5" hits="0" />
				<line number="5" hits="2" />
			</lines>
		</class>
	</coverage>`

	files, err := coverage.Parse(report)
	require.NoError(t, err)

	fc := files["main.go"]
	assert.Contains(t, fc.Hit, 5)
	assert.NotContains(t, fc.Missed, 5)
}

func TestParse_RepeatedClassEntriesMerge(t *testing.T) {
	report := `<coverage>
		<class filename="main.go">
			<lines><line number="1" hits="1" /></lines>
		</class>
		<class filename="main.go">
			<lines><line number="2" hits="0" /></lines>
		</class>
	</coverage>`

	files, err := coverage.Parse(report)
	require.NoError(t, err)
	require.Len(t, files, 1)

	fc := files["main.go"]
	assert.Contains(t, fc.Hit, 1)
	assert.Contains(t, fc.Missed, 2)
}

func TestParse_MalformedEntriesSkipped(t *testing.T) {
	report := `<coverage>
		<class>
			<lines><line number="1" hits="1" /></lines>
		</class>
		<class filename="main.go">
			<lines>
				<line hits="1" />
				<line number="three" hits="1" />
				<line number="4" hits="many" />
				<line number="5" hits="1" />
			</lines>
		</class>
	</coverage>`

	files, err := coverage.Parse(report)
	require.NoError(t, err)
	require.Len(t, files, 1)

	fc := files["main.go"]
	assert.Len(t, fc.Hit, 1)
	assert.Contains(t, fc.Hit, 5)
	assert.Empty(t, fc.Missed)
}

func TestParse_UnreadableDocumentIsFatal(t *testing.T) {
	_, err := coverage.Parse("not xml at all")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedCoverage))
}

func TestParse_EmptyDocumentIsFatal(t *testing.T) {
	_, err := coverage.Parse("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedCoverage))
}

func TestParse_PathsTakenVerbatim(t *testing.T) {
	report := `<coverage>
		<class filename="subdir/inner/file.py">
			<lines><line number="1" hits="1" /></lines>
		</class>
	</coverage>`

	files, err := coverage.Parse(report)
	require.NoError(t, err)
	assert.Contains(t, files, "subdir/inner/file.py")
}
