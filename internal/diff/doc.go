// Package diff parses unified diff output (as produced by `git diff`) into
// the set of new-file line numbers that were added or modified, per file.
//
// Only the `+` side of each hunk matters for diff coverage: a running
// new-file line counter starts at the hunk's declared new start, advances on
// additions and context lines, and records the counter value for additions.
// Deletions belong to the old file and never advance the counter.
//
// Every file named by a `diff --git` header appears in the result, in order
// of first appearance, even when it contributes no changed lines (pure
// deletions, binary files).
package diff
