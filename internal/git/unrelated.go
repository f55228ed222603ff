package git

import (
	"errors"
	"strings"
)

// unrelatedHistoriesMarker is the text git prints when it refuses to merge
// two branches without a common ancestor. git has no structured signal for
// this; if the wording changes the retry silently stops triggering.
const unrelatedHistoriesMarker = "refusing to merge unrelated histories"

// IsUnrelatedHistories reports whether a merge diagnostic says the two
// branches share no history.
func IsUnrelatedHistories(diagnostic string) bool {
	return strings.Contains(diagnostic, unrelatedHistoriesMarker)
}

// IsUnrelatedHistoriesError applies IsUnrelatedHistories to the stderr of a
// failed merge.
func IsUnrelatedHistoriesError(err error) bool {
	var gitErr *GitError
	if !errors.As(err, &gitErr) {
		return false
	}
	return IsUnrelatedHistories(gitErr.Stderr())
}
