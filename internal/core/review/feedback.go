package review

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kdlbs/kandev/internal/core/diffmap"
)

// ansiStripPattern matches ANSI escape sequences for stripping.
var ansiStripPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// ContentHash returns the SHA256 hex digest of diff content. Sessions are
// keyed on it so a changed diff invalidates stale reviews.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// GenerateFeedback creates a formatted feedback string from review comments,
// grouped by file. Format:
//
//	Review: <diff description>
//	Comments: <count>
//
//	## <file>
//
//	Lines <start>-<end> (<side>):
//	> <context line 1>
//	> <context line 2>
//	<feedback text>
func GenerateFeedback(diffDescription string, comments []Comment) string {
	if len(comments) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("Review: %s\n", diffDescription))
	b.WriteString(fmt.Sprintf("Comments: %d\n", len(comments)))

	sorted := make([]Comment, len(comments))
	copy(sorted, comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FilePath != sorted[j].FilePath {
			return sorted[i].FilePath < sorted[j].FilePath
		}
		return sorted[i].StartLine < sorted[j].StartLine
	})

	var currentFile string
	for _, comment := range sorted {
		if comment.FilePath != currentFile {
			currentFile = comment.FilePath
			b.WriteString(fmt.Sprintf("\n## %s\n", currentFile))
		}

		b.WriteString("\n")
		b.WriteString(describeRange(comment))
		b.WriteString(":\n")

		if comment.ContextText != "" {
			cleanContext := ansiStripPattern.ReplaceAllString(comment.ContextText, "")
			for line := range strings.SplitSeq(cleanContext, "\n") {
				b.WriteString(fmt.Sprintf("> %s\n", line))
			}
		}

		b.WriteString(comment.CommentText)
		b.WriteString("\n")
	}

	return b.String()
}

func describeRange(c Comment) string {
	side := "new"
	if c.Side == diffmap.SideDeletions {
		side = "old"
	}
	if c.StartLine == c.EndLine {
		return fmt.Sprintf("Line %d (%s)", c.StartLine, side)
	}
	return fmt.Sprintf("Lines %d-%d (%s)", c.StartLine, c.EndLine, side)
}
