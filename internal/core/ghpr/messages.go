package ghpr

import (
	"fmt"
	"strings"
)

// callToAction closes every generated message so the receiving agent knows
// what to do with the feedback.
const callToAction = "Please address this review feedback and update the pull request."

// CommentMessage renders a single review comment as a message suitable for
// handing to an agent's chat context.
//
// Format:
//
//	@<author> commented on <path>:<line>:
//	> <body line 1>
//	> <body line 2>
//
//	PR: <url>
//	<call to action>
func CommentMessage(c PRComment, prURL string) string {
	var b strings.Builder
	writeCommentBlock(&b, c)
	b.WriteString("\n")
	writeFooter(&b, prURL)
	return b.String()
}

// ThreadMessage renders a root comment with all of its replies under a
// markdown header.
func ThreadMessage(t Thread, prURL string) string {
	var b strings.Builder
	b.WriteString("## Review thread\n\n")
	writeCommentBlock(&b, t.Root)
	for _, r := range t.Replies {
		b.WriteString("\n")
		writeCommentBlock(&b, r)
	}
	b.WriteString("\n")
	writeFooter(&b, prURL)
	return b.String()
}

// AllCommentsMessage renders every thread's comments as one aggregate
// message. Empty input yields an empty string.
func AllCommentsMessage(threads []Thread, prURL string) string {
	if len(threads) == 0 {
		return ""
	}

	total := 0
	for _, t := range threads {
		total += t.Size()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## PR review comments (%d)\n\n", total)
	for i, t := range threads {
		if i > 0 {
			b.WriteString("\n")
		}
		writeCommentBlock(&b, t.Root)
		for _, r := range t.Replies {
			b.WriteString("\n")
			writeCommentBlock(&b, r)
		}
	}
	b.WriteString("\n")
	writeFooter(&b, prURL)
	return b.String()
}

// writeCommentBlock writes one comment as an attributed, quoted block.
func writeCommentBlock(b *strings.Builder, c PRComment) {
	fmt.Fprintf(b, "@%s commented", c.User.Login)
	if c.Path != "" {
		b.WriteString(" on ")
		b.WriteString(c.Path)
		if c.Line > 0 {
			fmt.Fprintf(b, ":%d", c.Line)
		}
	}
	b.WriteString(":\n")

	for _, line := range strings.Split(strings.TrimRight(c.Body, "\n"), "\n") {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}

func writeFooter(b *strings.Builder, prURL string) {
	if prURL != "" {
		fmt.Fprintf(b, "PR: %s\n", prURL)
	}
	b.WriteString(callToAction)
	b.WriteString("\n")
}
