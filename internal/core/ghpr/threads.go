package ghpr

// BuildThreads groups a flat comment list into root+replies threads.
//
// A comment is a root when InReplyTo is zero or references an id not present
// in the input; a dangling reference is tolerated, not an error. Every input
// comment lands in exactly one thread, and input order is preserved for both
// roots and replies. Only one level of nesting is modeled: a reply to a reply
// collapses into the reply list of whichever ancestor is a root.
func BuildThreads(comments []PRComment) []Thread {
	byID := make(map[int64]PRComment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	replies := make(map[int64][]PRComment)
	var roots []PRComment

	for _, c := range comments {
		if c.InReplyTo == 0 {
			roots = append(roots, c)
			continue
		}
		if _, ok := byID[c.InReplyTo]; !ok {
			// Parent was deleted or paged out upstream; treat as a root.
			roots = append(roots, c)
			continue
		}
		rootID, ok := findRootID(c, byID)
		if !ok {
			// Cyclic reference chain; the shape here is arbitrary, but the
			// comment must still land somewhere, so it becomes a root.
			roots = append(roots, c)
			continue
		}
		replies[rootID] = append(replies[rootID], c)
	}

	threads := make([]Thread, 0, len(roots))
	for _, r := range roots {
		threads = append(threads, Thread{
			Root:    r,
			Replies: replies[r.ID],
		})
	}
	return threads
}

// findRootID follows InReplyTo references upward until it reaches a comment
// that is a root (zero or dangling parent reference). Returns false when the
// chain never terminates, which only happens on cyclic input. The walk is a
// flat bounded loop, not recursion, so no input can overflow it.
func findRootID(c PRComment, byID map[int64]PRComment) (int64, bool) {
	cur := c
	for i := 0; i <= len(byID); i++ {
		if cur.InReplyTo == 0 {
			return cur.ID, true
		}
		parent, ok := byID[cur.InReplyTo]
		if !ok {
			return cur.ID, true
		}
		cur = parent
	}
	return 0, false
}
