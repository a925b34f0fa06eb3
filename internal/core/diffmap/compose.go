package diffmap

// CommentRef is the compositor's view of a persisted review comment: just
// enough to place its annotation. The comment store owns the full record.
type CommentRef struct {
	ID        string
	Side      Side
	StartLine int
	EndLine   int
}

// Selection is a line range selected in the viewer. Start and End may arrive
// in either order depending on drag direction. Side may be empty when the
// selection did not carry one.
type Selection struct {
	Start int
	End   int
	Side  Side
}

// ComposeInput bundles the independent annotation sources merged by Compose.
type ComposeInput struct {
	Comments         []CommentRef
	EditingCommentID string

	// ShowCommentForm and Selection together describe an in-progress draft.
	ShowCommentForm bool
	Selection       *Selection

	// EnableAcceptReject gates the hunk walk entirely; when false the hunks
	// are never traversed and no action annotations or indexes are produced.
	EnableAcceptReject bool
	Hunks              []Hunk
}

// Composition is the full derivation handed to the rendering surface.
type Composition struct {
	Annotations []Annotation
	Lines       map[LineKey]string
	Reverts     map[string]RevertInfo
}

// Compose merges persisted comments, the active draft marker, and the hunk
// walker's action markers into one ordered annotation list. Order is
// append-only with no sorting pass: comments first, then the draft, then
// block actions. The function is pure; persisting the derived maps for later
// hover lookups is the caller's concern.
func Compose(in ComposeInput) Composition {
	c := Composition{}

	for _, cm := range in.Comments {
		c.Annotations = append(c.Annotations, Annotation{
			Side:      cm.Side,
			Line:      cm.EndLine,
			Kind:      KindComment,
			CommentID: cm.ID,
			IsEditing: in.EditingCommentID != "" && in.EditingCommentID == cm.ID,
		})
	}

	if in.ShowCommentForm && in.Selection != nil {
		side := in.Selection.Side
		if side == "" {
			side = SideAdditions
		}
		// Anchoring at the max tolerates either drag direction.
		line := in.Selection.Start
		if in.Selection.End > line {
			line = in.Selection.End
		}
		c.Annotations = append(c.Annotations, Annotation{
			Side: side,
			Line: line,
			Kind: KindNewCommentForm,
		})
	}

	if in.EnableAcceptReject && len(in.Hunks) > 0 {
		walked := Walk(in.Hunks)
		c.Annotations = append(c.Annotations, walked.Actions...)
		c.Lines = walked.Lines
		c.Reverts = walked.Reverts
	}

	return c
}
