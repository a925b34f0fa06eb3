package review

import (
	"context"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/kdlbs/kandev/internal/core/config"
	reviewcore "github.com/kdlbs/kandev/internal/core/review"
	"github.com/kdlbs/kandev/internal/kandev"
	"github.com/kdlbs/kandev/internal/tui/diff"
)

// Model is the interactive review screen. It owns the diff surface, routes
// its requests to the review service, and runs the comment and finalize
// modals.
type Model struct {
	ctx context.Context
	svc *kandev.ReviewService
	cfg *config.Config
	log zerolog.Logger

	session         reviewcore.Session
	dir             string
	diffContext     string
	diffDescription string

	comments []reviewcore.Comment
	diff     diff.Model
	modals   ModalState

	// pending holds the selection a comment modal was opened for.
	pending *diff.RequestCommentMsg

	width  int
	height int

	feedback string
	action   FinalizeAction
	err      error
}

// Params carries everything the review screen needs at startup.
type Params struct {
	Service         *kandev.ReviewService
	Session         reviewcore.Session
	Dir             string
	DiffContext     string
	DiffDescription string
	Files           []*gitdiff.File
	Comments        []reviewcore.Comment
	Config          *config.Config
	Logger          zerolog.Logger
}

// NewModel creates the review screen.
func NewModel(ctx context.Context, p Params) Model {
	d := diff.New(
		p.Files,
		p.Comments,
		p.Config.Review.IgnoreGlobs,
		p.Config.AcceptRejectEnabled(),
		p.Config.Review.HoverDelay.Std(),
	)

	return Model{
		ctx:             ctx,
		svc:             p.Service,
		cfg:             p.Config,
		log:             p.Logger,
		session:         p.Session,
		dir:             p.Dir,
		diffContext:     p.DiffContext,
		diffDescription: p.DiffDescription,
		comments:        p.Comments,
		diff:            d,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.diff.SetSize(msg.Width, msg.Height)
		return m, nil

	case diff.RequestCommentMsg:
		modal := NewCommentModal(msg.Selection.Start, msg.Selection.End, msg.ContextText, m.width)
		m.pending = &msg
		m.modals.ShowCommentModal(&modal)
		return m, nil

	case diff.EditCommentMsg:
		return m.openEditModal(msg.CommentID), nil

	case diff.DeleteCommentMsg:
		if err := m.svc.DeleteComment(m.ctx, m.session.ID, msg.CommentID); err != nil {
			m.log.Error().Err(err).Str("comment_id", msg.CommentID).Msg("delete comment")
			return m, nil
		}
		return m.refreshComments(), nil

	case diff.RevertMsg:
		return m.handleRevert(msg), nil

	case tea.KeyMsg:
		if m.modals.HasActiveModal() {
			return m.updateModal(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "f":
			modal := NewFinalizeModal(len(m.comments))
			m.modals.ShowFinalizeModal(&modal)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.diff, cmd = m.diff.Update(msg)
	return m, cmd
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.modals, cmd = m.modals.Update(msg)

	if fm := m.modals.FinalizeModal(); fm != nil {
		switch {
		case fm.Cancelled():
			m.modals.CloseAll()
		case fm.Confirmed():
			m.action = fm.SelectedAction()
			m.modals.CloseAll()
			m.feedback, m.err = m.svc.Finalize(m.ctx, m.session, m.diffDescription)
			return m, tea.Quit
		}
		return m, cmd
	}

	if cm := m.modals.CommentModal(); cm != nil {
		switch {
		case cm.Cancelled():
			m.pending = nil
			m.modals.CloseAll()
		case cm.Submitted():
			m = m.saveComment(cm)
			m.modals.CloseAll()
			return m.refreshComments(), cmd
		}
	}

	return m, cmd
}

func (m Model) saveComment(cm *CommentModal) Model {
	if id := cm.EditingID(); id != "" {
		for _, c := range m.comments {
			if c.ID != id {
				continue
			}
			c.CommentText = cm.Value()
			if err := m.svc.UpdateComment(m.ctx, c); err != nil {
				m.log.Error().Err(err).Str("comment_id", id).Msg("update comment")
			}
			return m
		}
		return m
	}

	if m.pending == nil {
		return m
	}

	comment := reviewcore.Comment{
		SessionID:   m.session.ID,
		FilePath:    m.pending.FilePath,
		Side:        m.pending.Selection.Side,
		StartLine:   m.pending.Selection.Start,
		EndLine:     m.pending.Selection.End,
		ContextText: m.pending.ContextText,
		CommentText: cm.Value(),
	}
	if _, err := m.svc.AddComment(m.ctx, comment); err != nil {
		m.log.Error().Err(err).Msg("save comment")
	}
	m.pending = nil
	return m
}

func (m Model) openEditModal(commentID string) Model {
	for _, c := range m.comments {
		if c.ID != commentID {
			continue
		}
		modal := NewCommentModal(c.StartLine, c.EndLine, c.ContextText, m.width)
		modal.SetExistingComment(c.ID, c.CommentText)
		m.modals.ShowCommentModal(&modal)
		return m
	}
	return m
}

func (m Model) handleRevert(msg diff.RevertMsg) Model {
	if err := m.svc.RevertChange(m.dir, msg.FilePath, msg.Revert); err != nil {
		m.log.Error().Err(err).Str("path", msg.FilePath).Msg("revert change block")
		return m
	}

	// The working copy changed underneath the session; reload the diff so
	// rows and line numbers stay truthful.
	diffText, _, err := m.svc.LoadDiff(m.ctx, m.dir, m.diffContext)
	if err != nil {
		m.log.Error().Err(err).Msg("reload diff after revert")
		return m
	}

	files, err := kandev.ParseDiff(diffText)
	if err != nil {
		m.log.Error().Err(err).Msg("parse reloaded diff")
		return m
	}

	m.diff = diff.New(
		files,
		m.comments,
		m.cfg.Review.IgnoreGlobs,
		m.cfg.AcceptRejectEnabled(),
		m.cfg.Review.HoverDelay.Std(),
	)
	m.diff.SetSize(m.width, m.height)
	return m
}

func (m Model) refreshComments() Model {
	comments, err := m.svc.Comments(m.ctx, m.session.ID)
	if err != nil {
		m.log.Error().Err(err).Msg("reload comments")
		return m
	}
	m.comments = comments
	m.diff.SetComments(comments, "")
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	background := m.diff.View()
	return m.modals.RenderOverlay(background, m.width, m.height)
}

// Feedback returns the generated feedback text after finalization.
func (m Model) Feedback() string {
	return m.feedback
}

// Action returns the finalize action chosen by the user.
func (m Model) Action() FinalizeAction {
	return m.action
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}
