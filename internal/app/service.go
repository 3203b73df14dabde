// Package service wires the dataset, derivations and viewer sessions into
// the operations used by the HTTP handlers and the CLI.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/qaportal/internal/adapters/repository"
	"github.com/okian/qaportal/internal/dashboard"
	"github.com/okian/qaportal/internal/domain/derive"
	"github.com/okian/qaportal/internal/domain/model"
	"github.com/okian/qaportal/internal/session"
	"github.com/okian/qaportal/pkg/logger"
	"github.com/okian/qaportal/pkg/metrics"
)

// replyAuthor is who dashboard replies are attributed to.
const replyAuthor = "You"

// Service implements the API and site dependencies.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	sessions *session.Manager

	now            func() time.Time
	defaultAgentID string
	urgentDays     int
	sessionTTL     time.Duration
	maxReplyLen    int

	started bool
	stop    context.CancelFunc
	done    chan struct{}

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		now:         time.Now,
		urgentDays:  7,
		sessionTTL:  time.Hour,
		maxReplyLen: 4096,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset (unless one was supplied) and starts pruning idle
// sessions. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore(ctx, repository.Seed(s.now()),
			repository.WithLogger(s.logger.Named("repository")))
		s.logger.Info(ctx, "using built-in seed dataset")
	}

	s.sessions = session.NewManager(
		session.WithTTL(s.sessionTTL),
		session.WithClock(s.now),
		session.WithInitialState(s.initialState),
		session.WithLogger(s.logger.Named("session")),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.stop = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.sessions.Run(runCtx, pruneInterval(s.sessionTTL))
	}()

	s.started = true
	c := s.store.Count(ctx)
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("agents", c.Agents),
		logger.Int("urgentDays", s.urgentDays),
		logger.String("sessionTTL", s.sessionTTL.String()),
	)
	return nil
}

// Stop halts session pruning.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping dashboard service...")
	s.stop()
	<-s.done
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func pruneInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return max(ttl/4, time.Second)
}

// initialState selects the configured default agent, else the first one.
func (s *Service) initialState() session.State {
	agents := s.store.Agents(context.Background())
	sel := session.NewSelection(agents)
	if s.defaultAgentID != "" {
		for _, a := range agents {
			if a.ID == s.defaultAgentID {
				sel.Select(a)
				break
			}
		}
	}
	return session.State{Selection: sel}
}

func (s *Service) ready() (repository.Store, *session.Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.sessions, nil
}

// Agents returns every agent in dataset order.
func (s *Service) Agents(ctx context.Context) ([]model.Agent, error) {
	store, _, err := s.ready()
	if err != nil {
		return nil, err
	}
	return store.Agents(ctx), nil
}

// Agent returns one agent or repository.ErrAgentNotFound.
func (s *Service) Agent(ctx context.Context, id string) (model.Agent, error) {
	store, _, err := s.ready()
	if err != nil {
		return model.Agent{}, err
	}
	return store.Agent(ctx, id)
}

// AgentRecords holds every record of one agent in display order.
type AgentRecords struct {
	Agent         model.Agent          `json:"agent"`
	QAScores      []model.QAScore      `json:"qaScores"`
	MeritDemerits []model.MeritDemerit `json:"meritDemerits"`
	Comments      []model.Comment      `json:"comments"`
	Goals         []derive.GoalView    `json:"goals"`
}

// AgentRecords returns an agent's records: QA scores oldest first, merits
// and comments newest first, goals by closest deadline.
func (s *Service) AgentRecords(ctx context.Context, agentID string) (AgentRecords, error) {
	store, _, err := s.ready()
	if err != nil {
		return AgentRecords{}, err
	}
	agent, err := store.Agent(ctx, agentID)
	if err != nil {
		return AgentRecords{}, err
	}
	return AgentRecords{
		Agent:         agent,
		QAScores:      derive.SortByDateAsc(derive.FilterByAgent(store.QAScores(ctx), agent.ID)),
		MeritDemerits: derive.SortByDateDesc(derive.FilterByAgent(store.MeritDemerits(ctx), agent.ID)),
		Comments:      derive.SortByDateDesc(derive.FilterByAgent(store.Comments(ctx), agent.ID)),
		Goals:         derive.DeriveGoals(derive.FilterByAgent(store.Goals(ctx), agent.ID), s.now(), s.urgentDays),
	}, nil
}

// Summary is the derived metrics of one agent.
type Summary struct {
	Agent model.Agent         `json:"agent"`
	QA    derive.QASummary    `json:"qa"`
	Merit derive.MeritSummary `json:"merit"`
	Goals []derive.GoalView   `json:"goals"`
}

// Summary derives an agent's QA, merit and goal metrics.
func (s *Service) Summary(ctx context.Context, agentID string) (Summary, error) {
	recs, err := s.AgentRecords(ctx, agentID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Agent: recs.Agent,
		QA:    derive.SummarizeQA(recs.QAScores),
		Merit: derive.SummarizeMerits(recs.MeritDemerits),
		Goals: recs.Goals,
	}, nil
}

// Session returns the viewer session for id, creating one when id is
// unknown or expired.
func (s *Service) Session(ctx context.Context, id string) (*session.Session, error) {
	_, sessions, err := s.ready()
	if err != nil {
		return nil, err
	}
	sess, _ := sessions.Resolve(ctx, id)
	return sess, nil
}

// Page builds the dashboard for a session.
func (s *Service) Page(ctx context.Context, sess *session.Session, tab dashboard.Tab) (dashboard.Page, error) {
	store, _, err := s.ready()
	if err != nil {
		return dashboard.Page{}, err
	}
	in := dashboard.Input{
		Agents:        store.Agents(ctx),
		QAScores:      store.QAScores(ctx),
		MeritDemerits: store.MeritDemerits(ctx),
		Comments:      store.Comments(ctx),
		Goals:         store.Goals(ctx),
		Tab:           tab,
		Now:           s.now(),
		UrgentDays:    s.urgentDays,
	}
	sess.With(func(st *session.State) {
		in.Selected = st.Selection.Current()
		in.SelectorOpen = st.SelectorOpen
		in.Drafts = st.Drafts.Snapshot()
	})
	page := dashboard.Build(in)
	for _, p := range page.Panels() {
		metrics.RecordPanelRender(p.Name, p.Empty)
	}
	return page, nil
}

// Select makes agentID the session's selection and closes the picker.
func (s *Service) Select(ctx context.Context, sess *session.Session, agentID string) (model.Agent, error) {
	store, _, err := s.ready()
	if err != nil {
		return model.Agent{}, err
	}
	agent, err := store.Agent(ctx, agentID)
	if err != nil {
		return model.Agent{}, err
	}
	sess.With(func(st *session.State) {
		st.Selection.Select(agent)
		st.SelectorOpen = false
	})
	metrics.RecordAgentSelection(agent.ID)
	s.logger.Debug(ctx, "agent selected",
		logger.String("session", sess.ID),
		logger.String("agentId", agent.ID),
	)
	return agent, nil
}

// ToggleSelector opens or closes the agent picker and reports its new state.
func (s *Service) ToggleSelector(_ context.Context, sess *session.Session) bool {
	var open bool
	sess.With(func(st *session.State) {
		st.SelectorOpen = !st.SelectorOpen
		open = st.SelectorOpen
	})
	return open
}

// ToggleReply opens an empty reply box for commentID or closes an open one,
// dropping its text. It reports whether the box is open afterwards.
func (s *Service) ToggleReply(ctx context.Context, sess *session.Session, commentID string) (bool, error) {
	if err := s.commentExists(ctx, commentID); err != nil {
		return false, err
	}
	var open bool
	sess.With(func(st *session.State) {
		open = st.Drafts.Toggle(commentID)
	})
	return open, nil
}

// UpdateDraft replaces the text of a reply, opening its box if needed.
func (s *Service) UpdateDraft(ctx context.Context, sess *session.Session, commentID, text string) error {
	if err := s.commentExists(ctx, commentID); err != nil {
		return err
	}
	if len(text) > s.maxReplyLen {
		return fmt.Errorf("%w: %d bytes", ErrReplyTooLong, len(text))
	}
	sess.With(func(st *session.State) {
		st.Drafts.Set(commentID, text)
	})
	return nil
}

// SubmitReply sends the session's draft for commentID. text, when non-nil,
// replaces the draft first. The reply is logged and discarded; the draft is
// closed either way.
func (s *Service) SubmitReply(ctx context.Context, sess *session.Session, commentID string, text *string) (model.Response, error) {
	if err := s.commentExists(ctx, commentID); err != nil {
		return model.Response{}, err
	}
	var content string
	sess.With(func(st *session.State) {
		content, _ = st.Drafts.Submit(commentID)
	})
	if text != nil {
		content = *text
	}
	return s.discard(ctx, commentID, content)
}

// DiscardResponse accepts a reply to commentID without storing it. Replies
// are logged so the submission is visible to operators.
func (s *Service) DiscardResponse(ctx context.Context, commentID, content string) (model.Response, error) {
	if err := s.commentExists(ctx, commentID); err != nil {
		return model.Response{}, err
	}
	return s.discard(ctx, commentID, content)
}

// discard validates and logs a reply to a comment already known to exist.
func (s *Service) discard(ctx context.Context, commentID, content string) (model.Response, error) {
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		return model.Response{}, ErrEmptyReply
	case len(content) > s.maxReplyLen:
		return model.Response{}, fmt.Errorf("%w: %d bytes", ErrReplyTooLong, len(content))
	}
	resp := model.Response{
		ID:      uuid.NewString(),
		Date:    model.DateOf(s.now()),
		Content: content,
		Author:  replyAuthor,
	}
	metrics.RecordReplyDiscarded()
	s.logger.Info(ctx, "submitting response",
		logger.String("commentId", commentID),
		logger.String("responseId", resp.ID),
		logger.String("content", content),
	)
	return resp, nil
}

func (s *Service) commentExists(ctx context.Context, commentID string) error {
	store, _, err := s.ready()
	if err != nil {
		return err
	}
	_, err = store.Comment(ctx, commentID)
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":    s.started,
		"urgentDays": s.urgentDays,
		"sessionTTL": s.sessionTTL.String(),
	}
	if s.started {
		ctx := context.Background()
		stats["dataset"] = s.store.Count(ctx)
		n := s.sessions.Len()
		stats["sessions"] = n
		metrics.UpdateActiveSessions(n)
	}
	return stats
}
