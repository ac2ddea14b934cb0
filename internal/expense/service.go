package expense

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/frahmantamala/budget-ledger/internal/core/events"
	"github.com/frahmantamala/budget-ledger/internal/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service keeps one ledger per session. Ledgers live only as long as their
// session: closing it or leaving it idle past the timeout discards it.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	ceiling  decimal.Decimal
	currency string
	cfg      internal.SessionConfig

	bus    *events.EventBus
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithCurrency(currency string) Option {
	return func(s *Service) {
		s.currency = currency
	}
}

// NewService creates a new expense service
func NewService(ceiling decimal.Decimal, cfg internal.SessionConfig, bus *events.EventBus, logger *slog.Logger, opts ...Option) (*Service, error) {
	if !ceiling.IsPositive() {
		return nil, internal.ErrInvalidCeiling
	}

	s := &Service{
		sessions: make(map[string]*session),
		ceiling:  ceiling,
		cfg:      cfg,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartSession opens a session with an empty ledger.
func (s *Service) StartSession() (*SessionResponse, error) {
	l, err := ledger.New(s.ceiling, ledger.WithClock(s.now))
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &session{
		id:        uuid.NewString(),
		createdAt: now,
		ledger:    l,
		lastSeen:  now,
	}

	s.mu.Lock()
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		s.logger.Warn("session limit reached", "max_sessions", s.cfg.MaxSessions)
		return nil, internal.ErrSessionLimit
	}
	s.sessions[sess.id] = sess
	active := len(s.sessions)
	s.mu.Unlock()

	s.logger.Info("session started", "session_id", sess.id, "active_sessions", active)

	budget := ToBudgetStatusResponse(l.BudgetStatus(), s.currency)
	return &SessionResponse{
		SessionID: sess.id,
		CreatedAt: sess.createdAt,
		Budget:    &budget,
	}, nil
}

// EndSession discards a session and its ledger.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return internal.ErrSessionNotFound
	}

	s.ended(ctx, sess, events.SessionEndReasonClosed)
	return nil
}

// AddExpense validates the input against the session's ledger and appends
// it. Rejections and budget overruns are published on the event bus.
func (s *Service) AddExpense(ctx context.Context, sessionID string, dto CreateExpenseDTO) (*AddExpenseResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.addExpense(ctx, sess, dto)
}

func (s *Service) addExpense(ctx context.Context, sess *session, dto CreateExpenseDTO) (*AddExpenseResponse, error) {
	if err := s.acquire(sess); err != nil {
		return nil, err
	}
	sessionID := sess.id
	wasWithin := sess.ledger.BudgetStatus().WithinBudget
	exp, addErr := sess.ledger.AddExpense(dto.Name, string(dto.Amount), dto.Category)
	status := sess.ledger.BudgetStatus()
	sess.mu.Unlock()

	if addErr != nil {
		s.rejected(ctx, sessionID, addErr)
		return nil, addErr
	}

	s.logger.Info("expense recorded",
		"session_id", sessionID,
		"expense_id", exp.ID,
		"amount", exp.Amount.String(),
		"category", exp.Category,
		"spent", status.Spent.String())

	published := []events.Event{
		events.NewExpenseRecordedEvent(sessionID, exp.ID, exp.Name, exp.Amount.String(), exp.Category.String(), status.Spent.String()),
	}
	if wasWithin && !status.WithinBudget {
		s.logger.Warn("budget exceeded",
			"session_id", sessionID,
			"spent", status.Spent.String(),
			"ceiling", status.Ceiling.String())
		published = append(published, events.NewBudgetExceededEvent(sessionID, status.Spent.String(), status.Ceiling.String(), status.Overage.String()))
	}

	notifications := make([]events.Notification, 0, len(published))
	for _, event := range published {
		s.publish(ctx, event)
		if n, ok := events.NotificationFor(event); ok {
			notifications = append(notifications, n)
		}
	}

	return &AddExpenseResponse{
		Expense:       ToExpenseResponse(exp),
		Budget:        ToBudgetStatusResponse(status, s.currency),
		Notifications: notifications,
	}, nil
}

func (s *Service) ListExpenses(sessionID string) (*ExpensesResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.acquire(sess); err != nil {
		return nil, err
	}
	entries := sess.ledger.Entries()
	total := sess.ledger.TotalSpent()
	sess.mu.Unlock()

	return &ExpensesResponse{
		Expenses: ToExpenseResponses(entries),
		Total:    total.String(),
	}, nil
}

func (s *Service) GetBudgetStatus(sessionID string) (*BudgetStatusResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.acquire(sess); err != nil {
		return nil, err
	}
	status := sess.ledger.BudgetStatus()
	sess.mu.Unlock()

	resp := ToBudgetStatusResponse(status, s.currency)
	return &resp, nil
}

func (s *Service) GetSummary(sessionID string) (*SummaryResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.acquire(sess); err != nil {
		return nil, err
	}
	status := sess.ledger.BudgetStatus()
	totals := sess.ledger.TotalsByCategory()
	entries := sess.ledger.Len()
	sess.mu.Unlock()

	categories := make([]CategoryTotalResponse, len(totals))
	for i, t := range totals {
		categories[i] = CategoryTotalResponse{
			Category: t.Category.String(),
			Count:    t.Count,
			Total:    t.Total.String(),
		}
	}

	return &SummaryResponse{
		Entries:    entries,
		Budget:     ToBudgetStatusResponse(status, s.currency),
		Categories: categories,
	}, nil
}

// ActiveSessions reports how many sessions are open.
func (s *Service) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep discards sessions idle for longer than the configured timeout and
// returns how many were removed.
func (s *Service) Sweep(ctx context.Context, now time.Time) int {
	s.mu.RLock()
	candidates := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		candidates = append(candidates, sess)
	}
	s.mu.RUnlock()

	var expired []*session
	for _, sess := range candidates {
		if sess.idleSince(now) > s.cfg.IdleTimeout {
			expired = append(expired, sess)
		}
	}
	if len(expired) == 0 {
		return 0
	}

	removed := make([]*session, 0, len(expired))
	s.mu.Lock()
	for _, sess := range expired {
		if cur, ok := s.sessions[sess.id]; ok && cur == sess {
			delete(s.sessions, sess.id)
			removed = append(removed, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range removed {
		s.ended(ctx, sess, events.SessionEndReasonExpired)
	}
	return len(removed)
}

// Run sweeps idle sessions every SweepInterval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.logger.Info("session sweeper started",
		"idle_timeout", s.cfg.IdleTimeout,
		"sweep_interval", s.cfg.SweepInterval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := s.Sweep(ctx, s.now()); n > 0 {
				s.logger.Info("expired idle sessions", "count", n, "active_sessions", s.ActiveSessions())
			}
		}
	}
}

func (s *Service) lookup(sessionID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, internal.ErrSessionNotFound
	}
	return sess, nil
}

// acquire locks sess and marks it active. It fails without holding the lock
// when the session ended after it was looked up.
func (s *Service) acquire(sess *session) error {
	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return internal.ErrSessionNotFound
	}
	sess.touch(s.now())
	return nil
}

func (s *Service) rejected(ctx context.Context, sessionID string, err error) {
	code := string(internal.ErrCodeInternal)
	var fields []string
	if appErr, ok := internal.IsAppError(err); ok {
		code = string(appErr.Code)
		fields = appErr.Fields()
	}

	s.logger.Warn("expense rejected",
		"session_id", sessionID,
		"code", code,
		"fields", fields,
		"error", err)

	s.publish(ctx, events.NewExpenseRejectedEvent(sessionID, code, fields, err.Error()))
}

func (s *Service) ended(ctx context.Context, sess *session, reason string) {
	sess.mu.Lock()
	sess.closed = true
	entries := sess.ledger.Len()
	spent := sess.ledger.TotalSpent()
	sess.mu.Unlock()

	s.logger.Info("session ended",
		"session_id", sess.id,
		"reason", reason,
		"entries", entries,
		"spent", spent.String())

	s.publish(ctx, events.NewSessionEndedEvent(sess.id, entries, spent.String(), reason))
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishSync(ctx, event); err != nil {
		s.logger.Error("failed to publish event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}
}
