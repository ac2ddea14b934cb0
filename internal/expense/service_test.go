package expense_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/frahmantamala/budget-ledger/internal/core/events"
	"github.com/frahmantamala/budget-ledger/internal/expense"
	"github.com/frahmantamala/budget-ledger/pkg/logger"
)

// recorder collects every event published on the bus
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

var _ = Describe("ExpenseService", func() {
	var (
		service *expense.Service
		rec     *recorder
		now     time.Time
		ctx     context.Context
		cfg     internal.SessionConfig
	)

	newService := func(opts ...expense.Option) *expense.Service {
		bus := events.NewEventBus(logger.Discard())
		bus.Subscribe(events.AllEvents, rec.handle)
		opts = append([]expense.Option{expense.WithClock(func() time.Time { return now })}, opts...)
		s, err := expense.NewService(decimal.NewFromInt(5000), cfg, bus, logger.Discard(), opts...)
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		rec = &recorder{}
		cfg = internal.SessionConfig{IdleTimeout: 30 * time.Minute, SweepInterval: time.Minute, MaxSessions: 2}
		service = newService(expense.WithCurrency("Rp"))
	})

	Describe("NewService", func() {
		It("should reject a non-positive ceiling", func() {
			_, err := expense.NewService(decimal.Zero, cfg, nil, logger.Discard())
			Expect(err).To(MatchError(internal.ErrInvalidCeiling))
		})
	})

	Describe("StartSession", func() {
		It("should open an empty ledger within budget", func() {
			sess, err := service.StartSession()

			Expect(err).NotTo(HaveOccurred())
			Expect(sess.SessionID).NotTo(BeEmpty())
			Expect(sess.CreatedAt).To(Equal(now))
			Expect(sess.Budget.Spent).To(Equal("0"))
			Expect(sess.Budget.Ceiling).To(Equal("5000"))
			Expect(sess.Budget.Currency).To(Equal("Rp"))
			Expect(service.ActiveSessions()).To(Equal(1))
		})

		It("should refuse sessions beyond the limit", func() {
			_, err := service.StartSession()
			Expect(err).NotTo(HaveOccurred())
			_, err = service.StartSession()
			Expect(err).NotTo(HaveOccurred())

			_, err = service.StartSession()
			Expect(err).To(MatchError(internal.ErrSessionLimit))
			Expect(service.ActiveSessions()).To(Equal(2))
		})
	})

	Describe("AddExpense", func() {
		var sessionID string

		BeforeEach(func() {
			sess, err := service.StartSession()
			Expect(err).NotTo(HaveOccurred())
			sessionID = sess.SessionID
		})

		It("should record the expense and publish a recorded event", func() {
			resp, err := service.AddExpense(ctx, sessionID, expense.CreateExpenseDTO{Name: "Lunch", Amount: "200", Category: "Food"})

			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Expense.Name).To(Equal("Lunch"))
			Expect(resp.Expense.Amount).To(Equal("200"))
			Expect(resp.Expense.Category).To(Equal("Food"))
			Expect(resp.Budget.Spent).To(Equal("200"))
			Expect(resp.Budget.WithinBudget).To(BeTrue())
			Expect(resp.Budget.Percent).To(BeNumerically("~", 4.0, 1e-9))
			Expect(resp.Notifications).To(ConsistOf(events.Notification{
				SessionID: sessionID, Level: events.LevelSuccess, Message: "Expense added successfully",
			}))
			Expect(rec.types()).To(Equal([]string{events.EventTypeExpenseRecorded}))
		})

		It("should publish budget.exceeded only when crossing the ceiling", func() {
			_, err := service.AddExpense(ctx, sessionID, expense.CreateExpenseDTO{Name: "Lunch", Amount: "200", Category: "Food"})
			Expect(err).NotTo(HaveOccurred())

			resp, err := service.AddExpense(ctx, sessionID, expense.CreateExpenseDTO{Name: "Phone", Amount: "4900", Category: "Shopping"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Budget.WithinBudget).To(BeFalse())
			Expect(resp.Budget.Overage).To(Equal("100"))
			Expect(resp.Budget.Percent).To(Equal(100.0))
			Expect(resp.Notifications).To(HaveLen(2))
			Expect(resp.Notifications[1].Level).To(Equal(events.LevelWarning))

			_, err = service.AddExpense(ctx, sessionID, expense.CreateExpenseDTO{Name: "Taxi", Amount: "20", Category: "Transportation"})
			Expect(err).NotTo(HaveOccurred())

			Expect(rec.types()).To(Equal([]string{
				events.EventTypeExpenseRecorded,
				events.EventTypeExpenseRecorded,
				events.EventTypeBudgetExceeded,
				events.EventTypeExpenseRecorded,
			}))
		})

		It("should reject invalid input without changing the ledger", func() {
			_, err := service.AddExpense(ctx, sessionID, expense.CreateExpenseDTO{Name: "X", Amount: "abc", Category: "Food"})
			Expect(err).To(MatchError(internal.ErrInvalidAmount))

			_, err = service.AddExpense(ctx, sessionID, expense.CreateExpenseDTO{Name: "", Amount: "100", Category: "Food"})
			Expect(err).To(MatchError(internal.ErrMissingField))

			list, err := service.ListExpenses(sessionID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Expenses).To(BeEmpty())
			Expect(list.Total).To(Equal("0"))

			Expect(rec.types()).To(Equal([]string{events.EventTypeExpenseRejected, events.EventTypeExpenseRejected}))
			rejected, ok := rec.events[1].(*events.ExpenseRejectedEvent)
			Expect(ok).To(BeTrue())
			Expect(rejected.Code).To(Equal(string(internal.ErrCodeMissingField)))
			Expect(rejected.Fields).To(Equal([]string{"name"}))
		})

		It("should fail for an unknown session", func() {
			_, err := service.AddExpense(ctx, "missing", expense.CreateExpenseDTO{Name: "Lunch", Amount: "200", Category: "Food"})
			Expect(err).To(MatchError(internal.ErrSessionNotFound))
		})

		It("should keep ledgers of different sessions apart", func() {
			other, err := service.StartSession()
			Expect(err).NotTo(HaveOccurred())

			_, err = service.AddExpense(ctx, sessionID, expense.CreateExpenseDTO{Name: "Lunch", Amount: "200", Category: "Food"})
			Expect(err).NotTo(HaveOccurred())

			status, err := service.GetBudgetStatus(other.SessionID)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Spent).To(Equal("0"))
		})

		It("should serialize concurrent appends to one session", func() {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := service.AddExpense(ctx, sessionID, expense.CreateExpenseDTO{Name: "tick", Amount: "1", Category: "Other"})
					Expect(err).NotTo(HaveOccurred())
				}()
			}
			wg.Wait()

			list, err := service.ListExpenses(sessionID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Expenses).To(HaveLen(50))
			Expect(list.Total).To(Equal("50"))
		})
	})

	Describe("GetSummary", func() {
		It("should total per category", func() {
			sess, err := service.StartSession()
			Expect(err).NotTo(HaveOccurred())
			for _, dto := range []expense.CreateExpenseDTO{
				{Name: "Lunch", Amount: "12.50", Category: "Food"},
				{Name: "Movie", Amount: "9", Category: "Entertainment"},
				{Name: "Dinner", Amount: "30", Category: "food"},
			} {
				_, err := service.AddExpense(ctx, sess.SessionID, dto)
				Expect(err).NotTo(HaveOccurred())
			}

			summary, err := service.GetSummary(sess.SessionID)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Entries).To(Equal(3))
			Expect(summary.Budget.Spent).To(Equal("51.5"))
			Expect(summary.Categories).To(Equal([]expense.CategoryTotalResponse{
				{Category: "Food", Count: 2, Total: "42.5"},
				{Category: "Entertainment", Count: 1, Total: "9"},
			}))
		})
	})

	Describe("EndSession", func() {
		It("should discard the ledger and publish session.ended", func() {
			sess, err := service.StartSession()
			Expect(err).NotTo(HaveOccurred())

			Expect(service.EndSession(ctx, sess.SessionID)).To(Succeed())

			Expect(service.ActiveSessions()).To(BeZero())
			_, err = service.GetBudgetStatus(sess.SessionID)
			Expect(err).To(MatchError(internal.ErrSessionNotFound))
			Expect(rec.types()).To(Equal([]string{events.EventTypeSessionEnded}))
		})

		It("should report unknown sessions", func() {
			Expect(service.EndSession(ctx, "nope")).To(MatchError(internal.ErrSessionNotFound))
		})
	})

	Describe("ended sessions", func() {
		var (
			sessionID string
			handle    expense.SessionHandle
		)

		BeforeEach(func() {
			sess, err := service.StartSession()
			Expect(err).NotTo(HaveOccurred())
			sessionID = sess.SessionID
			handle, err = service.Lookup(sessionID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should refuse an append that raced with EndSession", func() {
			Expect(service.EndSession(ctx, sessionID)).To(Succeed())

			_, err := service.AddExpenseTo(ctx, handle, expense.CreateExpenseDTO{Name: "Lunch", Amount: "200", Category: "Food"})

			Expect(err).To(MatchError(internal.ErrSessionNotFound))
			Expect(rec.types()).To(Equal([]string{events.EventTypeSessionEnded}))
		})

		It("should refuse an append that raced with a sweep", func() {
			Expect(service.Sweep(ctx, now.Add(time.Hour))).To(Equal(1))

			_, err := service.AddExpenseTo(ctx, handle, expense.CreateExpenseDTO{Name: "Lunch", Amount: "200", Category: "Food"})

			Expect(err).To(MatchError(internal.ErrSessionNotFound))
			Expect(rec.types()).To(Equal([]string{events.EventTypeSessionEnded}))
		})
	})

	Describe("Sweep", func() {
		It("should expire only sessions idle past the timeout", func() {
			stale, err := service.StartSession()
			Expect(err).NotTo(HaveOccurred())

			now = now.Add(20 * time.Minute)
			fresh, err := service.StartSession()
			Expect(err).NotTo(HaveOccurred())

			removed := service.Sweep(ctx, now.Add(15*time.Minute))

			Expect(removed).To(Equal(1))
			Expect(service.ActiveSessions()).To(Equal(1))
			_, err = service.ListExpenses(stale.SessionID)
			Expect(err).To(MatchError(internal.ErrSessionNotFound))
			_, err = service.ListExpenses(fresh.SessionID)
			Expect(err).NotTo(HaveOccurred())

			ended, ok := rec.events[0].(*events.SessionEndedEvent)
			Expect(ok).To(BeTrue())
			Expect(ended.Reason).To(Equal(events.SessionEndReasonExpired))
		})

		It("should count activity as keeping a session alive", func() {
			sess, err := service.StartSession()
			Expect(err).NotTo(HaveOccurred())

			now = now.Add(25 * time.Minute)
			_, err = service.GetBudgetStatus(sess.SessionID)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Sweep(ctx, now.Add(10*time.Minute))).To(BeZero())
		})
	})

	Describe("Run", func() {
		It("should stop when the context is cancelled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan struct{})
			go func() {
				service.Run(runCtx)
				close(done)
			}()

			cancel()
			Eventually(done).Should(BeClosed())
		})
	})
})
