package expense_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/frahmantamala/budget-ledger/internal/expense"
	"github.com/frahmantamala/budget-ledger/internal/transport"
	"github.com/frahmantamala/budget-ledger/internal/transport/middleware"
	"github.com/frahmantamala/budget-ledger/pkg/logger"
)

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Errors []internal.ValidationError `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}

var _ = Describe("ExpenseHandler", func() {
	var (
		router *chi.Mux
		svc    *expense.Service
	)

	do := func(method, path, contentType, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	startSession := func() string {
		rec := do(http.MethodPost, "/sessions", "", "")
		Expect(rec.Code).To(Equal(http.StatusCreated))
		var sess expense.SessionResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &sess)).To(Succeed())
		return sess.SessionID
	}

	BeforeEach(func() {
		var err error
		svc, err = expense.NewService(decimal.NewFromInt(5000), internal.SessionConfig{MaxSessions: 10}, nil, logger.Discard())
		Expect(err).NotTo(HaveOccurred())

		handler := expense.NewHandler(transport.NewBaseHandler(logger.Discard()), svc)

		router = chi.NewRouter()
		router.Post("/sessions", handler.StartSession)
		router.Route("/sessions/{"+middleware.SessionParam+"}", func(r chi.Router) {
			r.Use(middleware.SessionContext)
			r.Delete("/", handler.EndSession)
			r.Post("/expenses", handler.CreateExpense)
			r.Get("/expenses", handler.ListExpenses)
			r.Get("/budget", handler.GetBudgetStatus)
			r.Get("/summary", handler.GetSummary)
		})
	})

	It("should add an expense from a JSON body with a numeric amount", func() {
		id := startSession()

		rec := do(http.MethodPost, "/sessions/"+id+"/expenses", "application/json",
			`{"name":"Lunch","amount":200,"category":"Food"}`)

		Expect(rec.Code).To(Equal(http.StatusCreated))
		var resp expense.AddExpenseResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Expense.Amount).To(Equal("200"))
		Expect(resp.Budget.Spent).To(Equal("200"))
		Expect(resp.Notifications).To(HaveLen(1))
	})

	It("should add an expense from a submitted form", func() {
		id := startSession()
		form := url.Values{"name": {"Bus"}, "amount": {"3,50"}, "category": {"transportation"}}

		rec := do(http.MethodPost, "/sessions/"+id+"/expenses", "application/x-www-form-urlencoded", form.Encode())

		Expect(rec.Code).To(Equal(http.StatusCreated))
		var resp expense.AddExpenseResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Expense.Amount).To(Equal("3.5"))
		Expect(resp.Expense.Category).To(Equal("Transportation"))
	})

	It("should report the failing field for invalid input", func() {
		id := startSession()

		rec := do(http.MethodPost, "/sessions/"+id+"/expenses", "application/json",
			`{"name":"Lunch","amount":"abc","category":"Food"}`)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		var body errorBody
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Code).To(Equal("INVALID_AMOUNT"))
		Expect(body.Error.Details.Errors).To(HaveLen(1))
		Expect(body.Error.Details.Errors[0].Field).To(Equal("amount"))
	})

	It("should reject a malformed JSON body", func() {
		id := startSession()

		rec := do(http.MethodPost, "/sessions/"+id+"/expenses", "application/json", `{"name":`)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		var body errorBody
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Code).To(Equal("INVALID_REQUEST"))
	})

	It("should return 404 for an unknown session", func() {
		rec := do(http.MethodGet, "/sessions/unknown/budget", "", "")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
		var body errorBody
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Code).To(Equal("SESSION_NOT_FOUND"))
	})

	It("should list expenses and summarize them", func() {
		id := startSession()
		do(http.MethodPost, "/sessions/"+id+"/expenses", "application/json", `{"name":"Lunch","amount":"12.5","category":"Food"}`)
		do(http.MethodPost, "/sessions/"+id+"/expenses", "application/json", `{"name":"Book","amount":"20","category":"Education"}`)

		rec := do(http.MethodGet, "/sessions/"+id+"/expenses", "", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var list expense.ExpensesResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Expenses).To(HaveLen(2))
		Expect(list.Expenses[0].Name).To(Equal("Lunch"))
		Expect(list.Total).To(Equal("32.5"))

		rec = do(http.MethodGet, "/sessions/"+id+"/summary", "", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var summary expense.SummaryResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &summary)).To(Succeed())
		Expect(summary.Entries).To(Equal(2))
		Expect(summary.Categories).To(HaveLen(2))
	})

	It("should end a session", func() {
		id := startSession()

		rec := do(http.MethodDelete, "/sessions/"+id, "", "")
		Expect(rec.Code).To(Equal(http.StatusNoContent))

		rec = do(http.MethodGet, "/sessions/"+id+"/budget", "", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(svc.ActiveSessions()).To(BeZero())
	})

	It("should answer 409 when the session limit is reached", func() {
		for i := 0; i < 10; i++ {
			startSession()
		}

		rec := do(http.MethodPost, "/sessions", "", "")
		Expect(rec.Code).To(Equal(http.StatusConflict))
	})
})
