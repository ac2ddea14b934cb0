package expense

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/frahmantamala/budget-ledger/internal/transport"
	"github.com/frahmantamala/budget-ledger/pkg/logger"
)

type ServiceAPI interface {
	StartSession() (*SessionResponse, error)
	EndSession(ctx context.Context, sessionID string) error
	AddExpense(ctx context.Context, sessionID string, dto CreateExpenseDTO) (*AddExpenseResponse, error)
	ListExpenses(sessionID string) (*ExpensesResponse, error)
	GetBudgetStatus(sessionID string) (*BudgetStatusResponse, error)
	GetSummary(sessionID string) (*SummaryResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Service.StartSession()
	if err != nil {
		h.Logger.Error("StartSession: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, sess)
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := internal.SessionIDFromContext(r.Context())
	if err := h.Service.EndSession(r.Context(), sessionID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	sessionID := internal.SessionIDFromContext(r.Context())

	dto, err := decodeCreateExpense(r)
	if err != nil {
		logger.From(r.Context()).Warn("CreateExpense: invalid request body", "error", err)
		h.HandleServiceError(w, internal.ErrInvalidRequest.WithCause(err))
		return
	}

	resp, err := h.Service.AddExpense(r.Context(), sessionID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.ListExpenses(internal.SessionIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetBudgetStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.GetBudgetStatus(internal.SessionIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.GetSummary(internal.SessionIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// decodeCreateExpense accepts either a JSON body or a submitted HTML form.
func decodeCreateExpense(r *http.Request) (CreateExpenseDTO, error) {
	var dto CreateExpenseDTO

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return dto, err
		}
		dto.Name = r.PostForm.Get("name")
		dto.Amount = AmountText(r.PostForm.Get("amount"))
		dto.Category = r.PostForm.Get("category")
		return dto, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return dto, err
	}
	return dto, nil
}
