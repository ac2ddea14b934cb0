package category

import (
	"log/slog"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/frahmantamala/budget-ledger/internal/ledger"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) GetAllCategories() []CategoryResponse {
	cats := ledger.Categories()
	responses := make([]CategoryResponse, 0, len(cats))
	for _, c := range cats {
		responses = append(responses, FromLedger(c).ToResponse())
	}

	s.logger.Debug("retrieved categories", "count", len(responses))
	return responses
}

func (s *Service) GetCategoryByName(name string) (*CategoryResponse, error) {
	c, err := ledger.ParseCategory(name)
	if err != nil {
		return nil, internal.NewNotFoundError("category not found", internal.ErrCodeInvalidCategory).WithCause(err)
	}
	response := FromLedger(c).ToResponse()
	return &response, nil
}

func (s *Service) IsValidCategory(name string) bool {
	_, err := ledger.ParseCategory(name)
	if err != nil {
		s.logger.Debug("unknown category", "name", name)
		return false
	}
	return true
}
