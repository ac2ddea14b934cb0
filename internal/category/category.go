package category

import "github.com/frahmantamala/budget-ledger/internal/ledger"

// Category is the public view of a ledger category.
type Category struct {
	Name        string
	Description string
}

// CategoryResponse is one entry of GET /categories.
type CategoryResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		Name:        c.Name,
		Description: c.Description,
	}
}

func FromLedger(c ledger.Category) *Category {
	return &Category{
		Name:        c.String(),
		Description: c.Description(),
	}
}
