package ledger

import (
	"strings"

	"github.com/frahmantamala/budget-ledger/internal"
)

// Category is one of the fixed expense categories.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryEducation      Category = "Education"
	CategoryHealthcare     Category = "Healthcare"
	CategoryShopping       Category = "Shopping"
	CategoryOther          Category = "Other"
)

var categories = []Category{
	CategoryFood,
	CategoryTransportation,
	CategoryEntertainment,
	CategoryEducation,
	CategoryHealthcare,
	CategoryShopping,
	CategoryOther,
}

var categoryDescriptions = map[Category]string{
	CategoryFood:           "Groceries, meals and drinks",
	CategoryTransportation: "Fuel, fares and vehicle costs",
	CategoryEntertainment:  "Events, subscriptions and leisure",
	CategoryEducation:      "Courses, books and tuition",
	CategoryHealthcare:     "Medicine, doctors and insurance",
	CategoryShopping:       "Clothing, electronics and household items",
	CategoryOther:          "Anything else",
}

// Categories returns the enumerated set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func (c Category) String() string {
	return string(c)
}

func (c Category) Description() string {
	return categoryDescriptions[c]
}

func (c Category) IsValid() bool {
	_, ok := categoryDescriptions[c]
	return ok
}

// ParseCategory matches s against the enumerated set ignoring case and
// surrounding whitespace, returning the canonical category.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", internal.NewValidationFieldError("category", "category must be one of "+categoryList(), internal.ErrCodeInvalidCategory)
}

func categoryList() string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
