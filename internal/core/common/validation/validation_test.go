package validation_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-ledger/internal"
	"github.com/frahmantamala/budget-ledger/internal/core/common/validation"
)

var _ = Describe("ValidationBuilder", func() {
	It("should pass when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("name", "Lunch").Required().MaxLength(10)
		v.Field("amount", decimal.NewFromInt(5)).Positive(internal.ErrCodeInvalidAmount)

		Expect(v.Validate()).To(BeNil())
	})

	It("should treat whitespace as missing", func() {
		v := validation.NewValidator()
		v.Field("name", "   ").Required()

		err := v.Validate()

		Expect(err).NotTo(BeNil())
		Expect(err.Code).To(Equal(internal.ErrCodeMissingField))
		Expect(err.Fields()).To(Equal([]string{"name"}))
	})

	It("should collect every failure and keep the first code", func() {
		empty := ""
		v := validation.NewValidator()
		v.Field("name", &empty).Required()
		v.Field("amount", decimal.NewFromInt(-1)).Positive(internal.ErrCodeInvalidAmount)
		v.Field("note", "far too long for this").MaxLength(5)

		err := v.Validate()

		Expect(err).NotTo(BeNil())
		Expect(err.Code).To(Equal(internal.ErrCodeMissingField))
		Expect(err.Fields()).To(Equal([]string{"name", "amount", "note"}))
		Expect(err.GetDetailedMessage()).To(ContainSubstring("amount must be greater than 0"))
	})

	It("should run custom rules", func() {
		v := validation.NewValidator()
		v.Field("category", "Candy").Custom(func(value interface{}) *internal.AppError {
			return internal.NewValidationFieldError("category", "unknown category", internal.ErrCodeInvalidCategory)
		})

		err := v.Validate()

		Expect(err).NotTo(BeNil())
		Expect(err.Code).To(Equal(internal.ErrCodeInvalidCategory))
	})
})
