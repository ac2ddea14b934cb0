package cli_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-ledger/internal/cli"
	"github.com/frahmantamala/budget-ledger/internal/ledger"
)

var _ = Describe("LoadCSV", func() {
	var l *ledger.Ledger

	BeforeEach(func() {
		var err error
		l, err = ledger.New(ledger.DefaultCeiling)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should load valid records and skip the header and comments", func() {
		input := "name,amount,category\n# groceries\nLunch,200,Food\nBus,\"3,50\",transportation\n"

		rejections, err := cli.LoadCSV(strings.NewReader(input), l)

		Expect(err).NotTo(HaveOccurred())
		Expect(rejections).To(BeEmpty())
		Expect(l.Len()).To(Equal(2))
		Expect(l.TotalSpent().Equal(decimal.RequireFromString("203.5"))).To(BeTrue())
	})

	It("should report refused records with their line and code", func() {
		input := "Lunch,200,Food\nGift,abc,Shopping\nTaxi,15\nSnack,5,Candy\n"

		rejections, err := cli.LoadCSV(strings.NewReader(input), l)

		Expect(err).NotTo(HaveOccurred())
		Expect(l.Len()).To(Equal(1))
		Expect(rejections).To(HaveLen(3))
		Expect(rejections[0].Line).To(Equal(2))
		Expect(rejections[0].Code).To(Equal("INVALID_AMOUNT"))
		Expect(rejections[1].Line).To(Equal(3))
		Expect(rejections[1].Code).To(Equal("MISSING_FIELD"))
		Expect(rejections[2].Code).To(Equal("INVALID_CATEGORY"))
	})

	It("should fail on a malformed stream", func() {
		_, err := cli.LoadCSV(strings.NewReader("Lunch,\"200,Food\n"), l)

		Expect(err).To(HaveOccurred())
	})
})
