package cmd

import (
	"fmt"

	"github.com/frahmantamala/budget-ledger/internal/category"
	"github.com/frahmantamala/budget-ledger/internal/cli"
	"github.com/frahmantamala/budget-ledger/pkg/logger"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the expense categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc := category.NewService(logger.Discard())

		rows := make([][]string, 0)
		for _, c := range svc.GetAllCategories() {
			rows = append(rows, []string{c.Name, c.Description})
		}

		fmt.Fprint(cmd.OutOrStdout(), cli.RenderTable(cli.Table{
			Headers: []string{"Category", "Description"},
			Rows:    rows,
		}))
		return nil
	},
}
