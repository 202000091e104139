package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core/budget"
	"github.com/Tawhide16/CampusKit/services/report"
)

func (cli *commandLine) budgetReport(uid, file, rng string) (err error) {
	svc := cli.registry.Workspace(uid).Budget
	filter := budget.QueryFilter{Range: rng}
	summary, err := svc.Summary(filter)
	if err != nil {
		return err
	}
	txs, err := svc.Transactions(filter)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return errors.Wrap(err, "creating report file")
	}
	defer func() {
		if cErr := f.Close(); err == nil && cErr != nil {
			err = errors.Wrap(cErr, "closing report file")
		}
	}()

	if err = report.WriteBudget(f, summary, txs); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "budget report written to %s\n", file)
	return nil
}

func (cli *commandLine) summary(uid, rng string) error {
	summary, err := cli.registry.Workspace(uid).Budget.Summary(budget.QueryFilter{Range: rng})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Range\t%s\n", summary.Range)
	_, _ = fmt.Fprintf(w, "Income\t%s\n", summary.TotalIncome.StringFixed(2))
	_, _ = fmt.Fprintf(w, "Expenses\t%s\n", summary.TotalExpenses.StringFixed(2))
	_, _ = fmt.Fprintf(w, "Balance\t%s\n", summary.Balance.StringFixed(2))
	for _, c := range summary.Categories {
		_, _ = fmt.Fprintf(w, "  %s\t%s\t%d%%\n", c.Name, c.Value.StringFixed(2), c.Percent)
	}
	return w.Flush()
}
