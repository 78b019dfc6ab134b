package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/yanqian/underwriting-gateway/internal/domain/report"
)

const emptyHistory = "No evaluations found yet."

func renderDecision(out io.Writer, view report.RecordView) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Decision:\t%s\n", view.Display.Decision)
	fmt.Fprintf(w, "\t%s\n", view.Description)
	fmt.Fprintf(w, "Debt-to-Income:\t%s\n", view.Display.DTI)
	fmt.Fprintf(w, "Loan-to-Value:\t%s\n", view.Display.LTV)
	fmt.Fprintf(w, "Credit Score:\t%s\n", view.Display.CreditScore)
	fmt.Fprintf(w, "Occupancy:\t%s\n", view.Display.Occupancy)
	fmt.Fprintf(w, "Loan Amount:\t%s\n", view.Display.LoanAmount)
	fmt.Fprintf(w, "Property Value:\t%s\n", view.Display.PropertyValue)
	if view.EvaluatedAt != "" {
		fmt.Fprintf(w, "Evaluated At:\t%s\n", view.Display.EvaluatedAt)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(view.Reasons) > 0 {
		fmt.Fprintln(out, "Reasons:")
		for _, reason := range view.Reasons {
			fmt.Fprintf(out, "  - %s\n", reason)
		}
	}
	return nil
}

func renderHistory(out io.Writer, views []report.RecordView) error {
	if len(views) == 0 {
		_, err := fmt.Fprintln(out, emptyHistory)
		return err
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Date\tDecision\tDTI\tLTV\tFICO\tLoan\tProperty\tOccupancy")
	for _, view := range views {
		d := view.Display
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.EvaluatedAt, d.Decision, d.DTI, d.LTV, d.CreditScore, d.LoanAmount, d.PropertyValue, d.Occupancy)
	}
	return w.Flush()
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
