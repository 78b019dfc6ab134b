package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanqian/underwriting-gateway/internal/domain/report"
	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
)

// ErrOffline is returned by ping when the underwriting API does not answer.
var ErrOffline = errors.New("underwriting API is offline")

type evaluationOutput struct {
	Result       report.RecordView   `json:"result"`
	History      []report.RecordView `json:"history"`
	HistoryError string              `json:"historyError,omitempty"`
}

type historyOutput struct {
	Evaluations []report.RecordView `json:"evaluations"`
}

func newPingCmd(opts *Options, factory ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check whether the underwriting API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := factory(*opts)
			if err != nil {
				return err
			}
			online := svc.Healthy(cmd.Context())
			out := cmd.OutOrStdout()
			if opts.Output == OutputJSON {
				status := "offline"
				if online {
					status = "online"
				}
				if err := writeJSON(out, map[string]string{"api": status}); err != nil {
					return err
				}
			} else if online {
				fmt.Fprintln(out, "API online")
			} else {
				fmt.Fprintln(out, "API offline")
			}
			if !online {
				return ErrOffline
			}
			return nil
		},
	}
}

func newSubmitCmd(opts *Options, factory ServiceFactory) *cobra.Command {
	var form underwriting.FormValues
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a loan application for an underwriting decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := factory(*opts)
			if err != nil {
				return err
			}
			eval, err := svc.Evaluate(cmd.Context(), form)
			if err != nil {
				return err
			}

			output := evaluationOutput{
				Result:       report.NewView(eval.Result),
				History:      report.NewViews(eval.History),
				HistoryError: eval.HistoryError,
			}
			out := cmd.OutOrStdout()
			if opts.Output == OutputJSON {
				return writeJSON(out, output)
			}
			if err := renderDecision(out, output.Result); err != nil {
				return err
			}
			fmt.Fprintln(out)
			if output.HistoryError != "" {
				fmt.Fprintf(out, "History unavailable: %s\n", output.HistoryError)
				return nil
			}
			return renderHistory(out, output.History)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.UserID, "user-id", "", "borrower identifier")
	flags.StringVar(&form.MonthlyIncome, "monthly-income", "", "gross monthly income")
	flags.StringVar(&form.MonthlyDebts, "monthly-debts", "", "total monthly debt payments")
	flags.StringVar(&form.LoanAmount, "loan-amount", "", "requested loan amount")
	flags.StringVar(&form.PropertyValue, "property-value", "", "appraised property value")
	flags.StringVar(&form.CreditScore, "credit-score", "", "FICO credit score")
	flags.StringVar(&form.OccupancyType, "occupancy", "", "primary_residence, second_home or investment_property")
	return cmd
}

func newHistoryCmd(opts *Options, factory ServiceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "history <user-id>",
		Short: "List previous underwriting decisions for a borrower",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory(*opts)
			if err != nil {
				return err
			}
			history, err := svc.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			views := report.NewViews(history)
			if opts.Output == OutputJSON {
				return writeJSON(cmd.OutOrStdout(), historyOutput{Evaluations: views})
			}
			return renderHistory(cmd.OutOrStdout(), views)
		},
	}
}
