// Package cli implements the underwrite terminal client.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanqian/underwriting-gateway/internal/domain/underwriting"
)

const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Options are the persistent flags shared by every command.
type Options struct {
	Output  string
	BaseURL string
	EnvFile string
}

// ServiceFactory builds the underwriting service once flags are parsed.
type ServiceFactory func(opts Options) (underwriting.Service, error)

// NewRootCmd assembles the underwrite command tree.
func NewRootCmd(factory ServiceFactory) *cobra.Command {
	opts := &Options{}
	root := &cobra.Command{
		Use:           "underwrite",
		Short:         "Submit loan applications and review underwriting decisions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			switch opts.Output {
			case OutputTable, OutputJSON:
				return nil
			default:
				return fmt.Errorf("unsupported output %q (use %s or %s)", opts.Output, OutputTable, OutputJSON)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.Output, "output", "o", OutputTable, "output format: table or json")
	flags.StringVar(&opts.BaseURL, "base-url", "", "underwriting API base URL (overrides UNDERWRITING_API_BASE_URL)")
	flags.StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load before reading configuration")

	root.AddCommand(
		newPingCmd(opts, factory),
		newSubmitCmd(opts, factory),
		newHistoryCmd(opts, factory),
	)
	return root
}
