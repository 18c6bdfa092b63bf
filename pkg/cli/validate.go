package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockgate/pkg/config"
	"github.com/getmockd/mockgate/pkg/logging"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config>",
	Short: "Check a configuration file without starting the server",
	Long: `Check a configuration file without starting the server.

The file is parsed and validated, and every replay file it names is loaded.
Gateways are constructed but never contacted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}
		c, err := buildChain(cfg, logging.Nop(), nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d handlers)\n", args[0], len(c.handlers))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
