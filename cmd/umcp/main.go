package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"umcp/internal"
	"umcp/internal/config"
)

var logger = internal.NewDefaultLogger()

func main() {
	// Optional .env, same lookup the services use for ledger paths.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "umcp",
		Short: "UMCP continuity validator for collapse-audit CSV series",
		Long: `umcp validates collapse-audit series: per-boundary weld continuity,
pointwise transport identities, Hoeffding parity certificates and the
invariant derivation pipeline that produces audit rows from raw channels.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "JSON config file with tolerances, gates and kernel")

	rootCmd.AddCommand(
		newWeldCmd(),
		newValidateCmd(),
		newParityCmd(),
		newGateCmd(),
		newTurboCmd(),
		newPlaygroundCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the --config flag into a full config, falling back to
// defaults plus environment overrides when no file is given.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
