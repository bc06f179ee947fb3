// Package main provides the lifeplan binary: a CLI around the lifetime
// household projection engine.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lifeplan/household-calculator/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "lifeplan",
	Short: "Lifetime household financial projection and classification",
	Long: `lifeplan projects a household's financial life from age 30 to 85:
life events, loans, and income declarations become a year-by-year cash-flow
ledger, a deficit analysis, and a compact wealth type classification.`,
	SilenceUsage: true,
}

// stderrLogger adapts the standard logger to the engine's Logger interface.
type stderrLogger struct {
	verbose bool
}

func (l stderrLogger) Debugf(format string, args ...any) {
	if l.verbose {
		log.Printf("DEBUG "+format, args...)
	}
}
func (l stderrLogger) Infof(format string, args ...any)  { log.Printf("INFO "+format, args...) }
func (l stderrLogger) Warnf(format string, args ...any)  { log.Printf("WARN "+format, args...) }
func (l stderrLogger) Errorf(format string, args ...any) { log.Printf("ERROR "+format, args...) }

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file without projecting",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		if _, err := config.NewInputParser().LoadFromFile(input); err != nil {
			return err
		}
		fmt.Println("configuration is valid")
		return nil
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Write an example configuration to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.NewInputParser().CreateExampleConfiguration()
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	log.SetFlags(0)

	validateCmd.Flags().StringP("input", "i", "lifeplan.yaml", "configuration file")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
