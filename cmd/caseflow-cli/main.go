// Caseflow CLI — инструмент командной строки для управления
// тест-кейсами, shared steps и порядком выполнения через HTTP API.
//
// Использование:
//
//	caseflow [--api-url URL] [--actor-id UUID] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	case         Управление тест-кейсами
//	shared-step  Управление shared steps
//	definitions  Каталог действий и проверок
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Caseflow/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var actorID string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "caseflow",
		Short:         "Caseflow CLI — test case tracking tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().StringVar(&actorID, "actor-id", "", "Actor UUID sent as X-Actor-ID")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL, actorID) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewCaseCmd(clientFn, outputFn),
		cli.NewSharedStepCmd(clientFn, outputFn),
		cli.NewDefinitionsCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
