package cli

import (
	"github.com/spf13/cobra"
)

// NewDefinitionsCmd создаёт команду просмотра каталога шагов.
func NewDefinitionsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "definitions",
		Short: "Show the step catalog (actions, assertions, key options)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			defs, err := client.GetDefinitions()
			if err != nil {
				return err
			}

			// Каталог — вложенный JSON, таблицей его не показать.
			out.JSON(defs)
			return nil
		},
	}
}
