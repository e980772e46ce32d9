package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewSharedStepCmd создаёт группу команд для управления shared steps.
func NewSharedStepCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shared-step",
		Short: "Manage shared steps",
	}

	cmd.AddCommand(
		newSharedStepListCmd(clientFn, outputFn),
		newSharedStepCreateCmd(clientFn, outputFn),
		newSharedStepShowCmd(clientFn, outputFn),
		newSharedStepUpdateCmd(clientFn, outputFn),
		newSharedStepDeleteCmd(clientFn, outputFn),
	)

	return cmd
}

var sharedStepHeaders = []string{"ID", "NAME", "STEPS", "REFS", "UPDATED"}

func sharedStepSummaryRow(s SharedStepSummaryResponse) []string {
	return []string{
		s.ID,
		s.Name,
		strconv.FormatInt(s.StepCount, 10),
		strconv.FormatInt(s.RefCount, 10),
		s.UpdatedAt,
	}
}

func newSharedStepListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all shared steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			steps, err := client.ListSharedSteps()
			if err != nil {
				return err
			}

			rows := make([][]string, len(steps))
			for i, s := range steps {
				rows[i] = sharedStepSummaryRow(s)
			}

			out.Print(sharedStepHeaders, rows, steps)
			return nil
		},
	}
}

func newSharedStepCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name, description, stepsFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new shared step",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateSharedStepRequest{
				Name:        name,
				Description: description,
			}
			if stepsFile != "" {
				steps, err := readStepsFile(stepsFile)
				if err != nil {
					return err
				}
				req.Steps = steps
			}

			ss, err := client.CreateSharedStep(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Shared step created: %s", ss.ID))
			if out.jsonMode {
				out.JSON(ss)
			} else {
				out.Table([]string{"ID", "NAME", "DESCRIPTION"}, [][]string{{ss.ID, ss.Name, ss.Description}})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Shared step name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Shared step description")
	cmd.Flags().StringVar(&stepsFile, "steps-file", "", "Path to a JSON file with the definition steps")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newSharedStepShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a shared step with its definition steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			ss, err := client.GetSharedStep(args[0])
			if err != nil {
				return err
			}

			if out.jsonMode {
				out.JSON(ss)
			} else {
				out.Table([]string{"ID", "NAME", "DESCRIPTION"}, [][]string{{ss.ID, ss.Name, ss.Description}})
			}
			return nil
		},
	}
}

func newSharedStepUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name, description, stepsFile string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update shared step metadata and optionally replace its definition steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var req UpdateSharedStepRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("steps-file") {
				steps, err := readStepsFile(stepsFile)
				if err != nil {
					return err
				}
				req.Steps = steps
			}

			ss, err := client.UpdateSharedStep(args[0], req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Shared step updated: %s", ss.ID))
			if out.jsonMode {
				out.JSON(ss)
			} else {
				out.Table([]string{"ID", "NAME", "DESCRIPTION"}, [][]string{{ss.ID, ss.Name, ss.Description}})
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&stepsFile, "steps-file", "", "Path to a JSON file with the new definition steps")

	return cmd
}

func newSharedStepDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a shared step (fails while test cases reference it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteSharedStep(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Shared step deleted: %s", args[0]))
			return nil
		},
	}
}
