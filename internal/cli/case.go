package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewCaseCmd создаёт группу команд для управления тест-кейсами.
func NewCaseCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Manage test cases",
	}

	cmd.AddCommand(
		newCaseListCmd(clientFn, outputFn),
		newCaseCreateCmd(clientFn, outputFn),
		newCaseShowCmd(clientFn, outputFn),
		newCaseUpdateCmd(clientFn, outputFn),
		newCaseStepsCmd(clientFn, outputFn),
		newCaseDeleteCmd(clientFn, outputFn),
		newCaseBulkDeleteCmd(clientFn, outputFn),
		newCaseDuplicateCmd(clientFn, outputFn),
		newCaseReorderCmd(clientFn, outputFn),
		newCaseRebalanceCmd(clientFn, outputFn),
	)

	return cmd
}

var caseHeaders = []string{"CASE", "TITLE", "SUITE", "PRIORITY", "STATUS", "ORDER"}

func caseRow(tc CaseResponse) []string {
	return []string{
		tc.CaseID,
		tc.Title,
		tc.Suite,
		tc.Priority,
		tc.Status,
		strconv.FormatFloat(tc.ExecutionOrder, 'g', -1, 64),
	}
}

// readStepsFile читает JSON-список шагов из файла.
// Содержимое не разбирается: валидация — дело сервера.
func readStepsFile(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read steps file: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("steps file %s is not valid JSON", path)
	}
	return json.RawMessage(data), nil
}

func newCaseListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all test cases in execution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			cases, err := client.ListCases()
			if err != nil {
				return err
			}

			rows := make([][]string, len(cases))
			for i, tc := range cases {
				rows[i] = caseRow(tc)
			}

			out.Print(caseHeaders, rows, cases)
			return nil
		},
	}
}

func newCaseCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var title, description, suite, priority, stepsFile string
	var tags []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new test case",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := CreateCaseRequest{
				Title:       title,
				Description: description,
				Suite:       suite,
				Priority:    priority,
				Tags:        tags,
			}
			if stepsFile != "" {
				steps, err := readStepsFile(stepsFile)
				if err != nil {
					return err
				}
				req.Steps = steps
			}

			tc, err := client.CreateCase(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Test case created: %s", tc.CaseID))
			out.Print(caseHeaders, [][]string{caseRow(*tc)}, tc)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Case title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Case description")
	cmd.Flags().StringVar(&suite, "suite", "", "Suite name")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: low, medium, high, critical")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags (comma-separated)")
	cmd.Flags().StringVar(&stepsFile, "steps-file", "", "Path to a JSON file with the step list")
	cmd.MarkFlagRequired("title")

	return cmd
}

func newCaseShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show CASE",
		Short: "Show a test case with its step tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			tc, err := client.GetCase(args[0])
			if err != nil {
				return err
			}

			out.Print(caseHeaders, [][]string{caseRow(tc.CaseResponse)}, tc)
			return nil
		},
	}
}

func newCaseUpdateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var title, description, suite, priority, status string
	var tags []string

	cmd := &cobra.Command{
		Use:   "update CASE",
		Short: "Update test case metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var req UpdateCaseRequest
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("suite") {
				req.Suite = &suite
			}
			if cmd.Flags().Changed("priority") {
				req.Priority = &priority
			}
			if cmd.Flags().Changed("status") {
				req.Status = &status
			}
			if cmd.Flags().Changed("tags") {
				req.Tags = tags
			}

			tc, err := client.UpdateCase(args[0], req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Test case updated: %s", tc.CaseID))
			out.Print(caseHeaders, [][]string{caseRow(tc.CaseResponse)}, tc)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&suite, "suite", "", "New suite")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&status, "status", "", "New status: pending, passed, failed, skipped")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "New tags (comma-separated)")

	return cmd
}

func newCaseStepsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var stepsFile string

	cmd := &cobra.Command{
		Use:   "steps CASE",
		Short: "Replace the full step list of a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			steps, err := readStepsFile(stepsFile)
			if err != nil {
				return err
			}

			tc, err := client.ReplaceSteps(args[0], steps)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Steps replaced: %s", tc.CaseID))
			out.Print(caseHeaders, [][]string{caseRow(tc.CaseResponse)}, tc)
			return nil
		},
	}

	cmd.Flags().StringVar(&stepsFile, "steps-file", "", "Path to a JSON file with the step list (required)")
	cmd.MarkFlagRequired("steps-file")

	return cmd
}

func newCaseDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "delete CASE",
		Short: "Delete a test case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.DeleteCase(args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Test case deleted: %s", args[0]))
			return nil
		},
	}
}

func newCaseBulkDeleteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-delete CASE...",
		Short: "Delete several test cases at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.BulkDeleteCases(args)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Deleted: %s", strings.Join(args, ", ")))
			if out.jsonMode {
				out.JSON(result)
			}
			return nil
		},
	}
}

func newCaseDuplicateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate CASE",
		Short: "Duplicate a test case right after the original",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			dup, err := client.DuplicateCase(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Test case duplicated: %s -> %s", args[0], dup.CaseID))
			out.Print(caseHeaders, [][]string{caseRow(*dup)}, dup)
			return nil
		},
	}
}

func newCaseReorderCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var prev, next string

	cmd := &cobra.Command{
		Use:   "reorder CASE...",
		Short: "Move test cases between two anchor cases",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			req := ReorderRequest{MovedIDs: args}
			if prev != "" {
				req.PrevID = &prev
			}
			if next != "" {
				req.NextID = &next
			}

			result, err := client.ReorderCases(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Reordered: %s", strings.Join(args, ", ")))
			if out.jsonMode {
				out.JSON(result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prev, "prev", "", "Anchor case that precedes the moved block")
	cmd.Flags().StringVar(&next, "next", "", "Anchor case that follows the moved block")

	return cmd
}

func newCaseRebalanceCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "rebalance",
		Short: "Rewrite execution order keys as dense integers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.RebalanceOrder()
			if err != nil {
				return err
			}

			out.Success("Execution order rebalanced")
			if out.jsonMode {
				out.JSON(result)
			}
			return nil
		},
	}
}
