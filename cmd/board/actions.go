package main

import (
	"fmt"
	"strings"

	"github.com/baiirun/board/internal/model"
	"github.com/spf13/cobra"
)

// ProcessJSON is the JSON output of 'board process'.
type ProcessJSON struct {
	Success  bool        `json:"success"`
	Card     *model.Card `json:"card"`
	Matched  []string    `json:"matched"`
	Executed []string    `json:"executed"`
	Errors   []string    `json:"errors"`
	Message  string      `json:"message"`
	Promoted bool        `json:"promoted"`
}

func newProcessCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "process <id>",
		Short: "Run every action the card's title asks for",
		Long: `Match the card title against the action keywords (post, deploy, blog, fix,
research, schedule, integrate, analyze, build, create), run each matching
action, and promote idea cards to in-progress.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.ProcessCard(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				matched := make([]string, 0, len(res.Matched))
				for _, c := range res.Matched {
					matched = append(matched, c.String())
				}
				return printJSON(out, ProcessJSON{
					Success:  res.Success,
					Card:     res.Card,
					Matched:  matched,
					Executed: res.Executed,
					Errors:   res.Errors,
					Message:  res.Message,
					Promoted: res.Promoted,
				})
			}
			fmt.Fprintln(out, res.Message)
			if res.Promoted {
				fmt.Fprintf(out, "\n%s moved to %s\n", res.Card.ID, res.Card.Status)
			}
			return nil
		},
	}
}

// ExecJSON is the JSON output of 'board exec'.
type ExecJSON struct {
	Success  bool     `json:"success"`
	Category string   `json:"category"`
	Result   string   `json:"result"`
	Errors   []string `json:"errors"`
}

func newExecCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <task>",
		Short: "Run the single best-matching action for free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exec, err := a.svc.ExecuteTask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(out, ExecJSON{
					Success:  len(exec.Errors) == 0,
					Category: exec.Category.String(),
					Result:   exec.Result,
					Errors:   exec.Errors,
				})
			}
			fmt.Fprintln(out, exec.Result)
			return nil
		},
	}
}
