package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/baiirun/board/internal/board"
	"github.com/spf13/cobra"
)

func newVoteCmd(a *app) *cobra.Command {
	var voter string
	cmd := &cobra.Command{
		Use:   "vote <id>",
		Short: "Vote for a card (one vote per voter)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			recorded, err := a.svc.Vote(ctx, args[0], voter)
			if err != nil {
				return err
			}
			count, err := a.svc.VoteCount(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(out, map[string]any{"success": true, "recorded": recorded, "count": count})
			}
			if recorded {
				fmt.Fprintf(out, "Voted for %s (%d votes)\n", args[0], count)
			} else {
				fmt.Fprintf(out, "Already voted for %s (%d votes)\n", args[0], count)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&voter, "as", defaultIdentity(), "voter identity")
	return cmd
}

func newCommentCmd(a *app) *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Add a comment to a card",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.svc.AddComment(cmd.Context(), args[0], author, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(out, c)
			}
			fmt.Fprintf(out, "Commented on %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", defaultIdentity(), "comment author")
	return cmd
}

func newCommentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comments <id>",
		Short: "List a card's comments, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comments, err := a.svc.Comments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(out, comments)
			}
			if len(comments) == 0 {
				fmt.Fprintln(out, "No comments")
				return nil
			}
			for _, c := range comments {
				fmt.Fprintf(out, "%s %s: %s\n", c.CreatedAt.Local().Format("2006-01-02 15:04"), c.Author, c.Content)
			}
			return nil
		},
	}
}

// defaultIdentity is $USER, or anonymous when unset.
func defaultIdentity() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return board.AnonymousVoter
}
