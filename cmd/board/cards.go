package main

import (
	"fmt"
	"strings"

	"github.com/baiirun/board/internal/board"
	"github.com/baiirun/board/internal/model"
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the board database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.svc.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized board at %s (%d projects)\n", a.cfg.DB.Path, len(projects))
			return nil
		},
	}
}

func newProjectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.svc.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(out, projects)
			}
			for _, p := range projects {
				fmt.Fprintf(out, "%-3s %s %-20s %s\n", p.ID, p.Icon, p.Name, p.Slug)
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var project, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards in board order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := model.CardFilter{ProjectID: project}
			if status != "" {
				s := model.Status(status)
				f.Status = &s
			}
			cards, err := a.svc.ListCards(cmd.Context(), f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(out, cards)
			}
			if len(cards) == 0 {
				fmt.Fprintln(out, "No cards")
				return nil
			}
			for _, c := range cards {
				fmt.Fprintln(out, formatCardLine(c))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "filter by project id")
	cmd.Flags().StringVarP(&status, "status", "s", "", "filter by status (idea, todo, in-progress, done)")
	return cmd
}

func formatCardLine(c model.Card) string {
	project := c.ProjectID
	if c.Project != nil {
		project = c.Project.Slug
	}
	votes := ""
	if c.Votes > 0 {
		votes = fmt.Sprintf(" 👍%d", c.Votes)
	}
	return fmt.Sprintf("[%-11s] %s  %s (%s, %s)%s", c.Status, c.ID, c.Title, project, c.Priority, votes)
}

func newAddCmd(a *app) *cobra.Command {
	var project, description, priority, status, createdBy string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a new card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := board.CreateCardInput{
				Title:     strings.Join(args, " "),
				ProjectID: project,
				Priority:  model.Priority(priority),
				Status:    model.Status(status),
			}
			if description != "" {
				in.Description = &description
			}
			if createdBy != "" {
				in.CreatedBy = &createdBy
			}

			card, err := a.svc.CreateCard(cmd.Context(), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(out, card)
			}
			fmt.Fprintf(out, "Created card %s\n", card.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "5", "project id (see 'board projects')")
	cmd.Flags().StringVarP(&description, "description", "d", "", "card description")
	cmd.Flags().StringVar(&priority, "priority", "", "priority (high, medium, low)")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default idea)")
	cmd.Flags().StringVar(&createdBy, "by", "", "creator name")
	return cmd
}

// CardDetailJSON is the JSON output of 'board show'.
type CardDetailJSON struct {
	*model.Card
	Comments []model.Comment `json:"comments"`
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show card details and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := a.svc.GetCard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			comments, err := a.svc.Comments(cmd.Context(), card.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(out, CardDetailJSON{Card: card, Comments: comments})
			}

			fmt.Fprintf(out, "%s\n\n", card.Title)
			fmt.Fprintf(out, "ID:       %s\n", card.ID)
			if card.Project != nil {
				fmt.Fprintf(out, "Project:  %s %s\n", card.Project.Icon, card.Project.Name)
			}
			fmt.Fprintf(out, "Status:   %s\n", card.Status)
			fmt.Fprintf(out, "Priority: %s\n", card.Priority)
			fmt.Fprintf(out, "Votes:    %d\n", card.Votes)
			if card.CreatedBy != nil {
				fmt.Fprintf(out, "By:       %s\n", *card.CreatedBy)
			}
			fmt.Fprintf(out, "Created:  %s\n", card.CreatedAt.Local().Format("2006-01-02 15:04"))
			if card.Description != nil && *card.Description != "" {
				fmt.Fprintf(out, "\n%s\n", *card.Description)
			}
			if len(comments) > 0 {
				fmt.Fprintln(out, "\nComments:")
				for _, c := range comments {
					fmt.Fprintf(out, "  %s %s: %s\n", c.CreatedAt.Local().Format("2006-01-02 15:04"), c.Author, c.Content)
				}
			}
			return nil
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var title, description, project, status, priority string
	var position float64
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update card fields",
		Long:  `Update one or more fields of a card. Status can be set to any column directly.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u model.CardUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			if flags.Changed("project") {
				u.ProjectID = &project
			}
			if flags.Changed("status") {
				s := model.Status(status)
				u.Status = &s
			}
			if flags.Changed("priority") {
				p := model.Priority(priority)
				u.Priority = &p
			}
			if flags.Changed("position") {
				u.Position = &position
			}
			if u.IsEmpty() {
				return fmt.Errorf("nothing to update (use --title, --description, --project, --status, --priority or --position)")
			}

			if err := a.svc.UpdateCard(cmd.Context(), args[0], u); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(out, map[string]any{"id": args[0], "success": true})
			}
			fmt.Fprintf(out, "Updated %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&project, "project", "", "new project id")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	cmd.Flags().Float64Var(&position, "position", 0, "new board position")
	return cmd
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <left|right>",
		Short: "Move a card one column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := model.ParseDirection(args[1])
			if err != nil {
				return err
			}
			card, err := a.svc.MoveCard(cmd.Context(), args[0], dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOut {
				return printJSON(out, card)
			}
			fmt.Fprintf(out, "%s is now %s\n", card.ID, card.Status)
			return nil
		},
	}
}

// StatusJSON is the JSON output of 'board status'.
type StatusJSON struct {
	ProjectID  string         `json:"project_id,omitempty"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
	TopVoted   []model.Card   `json:"top_voted"`
	RecentDone []model.Card   `json:"recent_done"`
}

func newStatusCmd(a *app) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show board overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if project != "" {
				if _, err := a.store.GetProject(project); err != nil {
					return err
				}
			}
			report, err := a.store.BoardStatus(project)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				counts := map[string]int{}
				for s, n := range report.Counts {
					counts[string(s)] = n
				}
				return printJSON(out, StatusJSON{
					ProjectID:  report.ProjectID,
					Counts:     counts,
					Total:      report.Total,
					TopVoted:   report.TopVoted,
					RecentDone: report.RecentDone,
				})
			}

			fmt.Fprintf(out, "%d cards\n", report.Total)
			for _, s := range model.StatusOrder {
				fmt.Fprintf(out, "  %-11s %d\n", s, report.Counts[s])
			}
			if len(report.TopVoted) > 0 {
				fmt.Fprintln(out, "\nMost voted:")
				for _, c := range report.TopVoted {
					fmt.Fprintf(out, "  %s (%s) 👍%d\n", c.Title, c.ID, c.Votes)
				}
			}
			if len(report.RecentDone) > 0 {
				fmt.Fprintln(out, "\nRecently done:")
				for _, c := range report.RecentDone {
					fmt.Fprintf(out, "  %s (%s)\n", c.Title, c.ID)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "limit to a project id")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card with its votes and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.DeleteCard(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every card on the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear the board without --yes")
			}
			if err := a.svc.DeleteAllCards(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Board cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all cards")
	return cmd
}
