package cmd

import (
	"fmt"

	"github.com/kweku404/intervue/internal/app"
	"github.com/kweku404/intervue/internal/store"
	"github.com/spf13/cobra"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Browse the candidate roster",
	Long:  "List and inspect finalized interview records",
}

var listRosterCmd = &cobra.Command{
	Use:   "list",
	Short: "List interviewed candidates",
	Example: `  intervue roster list
  intervue roster list --search jane
  intervue roster list --sort created_at --dir asc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application := app.GetAppFromContext(cmd.Context())
		if application == nil {
			return fmt.Errorf("application not initialized")
		}

		search, _ := cmd.Flags().GetString("search")
		sortBy, _ := cmd.Flags().GetString("sort")
		dir, _ := cmd.Flags().GetString("dir")

		candidates, err := application.Store.ListCandidates(store.RosterQuery{
			Search: search,
			SortBy: sortBy,
			Dir:    dir,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch candidates: %w", err)
		}

		if len(candidates) == 0 {
			if search != "" {
				fmt.Printf("No candidates matching %q\n", search)
			} else {
				fmt.Println("No candidates yet. Finish an interview with 'intervue interview start'")
			}
			return nil
		}

		fmt.Println(titleStyle.Render("Candidate Roster"))
		for _, c := range candidates {
			fmt.Printf("• %s  %s\n", labelStyle.Render(c.Name), valueStyle.Render(fmt.Sprintf("%d/10", c.FinalScore)))
			fmt.Printf("  %s %s | %s | %s\n", labelStyle.Render("ID:"), c.ID, c.Email, c.CreatedAt.Format("Jan 2 2006"))
			if c.Summary != "" {
				fmt.Printf("  %s\n", valueStyle.Render(c.Summary))
			}
		}
		fmt.Printf("\n%s %d\n", labelStyle.Render("Total:"), len(candidates))
		return nil
	},
}

var showRosterCmd = &cobra.Command{
	Use:   "show <candidate-id>",
	Short: "Show a candidate's full interview record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application := app.GetAppFromContext(cmd.Context())
		if application == nil {
			return fmt.Errorf("application not initialized")
		}

		c, err := application.Store.GetCandidate(args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch candidate: %w", err)
		}
		if c == nil {
			return fmt.Errorf("no candidate with ID %s", args[0])
		}

		fmt.Println(titleStyle.Render(c.Name))
		fmt.Printf("%s %s\n", labelStyle.Render("Email:"), c.Email)
		fmt.Printf("%s %s\n", labelStyle.Render("Phone:"), c.Phone)
		fmt.Printf("%s %d/10\n", labelStyle.Render("Final Score:"), c.FinalScore)
		fmt.Printf("%s %s\n", labelStyle.Render("Interviewed:"), c.CreatedAt.Format("Jan 2 2006 15:04"))
		if c.Summary != "" {
			fmt.Printf("\n%s\n%s\n", labelStyle.Render("Summary"), c.Summary)
		}

		if len(c.QAs) > 0 {
			fmt.Printf("\n%s\n", labelStyle.Render("Questions"))
			for i, qa := range c.QAs {
				fmt.Printf("%d. [%s] %s\n", i+1, qa.Difficulty, qa.Question)
				answer := "(no answer)"
				if qa.Answer != nil && *qa.Answer != "" {
					answer = *qa.Answer
				}
				fmt.Printf("   %s %s\n", labelStyle.Render("Answer:"), valueStyle.Render(answer))
				if qa.Score != nil {
					fmt.Printf("   %s %d/10", labelStyle.Render("Score:"), *qa.Score)
					if qa.Feedback != "" {
						fmt.Printf(" - %s", qa.Feedback)
					}
					fmt.Println()
				}
			}
		}

		if len(c.Chat) > 0 {
			fmt.Printf("\n%s\n", labelStyle.Render("Transcript"))
			for _, msg := range c.Chat {
				fmt.Printf("  %s [%s] %s\n", msg.TS.Format("15:04:05"), msg.Role, msg.Text)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.AddCommand(listRosterCmd)
	rosterCmd.AddCommand(showRosterCmd)

	// Flags for list command
	listRosterCmd.Flags().String("search", "", "Filter by name, email, phone or summary")
	listRosterCmd.Flags().String("sort", "score", "Sort by: score, name, created_at")
	listRosterCmd.Flags().String("dir", "desc", "Sort direction: asc or desc")
}
