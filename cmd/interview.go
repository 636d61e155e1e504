package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kweku404/intervue/internal/ai"
	"github.com/kweku404/intervue/internal/app"
	"github.com/kweku404/intervue/internal/intake"
	"github.com/kweku404/intervue/internal/session"
	"github.com/kweku404/intervue/pkg/models"
	"github.com/spf13/cobra"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run the timed interview session",
	Long:  "Start a new timed interview, or resume one that is still in progress",
}

var startInterviewCmd = &cobra.Command{
	Use:   "start",
	Short: "Start (or resume) the interview",
	Long: `Starts a timed interview over AI-generated questions. Each question has a
fixed time budget; when it runs out the current input is auto-submitted and
the interview moves on. An interview interrupted by quitting the process is
resumed from its persisted state, with the clock still counting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application := app.GetAppFromContext(cmd.Context())
		if application == nil {
			return fmt.Errorf("application not initialized")
		}

		snap, err := loadState(application)
		if err != nil {
			return err
		}
		resume := &snap.Resume

		// A finished session is terminal; a new interview always gets a
		// fresh session instance.
		sess := &snap.Interview
		if sess.Status == session.StatusFinished {
			fresh := session.NewSession()
			sess = &fresh
		}

		runner := session.NewRunner(sess, resume, application.AI, application.Store)
		runner.OnMessage(printChatMsg)
		runner.OnTick(renderRemaining)

		if sess.Status == session.StatusRunning {
			fmt.Println(titleStyle.Render("Resuming Interview"))
			runner.Resume()
		} else {
			if !resume.CanStart() {
				if resume.Status != intake.StatusParsed {
					return fmt.Errorf("%w: run 'intervue resume add <file>' first", app.ErrNoResume)
				}
				return fmt.Errorf("%w (%s): run 'intervue resume fill' first", app.ErrMissingFields, missingList(resume))
			}

			fmt.Println(titleStyle.Render("Interview"))
			fmt.Println("Fetching AI-generated questions...")

			qas, err := application.AI.FetchQuestions(resume.FullText)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: question generation failed (%v). Using fallback demo questions.\n", err)
				qas = ai.FallbackQuestions()
				runner.Post(models.RoleAssistant, "Using fallback demo questions.")
			} else {
				runner.Post(models.RoleAssistant, "Interview started with AI-generated questions.")
			}

			runner.Start(qas)
		}

		// Read answers line by line while the countdown runs
		lines := make(chan string)
		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				lines <- scanner.Text()
			}
			close(lines)
		}()

		for {
			select {
			case line, ok := <-lines:
				if !ok {
					// Input closed: detach and leave the session resumable.
					runner.Detach()
					fmt.Println("\nInterview paused. Run 'intervue interview start' to resume.")
					return nil
				}
				runner.Submit(strings.TrimSpace(line), false)
			case <-runner.Done():
				fmt.Println()
				return nil
			}
		}
	},
}

var statusInterviewCmd = &cobra.Command{
	Use:   "status",
	Short: "Show interview progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		application := app.GetAppFromContext(cmd.Context())
		if application == nil {
			return fmt.Errorf("application not initialized")
		}

		snap, err := loadState(application)
		if err != nil {
			return err
		}
		sess := &snap.Interview

		fmt.Println(titleStyle.Render("Interview Status"))
		switch sess.Status {
		case session.StatusIdle:
			fmt.Println("No interview started. Use 'intervue interview start' to begin.")
		case session.StatusRunning:
			fmt.Printf("%s %d/%d\n", labelStyle.Render("Question:"), sess.CurrentIndex+1, len(sess.QAs))
			if cur, ok := sess.Current(); ok {
				fmt.Printf("%s %s\n", labelStyle.Render("Current:"), cur.Question)
			}
			fmt.Println("Run 'intervue interview start' to resume.")
		case session.StatusFinished:
			fmt.Printf("%s", labelStyle.Render("Finished."))
			if sess.FinalScore != nil {
				fmt.Printf(" Final Score: %d/10", *sess.FinalScore)
			}
			fmt.Println()
			if sess.Summary != "" {
				fmt.Printf("%s %s\n", labelStyle.Render("Summary:"), sess.Summary)
			}
			if sess.CandidateID != "" {
				fmt.Printf("%s %s\n", labelStyle.Render("Candidate:"), sess.CandidateID)
			}
		}
		return nil
	},
}

func printChatMsg(msg models.ChatMsg) {
	// Clear any countdown rendering on the current line first
	fmt.Print("\r\033[K")
	switch msg.Role {
	case models.RoleAssistant:
		fmt.Println(questionStyle.Render(msg.Text))
	case models.RoleUser:
		fmt.Printf("%s %s\n", labelStyle.Render(">"), msg.Text)
	default:
		fmt.Println(valueStyle.Render(msg.Text))
	}
}

func renderRemaining(remaining int) {
	fmt.Printf("\r%s ", timerStyle.Render(fmt.Sprintf("⏳ %3ds remaining", remaining)))
}

func init() {
	rootCmd.AddCommand(interviewCmd)
	interviewCmd.AddCommand(startInterviewCmd)
	interviewCmd.AddCommand(statusInterviewCmd)
}
