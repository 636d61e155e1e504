package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kweku404/intervue/internal/app"
	"github.com/kweku404/intervue/internal/config"
	"github.com/kweku404/intervue/internal/intake"
	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Upload and manage the candidate resume",
	Long:  "Upload a resume, review extracted contact details, and fill in anything missing",
}

var addResumeCmd = &cobra.Command{
	Use:   "add <file-path>",
	Short: "Upload a resume and extract contact details",
	Args:  cobra.ExactArgs(1),
	Example: `  intervue resume add ~/Documents/resume.pdf
  intervue resume add ./resume.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application := app.GetAppFromContext(cmd.Context())
		if application == nil {
			return fmt.Errorf("application not initialized")
		}
		filePath := args[0]

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", filePath)
		}

		snap, err := loadState(application)
		if err != nil {
			return err
		}
		resume := &snap.Resume

		// Keep a copy of the upload alongside the database
		destPath, err := copyResumeFile(filePath)
		if err != nil {
			return err
		}

		fileName := filepath.Base(filePath)
		resume.StartParsing(fileName)

		parser, err := intake.ParserFor(destPath)
		if err != nil {
			resume.SetError(err.Error())
			application.Store.SaveSnapshot(*resume, snap.Interview)
			return err
		}

		text, err := parser.Parse(destPath)
		if err != nil {
			resume.SetError(err.Error())
			application.Store.SaveSnapshot(*resume, snap.Interview)
			return fmt.Errorf("could not read resume: %w", err)
		}

		fields := intake.ExtractFields(text)
		resume.SetParsed(text, fields)
		if err := application.Store.SaveSnapshot(*resume, snap.Interview); err != nil {
			return fmt.Errorf("failed to persist state: %w", err)
		}

		fmt.Println(titleStyle.Render("Resume Parsed"))
		printField(intake.FieldName, resume.Fields.Name)
		printField(intake.FieldEmail, resume.Fields.Email)
		printField(intake.FieldPhone, resume.Fields.Phone)

		if resume.CanStart() {
			fmt.Println("\n✓ All contact details found. Start the interview with 'intervue interview start'")
		} else {
			fmt.Printf("\nMissing: %s\n", missingList(resume))
			fmt.Println("Fill them in with 'intervue resume fill'")
		}
		return nil
	},
}

var fillResumeCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill in missing contact details conversationally",
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

		if resume.Status != intake.StatusParsed {
			return fmt.Errorf("%w: upload one first with 'intervue resume add <file>'", app.ErrNoResume)
		}
		if resume.CanStart() {
			fmt.Println("All contact details are already present.")
			return nil
		}

		reader := bufio.NewReader(os.Stdin)
		for {
			field, ok := resume.NextMissing()
			if !ok {
				break
			}
			fmt.Print(labelStyle.Render(intake.Prompt(field)) + " ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("input closed before all fields were collected")
			}
			value := strings.TrimSpace(line)
			if value == "" {
				fmt.Println("Please provide a value.")
				continue
			}
			if field == intake.FieldName {
				value = intake.NormalizeName(value)
			}
			resume.SetField(field, value)
			if err := application.Store.SaveSnapshot(*resume, snap.Interview); err != nil {
				return fmt.Errorf("failed to persist state: %w", err)
			}
		}

		fmt.Println("\n✓ All contact details collected. Start the interview with 'intervue interview start'")
		return nil
	},
}

var showResumeCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resume intake status",
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

		fmt.Println(titleStyle.Render("Resume Intake"))
		fmt.Printf("%s %s\n", labelStyle.Render("Status:"), string(resume.Status))
		if resume.FileName != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("File:"), resume.FileName)
		}
		if resume.Error != "" {
			fmt.Printf("%s %s\n", labelStyle.Render("Error:"), resume.Error)
		}
		if resume.Status == intake.StatusParsed {
			printField(intake.FieldName, resume.Fields.Name)
			printField(intake.FieldEmail, resume.Fields.Email)
			printField(intake.FieldPhone, resume.Fields.Phone)
			if !resume.CanStart() {
				fmt.Printf("\nMissing: %s\n", missingList(resume))
			}
		}
		return nil
	},
}

// copyResumeFile copies the upload into ~/.intervue/resumes
func copyResumeFile(filePath string) (string, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	resumeDir := filepath.Join(dataDir, "resumes")
	if err := os.MkdirAll(resumeDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create resume directory: %w", err)
	}

	destPath := filepath.Join(resumeDir, filepath.Base(filePath))

	src, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	return destPath, nil
}

func printField(field intake.Field, value string) {
	label := strings.ToUpper(string(field)[:1]) + string(field)[1:] + ":"
	if value == "" {
		value = "(not found)"
	}
	fmt.Printf("  %s %s\n", labelStyle.Render(label), valueStyle.Render(value))
}

func missingList(resume *intake.State) string {
	names := make([]string, len(resume.Missing))
	for i, f := range resume.Missing {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(addResumeCmd)
	resumeCmd.AddCommand(fillResumeCmd)
	resumeCmd.AddCommand(showResumeCmd)
}
