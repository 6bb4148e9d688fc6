package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/emilianohg/gitreport/internal/config"
	"github.com/emilianohg/gitreport/internal/git"
	"github.com/emilianohg/gitreport/internal/report"
	"github.com/emilianohg/gitreport/internal/resolve"
	"github.com/emilianohg/gitreport/internal/tui"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

var rootCmd = &cobra.Command{
	Use:   "gitreport",
	Short: "Generate detailed commit reports from a git repository",
	Long: `Gitreport builds a text report for a range of commits in the current
repository. The range endpoints are given as hash prefixes or picked
interactively. With --ai the report prose is written by a local Ollama
model instead of the deterministic formatter.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := run(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func run(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	fromRef, _ := cmd.Flags().GetString("from")
	toRef, _ := cmd.Flags().GetString("to")
	limit, _ := cmd.Flags().GetInt("limit")
	ai, _ := cmd.Flags().GetBool("ai")
	model, _ := cmd.Flags().GetString("model")

	// Config fills in anything not set on the command line.
	if !cmd.Flags().Changed("limit") && cfg.CommitLimit > 0 {
		limit = cfg.CommitLimit
	}
	if !cmd.Flags().Changed("model") && cfg.DefaultModel != "" {
		model = cfg.DefaultModel
	}
	if limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	fmt.Println(titleStyle.Render("Git Report Generator"))

	reader := git.NewReader()

	repoPath, err := reader.RepoRoot()
	if err != nil {
		return err
	}
	fmt.Printf("Repository: %s (%s)\n", git.RepoName(repoPath), pathStyle.Render(repoPath))

	commits, err := reader.Recent(limit)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		return fmt.Errorf("no commits found in %s", repoPath)
	}
	fmt.Printf("Found %d commits\n", len(commits))

	from, to, err := resolve.Endpoints(commits, fromRef, toRef, tui.Pick)
	if err != nil {
		return err
	}
	fmt.Printf("Range: %s -> %s\n", from.Subject, to.Subject)

	rangeCommits, err := reader.InRange(from.Hash, to.Hash)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d commits in range\n", len(rangeCommits))

	if ai {
		fmt.Println(infoStyle.Render(fmt.Sprintf("Generating AI-enhanced report using Ollama with model '%s'...", model)))
	}

	generator := report.New(ai, model, cfg.OllamaHost)
	text, err := generator.Generate(context.Background(), report.Input{
		RepoPath: repoPath,
		From:     from,
		To:       to,
		Commits:  rangeCommits,
	})
	if err != nil {
		return err
	}

	if output == "" {
		output = report.DefaultFilename(ai, time.Now())
		if cfg.ReportsOutput != "" {
			if err := os.MkdirAll(cfg.ReportsOutput, 0755); err != nil {
				return fmt.Errorf("creating reports directory: %w", err)
			}
			output = filepath.Join(cfg.ReportsOutput, output)
		}
	}

	// The file is created only once the report text exists, so a failed
	// run never leaves a partial report behind.
	if err := os.WriteFile(output, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Printf("Report saved to: %s\n", pathStyle.Render(output))
	return nil
}

func init() {
	rootCmd.Flags().StringP("output", "o", "", "Output file path (default: git-report-{timestamp}.txt)")
	rootCmd.Flags().StringP("from", "f", "", "From commit hash or reference")
	rootCmd.Flags().StringP("to", "t", "", "To commit hash or reference")
	rootCmd.Flags().IntP("limit", "l", 50, "Number of commits to show in selection")
	rootCmd.Flags().Bool("ai", false, "Generate AI-enhanced report using local Ollama")
	rootCmd.Flags().StringP("model", "m", "gemma3", "Ollama model to use for AI generation")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
