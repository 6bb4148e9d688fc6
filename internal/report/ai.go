package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emilianohg/gitreport/internal/ollama"
)

// AIGenerator delegates report prose to a local Ollama model. The
// response text is used verbatim as the report body.
type AIGenerator struct {
	model  string
	client *ollama.Client
	now    func() time.Time
}

func (g *AIGenerator) Generate(ctx context.Context, in Input) (string, error) {
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	return g.client.Generate(ctx, g.model, buildPrompt(in, now().UTC()))
}

func buildPrompt(in Input, generated time.Time) string {
	var b strings.Builder

	b.WriteString("Generate a complete, professional Git commit report based on the following commit data. ")
	b.WriteString("Create a well-structured report with these sections:\n")
	b.WriteString("1. Title and Repository Information\n")
	b.WriteString("2. Executive Summary\n")
	b.WriteString("3. Detailed Commit Analysis\n")
	b.WriteString("4. Technical Impact Assessment\n")
	b.WriteString("5. Conclusion\n\n")

	b.WriteString("Guidelines:\n")
	b.WriteString("- Use clear, professional language\n")
	b.WriteString("- Avoid repetition and unnecessary sections\n")
	b.WriteString("- Focus on what was actually accomplished\n")
	b.WriteString("- Explain technical changes in business terms when possible\n")
	b.WriteString("- Keep the report concise but comprehensive\n")
	b.WriteString("- Use proper markdown formatting\n\n")

	fmt.Fprintf(&b, "Repository: %s\n", in.RepoPath)
	fmt.Fprintf(&b, "Commit Range: %s -> %s\n", in.From.Hash, in.To.Hash)
	fmt.Fprintf(&b, "Total Commits: %d\n", len(in.Commits))
	fmt.Fprintf(&b, "Generated: %s UTC\n\n", generated.Format(dateLayout))

	b.WriteString("Commit Data:\n")
	for i, commit := range in.Commits {
		fmt.Fprintf(&b, "Commit %d:\n", i+1)
		fmt.Fprintf(&b, "  Hash: %s\n", commit.Hash)
		fmt.Fprintf(&b, "  Author: %s\n", commit.Author)
		fmt.Fprintf(&b, "  Date: %s\n", commit.Date.Format(dateLayout))
		fmt.Fprintf(&b, "  Subject: %s\n", commit.Subject)

		if body := strings.TrimSpace(commit.Body); body != "" {
			fmt.Fprintf(&b, "  Description: %s\n", body)
		}

		if len(commit.FilesChanged) > 0 {
			b.WriteString("  Files Changed:\n")
			for _, file := range commit.FilesChanged {
				fmt.Fprintf(&b, "    - %s\n", file)
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}
