package report

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// PlainGenerator renders the range deterministically, no I/O.
type PlainGenerator struct {
	now func() time.Time
}

func (g *PlainGenerator) Generate(_ context.Context, in Input) (string, error) {
	now := time.Now
	if g.now != nil {
		now = g.now
	}

	var b strings.Builder

	b.WriteString("Git Commit Report\n")
	b.WriteString("================\n\n")
	fmt.Fprintf(&b, "Repository: %s\n", in.RepoPath)
	fmt.Fprintf(&b, "Generated: %s UTC\n", now().UTC().Format(dateLayout))
	fmt.Fprintf(&b, "Commit Range: %s -> %s\n", in.From.Hash, in.To.Hash)
	fmt.Fprintf(&b, "Total Commits: %d\n\n", len(in.Commits))

	b.WriteString("Summary\n")
	b.WriteString("-------\n")
	fmt.Fprintf(&b, "From: %s (%s)\n", in.From.Subject, in.From.Hash)
	fmt.Fprintf(&b, "To: %s (%s)\n", in.To.Subject, in.To.Hash)
	fmt.Fprintf(&b, "Date Range: %s to %s\n\n",
		in.From.Date.Format(dateLayout),
		in.To.Date.Format(dateLayout))

	b.WriteString("Detailed Commits\n")
	b.WriteString("================\n\n")

	// Numbering follows input order (newest first), no re-sorting.
	for i, commit := range in.Commits {
		fmt.Fprintf(&b, "%d. %s\n", i+1, commit.Subject)
		fmt.Fprintf(&b, "   Hash: %s\n", commit.Hash)
		fmt.Fprintf(&b, "   Author: %s\n", commit.Author)
		fmt.Fprintf(&b, "   Date: %s\n", commit.Date.Format(dateLayout))

		if strings.TrimSpace(commit.Body) != "" {
			b.WriteString("   Description:\n")
			for _, line := range strings.Split(commit.Body, "\n") {
				fmt.Fprintf(&b, "     %s\n", line)
			}
		}

		if len(commit.FilesChanged) > 0 {
			b.WriteString("   Files Changed:\n")
			for _, file := range commit.FilesChanged {
				fmt.Fprintf(&b, "     - %s\n", file)
			}
		}

		b.WriteString("\n")
	}

	return b.String(), nil
}
