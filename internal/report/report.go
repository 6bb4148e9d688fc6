package report

import (
	"context"
	"fmt"
	"time"

	"github.com/emilianohg/gitreport/internal/git"
	"github.com/emilianohg/gitreport/internal/ollama"
)

// Input is everything a synthesizer needs to produce a report.
type Input struct {
	RepoPath string
	From     git.Commit
	To       git.Commit
	Commits  []git.Commit // range commits, newest first
}

type Generator interface {
	Generate(ctx context.Context, in Input) (string, error)
}

// New selects the synthesis strategy: deterministic text or prose
// delegated to a local Ollama model.
func New(ai bool, model, host string) Generator {
	if ai {
		return &AIGenerator{model: model, client: ollama.NewClient(host)}
	}
	return &PlainGenerator{}
}

// DefaultFilename returns the timestamp-suffixed name used when no
// output path is given.
func DefaultFilename(ai bool, t time.Time) string {
	suffix := ""
	if ai {
		suffix = "-ai"
	}
	return fmt.Sprintf("git-report%s-%s.txt", suffix, t.UTC().Format("20060102_150405"))
}

const dateLayout = "2006-01-02 15:04:05"
