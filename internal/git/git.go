package git

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Commit is a read-only snapshot of one commit at query time.
type Commit struct {
	Hash         string
	Author       string
	Date         time.Time
	Subject      string
	Body         string
	FilesChanged []string
}

var (
	ErrNotARepository = errors.New("not a git repository")
	ErrHistoryQuery   = errors.New("git history query failed")
)

// Runner executes a git subcommand and returns its stdout. It exists so
// the log parsing can be tested against canned output.
type Runner interface {
	Run(args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return output, nil
}

// Reader queries commit history from the repository in the current
// working directory.
type Reader struct {
	run Runner
}

func NewReader() *Reader {
	return &Reader{run: execRunner{}}
}

func NewReaderWithRunner(r Runner) *Reader {
	return &Reader{run: r}
}

// RepoRoot returns the top-level directory of the current repository.
func (r *Reader) RepoRoot() (string, error) {
	output, err := r.run.Run("rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotARepository, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RepoName returns the name of the repository (directory name)
func RepoName(repoPath string) string {
	return filepath.Base(repoPath)
}
