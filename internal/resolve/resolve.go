// Package resolve turns explicit references or interactive picks into the
// two boundary commits of a report range.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emilianohg/gitreport/internal/git"
)

var ErrCommitNotFound = errors.New("commit not found")

// PickFunc presents the commit list and returns the index of the chosen
// entry. The TUI provides the real implementation.
type PickFunc func(prompt string, commits []git.Commit) (int, error)

// Endpoints resolves the from and to commits, in that order. An empty
// ref falls back to the interactive picker. The endpoints are resolved
// independently: identical or chronologically inverted picks are
// accepted and simply yield an empty or degenerate range downstream.
func Endpoints(commits []git.Commit, fromRef, toRef string, pick PickFunc) (git.Commit, git.Commit, error) {
	from, err := endpoint(commits, fromRef, "Select FROM commit (older commit)", pick)
	if err != nil {
		return git.Commit{}, git.Commit{}, err
	}

	to, err := endpoint(commits, toRef, "Select TO commit (newer commit)", pick)
	if err != nil {
		return git.Commit{}, git.Commit{}, err
	}

	return from, to, nil
}

func endpoint(commits []git.Commit, ref, prompt string, pick PickFunc) (git.Commit, error) {
	if ref != "" {
		return byPrefix(commits, ref)
	}

	index, err := pick(prompt, commits)
	if err != nil {
		return git.Commit{}, err
	}
	if index < 0 || index >= len(commits) {
		return git.Commit{}, fmt.Errorf("selected index %d out of range", index)
	}
	return commits[index], nil
}

// byPrefix matches ref against full hashes, case-sensitive, first match
// in newest-first order wins.
func byPrefix(commits []git.Commit, ref string) (git.Commit, error) {
	for _, c := range commits {
		if strings.HasPrefix(c.Hash, ref) {
			return c, nil
		}
	}
	return git.Commit{}, fmt.Errorf("%w: %q", ErrCommitNotFound, ref)
}
