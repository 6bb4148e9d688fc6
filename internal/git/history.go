package git

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// gitDateLayout matches git log --date=iso output.
const gitDateLayout = "2006-01-02 15:04:05 -0700"

// Recent returns the most recent limit commits, newest first.
func (r *Reader) Recent(limit int) ([]Commit, error) {
	return r.commitsFromLog(
		"log",
		"--pretty=format:%H|%an|%ad|%s",
		"--date=iso",
		fmt.Sprintf("-%d", limit),
	)
}

// InRange returns the commits reachable from toRef but not from fromRef
// (two-dot range semantics), newest first.
func (r *Reader) InRange(fromRef, toRef string) ([]Commit, error) {
	return r.commitsFromLog(
		"log",
		"--pretty=format:%H|%an|%ad|%s",
		"--date=iso",
		fmt.Sprintf("%s..%s", fromRef, toRef),
	)
}

func (r *Reader) commitsFromLog(args ...string) ([]Commit, error) {
	output, err := r.run.Run(args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHistoryQuery, err)
	}
	if !utf8.Valid(output) {
		return nil, fmt.Errorf("%w: output is not valid UTF-8", ErrHistoryQuery)
	}

	var commits []Commit
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line == "" {
			continue
		}

		// hash|author|date|subject; extra pipes stay in the subject.
		parts := strings.SplitN(line, "|", 4)
		if len(parts) < 4 {
			// Tolerate truncated lines instead of aborting the query.
			continue
		}

		date, err := time.Parse(gitDateLayout, parts[2])
		if err != nil {
			// Keep the commit even when git hands back a date we
			// cannot parse.
			date = time.Now().UTC()
		}

		body, files, err := r.commitDetails(parts[0])
		if err != nil {
			return nil, err
		}

		commits = append(commits, Commit{
			Hash:         parts[0],
			Author:       parts[1],
			Date:         date.UTC(),
			Subject:      parts[3],
			Body:         body,
			FilesChanged: files,
		})
	}

	return commits, nil
}

// commitDetails fetches the message body (subject line stripped) and the
// changed file list for one commit.
func (r *Reader) commitDetails(hash string) (string, []string, error) {
	bodyOutput, err := r.run.Run("show", "--no-patch", "--format=%B", hash)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrHistoryQuery, err)
	}
	if !utf8.Valid(bodyOutput) {
		return "", nil, fmt.Errorf("%w: message body is not valid UTF-8", ErrHistoryQuery)
	}

	message := strings.TrimRight(string(bodyOutput), "\n")
	body := ""
	if i := strings.Index(message, "\n"); i >= 0 {
		body = message[i+1:]
	}

	filesOutput, err := r.run.Run("show", "--name-only", "--format=", hash)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrHistoryQuery, err)
	}
	if !utf8.Valid(filesOutput) {
		return "", nil, fmt.Errorf("%w: file list is not valid UTF-8", ErrHistoryQuery)
	}

	var files []string
	for _, line := range strings.Split(string(filesOutput), "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "commit") {
			continue
		}
		files = append(files, line)
	}

	return body, files, nil
}
