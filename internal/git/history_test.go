package git

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type fakeRunner struct {
	responses map[string]string
	errs      map[string]error
}

func (f *fakeRunner) Run(args ...string) ([]byte, error) {
	key := strings.Join(args, " ")
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	output, ok := f.responses[key]
	if !ok {
		return nil, fmt.Errorf("unexpected git call: %s", key)
	}
	return []byte(output), nil
}

const logKey = "log --pretty=format:%H|%an|%ad|%s --date=iso"

func bodyKey(hash string) string  { return "show --no-patch --format=%B " + hash }
func filesKey(hash string) string { return "show --name-only --format= " + hash }

func TestRecent(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{responses: map[string]string{
		logKey + " -2": "aaa111|Alice|2025-03-01 10:20:30 +0200|Fix bug\n" +
			"bbb222|Bob|2025-02-28 09:00:00 +0000|Add feature",
		bodyKey("aaa111"):  "Fix bug\n\nHandle the nil case in the parser.\n",
		filesKey("aaa111"): "parser.go\nparser_test.go\n",
		bodyKey("bbb222"):  "Add feature\n",
		filesKey("bbb222"): "",
	}})

	commits, err := r.Recent(2)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("len(commits) = %d, want 2", len(commits))
	}

	first := commits[0]
	if first.Hash != "aaa111" {
		t.Errorf("Hash = %q, want %q", first.Hash, "aaa111")
	}
	if first.Author != "Alice" {
		t.Errorf("Author = %q, want %q", first.Author, "Alice")
	}
	if first.Subject != "Fix bug" {
		t.Errorf("Subject = %q, want %q", first.Subject, "Fix bug")
	}
	if first.Body != "\nHandle the nil case in the parser." {
		t.Errorf("Body = %q, want message with first line removed", first.Body)
	}
	if len(first.FilesChanged) != 2 || first.FilesChanged[0] != "parser.go" {
		t.Errorf("FilesChanged = %v, want [parser.go parser_test.go]", first.FilesChanged)
	}

	want := time.Date(2025, 3, 1, 8, 20, 30, 0, time.UTC)
	if !first.Date.Equal(want) {
		t.Errorf("Date = %v, want %v (normalized to UTC)", first.Date, want)
	}
	if first.Date.Location() != time.UTC {
		t.Errorf("Date location = %v, want UTC", first.Date.Location())
	}

	second := commits[1]
	if second.Body != "" {
		t.Errorf("Body = %q, want empty for subject-only message", second.Body)
	}
	if len(second.FilesChanged) != 0 {
		t.Errorf("FilesChanged = %v, want empty", second.FilesChanged)
	}
}

func TestRecent_SkipsTruncatedLines(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{responses: map[string]string{
		logKey + " -3": "aaa111|Alice|2025-03-01 10:20:30 +0000|Fix bug\n" +
			"garbage-without-pipes\n" +
			"bbb222|Bob|2025-02-28 09:00:00 +0000|Add feature",
		bodyKey("aaa111"):  "Fix bug\n",
		filesKey("aaa111"): "",
		bodyKey("bbb222"):  "Add feature\n",
		filesKey("bbb222"): "",
	}})

	commits, err := r.Recent(3)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("len(commits) = %d, want 2 (truncated line skipped)", len(commits))
	}
	if commits[1].Hash != "bbb222" {
		t.Errorf("commits[1].Hash = %q, want %q", commits[1].Hash, "bbb222")
	}
}

func TestRecent_KeepsPipesInSubject(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{responses: map[string]string{
		logKey + " -1":     "aaa111|Alice|2025-03-01 10:20:30 +0000|Support a|b syntax",
		bodyKey("aaa111"):  "Support a|b syntax\n",
		filesKey("aaa111"): "",
	}})

	commits, err := r.Recent(1)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if commits[0].Subject != "Support a|b syntax" {
		t.Errorf("Subject = %q, want %q", commits[0].Subject, "Support a|b syntax")
	}
}

func TestRecent_BadDateFallsBackToNow(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{responses: map[string]string{
		logKey + " -1":     "aaa111|Alice|not-a-date|Fix bug",
		bodyKey("aaa111"):  "Fix bug\n",
		filesKey("aaa111"): "",
	}})

	before := time.Now().UTC()
	commits, err := r.Recent(1)
	after := time.Now().UTC()
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(commits) != 1 {
		t.Fatalf("len(commits) = %d, want 1 (commit kept despite bad date)", len(commits))
	}
	d := commits[0].Date
	if d.Before(before) || d.After(after) {
		t.Errorf("Date = %v, want fallback within [%v, %v]", d, before, after)
	}
}

func TestRecent_FiltersFileListArtifacts(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{responses: map[string]string{
		logKey + " -1":     "aaa111|Alice|2025-03-01 10:20:30 +0000|Fix bug",
		bodyKey("aaa111"):  "Fix bug\n",
		filesKey("aaa111"): "commit aaa111\n\nmain.go\n   \nREADME.md\n",
	}})

	commits, err := r.Recent(1)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	want := []string{"main.go", "README.md"}
	got := commits[0].FilesChanged
	if len(got) != len(want) {
		t.Fatalf("FilesChanged = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FilesChanged[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecent_SubprocessFailure(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{
		errs: map[string]error{logKey + " -5": errors.New("exit status 128")},
	})

	_, err := r.Recent(5)
	if !errors.Is(err, ErrHistoryQuery) {
		t.Fatalf("err = %v, want ErrHistoryQuery", err)
	}
}

func TestRecent_DetailFailureIsFatal(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{
		responses: map[string]string{
			logKey + " -1": "aaa111|Alice|2025-03-01 10:20:30 +0000|Fix bug",
		},
		errs: map[string]error{bodyKey("aaa111"): errors.New("exit status 128")},
	})

	_, err := r.Recent(1)
	if !errors.Is(err, ErrHistoryQuery) {
		t.Fatalf("err = %v, want ErrHistoryQuery", err)
	}
}

func TestRecent_InvalidUTF8IsFatal(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "listing", key: logKey + " -1"},
		{name: "message body", key: bodyKey("aaa111")},
		{name: "file list", key: filesKey("aaa111")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := map[string]string{
				logKey + " -1":     "aaa111|Alice|2025-03-01 10:20:30 +0000|Fix bug",
				bodyKey("aaa111"):  "Fix bug\n",
				filesKey("aaa111"): "main.go\n",
			}
			responses[tt.key] = "Fix\n\xff\xfe\x80"

			r := NewReaderWithRunner(&fakeRunner{responses: responses})
			_, err := r.Recent(1)
			if !errors.Is(err, ErrHistoryQuery) {
				t.Fatalf("err = %v, want ErrHistoryQuery for undecodable output", err)
			}
		})
	}
}

func TestInRange_SameEndpointsYieldEmpty(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{responses: map[string]string{
		logKey + " aaa111..aaa111": "",
	}})

	commits, err := r.InRange("aaa111", "aaa111")
	if err != nil {
		t.Fatalf("InRange error: %v", err)
	}
	if len(commits) != 0 {
		t.Errorf("len(commits) = %d, want 0", len(commits))
	}
}

func TestInRange_TwoDotQuery(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{responses: map[string]string{
		logKey + " aaa111..bbb222": "bbb222|Bob|2025-02-28 09:00:00 +0000|Add feature",
		bodyKey("bbb222"):          "Add feature\n",
		filesKey("bbb222"):         "",
	}})

	commits, err := r.InRange("aaa111", "bbb222")
	if err != nil {
		t.Fatalf("InRange error: %v", err)
	}
	if len(commits) != 1 || commits[0].Hash != "bbb222" {
		t.Errorf("commits = %v, want single bbb222", commits)
	}
}

func TestRepoRoot(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{responses: map[string]string{
		"rev-parse --show-toplevel": "/home/dev/project\n",
	}})

	root, err := r.RepoRoot()
	if err != nil {
		t.Fatalf("RepoRoot error: %v", err)
	}
	if root != "/home/dev/project" {
		t.Errorf("RepoRoot = %q, want %q", root, "/home/dev/project")
	}
}

func TestRepoRoot_NotARepository(t *testing.T) {
	r := NewReaderWithRunner(&fakeRunner{
		errs: map[string]error{"rev-parse --show-toplevel": errors.New("exit status 128: fatal: not a git repository")},
	})

	_, err := r.RepoRoot()
	if !errors.Is(err, ErrNotARepository) {
		t.Fatalf("err = %v, want ErrNotARepository", err)
	}
}

func TestRepoName(t *testing.T) {
	if got := RepoName("/home/dev/project"); got != "project" {
		t.Errorf("RepoName = %q, want %q", got, "project")
	}
}
