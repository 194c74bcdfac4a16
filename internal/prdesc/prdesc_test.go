package prdesc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeRunner answers git invocations from a canned script keyed by the first
// argument (the git subcommand) plus significant trailing args.
type fakeRunner struct {
	missing map[string]bool // branches that do not resolve
	name    string
	email   string
	log     string
	stat    string
	diff    string
	calls   [][]string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	f.calls = append(f.calls, args)
	switch args[0] {
	case "rev-parse":
		branch := strings.TrimSuffix(args[len(args)-1], "^{commit}")
		if f.missing[branch] {
			return "", fmt.Errorf("exit status 1")
		}
		return "abc123\n", nil
	case "config":
		if args[1] == "user.name" {
			return f.name + "\n", nil
		}
		return f.email + "\n", nil
	case "log":
		return f.log, nil
	case "diff":
		if args[1] == "--stat" {
			return f.stat, nil
		}
		return f.diff, nil
	}
	return "", fmt.Errorf("unexpected git %v", args)
}

func TestGenerate_FullDocument(t *testing.T) {
	runner := &fakeRunner{
		name:  "Ada Lovelace",
		email: "ada@example.com",
		log:   "abc1234\tfix parser panic\tAda Lovelace\ndef5678\tadd retry hint\tGrace Hopper\n",
		stat:  " parser.go | 10 +++++-----\n 1 file changed\n",
		diff:  "diff --git a/parser.go b/parser.go\n--- a/parser.go\n+++ b/parser.go\n",
	}

	md, err := NewWithRunner("/repo", runner).Generate(context.Background(), "main", "feature/parser")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, want := range []string{
		"# Pull Request",
		"Base branch: `main`",
		"Head branch: `feature/parser`",
		"Ada Lovelace <ada@example.com>",
		"- `abc1234` fix parser panic (Ada Lovelace)",
		"- `def5678` add retry hint (Grace Hopper)",
		"1 file changed",
		"```diff",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Document should contain %q:\n%s", want, md)
		}
	}
}

func TestGenerate_BranchNotFound(t *testing.T) {
	runner := &fakeRunner{missing: map[string]bool{"feature/nope": true}}

	md, err := NewWithRunner("/repo", runner).Generate(context.Background(), "main", "feature/nope")
	if err == nil {
		t.Fatal("Expected error for missing branch")
	}

	var notFound *BranchNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected *BranchNotFoundError, got %T: %v", err, err)
	}
	if notFound.Branch != "feature/nope" {
		t.Errorf("Expected missing branch feature/nope, got %q", notFound.Branch)
	}
	if md != "" {
		t.Errorf("No Markdown should be produced on failure, got %q", md)
	}
}

func TestGenerate_MissingBaseCheckedFirst(t *testing.T) {
	runner := &fakeRunner{missing: map[string]bool{"release": true, "feature/x": true}}

	_, err := NewWithRunner("/repo", runner).Generate(context.Background(), "release", "feature/x")
	var notFound *BranchNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected *BranchNotFoundError, got %T", err)
	}
	if notFound.Branch != "release" {
		t.Errorf("Base branch should be reported first, got %q", notFound.Branch)
	}
}

func TestGenerate_EmptyRanges(t *testing.T) {
	runner := &fakeRunner{name: "Ada", email: "ada@example.com"}

	md, err := NewWithRunner("/repo", runner).Generate(context.Background(), "main", "main")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(md, "No commits.") {
		t.Error("Empty commit range should render as 'No commits.'")
	}
	if !strings.Contains(md, "No file changes.") {
		t.Error("Empty stat should render as 'No file changes.'")
	}
	if !strings.Contains(md, "No differences.") {
		t.Error("Empty diff should render as 'No differences.'")
	}
}

func TestGenerate_ConfigFailureFallsBackToUnknown(t *testing.T) {
	runner := &configlessRunner{}

	md, err := NewWithRunner("/repo", runner).Generate(context.Background(), "main", "dev")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(md, "unknown <unknown>") {
		t.Errorf("Unset git identity should fall back to unknown, got:\n%s", md)
	}
}

// configlessRunner resolves branches but has no git identity configured.
type configlessRunner struct{}

func (configlessRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	switch args[0] {
	case "rev-parse":
		return "abc123\n", nil
	case "config":
		return "", fmt.Errorf("exit status 1")
	case "log", "diff":
		return "", nil
	}
	return "", fmt.Errorf("unexpected git %v", args)
}
