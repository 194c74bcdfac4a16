// Package prdesc assembles a Markdown pull-request description from local
// git history. Git is invoked out-of-process through a narrow Runner
// interface; nothing here reimplements version control.
package prdesc

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Runner executes one git command in a directory and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// BranchNotFoundError reports that a named branch does not resolve in the
// local repository.
type BranchNotFoundError struct {
	Branch string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch not found: %s", e.Branch)
}

// Generator produces pull-request descriptions for one repository directory.
type Generator struct {
	run Runner
	dir string
	now func() time.Time
}

// New creates a Generator for the repository at dir, running real git.
func New(dir string) *Generator {
	return NewWithRunner(dir, gitRunner{})
}

// NewWithRunner creates a Generator with a custom command runner. Tests use
// this to substitute a fake.
func NewWithRunner(dir string, run Runner) *Generator {
	return &Generator{run: run, dir: dir, now: time.Now}
}

// Generate builds the Markdown document for head relative to base:
// a metadata block, a one-line-per-commit summary of non-merge commits,
// a file-change impact summary, and the full unified diff.
// Returns *BranchNotFoundError when either branch does not resolve.
func (g *Generator) Generate(ctx context.Context, base, head string) (string, error) {
	for _, branch := range []string{base, head} {
		if _, err := g.run.Run(ctx, g.dir, "rev-parse", "--verify", "--quiet", branch+"^{commit}"); err != nil {
			return "", &BranchNotFoundError{Branch: branch}
		}
	}

	authorName, err := g.run.Run(ctx, g.dir, "config", "user.name")
	if err != nil {
		authorName = "unknown"
	}
	authorEmail, err := g.run.Run(ctx, g.dir, "config", "user.email")
	if err != nil {
		authorEmail = "unknown"
	}

	commits, err := g.run.Run(ctx, g.dir, "log", "--no-merges",
		"--pretty=format:%h%x09%s%x09%an", base+".."+head)
	if err != nil {
		return "", fmt.Errorf("failed to read commit log: %w", err)
	}

	stat, err := g.run.Run(ctx, g.dir, "diff", "--stat", base+"..."+head)
	if err != nil {
		return "", fmt.Errorf("failed to compute change summary: %w", err)
	}

	diff, err := g.run.Run(ctx, g.dir, "diff", base+"..."+head)
	if err != nil {
		return "", fmt.Errorf("failed to compute diff: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Pull Request\n\n")

	b.WriteString("## Metadata\n\n")
	fmt.Fprintf(&b, "- Generated: %s\n", g.now().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Base branch: `%s`\n", base)
	fmt.Fprintf(&b, "- Head branch: `%s`\n", head)
	fmt.Fprintf(&b, "- Author: %s <%s>\n\n", strings.TrimSpace(authorName), strings.TrimSpace(authorEmail))

	b.WriteString("## Commits\n\n")
	b.WriteString(formatCommits(commits))

	b.WriteString("\n## Impact\n\n")
	if strings.TrimSpace(stat) == "" {
		b.WriteString("No file changes.\n")
	} else {
		fmt.Fprintf(&b, "```\n%s\n```\n", strings.TrimRight(stat, "\n"))
	}

	b.WriteString("\n## Diff\n\n")
	if strings.TrimSpace(diff) == "" {
		b.WriteString("No differences.\n")
	} else {
		fmt.Fprintf(&b, "```diff\n%s\n```\n", strings.TrimRight(diff, "\n"))
	}

	return b.String(), nil
}

// formatCommits renders the tab-separated git log output as one bullet per
// non-merge commit: short hash, subject, author.
func formatCommits(log string) string {
	log = strings.TrimSpace(log)
	if log == "" {
		return "No commits.\n"
	}
	var b strings.Builder
	for _, line := range strings.Split(log, "\n") {
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		fmt.Fprintf(&b, "- `%s` %s (%s)\n", parts[0], parts[1], parts[2])
	}
	return b.String()
}
