// gitea-pr-desc generates a Markdown pull-request description from local git
// history: metadata, commit summary, file-change impact, and full diff.
//
// Usage: gitea-pr-desc [-C dir] <base-branch> <head-branch>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/datapilot-canada/gitea-mcp/internal/prdesc"
)

func main() {
	dir := flag.String("C", ".", "Path to the git repository")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-C dir] <base-branch> <head-branch>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	base, head := flag.Arg(0), flag.Arg(1)

	markdown, err := prdesc.New(*dir).Generate(context.Background(), base, head)
	if err != nil {
		var notFound *prdesc.BranchNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", notFound)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Print(markdown)
}
