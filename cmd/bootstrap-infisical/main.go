package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/matthew-on-git/bootstrap-infisical/internal/bootstrap"
	"github.com/matthew-on-git/bootstrap-infisical/internal/tui"
)

func main() {
	fs := flag.NewFlagSet("bootstrap-infisical", flag.ContinueOnError)
	fs.Usage = usage
	nonInteractive := fs.Bool("non-interactive", false, "skip all prompts and use saved/default values")
	fs.BoolVar(nonInteractive, "n", false, "shorthand for --non-interactive")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unknown option: %s\n", fs.Arg(0))
		usage()
		os.Exit(2)
	}

	opts := bootstrap.Options{
		NonInteractive: *nonInteractive,
		Prompt:         tui.RunWizard,
	}

	if err := bootstrap.Run(bootstrap.DefaultRuntime(), opts); err != nil {
		if errors.Is(err, bootstrap.ErrAborted) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`bootstrap-infisical - bring a self-hosted Infisical stack to its desired state

Usage:
  bootstrap-infisical                   interactive setup
  bootstrap-infisical --non-interactive re-run with saved/default values

Flags:
  -n, --non-interactive   skip all prompts, use saved/default values
  -h, --help              show this help

Re-running is safe: existing secrets and certificates are preserved,
generated files are rewritten to match the saved configuration.`)
}
