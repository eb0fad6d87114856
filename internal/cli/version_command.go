package cli

import (
	"flag"
	"fmt"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func runVersion(args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(map[string]string{"version": Version})
	}
	fmt.Println(Version)
	return nil
}
