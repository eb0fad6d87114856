package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "run":
		return runBatch(args[1:])
	case "tui":
		return runTUI(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "history":
		return runHistory(args[1:])
	case "version":
		return runVersion(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("yt-clip-batcher: CSV-driven YouTube clip extraction")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  yt-clip-batcher doctor")
	fmt.Println("  yt-clip-batcher run --input jobs.csv --output clips/")
	fmt.Println("  yt-clip-batcher tui")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run      execute a clip batch from a CSV job table")
	fmt.Println("  tui      interactive front-end for the same runner")
	fmt.Println("  doctor   dependency and filesystem preflight checks")
	fmt.Println("  history  show recent runs from the local ledger")
	fmt.Println("  version  print the build version")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - Defaults come from the environment (CLIPBATCH_*) and an optional .env file")
}
