// Command tspd is the CLI shell for the TSP-D optimization engine:
// instance generation, the exact and heuristic solve paths, and the
// file-format toggles. The core packages never read environment
// variables or flags; this command reads only its own flags and an
// optional YAML config file, and passes the values to the core as plain
// arguments.
package main

import (
	"fmt"
	"log/slog"
	"os"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd, rawArgs := os.Args[1], os.Args[2:]
	configPath, args := extractConfigFlag(rawArgs)
	var err error
	switch cmd {
	case "gen-uniform":
		err = runGenUniform(logger, configPath, args)
	case "gen-singlecenter":
		err = runGenSingleCenter(logger, configPath, args)
	case "gen-doublecenter":
		err = runGenDoubleCenter(logger, configPath, args)
	case "solve":
		err = runSolve(logger, configPath, args)
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: tspd <gen-uniform|gen-singlecenter|gen-doublecenter|solve> [-config file.yaml] [flags]")
}
