package main

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// extractConfigFlag pulls a -config/--config value (at any position) out of a
// subcommand's argument slice before flag.FlagSet ever sees it, since the
// config file has to be loaded before flagsfiller computes each field's
// default. Returns the path (empty if absent) and the remaining arguments
// in original order.
func extractConfigFlag(args []string) (string, []string) {
	rest := make([]string, 0, len(args))
	var path string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-config" || arg == "--config":
			if i+1 < len(args) {
				path = args[i+1]
				i++
			}
		case strings.HasPrefix(arg, "-config=") || strings.HasPrefix(arg, "--config="):
			path = arg[strings.Index(arg, "=")+1:]
		default:
			rest = append(rest, arg)
		}
	}
	return path, rest
}

// loadConfig unmarshals a YAML sidecar config file into dst ahead of
// flagsfiller binding the struct to a flag.FlagSet. Fields set here become
// that field's flag default (flagsfiller keeps a field's existing non-zero
// value over its default tag); explicit command-line flags still win since
// they're applied by fs.Parse after this.
func loadConfig(path string, dst any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, dst)
}
