package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cljtools/nsscan/internal/index"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// logger writes to stderr; stdout is reserved for command output and the
// MCP protocol.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Prefix:          "nsscan",
})

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "nsscan",
		Short:         "Scan directories and jar archives for Clojure namespace declarations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newListCommand(),
		newScanCommand(),
		newDocCommand(),
		newPathCommand(),
		newIndexCommand(),
		newServeCommand(),
		newVersionCommand(),
	)

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("nsscan\n")
			fmt.Printf("Version: %s\n", version)
			fmt.Printf("Build Time: %s\n", buildTime)
			fmt.Printf("Build Mode: %s\n", index.BuildMode)
			fmt.Printf("SQLite Driver: %s\n", index.DriverName)
		},
	}
}
