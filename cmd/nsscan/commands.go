package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cljtools/nsscan/internal/classpath"
	"github.com/cljtools/nsscan/internal/index"
	"github.com/cljtools/nsscan/internal/mcp"
	"github.com/cljtools/nsscan/internal/reader"
	"github.com/cljtools/nsscan/pkg/types"
)

// scanFlags are the flags shared by the scanning subcommands.
type scanFlags struct {
	classpathStr string
	prefix       string
	strict       bool
	firstOnly    bool
	parallel     int
}

// registerClasspath registers only the flags every scanning subcommand
// honors; register adds the traversal-shaping ones on top.
func (f *scanFlags) registerClasspath(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.classpathStr, "classpath", "", "classpath entries separated by the platform path-list separator (default: $NSSCAN_CLASSPATH, then $CLASSPATH)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "abort the scan on the first unreadable file instead of skipping it")
}

func (f *scanFlags) register(cmd *cobra.Command) {
	f.registerClasspath(cmd)
	cmd.Flags().StringVar(&f.prefix, "prefix", "", "namespace name prefix to narrow and filter the scan")
	cmd.Flags().BoolVar(&f.firstOnly, "first-only", false, "keep only the first namespace form of each file")
	cmd.Flags().IntVar(&f.parallel, "parallel", 0, "scan classpath entries concurrently with this many workers (0 = sequential)")
}

func (f *scanFlags) entries() ([]string, error) {
	if f.classpathStr != "" {
		return classpath.Split(f.classpathStr), nil
	}
	if entries := classpath.FromEnv(); len(entries) > 0 {
		return entries, nil
	}
	return nil, fmt.Errorf("no classpath supplied and neither %s nor %s is set",
		classpath.EnvClasspath, classpath.EnvClasspathFallback)
}

func (f *scanFlags) config() classpath.Config {
	return classpath.Config{
		Strict:    f.strict,
		FirstOnly: f.firstOnly,
		Mode:      reader.ModeFromEnv(),
	}
}

func (f *scanFlags) scan(ctx context.Context) ([]types.NSForm, error) {
	entries, err := f.entries()
	if err != nil {
		return nil, err
	}
	if f.parallel > 0 {
		return classpath.ScanClasspathParallel(ctx, entries, f.prefix, f.config(), f.parallel)
	}
	return classpath.ScanClasspath(entries, f.prefix, f.config())
}

func newListCommand() *cobra.Command {
	flags := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List namespace symbols found on the classpath",
		RunE: func(cmd *cobra.Command, args []string) error {
			forms, err := flags.scan(cmd.Context())
			if err != nil {
				return err
			}
			for i := range forms {
				fmt.Println(forms[i].Name)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newScanCommand() *cobra.Command {
	flags := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the classpath and print full namespace form details",
		RunE: func(cmd *cobra.Command, args []string) error {
			forms, err := flags.scan(cmd.Context())
			if err != nil {
				return err
			}
			for i := range forms {
				line := fmt.Sprintf("%s\t%s\t%s", forms[i].Kind, forms[i].Name, forms[i].Path)
				if doc, ok := forms[i].Doc(); ok {
					line += "\t" + doc
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDocCommand() *cobra.Command {
	flags := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "doc NAMESPACE",
		Short: "Print the documentation string of a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			entries, err := flags.entries()
			if err != nil {
				return err
			}
			form, err := classpath.FindNamespace(entries, name, flags.config())
			if err != nil {
				return err
			}
			if doc, ok := form.Doc(); ok {
				fmt.Println(doc)
				return nil
			}
			return fmt.Errorf("namespace %s has no documentation string", name)
		},
	}
	flags.registerClasspath(cmd)
	return cmd
}

func newPathCommand() *cobra.Command {
	var ext string
	cmd := &cobra.Command{
		Use:   "path NAMESPACE",
		Short: "Print the relative source path a loader would expect for a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(types.PathForName(args[0], ext))
			return nil
		},
	}
	cmd.Flags().StringVar(&ext, "ext", "", `file extension to append (default "clj")`)
	return cmd
}

func newIndexCommand() *cobra.Command {
	flags := &scanFlags{}
	var dbPath string
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Refresh the namespace index cache for the classpath",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := flags.entries()
			if err != nil {
				return err
			}
			dbFile := resolveDBFile(dbPath)
			if err := os.MkdirAll(filepath.Dir(dbFile), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			store, err := index.NewSQLiteStorage(dbFile)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := index.Sync(cmd.Context(), store, entries, flags.config())
			if err != nil {
				return err
			}
			logger.Info("index refreshed",
				"scanned", stats.EntriesScanned,
				"fresh", stats.EntriesFresh,
				"skipped", stats.EntriesSkipped,
				"namespaces", stats.Namespaces,
				"duration", stats.Duration)
			return nil
		},
	}
	flags.registerClasspath(cmd)
	cmd.Flags().StringVar(&dbPath, "db", "", "cache database file (default: $NSSCAN_DB_PATH or ~/.nsscan/nsscan.db)")
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the scanner as an MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Info("starting MCP server",
				"version", version, "build_mode", index.BuildMode, "driver", index.DriverName)

			dbPath := os.Getenv("NSSCAN_DB_PATH")
			server, err := mcp.NewServer(dbPath)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			errChan := make(chan error, 1)
			go func() {
				logger.Info("MCP server ready, listening on stdio")
				errChan <- server.Serve(ctx)
			}()

			select {
			case sig := <-sigChan:
				logger.Info("shutting down", "signal", sig)
				cancel()
			case err := <-errChan:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
			}

			logger.Info("server stopped")
			return nil
		},
	}
}

// resolveDBFile picks the cache database file for the index command.
func resolveDBFile(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("NSSCAN_DB_PATH"); env != "" {
		return filepath.Join(env, "nsscan.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "nsscan.db"
	}
	return filepath.Join(home, ".nsscan", "nsscan.db")
}
