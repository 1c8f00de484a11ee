package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mixdoc/fixer"
	"github.com/dhamidi/mixdoc/format"
	"github.com/dhamidi/mixdoc/project"
)

// errWouldChange makes --dry-run exit with status 1.
var errWouldChange = errors.New("files would change")

type fixOptions struct {
	write      bool
	diff       bool
	dryRun     bool
	watch      bool
	configPath string
	rules      []string
}

func newFixCmd() *cobra.Command {
	var opts fixOptions

	cmd := &cobra.Command{
		Use:   "fix [path...]",
		Short: "Add mixed doc blocks to undocumented class members",
		Long: `Add doc blocks to class properties and methods that lack one, declaring
"mixed" for every property and every untyped parameter and return value.

Directories are searched recursively for files with a configured extension,
skipping excluded paths. If no path is provided, reads PHP source from stdin
and writes the result to stdout.

Use -w to overwrite files in place, --diff to print a diff instead of the
fixed source, and --dry-run to only report files that would change. With
--dry-run the exit status is 1 when any file would change.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFix(cmd, opts, args)
			if errors.Is(err, errWouldChange) {
				cmd.SilenceErrors = true
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "overwrite files in place")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "print a unified diff of the changes")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "list files that would change and exit 1 if any")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "keep running and fix files again when they change (requires -w)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: search upward for .mixdoc.toml or .mixdoc.yaml)")
	cmd.Flags().StringSliceVar(&opts.rules, "rules", nil, "comma separated rules to run instead of the configured ones")

	return cmd
}

func runFix(cmd *cobra.Command, opts fixOptions, args []string) error {
	if opts.write && opts.dryRun {
		return fmt.Errorf("-w and --dry-run are mutually exclusive")
	}
	if opts.watch && (!opts.write || len(args) == 0) {
		return fmt.Errorf("--watch requires -w and a path argument")
	}

	proj, err := project.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := proj.Config
	rules := cfg.Rules
	if len(opts.rules) > 0 {
		rules = opts.rules
	}
	fixers, err := fixer.Lookup(rules, fixer.Settings{
		Indent:         cfg.Indent,
		SkipFullyTyped: cfg.SkipFullyTyped,
	})
	if err != nil {
		return err
	}
	runner := fixer.NewRunner(fixers...)
	stdout := cmd.OutOrStdout()

	if len(args) == 0 {
		if opts.write {
			return fmt.Errorf("-w requires a path argument")
		}
		source, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		result, err := runner.FixSource(source, "stdin")
		if err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		return report(stdout, opts, "stdin", source, result)
	}

	files, err := proj.Files(args...)
	if err != nil {
		return err
	}

	var failed, changed int
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		result, err := runner.FixSource(source, file)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", file, err)
			continue
		}
		if result.Changed {
			changed++
		}

		if opts.write {
			if result.Changed {
				if err := writeFile(file, result.Output); err != nil {
					return err
				}
				fmt.Fprintln(stdout, file)
			}
			continue
		}
		if err := report(stdout, opts, file, source, result); err != nil {
			if errors.Is(err, errWouldChange) {
				continue
			}
			return err
		}
	}

	if opts.watch {
		return watch(cmd, proj, runner, args)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be fixed", failed, len(files))
	}
	if opts.dryRun && changed > 0 {
		return errWouldChange
	}
	return nil
}

// report prints the outcome for one source unit in the mode selected by
// opts. Without --diff or --dry-run the fixed source is printed.
func report(w io.Writer, opts fixOptions, name string, source []byte, result fixer.Result) error {
	switch {
	case opts.diff:
		_, err := io.WriteString(w, format.Diff(name, source, result.Output))
		if err == nil && opts.dryRun && result.Changed {
			return errWouldChange
		}
		return err
	case opts.dryRun:
		if result.Changed {
			fmt.Fprintln(w, name)
			return errWouldChange
		}
		return nil
	default:
		_, err := w.Write(result.Output)
		return err
	}
}

func writeFile(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if err := os.WriteFile(path, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// watch fixes files again whenever they change, until interrupted.
func watch(cmd *cobra.Command, proj *project.Project, runner *fixer.Runner, paths []string) error {
	var dirs []string
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			dirs = append(dirs, path)
		}
	}
	if len(dirs) == 0 {
		return fmt.Errorf("--watch requires a directory argument")
	}

	w, err := proj.NewWatcher(func(file string) {
		if err := fixFile(runner, file); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", file, err)
		}
	}, dirs...)
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %d directories, press Ctrl-C to stop\n", len(dirs))
	<-ctx.Done()
	return nil
}

// fixFile rewrites file in place if a fixer changes it.
func fixFile(runner *fixer.Runner, file string) error {
	source, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	result, err := runner.FixSource(source, file)
	if err != nil {
		return err
	}
	if !result.Changed {
		return nil
	}
	return writeFile(file, result.Output)
}
