// Command clutter-labels replaces the object-class annotations of a
// RadarScenes dataset with clutter labels (CLUTTER, MOVING_OBJECT,
// STATIONARY), in place.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banshee-data/radar-clutter/internal/config"
	"github.com/banshee-data/radar-clutter/internal/dataset"
	"github.com/banshee-data/radar-clutter/internal/fsutil"
	"github.com/banshee-data/radar-clutter/internal/monitoring"
	"github.com/banshee-data/radar-clutter/internal/pipeline"
	"github.com/banshee-data/radar-clutter/internal/relabel"
	"github.com/banshee-data/radar-clutter/internal/report"
	"github.com/banshee-data/radar-clutter/internal/security"
	"github.com/banshee-data/radar-clutter/internal/version"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type options struct {
	datasetPath string
	yes         bool
	configPath  string
	workers     int
	dryRun      bool
	force       bool
	sequences   string
	reportHTML  string
	verbose     bool
	version     bool
}

// printedFlags lists the flags echoed at startup, without short aliases.
var printedFlags = []string{
	"dataset-path", "yes", "config", "workers", "dry-run", "force", "sequences", "report-html", "verbose",
}

func newFlagSet(o *options, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("clutter-labels", flag.ContinueOnError)
	fs.SetOutput(output)

	pathUsage := "path of the RadarScenes dataset root (required). WARNING: the labels stored there are overwritten"
	fs.StringVar(&o.datasetPath, "dataset-path", "", pathUsage)
	fs.StringVar(&o.datasetPath, "p", "", "shorthand for -dataset-path")
	yesUsage := "skip the confirmation prompt"
	fs.BoolVar(&o.yes, "yes", false, yesUsage)
	fs.BoolVar(&o.yes, "y", false, "shorthand for -yes")

	fs.StringVar(&o.configPath, "config", "", "JSON file with relabel tolerances (defaults apply to omitted fields)")
	fs.IntVar(&o.workers, "workers", 0, "sequences relabeled concurrently (0 uses the config value)")
	fs.BoolVar(&o.dryRun, "dry-run", false, "compute labels and report without writing anything")
	fs.BoolVar(&o.force, "force", false, "relabel sequences that already have a recorded run")
	fs.StringVar(&o.sequences, "sequences", "", "comma-separated sequence names to relabel (default all)")
	fs.StringVar(&o.reportHTML, "report-html", "", "write an HTML chart of the label counts to this file")
	fs.BoolVar(&o.verbose, "verbose", false, "log every scene")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
	return fs
}

func parseArgs(args []string, output io.Writer) (*options, *flag.FlagSet, error) {
	o := &options{}
	fs := newFlagSet(o, output)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.workers < 0 {
		return nil, nil, fmt.Errorf("-workers must be non-negative, got %d", o.workers)
	}
	return o, fs, nil
}

// sequenceList splits a -sequences value, dropping blanks and repeats.
func sequenceList(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func describeFlags(fs *flag.FlagSet) string {
	parts := make([]string, 0, len(printedFlags))
	for _, name := range printedFlags {
		if f := fs.Lookup(name); f != nil {
			parts = append(parts, fmt.Sprintf("%s=%q", name, f.Value.String()))
		}
	}
	return strings.Join(parts, " ")
}

func loadParams(o *options) (relabel.Params, int, error) {
	cfg := config.EmptyRelabelConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = config.LoadRelabelConfig(o.configPath); err != nil {
			return relabel.Params{}, 0, err
		}
	}
	params, err := cfg.RelabelParams()
	if err != nil {
		return relabel.Params{}, 0, err
	}
	workers := cfg.GetWorkers()
	if o.workers > 0 {
		workers = o.workers
	}
	return params, workers, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, fs, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "clutter-labels: %v\n", err)
		return exitUsage
	}

	if o.version {
		fmt.Fprintf(stdout, "clutter-labels %s\n", version.String())
		return exitOK
	}
	monitoring.SetVerbose(o.verbose)

	fmt.Fprintln(stdout, "Starting automatic relabeling of the RadarScenes data set for clutter detection.")
	fmt.Fprintf(stdout, "Provided command line arguments: %s\n", describeFlags(fs))

	if o.datasetPath == "" {
		fmt.Fprintln(stderr, "clutter-labels: -dataset-path is required")
		fs.Usage()
		return exitUsage
	}

	root, err := dataset.ResolveRoot(o.datasetPath)
	if err != nil {
		fmt.Fprintf(stderr, "clutter-labels: %v\n", err)
		return exitFailed
	}

	params, workers, err := loadParams(o)
	if err != nil {
		fmt.Fprintf(stderr, "clutter-labels: config: %v\n", err)
		return exitFailed
	}

	fsys := fsutil.OSFileSystem{}
	ds, err := dataset.Open(fsys, root)
	if err != nil {
		fmt.Fprintf(stderr, "clutter-labels: %v\n", err)
		return exitFailed
	}

	sequences := sequenceList(o.sequences)
	for _, name := range sequences {
		if _, ok := ds.Info(name); !ok {
			fmt.Fprintf(stderr, "clutter-labels: %v: %s\n", dataset.ErrUnknownSequence, name)
			return exitFailed
		}
	}

	if o.reportHTML != "" {
		if err := security.ValidateReportPath(o.reportHTML, root); err != nil {
			fmt.Fprintf(stderr, "clutter-labels: -report-html: %v\n", err)
			return exitFailed
		}
	}

	if !o.yes && !o.dryRun {
		fmt.Fprintf(stdout, "WARNING: The original labels stored in the data set directory %q are about to be "+
			"overwritten with newly generated clutter labels!\n", root)
		ok, err := confirm(stdin, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "clutter-labels: %v\n", err)
			return exitFailed
		}
		if !ok {
			return exitOK
		}
	}

	gen := pipeline.NewGenerator(relabel.New(params), pipeline.Options{
		Workers:     workers,
		DryRun:      o.dryRun,
		Force:       o.force,
		Sequences:   sequences,
		ToolVersion: version.Version,
	})
	summary, runErr := gen.Run(ctx, ds)

	if err := report.WriteText(stdout, summary); err != nil {
		fmt.Fprintf(stderr, "clutter-labels: write report: %v\n", err)
		return exitFailed
	}

	if o.reportHTML != "" {
		var buf bytes.Buffer
		if err := report.RenderHTML(&buf, summary); err != nil {
			fmt.Fprintf(stderr, "clutter-labels: render report: %v\n", err)
			return exitFailed
		}
		if err := fsys.WriteFile(o.reportHTML, buf.Bytes(), 0644); err != nil {
			fmt.Fprintf(stderr, "clutter-labels: write %s: %v\n", o.reportHTML, err)
			return exitFailed
		}
		fmt.Fprintf(stdout, "HTML report written to %s\n", o.reportHTML)
	}

	if runErr != nil {
		return exitFailed
	}
	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
