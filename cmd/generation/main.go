// Command generation runs one Generation Driver pass:
//
//	generation [-cvsmtxui] srcSize src.dat dest.dat [threads [prog.out]]
package main

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/j12bates/innullifiability-go/internal/clitool"
	"github.com/j12bates/innullifiability-go/internal/drive"
	"github.com/j12bates/innullifiability-go/internal/progress"
	"github.com/j12bates/innullifiability-go/internal/reclock"
	"github.com/j12bates/innullifiability-go/internal/record"
	"github.com/j12bates/innullifiability-go/internal/signals"
	"github.com/j12bates/innullifiability-go/internal/toolconfig"
	"github.com/j12bates/innullifiability-go/pkg/fs"
)

// snapshotInterval is how often a -x run exports dest and rewrites the
// progress file while the drive is in flight, independent of any signal.
const snapshotInterval = 2 * time.Second

type flags struct {
	create    bool
	verbose   bool
	supersets bool
	mutations bool
	thorough  bool
	export    bool
	unmarked  bool
	onSigint  bool
}

func main() {
	o := clitool.NewIO(os.Stdout, os.Stderr)

	var f flags
	fs := flag.NewFlagSet("generation", flag.ContinueOnError)
	fs.BoolVarP(&f.create, "create", "c", false, "create/overwrite dest instead of loading an existing file")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print progress to stdout")
	fs.BoolVarP(&f.supersets, "supersets", "s", false, "only run superset expansion")
	fs.BoolVarP(&f.mutations, "mutations", "m", false, "only run mutation expansion")
	fs.BoolVarP(&f.thorough, "thorough", "t", false, "disable the ONLY_SUP skip optimization")
	fs.BoolVarP(&f.export, "export", "x", false, "export dest on each progress update")
	fs.BoolVarP(&f.unmarked, "unmarked", "u", false, "include still-unmarked count in progress payload")
	fs.BoolVarP(&f.onSigint, "sigint", "i", false, "emit a progress snapshot on SIGINT before exiting")

	cmd := &clitool.Command{
		Usage: "generation [-cvsmtxui] srcSize src.dat dest.dat [threads [prog.out]]",
		Short: "advance a set record by one generation (size N -> N+1)",
		Flags: fs,
		Exec: func(o *clitool.IO, args []string) error {
			return run(o, f, args)
		},
	}

	os.Exit(cmd.Run(o, os.Args[1:]))
}

func run(o *clitool.IO, f flags, args []string) error {
	if len(args) < 3 || len(args) > 5 {
		return clitool.Usagef("want 3-5 positional args (srcSize src.dat dest.dat [threads [prog.out]]), got %d", len(args))
	}

	srcSize, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return clitool.Usagef("srcSize: %v", err)
	}
	srcPath, destPath := args[1], args[2]

	cfg, _ := toolconfig.Load(toolconfig.LoadInput{Env: envMap()})
	srcPath = cfg.ResolvePath(srcPath)
	destPath = cfg.ResolvePath(destPath)

	threads := cfg.Threads
	if threads == 0 {
		threads = uint64(runtime.NumCPU())
	}
	if len(args) >= 4 {
		threads, err = strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return clitool.Usagef("threads: %v", err)
		}
	}

	progPath := cfg.ProgressFile
	if len(args) == 5 {
		progPath = args[4]
	}

	lock, err := reclock.Acquire(destPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	source, err := record.NewRecord(srcSize)
	if err != nil {
		return clitool.Usage(err)
	}
	if err := source.Import(srcPath); err != nil {
		return err
	}

	var dest *record.Record
	if f.create {
		dest, err = drive.NewDestination(source)
		if err != nil {
			return err
		}
	} else {
		dest, err = record.NewRecord(srcSize + 1)
		if err != nil {
			return clitool.Usage(err)
		}
		if err := dest.Import(destPath); err != nil {
			return err
		}
	}

	opts := drive.GenOptions{
		Supersets: f.supersets || !f.mutations,
		Mutations: f.mutations || !f.supersets,
		Thorough:  f.thorough,
	}

	progressCells := make([]*atomic.Uint64, threads)
	for i := range progressCells {
		progressCells[i] = &atomic.Uint64{}
	}

	total := source.Total()

	var writer *progress.Writer
	if progPath != "" {
		writer = progress.NewWriter(fs.NewReal(), progPath)
	}

	snapshot := func() {
		if writer == nil {
			return
		}
		snap := progress.Generation{
			ElapsedSourceSets: sumProgress(progressCells),
			TotalSourceSets:   total,
		}
		if f.unmarked {
			snap.RemainingUnmarked, _ = dest.Query(record.NULLIF, 0, nil, nil)
		}
		_ = writer.Write(snap.Encode())
		if f.export {
			_ = dest.Export(destPath)
		}
	}

	stop := signals.Watch(signals.Handler{
		Snapshot:    snapshot,
		WatchSIGINT: f.onSigint,
	})
	defer stop()

	done := make(chan struct{})
	if writer != nil || f.verbose {
		go periodicSnapshot(done, f.verbose, o, progressCells, total, snapshot)
	}

	err = drive.Generation(source, dest, threads, opts, progressCells)
	close(done)
	if err != nil {
		return err
	}

	if err := dest.Export(destPath); err != nil {
		return err
	}

	if f.verbose {
		o.Printf("generation done: elapsed=%d total=%d\n", sumProgress(progressCells), total)
	}

	return nil
}

func periodicSnapshot(done <-chan struct{}, verbose bool, o *clitool.IO, cells []*atomic.Uint64, total uint64, snapshot func()) {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			snapshot()
			if verbose {
				o.Printf("progress: %d/%d\n", sumProgress(cells), total)
			}
		case <-done:
			return
		}
	}
}

func sumProgress(cells []*atomic.Uint64) uint64 {
	var sum uint64
	for _, c := range cells {
		sum += c.Load()
	}
	return sum
}

func envMap() map[string]string {
	env := make(map[string]string)
	for _, e := range os.Environ() {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}
	return env
}
