// Command weed runs the Weed Driver over a record's still-unmarked sets:
//
//	weed [-vxi] recSize rec.dat [minM maxM threads [prog.out]]
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

const snapshotInterval = 2 * time.Second

type flags struct {
	verbose  bool
	export   bool
	onSigint bool
}

func main() {
	o := clitool.NewIO(os.Stdout, os.Stderr)

	var f flags
	fs := flag.NewFlagSet("weed", flag.ContinueOnError)
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print progress to stdout")
	fs.BoolVarP(&f.export, "export", "x", false, "export rec on each progress update")
	fs.BoolVarP(&f.onSigint, "sigint", "i", false, "emit a progress snapshot on SIGINT before exiting")

	cmd := &clitool.Command{
		Usage: "weed [-vxi] recSize rec.dat [minM maxM threads [prog.out]]",
		Short: "exhaustively test a record's unmarked sets for nullifiability",
		Flags: fs,
		Exec: func(o *clitool.IO, args []string) error {
			return run(o, f, args)
		},
	}

	os.Exit(cmd.Run(o, os.Args[1:]))
}

func run(o *clitool.IO, f flags, args []string) error {
	if len(args) != 2 && len(args) != 5 && len(args) != 6 {
		return clitool.Usagef(
			"want 2 positional args (recSize rec.dat), or 5-6 (recSize rec.dat minM maxM threads [prog.out]), got %d", len(args))
	}

	recSize, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return clitool.Usagef("recSize: %v", err)
	}
	path := args[1]

	cfg, _ := toolconfig.Load(toolconfig.LoadInput{Env: envMap()})
	path = cfg.ResolvePath(path)

	var bounds drive.WeedBounds
	threads := cfg.Threads
	if threads == 0 {
		threads = uint64(runtime.NumCPU())
	}
	progPath := cfg.ProgressFile

	if len(args) >= 5 {
		bounds.Min, err = strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return clitool.Usagef("minM: %v", err)
		}
		bounds.Max, err = strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return clitool.Usagef("maxM: %v", err)
		}
		bounds.Enabled = true

		threads, err = strconv.ParseUint(args[4], 10, 64)
		if err != nil {
			return clitool.Usagef("threads: %v", err)
		}
	}
	if len(args) == 6 {
		progPath = args[5]
	}

	lock, err := reclock.Acquire(path)
	if err != nil {
		return err
	}
	defer lock.Release()

	rec, err := record.NewRecord(recSize)
	if err != nil {
		return clitool.Usage(err)
	}
	if err := rec.Import(path); err != nil {
		return err
	}

	progressCells := make([]*atomic.Uint64, threads)
	for i := range progressCells {
		progressCells[i] = &atomic.Uint64{}
	}

	total, err := rec.Query(record.NULLIF, 0, nil, nil)
	if err != nil {
		return err
	}

	var writer *progress.Writer
	if progPath != "" {
		writer = progress.NewWriter(fs.NewReal(), progPath)
	}

	var passedSoFar atomic.Uint64

	snapshot := func() {
		if writer == nil {
			return
		}
		snap := progress.Weed{
			Elapsed: sumProgress(progressCells),
			Total:   total,
			Passed:  passedSoFar.Load(),
		}
		_ = writer.Write(snap.Encode())
		if f.export {
			_ = rec.Export(path)
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

	passed, err := drive.Weed(rec, threads, bounds, progressCells, &passedSoFar)
	close(done)
	if err != nil {
		return err
	}

	if err := rec.Export(path); err != nil {
		return err
	}

	o.Printf("weed done: %d passed (innullifiable) of %d unmarked\n", passed, total)

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
