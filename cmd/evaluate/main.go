// Command evaluate reports (and optionally lists) the still-unmarked sets
// in a Set Record file:
//
//	evaluate [-s] recSize rec.dat
package main

import (
	"os"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/j12bates/innullifiability-go/internal/clitool"
	"github.com/j12bates/innullifiability-go/internal/record"
	"github.com/j12bates/innullifiability-go/internal/toolconfig"
)

func main() {
	o := clitool.NewIO(os.Stdout, os.Stderr)

	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	list := fs.BoolP("show", "s", false, "also list unmarked sets, one per line, values right-aligned width 4")

	cmd := &clitool.Command{
		Usage: "evaluate [-s] recSize rec.dat",
		Short: "count (and optionally list) unmarked sets in a record",
		Flags: fs,
		Exec: func(o *clitool.IO, args []string) error {
			return run(o, *list, args)
		},
	}

	os.Exit(cmd.Run(o, os.Args[1:]))
}

func run(o *clitool.IO, list bool, args []string) error {
	if len(args) != 2 {
		return clitool.Usagef("want 2 positional args (recSize rec.dat), got %d", len(args))
	}

	size, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return clitool.Usagef("recSize: %v", err)
	}
	path := args[1]

	cfg, cfgErr := toolconfig.Load(toolconfig.LoadInput{Env: envMap()})
	if cfgErr == nil {
		path = cfg.ResolvePath(path)
	}

	rec, err := record.NewRecord(size)
	if err != nil {
		return clitool.Usage(err)
	}
	if err := rec.Import(path); err != nil {
		return err
	}

	var out record.OutFunc
	if list {
		out = func(set []uint64, sz uint64, byteVal byte) {
			printSet(o, set)
		}
	}

	count, err := rec.Query(record.NULLIF, 0, nil, out)
	if err != nil {
		return err
	}

	o.Printf("%d unmarked of %d\n", count, rec.Total())

	return nil
}

func printSet(o *clitool.IO, set []uint64) {
	for _, v := range set {
		o.Printf("%4d", v)
	}
	o.Println()
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
