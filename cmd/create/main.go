// Command create builds an empty Set Record file:
//
//	create size minm maxm [fixedSize fixedVals] rec.dat
package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/j12bates/innullifiability-go/internal/clitool"
	"github.com/j12bates/innullifiability-go/internal/record"
	"github.com/j12bates/innullifiability-go/internal/toolconfig"
)

func main() {
	o := clitool.NewIO(os.Stdout, os.Stderr)

	cmd := &clitool.Command{
		Usage: "create size minm maxm [fixedSize \"fixedVals\"] rec.dat",
		Short: "create an empty record over [minm, maxm] with an optional fixed tail",
		Exec:  run,
	}

	os.Exit(cmd.Run(o, os.Args[1:]))
}

func run(o *clitool.IO, args []string) error {
	size, minM, maxM, fixed, path, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, cfgErr := toolconfig.Load(toolconfig.LoadInput{Env: envMap()})
	if cfgErr == nil {
		path = cfg.ResolvePath(path)
	}

	rec, err := record.NewRecord(size)
	if err != nil {
		return clitool.Usage(err)
	}

	varSize := size - uint64(len(fixed))
	if err := rec.Alloc(varSize, minM, maxM, fixed); err != nil {
		return clitool.Usage(err)
	}

	if err := rec.Export(path); err != nil {
		return err
	}

	o.Printf("created %s: size=%d varSize=%d minM=%d maxM=%d total=%d\n",
		path, rec.Size(), rec.VarSize(), rec.MinM(), rec.MaxM(), rec.Total())

	return nil
}

// parseArgs handles both "create size minm maxm rec.dat" and "create size
// minm maxm fixedSize fixedVals rec.dat" forms: the bracketed fixed-segment
// pair is present iff there are 6 positional arguments rather than 4.
func parseArgs(args []string) (size, minM, maxM uint64, fixed []uint64, path string, err error) {
	switch len(args) {
	case 4:
		// no fixed segment
	case 6:
		fixedSize, perr := strconv.ParseUint(args[3], 10, 64)
		if perr != nil {
			return 0, 0, 0, nil, "", clitool.Usagef("fixedSize: %v", perr)
		}
		fixed, err = parseFixedVals(args[4], fixedSize)
		if err != nil {
			return 0, 0, 0, nil, "", err
		}
	default:
		return 0, 0, 0, nil, "", clitool.Usagef(
			"want 4 or 6 positional args (size minm maxm rec.dat, or size minm maxm fixedSize fixedVals rec.dat), got %d", len(args))
	}

	size, err = strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, 0, 0, nil, "", clitool.Usagef("size: %v", err)
	}
	minM, err = strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return 0, 0, 0, nil, "", clitool.Usagef("minm: %v", err)
	}
	maxM, err = strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		return 0, 0, 0, nil, "", clitool.Usagef("maxm: %v", err)
	}
	path = args[len(args)-1]

	return size, minM, maxM, fixed, path, nil
}

func parseFixedVals(s string, fixedSize uint64) ([]uint64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if uint64(len(fields)) != fixedSize {
		return nil, clitool.Usagef("fixedVals has %d values, fixedSize says %d", len(fields), fixedSize)
	}

	out := make([]uint64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, clitool.Usagef("fixedVals[%d]: %v", i, err)
		}
		out[i] = v
	}
	return out, nil
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
