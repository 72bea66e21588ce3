package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j12bates/innullifiability-go/internal/clitool"
	"github.com/j12bates/innullifiability-go/internal/record"
)

func TestRunCountsUnmarked(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "n3.dat")

	rec, err := record.NewRecord(3)
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Alloc(3, 1, 4, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := rec.Mark([]uint64{1, 2, 3}, record.NULLIF); err != nil {
		t.Fatal(err)
	}
	if err := rec.Export(path); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	o := clitool.NewIO(&out, &errOut)

	if err := run(o, false, []string{"3", path}); err != nil {
		t.Fatalf("run: %v", err)
	}

	total := rec.Total()
	want := int(total) - 1
	if !strings.Contains(out.String(), "unmarked") {
		t.Fatalf("stdout = %q, missing 'unmarked'", out.String())
	}
	if !strings.Contains(out.String(), intToStr(want)) {
		t.Fatalf("stdout = %q, expected count %d", out.String(), want)
	}
}

func TestRunWithListPrintsRightAlignedSets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "n2.dat")

	rec, err := record.NewRecord(2)
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.Alloc(2, 1, 3, nil); err != nil {
		t.Fatal(err)
	}
	if err := rec.Export(path); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	o := clitool.NewIO(&out, &errOut)

	if err := run(o, true, []string{"2", path}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if !strings.Contains(out.String(), "   1   2") {
		t.Fatalf("stdout = %q, expected a width-4 right-aligned (1,2) line", out.String())
	}
}

func intToStr(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
