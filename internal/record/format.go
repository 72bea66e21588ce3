package record

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	natomic "github.com/natefinch/atomic"

	"github.com/j12bates/innullifiability-go/internal/combinadic"
)

// Binary file layout (bit-exact):
//
//	0x0000-0x07FF  reserved: opaque driver metadata (Record.Reserved)
//	0x0800-0x0FFF  three strict textual header lines, optional trailer
//	0x1000...      raw byte array of length Total()
const (
	reservedOffset = 0x0000
	reservedSize   = 0x0800
	headerOffset   = 0x0800
	headerSize     = 0x0800
	dataOffset     = 0x1000

	trailerLine = "Data begins 4K (4096) into the file\n"
)

// Export serializes the record's header, reserved metadata, and body to a
// single file at path, atomically: the write lands at path in full or not at
// all (via a temp-file-then-rename primitive).
func (r *Record) Export(path string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.bound {
		return fmt.Errorf("%w: record not allocated", ErrInvalidInput)
	}

	buf := make([]byte, dataOffset)

	copy(buf[reservedOffset:reservedOffset+reservedSize], r.Reserved)

	header := r.encodeHeaderLocked()
	if len(header) > headerSize {
		return fmt.Errorf("%w: header exceeds reserved region", ErrFormat)
	}
	copy(buf[headerOffset:headerOffset+headerSize], header)

	buf = append(buf, r.bytes.raw()...)

	if err := natomic.WriteFile(path, bytes.NewReader(buf)); err != nil {
		return fmt.Errorf("%w: export %q: %v", ErrStorage, path, err)
	}

	return nil
}

// encodeHeaderLocked renders the three textual header lines plus trailer.
// Caller must hold r.mu (read lock is sufficient).
func (r *Record) encodeHeaderLocked() []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "Full Set -- Size: %d\n", r.size)
	fmt.Fprintf(&b, "Variable Segment -- Size: %d, M-Value Range: %d to %d\n", r.varSize, r.minM, r.maxM)
	fmt.Fprintf(&b, "Fixed Segment -- Size: %d, Values: %d, %d, %d, %d\n",
		r.fixedSize, r.fixed[0], r.fixed[1], r.fixed[2], r.fixed[3])
	b.WriteString(trailerLine)

	return b.Bytes()
}

// Import reads a record from path, replacing this record's current
// configuration and contents in full on success, or leaving it untouched on
// failure.
//
// Import fails with ErrWrongSize if the file's full set size disagrees with
// the size this record was created with ([NewRecord]); with ErrFormat if
// the header cannot be parsed or the body length disagrees with the header;
// and with ErrStorage on I/O failure.
func (r *Record) Import(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: import %q: %v", ErrStorage, path, err)
	}
	defer f.Close()

	reserved := make([]byte, reservedSize)
	if _, err := io.ReadFull(f, reserved); err != nil {
		return fmt.Errorf("%w: reading reserved region: %v", ErrFormat, err)
	}

	if _, err := f.Seek(headerOffset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking header: %v", ErrStorage, err)
	}

	headerBuf := make([]byte, headerSize)
	if _, err := io.ReadFull(f, headerBuf); err != nil {
		return fmt.Errorf("%w: reading header: %v", ErrFormat, err)
	}

	hdr, err := parseHeader(headerBuf)
	if err != nil {
		return err
	}

	if hdr.size != r.size {
		return fmt.Errorf("%w: file size %d, expected %d", ErrWrongSize, hdr.size, r.size)
	}

	if _, err := f.Seek(dataOffset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking data: %v", ErrStorage, err)
	}

	body, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrStorage, err)
	}

	// Check the body length against the header (with Alloc's normalization)
	// before Alloc replaces anything, so a mismatch leaves r as it was.
	minM, maxM := max(hdr.minM, hdr.varSize), hdr.maxM
	if maxM < minM {
		maxM = minM - 1
	}
	expected := saturatingSub(combinadic.Binomial(maxM, hdr.varSize), combinadic.Binomial(subOne(minM), hdr.varSize))
	if uint64(len(body)) != expected {
		return fmt.Errorf("%w: body has %d bytes, header implies %d", ErrFormat, len(body), expected)
	}

	if err := r.Alloc(hdr.varSize, hdr.minM, hdr.maxM, hdr.fixed[:hdr.fixedSize]); err != nil {
		return err
	}

	r.mu.Lock()
	r.bytes.loadAll(body)
	r.Reserved = trimTrailingZeros(reserved)
	r.mu.Unlock()

	return nil
}

type parsedHeader struct {
	size      uint64
	varSize   uint64
	minM      uint64
	maxM      uint64
	fixedSize uint64
	fixed     [MaxFixedSize]uint64
}

// parseHeader strictly parses the three fixed-format textual header lines.
func parseHeader(buf []byte) (parsedHeader, error) {
	scanner := bufio.NewScanner(bytes.NewReader(buf))

	var hdr parsedHeader

	line, ok := nextLine(scanner)
	if !ok {
		return hdr, fmt.Errorf("%w: missing full-set header line", ErrFormat)
	}
	if _, err := fmt.Sscanf(line, "Full Set -- Size: %d", &hdr.size); err != nil {
		return hdr, fmt.Errorf("%w: parsing full-set header line %q: %v", ErrFormat, line, err)
	}

	line, ok = nextLine(scanner)
	if !ok {
		return hdr, fmt.Errorf("%w: missing variable-segment header line", ErrFormat)
	}
	if _, err := fmt.Sscanf(line, "Variable Segment -- Size: %d, M-Value Range: %d to %d",
		&hdr.varSize, &hdr.minM, &hdr.maxM); err != nil {
		return hdr, fmt.Errorf("%w: parsing variable-segment header line %q: %v", ErrFormat, line, err)
	}

	line, ok = nextLine(scanner)
	if !ok {
		return hdr, fmt.Errorf("%w: missing fixed-segment header line", ErrFormat)
	}
	if _, err := fmt.Sscanf(line, "Fixed Segment -- Size: %d, Values: %d, %d, %d, %d",
		&hdr.fixedSize, &hdr.fixed[0], &hdr.fixed[1], &hdr.fixed[2], &hdr.fixed[3]); err != nil {
		return hdr, fmt.Errorf("%w: parsing fixed-segment header line %q: %v", ErrFormat, line, err)
	}

	if hdr.fixedSize > MaxFixedSize {
		return hdr, fmt.Errorf("%w: fixed segment size %d exceeds max %d", ErrFormat, hdr.fixedSize, MaxFixedSize)
	}

	// The optional trailer line is accepted but not required and carries no
	// information the core interprets.

	return hdr, nil
}

func nextLine(scanner *bufio.Scanner) (string, bool) {
	if !scanner.Scan() {
		return "", false
	}
	return scanner.Text(), true
}

func trimTrailingZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	out := make([]byte, end)
	copy(out, b[:end])
	return out
}
