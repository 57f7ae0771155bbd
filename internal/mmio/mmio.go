// Package mmio reads sparse matrices in Matrix Market coordinate format,
// optionally gzip or xz compressed, into host CSR form.
package mmio

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ulikunitz/xz"
)

const banner = "%%MatrixMarket"

var (
	// ErrMalformed is returned for files that are not valid Matrix Market.
	ErrMalformed = errors.New("malformed matrix market file")

	// ErrUnsupported is returned for valid files whose element type or
	// layout this package does not handle (complex, hermitian, array).
	ErrUnsupported = errors.New("unsupported matrix market format")
)

// Field is the element type declared in the banner.
type Field string

const (
	FieldReal    Field = "real"
	FieldDouble  Field = "double"
	FieldInteger Field = "integer"
	FieldPattern Field = "pattern"
)

// Symmetry is the storage scheme declared in the banner.
type Symmetry string

const (
	General       Symmetry = "general"
	Symmetric     Symmetry = "symmetric"
	SkewSymmetric Symmetry = "skew-symmetric"
)

// Header describes a coordinate file. Entries is the number of data lines
// declared by the size line. NNZ is the number of stored entries after
// symmetric expansion and Zeros how many of those hold an explicit zero.
type Header struct {
	Rows     int
	Cols     int
	Entries  int
	NNZ      int
	Zeros    int
	Field    Field
	Symmetry Symmetry
}

// ReadHeader reads the banner and size line of path, then walks the
// entries to count stored nonzeros after symmetric expansion. Duplicate
// coordinates are counted separately; ReadCSR merges them.
func ReadHeader(path string) (Header, error) {
	rc, err := open(path)
	if err != nil {
		return Header{}, err
	}
	defer rc.Close()

	sc := newScanner(rc)
	h, line, err := readHeader(sc)
	if err != nil {
		return h, err
	}

	err = scanEntries(sc, h, line, func(e entry) {
		n := 1
		if h.Symmetry != General && e.row != e.col {
			n = 2
		}
		h.NNZ += n
		if e.val == 0 {
			h.Zeros += n
		}
	})
	if err != nil {
		return h, err
	}
	if h.NNZ > math.MaxInt32 {
		return h, fmt.Errorf("%w: %d stored entries exceed 32-bit indices", ErrUnsupported, h.NNZ)
	}
	return h, nil
}

// Options control how entries are loaded.
type Options struct {
	// KeepExplicitZeros retains stored entries whose value is zero.
	KeepExplicitZeros bool
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i].Close())
	}
	return errors.Join(errs...)
}

// open returns a reader over the decompressed contents of path, chosen by
// extension: .gz and .xz are decompressed, anything else is read as is.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: gzip: %v", ErrMalformed, err)
		}
		return &readCloser{Reader: zr, closers: []io.Closer{f, zr}}, nil
	case strings.HasSuffix(lower, ".xz"):
		xr, err := xz.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: xz: %v", ErrMalformed, err)
		}
		return &readCloser{Reader: xr, closers: []io.Closer{f}}, nil
	default:
		return f, nil
	}
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	return sc
}

// readHeader consumes the banner, comments and size line. The returned int
// is the line number of the size line.
func readHeader(sc *bufio.Scanner) (Header, int, error) {
	var h Header
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return h, 0, err
		}
		return h, 0, fmt.Errorf("%w: empty file", ErrMalformed)
	}

	tokens := strings.Fields(strings.ToLower(sc.Text()))
	if len(tokens) != 5 || tokens[0] != strings.ToLower(banner) {
		return h, 1, fmt.Errorf("%w: missing %s banner", ErrMalformed, banner)
	}
	if tokens[1] != "matrix" {
		return h, 1, fmt.Errorf("%w: object %q", ErrUnsupported, tokens[1])
	}
	if tokens[2] != "coordinate" {
		return h, 1, fmt.Errorf("%w: format %q", ErrUnsupported, tokens[2])
	}

	switch f := Field(tokens[3]); f {
	case FieldReal, FieldDouble, FieldInteger, FieldPattern:
		h.Field = f
	case "complex":
		return h, 1, fmt.Errorf("%w: field %q", ErrUnsupported, tokens[3])
	default:
		return h, 1, fmt.Errorf("%w: unknown field %q", ErrMalformed, tokens[3])
	}

	switch s := Symmetry(tokens[4]); s {
	case General, Symmetric, SkewSymmetric:
		h.Symmetry = s
	case "hermitian":
		return h, 1, fmt.Errorf("%w: symmetry %q", ErrUnsupported, tokens[4])
	default:
		return h, 1, fmt.Errorf("%w: unknown symmetry %q", ErrMalformed, tokens[4])
	}

	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 3 {
			return h, line, fmt.Errorf("%w: line %d: size line needs 3 fields, got %d", ErrMalformed, line, len(fields))
		}
		dims := make([]int, 3)
		for i, s := range fields {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return h, line, fmt.Errorf("%w: line %d: bad size %q", ErrMalformed, line, s)
			}
			dims[i] = n
		}
		h.Rows, h.Cols, h.Entries = dims[0], dims[1], dims[2]
		if h.Rows >= math.MaxInt32 || h.Cols >= math.MaxInt32 || h.Entries > math.MaxInt32 {
			return h, line, fmt.Errorf("%w: line %d: %dx%d with %d entries exceeds 32-bit indices",
				ErrUnsupported, line, h.Rows, h.Cols, h.Entries)
		}
		if h.Symmetry != General && h.Rows != h.Cols {
			return h, line, fmt.Errorf("%w: %s matrix is not square (%dx%d)", ErrMalformed, h.Symmetry, h.Rows, h.Cols)
		}
		return h, line, nil
	}
	if err := sc.Err(); err != nil {
		return h, line, err
	}
	return h, line, fmt.Errorf("%w: missing size line", ErrMalformed)
}

// scanEntries parses the h.Entries data lines following the size line and
// hands each one to fn. Fewer lines than declared is an error.
func scanEntries(sc *bufio.Scanner, h Header, line int, fn func(entry)) error {
	read := 0
	for read < h.Entries && sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}
		read++

		e, err := parseEntry(text, h)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		fn(e)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if read < h.Entries {
		return fmt.Errorf("%w: expected %d entries, found %d", ErrMalformed, h.Entries, read)
	}
	return nil
}
