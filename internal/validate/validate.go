// Package validate compares model output against reference files so test
// cases can assert bit-for-bit reproducibility.
package validate

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ctessum/cdf"
)

// CompareVariables checks that the named variables are identical in two
// NetCDF files: same shape, same values. The first mismatch is reported with
// the variable name and the differing index. Passing variables are logged.
func CompareVariables(logger *slog.Logger, variables []string, filename1, filename2 string) error {
	if logger == nil {
		logger = slog.Default()
	}

	f1, close1, err := open(filename1)
	if err != nil {
		return err
	}
	defer close1()
	f2, close2, err := open(filename2)
	if err != nil {
		return err
	}
	defer close2()

	for _, v := range variables {
		if err := compareVariable(f1, f2, v, filename1, filename2); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("%s: PASS", v))
	}
	return nil
}

func open(filename string) (*cdf.File, func(), error) {
	fh, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	cf, err := cdf.Open(fh)
	if err != nil {
		fh.Close()
		return nil, nil, fmt.Errorf("reading NetCDF header of %s: %w", filename, err)
	}
	return cf, func() { fh.Close() }, nil
}

func compareVariable(f1, f2 *cdf.File, v, name1, name2 string) error {
	if !hasVariable(f1, v) {
		return fmt.Errorf("variable %s not found in %s", v, name1)
	}
	if !hasVariable(f2, v) {
		return fmt.Errorf("variable %s not found in %s", v, name2)
	}

	len1 := f1.Header.Lengths(v)
	len2 := f2.Header.Lengths(v)
	if !equalInts(len1, len2) {
		return fmt.Errorf("variable %s: shape mismatch between %s %v and %s %v",
			v, name1, len1, name2, len2)
	}

	buf1, err := readFull(f1, v)
	if err != nil {
		return fmt.Errorf("reading %s from %s: %w", v, name1, err)
	}
	buf2, err := readFull(f2, v)
	if err != nil {
		return fmt.Errorf("reading %s from %s: %w", v, name2, err)
	}

	// Same shape does not imply same element type: a single-precision model
	// output can share dimensions with a double-precision reference.
	switch a := buf1.(type) {
	case []float64:
		b, ok := buf2.([]float64)
		if !ok {
			return typeMismatch(v, name1, buf1, name2, buf2)
		}
		for i := range a {
			if a[i] != b[i] {
				return mismatch(v, i, a[i], b[i])
			}
		}
	case []float32:
		b, ok := buf2.([]float32)
		if !ok {
			return typeMismatch(v, name1, buf1, name2, buf2)
		}
		for i := range a {
			if a[i] != b[i] {
				return mismatch(v, i, a[i], b[i])
			}
		}
	case []int32:
		b, ok := buf2.([]int32)
		if !ok {
			return typeMismatch(v, name1, buf1, name2, buf2)
		}
		for i := range a {
			if a[i] != b[i] {
				return mismatch(v, i, a[i], b[i])
			}
		}
	default:
		return fmt.Errorf("variable %s: unsupported NetCDF type %T", v, buf1)
	}
	return nil
}

func typeMismatch(v, name1 string, buf1 any, name2 string, buf2 any) error {
	return fmt.Errorf("variable %s: type mismatch between %s (%T) and %s (%T)",
		v, name1, buf1, name2, buf2)
}

func hasVariable(f *cdf.File, v string) bool {
	for _, name := range f.Header.Variables() {
		if name == v {
			return true
		}
	}
	return false
}

func readFull(f *cdf.File, v string) (any, error) {
	r := f.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mismatch(v string, i int, a, b any) error {
	return fmt.Errorf("variable %s: values differ at index %d: %v != %v", v, i, a, b)
}
