package analyzer

import (
	"bufio"
	"fmt"

	"github.com/spf13/afero"
)

// WriteSorted writes set to path, one address per line in ascending
// lexicographic order. An existing file is overwritten.
func WriteSorted(fs afero.Fs, path string, set *UniqueSet) (int, error) {
	f, err := fs.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}

	ips := set.Sorted()
	w := bufio.NewWriter(f)
	for _, ip := range ips {
		if _, err := w.WriteString(ip + "\n"); err != nil {
			f.Close()
			return 0, fmt.Errorf("write output: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return 0, fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close output: %w", err)
	}
	return len(ips), nil
}
