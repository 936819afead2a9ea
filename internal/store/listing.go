package store

import (
	"os"
	"sort"
	"strings"
)

// listPageFiles returns the page image filenames (.jpg/.jpeg) in dir,
// sorted with a locale-stable, numeric-aware ordering so "2.jpg" sorts
// before "10.jpg". The directory listing, not metadata, is the ground
// truth for reconstruction.
func listPageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lower := strings.ToLower(entry.Name())
		if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg") {
			names = append(names, entry.Name())
		}
	}

	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })
	return names, nil
}

// naturalLess compares strings treating digit runs as numbers, falling
// back to byte comparison for non-digit segments. Numerically equal
// names that differ only in zero padding are tie-broken on the raw
// strings so the order is total and deterministic.
func naturalLess(a, b string) bool {
	ra, rb := a, b
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			aNum, aRest := splitDigits(a)
			bNum, bRest := splitDigits(b)
			if c := numCompare(aNum, bNum); c != 0 {
				return c < 0
			}
			a, b = aRest, bRest
			continue
		}

		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	if len(ra) != len(rb) {
		return len(ra) < len(rb)
	}
	return ra < rb
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func splitDigits(s string) (digits, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// numCompare compares two digit strings numerically without overflow by
// comparing zero-trimmed lengths first.
func numCompare(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
