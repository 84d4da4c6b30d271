package model

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Version is a dotted numeric plug-in version such as "1.2.0". Components
// are compared numerically and missing trailing components count as zero,
// so "1.2" equals "1.2.0" and "2.10" is newer than "2.9".
type Version []int

// ParseVersion parses a dotted sequence of non-negative integers
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	v := make(Version, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, goerr.New("invalid version string", goerr.V("version", s))
		}
		v = append(v, n)
	}
	return v, nil
}

// Compare returns -1, 0 or 1 when v is older than, equal to or newer than
// other
func (v Version) Compare(other Version) int {
	n := len(v)
	if len(other) > n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(v) {
			a = v[i]
		}
		if i < len(other) {
			b = other[i]
		}
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// Equal reports whether the zero-padded component sequences match
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// MaxVersion returns the newest of the given versions, or nil for an
// empty input
func MaxVersion(versions []Version) Version {
	var newest Version
	for _, v := range versions {
		if newest == nil || v.Compare(newest) > 0 {
			newest = v
		}
	}
	return newest
}
