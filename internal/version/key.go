// Copyright 2024 The depend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package version parses release tag names into ordered version keys.
package version

import (
	"strconv"
	"strings"
)

// Key is an ordered tuple of non-negative integers extracted from a tag name.
type Key []uint64

// Compare compares two keys lexicographically and returns -1, 0 or +1
// when k is less than, equal to or greater than other. The shorter key
// compares as if it were zero-padded on the right, so [1 9] and [1 9 0]
// are equal.
func (k Key) Compare(other Key) int {
	n := max(len(k), len(other))
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(k) {
			a = k[i]
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

// Less reports whether k sorts before other.
func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
