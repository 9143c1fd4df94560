// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

// SanitizeName computes a traversal-safe replacement for one raw entry name.
// A leading slash becomes the filler byte, and every name component that is
// exactly ".." has both characters replaced with the filler byte. The
// replacement always has the same byte length as the input. Runs of two dots
// that do not form a full component, such as "a..b" or a name ending in
// "..x", are left alone.
//
// It returns (nil, false) when the name needs no correction, which callers
// must treat as distinct from a correction that happens to equal the input.
func SanitizeName(name []byte) ([]byte, bool) {
	if len(name) == 0 {
		return nil, false
	}

	fixed := make([]byte, len(name))
	changed := false

	// Replace a leading path-root marker.
	if name[0] == pathSeparator {
		fixed[0] = fillerByte
		changed = true
	} else {
		fixed[0] = name[0]
	}

	// par counts reference characters matched at the start of the current
	// component: 0 inactive, 1 after a separator, 2 after the first dot,
	// 3 on the dot that completes a candidate "..".
	par := 0
	if fixed[0] == referenceChar {
		par = 2
	}

	for i := 1; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch == pathSeparator:
			par = 1
		case par != 0 && ch == referenceChar:
			par++
			if par == 3 {
				// A back-reference only when the component ends here.
				if i == len(name)-1 || name[i+1] == pathSeparator {
					changed = true
					fixed[i-1] = fillerByte
					ch = fillerByte
				} else {
					par = 0
				}
			}
		default:
			par = 0
		}

		fixed[i] = ch
	}

	if !changed {
		return nil, false
	}

	return fixed, true
}
