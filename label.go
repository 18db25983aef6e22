// Copyright © 2017 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// label.go sanitizes and assigns the display label on scene graph entities.

import "strings"

// sanitizeLabel rewrites s so every rune is one of [A-Za-z0-9_-]. Runs of
// disallowed characters collapse to a single underscore. An empty result
// falls back to fallback, which callers give as the entity's class name
// plus a counter (e.g. "Body3") so a label is never the empty string.
//
// Sanitization happens once, at set_label/rename time (see Open Question 1
// in the design notes) - Label() is a plain field read, not recomputed on
// every access.
func sanitizeLabel(s, fallback string) string {
	var b strings.Builder
	lastWasGap := false
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
			lastWasGap = false
		default:
			if !lastWasGap && b.Len() > 0 {
				b.WriteByte('_')
				lastWasGap = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "_-")
	if out == "" {
		return fallback
	}
	return out
}
