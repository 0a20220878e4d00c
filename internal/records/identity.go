package records

import "strings"

const identityMaxLen = 150

// Identity derives the stable comment-addressing key for a record: the
// department/owner/objective triple joined with underscores, whitespace
// collapsed to underscores, every character outside [a-zA-Z0-9_] removed,
// truncated to 150 characters. Two records with the same triple share an
// identity. Very long objectives can collide after truncation; that matches
// the deployed comment data and is accepted behavior.
func Identity(r ObjectiveRecord) string {
	joined := r.Department + "_" + r.Owner + "_" + r.Objective

	var b strings.Builder
	b.Grow(len(joined))
	inWhitespace := false
	for _, c := range joined {
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if !inWhitespace {
				b.WriteByte('_')
			}
			inWhitespace = true
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			b.WriteRune(c)
			inWhitespace = false
		default:
			inWhitespace = false
		}
	}

	id := b.String()
	if len(id) > identityMaxLen {
		id = id[:identityMaxLen]
	}
	return id
}
