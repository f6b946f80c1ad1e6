package lower

import "strings"

// processEscapes un-escapes a raw literal segment of a format string per
// spec §4.3: `\n`, `\t`, `\"`, `\\`, `\0` map to their usual control
// characters, `\$` becomes a literal `$` (so that `${` is not mistaken for
// an interpolation opener when escaped), and a backslash immediately
// followed by a newline and any amount of leading whitespace on the next
// line is a line continuation that is deleted entirely.
//
// Grounded on the escape table named explicitly in spec §4.3; the
// original_source/src/modusfile.rs equivalent (`process_raw_string`) was
// not part of the retrieved pack, so this is a direct implementation of
// the spec's prose rule rather than a translation.
func processEscapes(raw string) string {
	var b strings.Builder
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i == len(runes)-1 {
			b.WriteRune(r)
			continue
		}
		next := runes[i+1]
		switch next {
		case 'n':
			b.WriteRune('\n')
			i++
		case 't':
			b.WriteRune('\t')
			i++
		case '"':
			b.WriteRune('"')
			i++
		case '\\':
			b.WriteRune('\\')
			i++
		case '0':
			b.WriteRune(0)
			i++
		case '$':
			b.WriteRune('$')
			i++
		case '\n':
			i++
			for i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t') {
				i++
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
