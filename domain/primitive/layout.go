package primitive

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Layout patterns use the familiar yyyy/MM/dd/HH/mm/ss/fff tokens, e.g.
// "yyyyMMdd" or "HH:mm:ss". Text inside single quotes is literal; so are
// ASCII punctuation and the letters T and Z. Time layouts compile to a
// strftime specification; duration layouts are rendered here since no
// calendar formatter handles spans longer than a day.

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokYear4
	tokMonth
	tokDay
	tokHour24
	tokHour12
	tokMinute
	tokSecond
	tokFraction
	tokAMPM
)

type token struct {
	kind  tokenKind
	text  string // literal text
	width int    // digits for fraction tokens
}

type layout struct {
	pattern  string
	tokens   []token
	spec     string // strftime form of a time layout
	duration bool
}

// fractionSpecs maps fraction widths to their strftime directive.
var fractionSpecs = map[int]string{3: "%L", 6: "%f", 9: "%N"}

func compileLayout(pattern string, kind RawKind) (*layout, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty layout")
	}
	if !kind.IsTemporal() {
		return nil, fmt.Errorf("layout %q not supported for %s", pattern, kind)
	}

	tokens, err := tokenize(pattern)
	if err != nil {
		return nil, err
	}

	l := &layout{pattern: pattern, tokens: tokens, duration: kind == RawDuration}
	if l.duration {
		for _, tok := range tokens {
			switch tok.kind {
			case tokLiteral, tokHour24, tokMinute, tokSecond, tokFraction:
			default:
				return nil, fmt.Errorf("layout %q: duration layouts accept only HH, mm, ss and f tokens", pattern)
			}
		}
		return l, nil
	}

	if has(tokens, tokHour12) != has(tokens, tokAMPM) {
		return nil, fmt.Errorf("layout %q: hh and tt must be used together", pattern)
	}

	var b strings.Builder
	for _, tok := range tokens {
		switch tok.kind {
		case tokLiteral:
			b.WriteString(strings.ReplaceAll(tok.text, "%", "%%"))
		case tokYear4:
			b.WriteString("%Y")
		case tokMonth:
			b.WriteString("%m")
		case tokDay:
			b.WriteString("%d")
		case tokHour24:
			b.WriteString("%H")
		case tokHour12:
			b.WriteString("%I")
		case tokMinute:
			b.WriteString("%M")
		case tokSecond:
			b.WriteString("%S")
		case tokFraction:
			spec, ok := fractionSpecs[tok.width]
			if !ok {
				return nil, fmt.Errorf("layout %q: time fractions take 3, 6 or 9 digits", pattern)
			}
			b.WriteString(spec)
		case tokAMPM:
			b.WriteString("%p")
		}
	}
	l.spec = b.String()

	// Rejects digits and month or zone names in literals, and fractions
	// that do not follow '.' or ','.
	if _, err := strftime.Layout(l.spec); err != nil {
		return nil, fmt.Errorf("layout %q: %w", pattern, err)
	}
	return l, nil
}

func has(tokens []token, kind tokenKind) bool {
	for _, tok := range tokens {
		if tok.kind == kind {
			return true
		}
	}
	return false
}

func tokenize(pattern string) ([]token, error) {
	var tokens []token
	literal := func(s string) {
		if n := len(tokens); n > 0 && tokens[n-1].kind == tokLiteral {
			tokens[n-1].text += s
			return
		}
		tokens = append(tokens, token{kind: tokLiteral, text: s})
	}

	for i := 0; i < len(pattern); {
		c := pattern[i]

		if c == '\'' {
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("layout %q: unterminated quote", pattern)
			}
			literal(pattern[i+1 : i+1+end])
			i += end + 2
			continue
		}

		if c >= '0' && c <= '9' {
			return nil, fmt.Errorf("layout %q: digits must be quoted", pattern)
		}

		if !isLetter(c) || c == 'T' || c == 'Z' {
			literal(string(c))
			i++
			continue
		}

		j := i
		for j < len(pattern) && pattern[j] == c {
			j++
		}
		run := j - i

		tok, err := letterToken(c, run)
		if err != nil {
			return nil, fmt.Errorf("layout %q: %w", pattern, err)
		}
		tokens = append(tokens, tok)
		i = j
	}
	return tokens, nil
}

func letterToken(c byte, run int) (token, error) {
	switch {
	case c == 'y' && run == 4:
		return token{kind: tokYear4}, nil
	case c == 'y' && run == 2:
		return token{}, fmt.Errorf("two-digit years are ambiguous, use yyyy")
	case c == 'M' && run == 2:
		return token{kind: tokMonth}, nil
	case c == 'd' && run == 2:
		return token{kind: tokDay}, nil
	case c == 'H' && run == 2:
		return token{kind: tokHour24}, nil
	case c == 'h' && run == 2:
		return token{kind: tokHour12}, nil
	case c == 'm' && run == 2:
		return token{kind: tokMinute}, nil
	case c == 's' && run == 2:
		return token{kind: tokSecond}, nil
	case c == 'f' && run >= 1 && run <= 9:
		return token{kind: tokFraction, width: run}, nil
	case c == 't' && run == 2:
		return token{kind: tokAMPM}, nil
	}
	return token{}, fmt.Errorf("unsupported token %q", strings.Repeat(string(c), run))
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (l *layout) formatTime(t time.Time) string {
	return strftime.Format(l.spec, t)
}

func (l *layout) parseTime(s string) (time.Time, error) {
	return strftime.Parse(l.spec, s)
}

// largest returns the biggest duration unit present in the layout.
func (l *layout) largest() tokenKind {
	best := tokFraction
	for _, tok := range l.tokens {
		switch tok.kind {
		case tokHour24:
			return tokHour24
		case tokMinute:
			best = tokMinute
		case tokSecond:
			if best != tokMinute {
				best = tokSecond
			}
		}
	}
	return best
}

func (l *layout) formatDuration(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}

	top := l.largest()
	for _, tok := range l.tokens {
		switch tok.kind {
		case tokLiteral:
			b.WriteString(tok.text)
		case tokHour24:
			fmt.Fprintf(&b, "%02d", int64(d/time.Hour))
		case tokMinute:
			m := int64(d / time.Minute)
			if top != tokMinute {
				m %= 60
			}
			fmt.Fprintf(&b, "%02d", m)
		case tokSecond:
			s := int64(d / time.Second)
			if top != tokSecond {
				s %= 60
			}
			fmt.Fprintf(&b, "%02d", s)
		case tokFraction:
			frac := int64(d % time.Second)
			for i := tok.width; i < 9; i++ {
				frac /= 10
			}
			fmt.Fprintf(&b, "%0*d", tok.width, frac)
		}
	}
	return b.String()
}

func (l *layout) parseDuration(s string) (time.Duration, error) {
	neg := strings.HasPrefix(s, "-")
	rest := strings.TrimPrefix(s, "-")
	top := l.largest()

	var d time.Duration
	for _, tok := range l.tokens {
		if tok.kind == tokLiteral {
			if !strings.HasPrefix(rest, tok.text) {
				return 0, fmt.Errorf("%q does not match layout %q", s, l.pattern)
			}
			rest = rest[len(tok.text):]
			continue
		}

		width := 2
		if tok.kind == tokFraction {
			width = tok.width
		}
		if tok.kind == top {
			width = leadingDigits(rest)
		}
		if width == 0 || len(rest) < width || leadingDigits(rest[:width]) != width {
			return 0, fmt.Errorf("%q does not match layout %q", s, l.pattern)
		}

		n, err := strconv.ParseInt(rest[:width], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q does not match layout %q: %w", s, l.pattern, err)
		}
		rest = rest[width:]

		switch tok.kind {
		case tokHour24:
			d += time.Duration(n) * time.Hour
		case tokMinute:
			if tok.kind != top && n > 59 {
				return 0, fmt.Errorf("minutes out of range in %q", s)
			}
			d += time.Duration(n) * time.Minute
		case tokSecond:
			if tok.kind != top && n > 59 {
				return 0, fmt.Errorf("seconds out of range in %q", s)
			}
			d += time.Duration(n) * time.Second
		case tokFraction:
			for i := tok.width; i < 9; i++ {
				n *= 10
			}
			d += time.Duration(n)
		}
	}
	if rest != "" {
		return 0, fmt.Errorf("%q does not match layout %q", s, l.pattern)
	}
	if neg {
		d = -d
	}
	return d, nil
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
