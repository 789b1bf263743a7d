package timeparse

// Match is the first time expression found in a piece of text.
type Match struct {
	Start  int    // byte offset of the first matched byte
	End    int    // byte offset just past the last matched byte
	Hour   string // raw hour digits
	Minute string // raw minute digits, empty when absent
	AmPm   string // "am", "pm", or empty; always lowercase
	Zone   string // raw abbreviation token as typed
	Text   string // the full matched substring
}

// FindFirstExpression scans text for the first substring of the form
//
//	hour[:minute][am|pm] ABBR
//
// where hour is 1-2 digits, minute is exactly 2 digits, the am/pm
// marker may sit flush against the hour, and ABBR is a word-bounded
// run of 2-5 letters. Returns nil when no expression is present.
// Later candidates in the same text are ignored.
func FindFirstExpression(text string) *Match {
	for i := 0; i < len(text); i++ {
		if !isDigit(text[i]) {
			continue
		}
		if i > 0 && isWord(text[i-1]) {
			continue // mid-word digit, not a candidate start
		}
		if m := matchAt(text, i); m != nil {
			return m
		}
	}
	return nil
}

func matchAt(text string, start int) *Match {
	// The hour is the whole leading digit run. A run longer than two
	// digits can never complete a match here: nothing else in the
	// grammar consumes the extra digits.
	runEnd := start
	for runEnd < len(text) && isDigit(text[runEnd]) {
		runEnd++
	}
	if runEnd-start > 2 {
		return nil
	}
	hour := text[start:runEnd]

	// Optional ":mm", exactly two digits. A third trailing digit would
	// leave an unconsumable digit behind, so it rules the minute out.
	if runEnd+2 < len(text) && text[runEnd] == ':' &&
		isDigit(text[runEnd+1]) && isDigit(text[runEnd+2]) &&
		!(runEnd+3 < len(text) && isDigit(text[runEnd+3])) {
		if m := finish(text, start, hour, text[runEnd+1:runEnd+3], runEnd+3); m != nil {
			return m
		}
	}
	return finish(text, start, hour, "", runEnd)
}

// finish matches the optional am/pm marker and the zone token from pos
// onward. The marker is only kept when a zone token still follows it;
// otherwise the letters are retried as the zone token itself, which is
// how a bare "6pm" ends up with zone "pm" (and an unknown-zone reply).
func finish(text string, start int, hour, minute string, pos int) *Match {
	p := pos
	for p < len(text) && isSpace(text[p]) {
		p++
	}
	if p+1 < len(text) {
		c0 := lower(text[p])
		if (c0 == 'a' || c0 == 'p') && lower(text[p+1]) == 'm' {
			q := p + 2
			for q < len(text) && isSpace(text[q]) {
				q++
			}
			if zone, end := zoneToken(text, q); zone != "" {
				ampm := "am"
				if c0 == 'p' {
					ampm = "pm"
				}
				return &Match{
					Start:  start,
					End:    end,
					Hour:   hour,
					Minute: minute,
					AmPm:   ampm,
					Zone:   zone,
					Text:   text[start:end],
				}
			}
		}
	}
	if zone, end := zoneToken(text, p); zone != "" {
		return &Match{
			Start:  start,
			End:    end,
			Hour:   hour,
			Minute: minute,
			Zone:   zone,
			Text:   text[start:end],
		}
	}
	return nil
}

// zoneToken matches a word-bounded run of 2-5 letters at p.
func zoneToken(text string, p int) (string, int) {
	q := p
	for q < len(text) && isLetter(text[q]) {
		q++
	}
	if n := q - p; n < 2 || n > 5 {
		return "", 0
	}
	if q < len(text) && isWord(text[q]) {
		return "", 0
	}
	return text[p:q], q
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// isWord counts any byte outside ASCII as a word character, so a
// multibyte letter adjacent to a candidate blocks the word boundary.
func isWord(c byte) bool { return isDigit(c) || isLetter(c) || c == '_' || c >= 0x80 }

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
