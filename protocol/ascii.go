package protocol

// Shared, bounded, allocation-free helpers used by several text-based
// protocol validators (SMTP, POP3, IMAP, FTP, SIP, RTSP all recognize a
// single printable-ASCII command or status line terminated by '\n').

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isASCIIUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

func isASCIIAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || isDigit(b)
}

func isTagChar(b byte) bool {
	return isASCIIAlnum(b) || b == '.' || b == '_' || b == '-'
}

// validateLine scans up to the first 64 bytes of data looking for a line
// terminator. Every byte before the terminator (or before the 64-byte cap,
// if none is found) must be printable ASCII (32..126), CR, or, if allowTab,
// a tab. Returns Match once a terminator is seen or len(data) >= 16 (the
// line is "long enough to trust"), Incomplete if the scanned prefix is
// clean but neither condition holds yet, NoMatch on any disallowed byte.
func validateLine(data []byte, allowTab bool) DetectionStatus {
	limit := len(data)
	if limit > 64 {
		limit = 64
	}
	foundNewline := false
	for _, b := range data[:limit] {
		if b == '\n' {
			foundNewline = true
			break
		}
		if b == '\r' || (allowTab && b == '\t') {
			continue
		}
		if b < 32 || b > 126 {
			return NoMatch
		}
	}
	if foundNewline || len(data) >= 16 {
		return Match
	}
	return Incomplete
}

// matchWithSeparator reports whether data begins with word immediately
// followed by a separator byte (space, CR, or LF) — used to recognize
// commands like "EHLO ", "QUIT\r", "DATA\n" while rejecting a word that is
// merely a prefix of a longer token (e.g. "DATABASE"). The second return
// value reports whether more bytes are needed before a verdict is possible
// (data is itself a strict prefix of word, or data == word with no
// separator byte visible yet).
func matchWithSeparator(data []byte, word string) (matched bool, needMore bool) {
	n := len(data)
	wl := len(word)
	if n < wl {
		if string(data) == word[:n] {
			return false, true
		}
		return false, false
	}
	if string(data[:wl]) != word {
		return false, false
	}
	if n == wl {
		return false, true
	}
	sep := data[wl]
	return sep == ' ' || sep == '\r' || sep == '\n', false
}
