package protocol

import "bytes"

const h2Preface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

var httpMethods = []string{
	"GET ", "PUT ", "POST ", "HEAD ", "DELETE ", "OPTIONS ", "PATCH ", "CONNECT ",
}

type httpStatusPrefix struct {
	prefix  string
	version string
}

var httpStatusPrefixes = []httpStatusPrefix{
	{"HTTP/1.0 ", "1.0"},
	{"HTTP/1.1 ", "1.1"},
	{"HTTP/2.0 ", "2.0"},
	{"HTTP/2 ", "2.0"},
}

// probeHTTP recognizes HTTP/1.x request and status lines and the H2
// connection preface. Method and status-line keywords are matched
// case-sensitively, exactly as the wire protocol requires.
func probeHTTP(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 4 {
		return Incomplete, UnknownVersion
	}

	anyIncomplete := false

	if status, ver := probeH2Preface(data); status == Match {
		return Match, ver
	} else if status == Incomplete {
		anyIncomplete = true
	}

	if status, ver := probeHTTPStatusLine(data); status == Match {
		return Match, ver
	} else if status == Incomplete {
		anyIncomplete = true
	}

	if status, ver := probeHTTPRequestLine(data); status == Match {
		return Match, ver
	} else if status == Incomplete {
		anyIncomplete = true
	}

	if anyIncomplete {
		return Incomplete, UnknownVersion
	}
	return NoMatch, UnknownVersion
}

func probeH2Preface(data []byte) (DetectionStatus, ProtocolVersion) {
	n := len(data)
	if n > len(h2Preface) {
		n = len(h2Preface)
	}
	if !bytes.Equal(data[:n], []byte(h2Preface[:n])) {
		return NoMatch, UnknownVersion
	}
	if len(data) < len(h2Preface) {
		return Incomplete, UnknownVersion
	}
	return Match, HTTPVersion("2.0")
}

func probeHTTPStatusLine(data []byte) (DetectionStatus, ProtocolVersion) {
	anyIncomplete := false
	for _, c := range httpStatusPrefixes {
		p := []byte(c.prefix)
		n := len(data)
		switch {
		case n > len(p):
			if !bytes.Equal(data[:len(p)], p) {
				continue
			}
			if isDigit(data[len(p)]) {
				return Match, HTTPVersion(c.version)
			}
		case n == len(p):
			if bytes.Equal(data, p) {
				anyIncomplete = true
			}
		default:
			if bytes.Equal(data, p[:n]) {
				anyIncomplete = true
			}
		}
	}
	if anyIncomplete {
		return Incomplete, UnknownVersion
	}
	return NoMatch, UnknownVersion
}

func probeHTTPRequestLine(data []byte) (DetectionStatus, ProtocolVersion) {
	anyIncomplete := false
	for _, m := range httpMethods {
		method := []byte(m)
		n := len(data)
		switch {
		case n > len(method):
			if !bytes.Equal(data[:len(method)], method) {
				continue
			}
			target := data[len(method)]
			if target == '/' || target == '*' || isASCIIAlnum(target) {
				return Match, extractHTTPRequestVersion(data)
			}
		case n == len(method):
			if bytes.Equal(data, method) {
				anyIncomplete = true
			}
		default:
			if bytes.Equal(data, method[:n]) {
				anyIncomplete = true
			}
		}
	}
	if anyIncomplete {
		return Incomplete, UnknownVersion
	}
	return NoMatch, UnknownVersion
}

func extractHTTPRequestVersion(data []byte) ProtocolVersion {
	limit := len(data)
	if limit > 64 {
		limit = 64
	}
	line := data[:limit]
	if nl := bytes.IndexByte(line, '\n'); nl >= 0 {
		line = line[:nl]
	}
	const marker = " HTTP/1."
	idx := bytes.Index(line, []byte(marker))
	if idx < 0 {
		return UnknownVersion
	}
	pos := idx + len(marker)
	if pos >= len(line) {
		return UnknownVersion
	}
	switch line[pos] {
	case '1':
		return HTTPVersion("1.1")
	case '0':
		return HTTPVersion("1.0")
	default:
		return HTTPVersion("1.x")
	}
}
