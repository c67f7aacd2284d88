package protocol

import "bytes"

// probeCommandLine is shared by the line-oriented mail/transfer protocols
// (SMTP, POP3, FTP): a literal greeting prefix or a command word followed by
// a separator, then a printable-ASCII line up to the first newline.
func probeCommandLine(data []byte, literalPrefixes, separatorWords []string, allowTab bool) (DetectionStatus, ProtocolVersion) {
	anyIncomplete := false

	for _, p := range literalPrefixes {
		pb := []byte(p)
		n := len(data)
		if n >= len(pb) {
			if bytes.Equal(data[:len(pb)], pb) {
				return validateLine(data, allowTab), UnknownVersion
			}
			continue
		}
		if bytes.Equal(data, pb[:n]) {
			anyIncomplete = true
		}
	}

	for _, w := range separatorWords {
		matched, needMore := matchWithSeparator(data, w)
		if matched {
			return validateLine(data, allowTab), UnknownVersion
		}
		if needMore {
			anyIncomplete = true
		}
	}

	if anyIncomplete {
		return Incomplete, UnknownVersion
	}
	return NoMatch, UnknownVersion
}

// probeStatusOrRequestLine is shared by SIP and RTSP: a status-line literal
// prefix, or a method name followed by a separator and, somewhere on the
// same line, one of the protocol's version markers (e.g. " SIP/2.0").
func probeStatusOrRequestLine(data []byte, statusPrefixes, methods, versionMarkers []string) (DetectionStatus, ProtocolVersion) {
	anyIncomplete := false

	for _, sp := range statusPrefixes {
		spb := []byte(sp)
		n := len(data)
		if n >= len(spb) {
			if bytes.Equal(data[:len(spb)], spb) {
				return validateLine(data, true), UnknownVersion
			}
			continue
		}
		if bytes.Equal(data, spb[:n]) {
			anyIncomplete = true
		}
	}

	for _, m := range methods {
		matched, needMore := matchWithSeparator(data, m)
		if needMore {
			anyIncomplete = true
			continue
		}
		if !matched {
			continue
		}
		lineStatus := validateLine(data, true)
		if lineStatus == Incomplete {
			anyIncomplete = true
			continue
		}
		if lineStatus == NoMatch {
			continue
		}
		limit := len(data)
		if limit > 64 {
			limit = 64
		}
		line := data[:limit]
		if nl := bytes.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
		}
		for _, vm := range versionMarkers {
			if bytes.Contains(line, []byte(vm)) {
				return Match, UnknownVersion
			}
		}
	}

	if anyIncomplete {
		return Incomplete, UnknownVersion
	}
	return NoMatch, UnknownVersion
}
