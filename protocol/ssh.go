package protocol

import "bytes"

type sshVersionCandidate struct {
	prefix  string
	version string
}

// sshVersionCandidates lists the recognized SSH identification-string
// version tags. SSH-1.99- is the historical "I also speak 2.0" marker and is
// normalized to "2.0"; SSH-1.5- is reported literally, matching how the
// reference implementation this package was ported from treats it.
var sshVersionCandidates = []sshVersionCandidate{
	{"SSH-2.0-", "2.0"},
	{"SSH-1.99-", "2.0"},
	{"SSH-1.5-", "1.5"},
}

// probeSSH recognizes an SSH identification string: "SSH-" followed by a
// recognized protocol-version tag, followed by a software-version comment
// terminated by a newline.
func probeSSH(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 4 {
		return Incomplete, UnknownVersion
	}
	if !bytes.HasPrefix(data, []byte("SSH-")) {
		return NoMatch, UnknownVersion
	}
	if len(data) < 8 {
		return Incomplete, UnknownVersion
	}

	version, status := matchSSHVersion(data)
	if status != Match {
		return status, UnknownVersion
	}

	lineStatus := validateLine(data, false)
	if lineStatus != Match {
		return lineStatus, UnknownVersion
	}
	return Match, version
}

func matchSSHVersion(data []byte) (ProtocolVersion, DetectionStatus) {
	anyIncomplete := false
	for _, c := range sshVersionCandidates {
		p := []byte(c.prefix)
		n := len(data)
		switch {
		case n >= len(p):
			if bytes.Equal(data[:len(p)], p) {
				return SSHVersion(c.version), Match
			}
		default:
			if bytes.Equal(data, p[:n]) {
				anyIncomplete = true
			}
		}
	}
	if anyIncomplete {
		return UnknownVersion, Incomplete
	}
	return UnknownVersion, NoMatch
}
