package protocol

var imapGreetings = []string{"* OK ", "* PREAUTH ", "* BYE ", "* NO ", "* BAD "}

var imapCommands = map[string]bool{
	"LOGIN": true, "LOGOUT": true, "CAPABILITY": true, "NOOP": true,
	"STARTTLS": true, "AUTHENTICATE": true, "SELECT": true, "EXAMINE": true,
	"CREATE": true, "DELETE": true, "RENAME": true, "SUBSCRIBE": true,
	"UNSUBSCRIBE": true, "LIST": true, "LSUB": true, "STATUS": true,
	"APPEND": true, "CHECK": true, "CLOSE": true, "EXPUNGE": true,
	"SEARCH": true, "FETCH": true, "STORE": true, "COPY": true,
	"UID": true, "ID": true, "ENABLE": true, "IDLE": true, "NAMESPACE": true,
}

// probeIMAP recognizes an IMAP untagged server response ("* OK ...") or a
// client tagged command ("A001 LOGIN ..."). The space immediately after '*'
// disambiguates a greeting from a RESP array header ("*3\r\n...") which has
// no such space.
func probeIMAP(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 5 {
		return Incomplete, UnknownVersion
	}

	status, _ := probeCommandLine(data, imapGreetings, nil, true)
	if status == Match {
		return Match, UnknownVersion
	}
	anyIncomplete := status == Incomplete

	tagStatus := probeIMAPTaggedCommand(data)
	if tagStatus == Match {
		return Match, UnknownVersion
	}
	if tagStatus == Incomplete {
		anyIncomplete = true
	}

	if anyIncomplete {
		return Incomplete, UnknownVersion
	}
	return NoMatch, UnknownVersion
}

func probeIMAPTaggedCommand(data []byte) DetectionStatus {
	i := 0
	for i < len(data) && i < 20 && isTagChar(data[i]) {
		i++
	}
	if i == 0 {
		return NoMatch
	}
	if i >= len(data) {
		return Incomplete
	}
	if data[i] != ' ' {
		return NoMatch
	}
	cmdStart := i + 1
	if cmdStart >= len(data) {
		return Incomplete
	}
	j := cmdStart
	for j < len(data) && j < cmdStart+16 && isASCIIUpper(data[j]) {
		j++
	}
	cmdLen := j - cmdStart
	if cmdLen >= 2 && imapCommands[string(data[cmdStart:j])] {
		return validateLine(data, true)
	}
	if j >= len(data) && j < cmdStart+16 {
		return Incomplete
	}
	return NoMatch
}
