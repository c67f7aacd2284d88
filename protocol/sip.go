package protocol

var (
	sipStatusPrefixes = []string{"SIP/2.0 "}
	sipMethods        = []string{
		"INVITE", "ACK", "BYE", "CANCEL", "OPTIONS", "REGISTER",
		"PRACK", "SUBSCRIBE", "NOTIFY", "PUBLISH", "INFO", "REFER",
		"MESSAGE", "UPDATE",
	}
	sipVersionMarkers = []string{" SIP/2.0"}
)

// probeSIP recognizes a SIP status-line or a request-line that contains
// " SIP/2.0" on the same line. Where on the line the marker appears is not
// checked.
func probeSIP(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 12 {
		return Incomplete, UnknownVersion
	}
	return probeStatusOrRequestLine(data, sipStatusPrefixes, sipMethods, sipVersionMarkers)
}
