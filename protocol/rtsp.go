package protocol

var (
	rtspStatusPrefixes = []string{"RTSP/1.0 ", "RTSP/2.0 "}
	rtspMethods        = []string{
		"OPTIONS", "DESCRIBE", "SETUP", "PLAY", "PAUSE", "TEARDOWN",
		"GET_PARAMETER", "SET_PARAMETER", "REDIRECT", "ANNOUNCE", "RECORD",
	}
	rtspVersionMarkers = []string{" RTSP/1.0", " RTSP/2.0"}
)

// probeRTSP recognizes an RTSP status-line or a request-line containing
// " RTSP/1.0" or " RTSP/2.0" on the same line.
func probeRTSP(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 14 {
		return Incomplete, UnknownVersion
	}
	return probeStatusOrRequestLine(data, rtspStatusPrefixes, rtspMethods, rtspVersionMarkers)
}
