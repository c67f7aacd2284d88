package protocol

// probeQUIC recognizes a QUIC long-header packet: version negotiation,
// QUIC v1/v2, or a draft version, with sane connection-ID lengths.
func probeQUIC(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 7 {
		return Incomplete, UnknownVersion
	}
	if data[0]&0xC0 != 0xC0 {
		return NoMatch, UnknownVersion
	}
	version := uint32(data[1])<<24 | uint32(data[2])<<16 | uint32(data[3])<<8 | uint32(data[4])
	isVersionNegotiation := version == 0
	validVersion := version == 1 || isVersionNegotiation || version == 0x6b3343cf ||
		(version >= 0xff000000 && version <= 0xff0000ff)
	if !validVersion {
		return NoMatch, UnknownVersion
	}
	if !isVersionNegotiation && data[0]&0x0C != 0 {
		return NoMatch, UnknownVersion
	}
	dcidLen := int(data[5])
	if dcidLen > 20 {
		return NoMatch, UnknownVersion
	}
	scidOffset := 6 + dcidLen
	if scidOffset < len(data) && data[scidOffset] > 20 {
		return NoMatch, UnknownVersion
	}
	return Match, UnknownVersion
}
