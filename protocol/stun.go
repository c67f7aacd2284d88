package protocol

import "bytes"

var stunMagicCookie = []byte{0x21, 0x12, 0xA4, 0x42}

// probeSTUN recognizes a STUN message header by its fixed magic cookie and
// the two reserved top bits of the message type.
func probeSTUN(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 20 {
		return Incomplete, UnknownVersion
	}
	if data[0]&0xC0 != 0 {
		return NoMatch, UnknownVersion
	}
	length := int(data[2])<<8 | int(data[3])
	if length%4 != 0 {
		return NoMatch, UnknownVersion
	}
	if !bytes.Equal(data[4:8], stunMagicCookie) {
		return NoMatch, UnknownVersion
	}
	return Match, UnknownVersion
}
