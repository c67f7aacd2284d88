package protocol

import "bytes"

var (
	smb1Magic = []byte{0xff, 'S', 'M', 'B'}
	smb2Magic = []byte{0xfe, 'S', 'M', 'B'}
)

// probeSMB recognizes a raw SMB1/SMB2/3 magic, or the same magics wrapped in
// NetBIOS-over-TCP session-message framing.
func probeSMB(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 4 {
		return Incomplete, UnknownVersion
	}
	if bytes.Equal(data[:4], smb1Magic) || bytes.Equal(data[:4], smb2Magic) {
		return Match, UnknownVersion
	}
	if data[0] != 0x00 {
		return NoMatch, UnknownVersion
	}
	if len(data) < 8 {
		return Incomplete, UnknownVersion
	}
	length := int(data[1])<<16 | int(data[2])<<8 | int(data[3])
	magic := data[4:8]
	switch {
	case bytes.Equal(magic, smb1Magic):
		if length >= 32 {
			return Match, UnknownVersion
		}
	case bytes.Equal(magic, smb2Magic):
		if length >= 64 {
			return Match, UnknownVersion
		}
	}
	return NoMatch, UnknownVersion
}
