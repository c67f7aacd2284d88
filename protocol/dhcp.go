package protocol

import "bytes"

var dhcpMagicCookie = []byte{0x63, 0x82, 0x53, 0x63}

// probeDHCP recognizes a BOOTP/DHCP message header: a valid opcode,
// Ethernet-consistent hardware address fields (when htype claims Ethernet),
// bounded hop count, and cleared flag reserved bits.
func probeDHCP(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 44 {
		return Incomplete, UnknownVersion
	}
	op := data[0]
	if op != 1 && op != 2 {
		return NoMatch, UnknownVersion
	}
	htype, hlen := data[1], data[2]
	if htype == 1 || htype == 6 {
		if hlen != 6 {
			return NoMatch, UnknownVersion
		}
		for i := 34; i < 44; i++ {
			if data[i] != 0 {
				return NoMatch, UnknownVersion
			}
		}
	} else if hlen < 1 || hlen > 16 {
		return NoMatch, UnknownVersion
	}
	if data[3] > 16 {
		return NoMatch, UnknownVersion
	}
	if data[10]&0x7F != 0 || data[11] != 0 {
		return NoMatch, UnknownVersion
	}
	if len(data) >= 240 && !bytes.Equal(data[236:240], dhcpMagicCookie) {
		return NoMatch, UnknownVersion
	}
	return Match, UnknownVersion
}
