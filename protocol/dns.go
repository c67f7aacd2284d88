package protocol

// probeDNS recognizes a DNS message header, either bare (UDP framing) or
// prefixed by a 2-byte big-endian length (TCP framing).
func probeDNS(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 12 {
		return Incomplete, UnknownVersion
	}

	if validDNSHeader(data[:12]) && (len(data) < 13 || data[12] <= 63) {
		return Match, UnknownVersion
	}

	if len(data) < 14 {
		return Incomplete, UnknownVersion
	}
	tcpLen := int(data[0])<<8 | int(data[1])
	if tcpLen >= 12 && validDNSHeader(data[2:14]) && (len(data) < 15 || data[14] <= 63) {
		return Match, UnknownVersion
	}
	return NoMatch, UnknownVersion
}

// validDNSHeader checks a 12-byte DNS message header for structural
// consistency: a recognized opcode, the reserved Z bit clear, and
// query/response-appropriate section counts.
func validDNSHeader(h []byte) bool {
	qr := h[2] >> 7 & 1
	opcode := (h[2] >> 3) & 0x0F
	switch opcode {
	case 0, 1, 2, 4, 5:
	default:
		return false
	}
	if h[3]&0x40 != 0 {
		return false
	}
	qd := int(h[4])<<8 | int(h[5])
	an := int(h[6])<<8 | int(h[7])
	ns := int(h[8])<<8 | int(h[9])
	ar := int(h[10])<<8 | int(h[11])
	if qr == 0 {
		if qd < 1 || qd > 10 {
			return false
		}
		if an != 0 || ns != 0 {
			return false
		}
		if ar > 5 {
			return false
		}
		return true
	}
	if qd > 200 || an > 200 || ns > 200 || ar > 200 {
		return false
	}
	return qd+an+ns+ar > 0
}
