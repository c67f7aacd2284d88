package protocol

// probeTLS recognizes TLS record-layer prefixes (SSLv3 through 1.3) as well
// as SSLv2 ClientHello framing, which uses a different, header-only
// envelope and is routed to separately via the top bit of the first byte.
func probeTLS(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 5 {
		return Incomplete, UnknownVersion
	}
	if data[0]&0x80 != 0 {
		return probeSSLv2ClientHello(data)
	}
	return probeTLSRecord(data)
}

func probeSSLv2ClientHello(data []byte) (DetectionStatus, ProtocolVersion) {
	if len(data) < 11 {
		return Incomplete, UnknownVersion
	}
	recordLength := int(data[0]&0x7F)<<8 | int(data[1])
	msgType := data[2]
	if msgType != 0x01 {
		return NoMatch, UnknownVersion
	}
	verMajor, verMinor := data[3], data[4]
	validVersion := (verMajor == 0x00 && verMinor == 0x02) || (verMajor == 0x03 && verMinor <= 0x04)
	if !validVersion {
		return NoMatch, UnknownVersion
	}
	cipherSpecLen := int(data[5])<<8 | int(data[6])
	sessionIDLen := int(data[7])<<8 | int(data[8])
	challengeLen := int(data[9])<<8 | int(data[10])
	if cipherSpecLen <= 0 || cipherSpecLen%3 != 0 {
		return NoMatch, UnknownVersion
	}
	if challengeLen <= 0 {
		return NoMatch, UnknownVersion
	}
	if 9+cipherSpecLen+sessionIDLen+challengeLen != recordLength {
		return NoMatch, UnknownVersion
	}
	return Match, TLSVersion("SSLv2")
}

func recordVersionString(minor byte) (string, bool) {
	switch minor {
	case 0x00:
		return "3.0", true
	case 0x01:
		return "1.0", true
	case 0x02:
		return "1.1", true
	case 0x03:
		return "1.2", true
	case 0x04:
		return "1.3", true
	default:
		return "", false
	}
}

// handshakeTypes is the IANA TLS HandshakeType registry, restricted to
// values a ClientHello-carrying stream can plausibly present this early.
var handshakeTypes = map[byte]bool{
	0: true, 1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 8: true,
	11: true, 12: true, 13: true, 14: true, 15: true, 16: true, 20: true,
	21: true, 22: true, 23: true, 24: true, 254: true,
}

func probeTLSRecord(data []byte) (DetectionStatus, ProtocolVersion) {
	contentType := data[0]
	switch contentType {
	case 0x14, 0x15, 0x16, 0x17:
	default:
		return NoMatch, UnknownVersion
	}
	if data[1] != 0x03 || data[2] > 0x04 {
		return NoMatch, UnknownVersion
	}
	recordLength := int(data[3])<<8 | int(data[4])
	if recordLength < 1 || recordLength > 16384 {
		return NoMatch, UnknownVersion
	}

	switch contentType {
	case 0x14: // change_cipher_spec
		if recordLength != 1 {
			return NoMatch, UnknownVersion
		}
	case 0x15: // alert
		if recordLength != 2 {
			return NoMatch, UnknownVersion
		}
	}

	versionStr, ok := recordVersionString(data[2])
	if !ok {
		return NoMatch, UnknownVersion
	}
	version := TLSVersion(versionStr)

	if contentType == 0x16 && len(data) >= 6 {
		hsType := data[5]
		if !handshakeTypes[hsType] {
			return NoMatch, UnknownVersion
		}

		if len(data) >= 9 {
			bodyLen := int(data[6])<<16 | int(data[7])<<8 | int(data[8])
			switch hsType {
			case 1, 2: // ClientHello, ServerHello
				if len(data) >= 9+34 && bodyLen < 34 {
					return NoMatch, UnknownVersion
				}
			case 11: // certificate
				if len(data) >= 9+3 && bodyLen < 3 {
					return NoMatch, UnknownVersion
				}
			case 0, 14: // hello_request, server_hello_done
				if bodyLen != 0 {
					return NoMatch, UnknownVersion
				}
			}
		}

		if (hsType == 1 || hsType == 2) && len(data) >= 11 {
			if data[9] == 0x03 {
				if overridden, ok := recordVersionString(data[10]); ok {
					version = TLSVersion(overridden)
				}
			}
		}
	}

	return Match, version
}
