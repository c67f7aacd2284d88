// Package builder provides a fluent configuration surface over
// protocol.DetectorConfig. It is the only library package in this
// repository that logs: a clearly-misconfigured build (an empty custom chain,
// enabling a UDP-only protocol on a TCP-restricted builder) gets a logrus
// warning rather than a panic or a silent wrong answer. The protocol
// package itself never imports this one.
package builder

import (
	"github.com/sirupsen/logrus"

	"protosniff/protocol"
)

// ProtocolDetectorBuilder fluently assembles a protocol.DetectorConfig from
// a starting empty ProtocolSet.
type ProtocolDetectorBuilder struct {
	enabled          protocol.ProtocolSet
	priority         protocol.PriorityOrder
	maxInspectBytes  int
	expectedVersions protocol.ProtocolVersionSet
	transport        protocol.Transport
	logger           *logrus.Logger
}

// New starts a ProtocolDetectorBuilder with no protocols enabled,
// MaxInspectBytes defaulted to protocol.MaxInspectBytesDefault, and no
// transport restriction.
func New() *ProtocolDetectorBuilder {
	return &ProtocolDetectorBuilder{
		maxInspectBytes: protocol.MaxInspectBytesDefault,
		transport:       protocol.TransportUnknown,
		logger:          logrus.StandardLogger(),
	}
}

// WithLogger overrides the logger used for misconfiguration warnings.
func (b *ProtocolDetectorBuilder) WithLogger(logger *logrus.Logger) *ProtocolDetectorBuilder {
	b.logger = logger
	return b
}

// TCP restricts the builder to TCP-capable protocols; any previously or
// subsequently enabled UDP-only protocol is dropped with a warning.
func (b *ProtocolDetectorBuilder) TCP() *ProtocolDetectorBuilder {
	return b.setTransport(protocol.TransportTCP)
}

// UDP restricts the builder to UDP-capable protocols.
func (b *ProtocolDetectorBuilder) UDP() *ProtocolDetectorBuilder {
	return b.setTransport(protocol.TransportUDP)
}

func (b *ProtocolDetectorBuilder) setTransport(t protocol.Transport) *ProtocolDetectorBuilder {
	b.transport = t
	var kept []protocol.Protocol
	for _, p := range protocol.Protocols() {
		if !b.enabled.Contains(p) {
			continue
		}
		if !p.SupportsTransport(t) {
			b.logger.WithFields(logrus.Fields{
				"protocol":  p.String(),
				"transport": t.String(),
			}).Warn("protocol incompatible with restricted transport, disabling")
			continue
		}
		kept = append(kept, p)
	}
	b.enabled = protocol.NewProtocolSet(kept...)
	return b
}

func (b *ProtocolDetectorBuilder) enable(p protocol.Protocol) *ProtocolDetectorBuilder {
	if !p.SupportsTransport(b.transport) {
		b.logger.WithFields(logrus.Fields{
			"protocol":  p.String(),
			"transport": b.transport.String(),
		}).Warn("protocol not supported on configured transport, skipping")
		return b
	}
	b.enabled = b.enabled.With(p)
	return b
}

// HTTP enables HTTP detection.
func (b *ProtocolDetectorBuilder) HTTP() *ProtocolDetectorBuilder { return b.enable(protocol.HTTP) }

// TLS enables TLS detection.
func (b *ProtocolDetectorBuilder) TLS() *ProtocolDetectorBuilder { return b.enable(protocol.TLS) }

// SSH enables SSH detection.
func (b *ProtocolDetectorBuilder) SSH() *ProtocolDetectorBuilder { return b.enable(protocol.SSH) }

// DNS enables DNS detection.
func (b *ProtocolDetectorBuilder) DNS() *ProtocolDetectorBuilder { return b.enable(protocol.DNS) }

// QUIC enables QUIC detection.
func (b *ProtocolDetectorBuilder) QUIC() *ProtocolDetectorBuilder { return b.enable(protocol.QUIC) }

// MySQL enables MySQL detection.
func (b *ProtocolDetectorBuilder) MySQL() *ProtocolDetectorBuilder { return b.enable(protocol.MySQL) }

// PostgreSQL enables PostgreSQL detection.
func (b *ProtocolDetectorBuilder) PostgreSQL() *ProtocolDetectorBuilder {
	return b.enable(protocol.PostgreSQL)
}

// Redis enables Redis detection.
func (b *ProtocolDetectorBuilder) Redis() *ProtocolDetectorBuilder { return b.enable(protocol.Redis) }

// MQTT enables MQTT detection.
func (b *ProtocolDetectorBuilder) MQTT() *ProtocolDetectorBuilder { return b.enable(protocol.MQTT) }

// SMTP enables SMTP detection.
func (b *ProtocolDetectorBuilder) SMTP() *ProtocolDetectorBuilder { return b.enable(protocol.SMTP) }

// POP3 enables POP3 detection.
func (b *ProtocolDetectorBuilder) POP3() *ProtocolDetectorBuilder { return b.enable(protocol.POP3) }

// IMAP enables IMAP detection.
func (b *ProtocolDetectorBuilder) IMAP() *ProtocolDetectorBuilder { return b.enable(protocol.IMAP) }

// FTP enables FTP detection.
func (b *ProtocolDetectorBuilder) FTP() *ProtocolDetectorBuilder { return b.enable(protocol.FTP) }

// SMB enables SMB detection.
func (b *ProtocolDetectorBuilder) SMB() *ProtocolDetectorBuilder { return b.enable(protocol.SMB) }

// STUN enables STUN detection.
func (b *ProtocolDetectorBuilder) STUN() *ProtocolDetectorBuilder { return b.enable(protocol.STUN) }

// SIP enables SIP detection.
func (b *ProtocolDetectorBuilder) SIP() *ProtocolDetectorBuilder { return b.enable(protocol.SIP) }

// RTSP enables RTSP detection.
func (b *ProtocolDetectorBuilder) RTSP() *ProtocolDetectorBuilder { return b.enable(protocol.RTSP) }

// DHCP enables DHCP detection.
func (b *ProtocolDetectorBuilder) DHCP() *ProtocolDetectorBuilder { return b.enable(protocol.DHCP) }

// NTP enables NTP detection.
func (b *ProtocolDetectorBuilder) NTP() *ProtocolDetectorBuilder { return b.enable(protocol.NTP) }

// All enables every protocol compatible with the builder's current
// transport restriction.
func (b *ProtocolDetectorBuilder) All() *ProtocolDetectorBuilder {
	for _, p := range protocol.Protocols() {
		b.enable(p)
	}
	return b
}

// AllTCP enables the common TCP-oriented protocol set: HTTP, TLS, SSH,
// MySQL, PostgreSQL, Redis, MQTT, SMTP, POP3, IMAP, FTP, SMB, SIP, RTSP.
func (b *ProtocolDetectorBuilder) AllTCP() *ProtocolDetectorBuilder {
	for _, p := range []protocol.Protocol{
		protocol.HTTP, protocol.TLS, protocol.SSH, protocol.MySQL, protocol.PostgreSQL,
		protocol.Redis, protocol.MQTT, protocol.SMTP, protocol.POP3, protocol.IMAP,
		protocol.FTP, protocol.SMB, protocol.SIP, protocol.RTSP,
	} {
		b.enable(p)
	}
	return b
}

// AllUDP enables the common UDP-oriented protocol set: DNS, QUIC, STUN,
// SIP, RTSP, DHCP, NTP.
func (b *ProtocolDetectorBuilder) AllUDP() *ProtocolDetectorBuilder {
	for _, p := range []protocol.Protocol{
		protocol.DNS, protocol.QUIC, protocol.STUN, protocol.SIP, protocol.RTSP,
		protocol.DHCP, protocol.NTP,
	} {
		b.enable(p)
	}
	return b
}

// MaxInspectBytes overrides the cap on leading bytes inspected.
func (b *ProtocolDetectorBuilder) MaxInspectBytes(n int) *ProtocolDetectorBuilder {
	b.maxInspectBytes = n
	return b
}

// ExpectHTTPVersion constrains a Match on HTTP to the given version,
// implicitly enabling HTTP.
func (b *ProtocolDetectorBuilder) ExpectHTTPVersion(version string) *ProtocolDetectorBuilder {
	b.enable(protocol.HTTP)
	b.expectedVersions = b.expectedVersions.With(protocol.HTTP, protocol.HTTPVersion(version))
	return b
}

// ExpectTLSVersion constrains a Match on TLS to the given version,
// implicitly enabling TLS.
func (b *ProtocolDetectorBuilder) ExpectTLSVersion(version string) *ProtocolDetectorBuilder {
	b.enable(protocol.TLS)
	b.expectedVersions = b.expectedVersions.With(protocol.TLS, protocol.TLSVersion(version))
	return b
}

// ExpectSSHVersion constrains a Match on SSH to the given version,
// implicitly enabling SSH.
func (b *ProtocolDetectorBuilder) ExpectSSHVersion(version string) *ProtocolDetectorBuilder {
	b.enable(protocol.SSH)
	b.expectedVersions = b.expectedVersions.With(protocol.SSH, protocol.SSHVersion(version))
	return b
}

// ExpectRedisVersion constrains a Match on Redis to the given RESP major
// version, implicitly enabling Redis.
func (b *ProtocolDetectorBuilder) ExpectRedisVersion(major uint8) *ProtocolDetectorBuilder {
	b.enable(protocol.Redis)
	b.expectedVersions = b.expectedVersions.With(protocol.Redis, protocol.RedisVersion(major))
	return b
}

// Build produces the immutable protocol.DetectorConfig described by the
// builder so far.
func (b *ProtocolDetectorBuilder) Build() protocol.DetectorConfig {
	return protocol.NewDetectorConfig(b.enabled, b.priority, b.maxInspectBytes, b.expectedVersions, b.transport)
}
