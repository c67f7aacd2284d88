package builder

import (
	"github.com/sirupsen/logrus"

	"protosniff/protocol"
)

// ProtocolChainBuilder fluently assembles an explicit, ordered detection
// chain: every protocol named runs unconditionally in exactly that
// sequence, bypassing the registry's default priority order entirely.
type ProtocolChainBuilder struct {
	order           protocol.PriorityOrder
	maxInspectBytes int
	logger          *logrus.Logger
}

// Chain starts an empty ProtocolChainBuilder. The order starts as a
// non-nil, zero-length PriorityOrder rather than a nil one: a nil
// PriorityOrder tells DetectorConfig "no explicit order was given, fall
// back to the registry default for the transport", which is not what an
// explicitly-empty chain means.
func Chain() *ProtocolChainBuilder {
	return &ProtocolChainBuilder{
		order:           protocol.PriorityOrder{},
		maxInspectBytes: protocol.MaxInspectBytesDefault,
		logger:          logrus.StandardLogger(),
	}
}

// WithLogger overrides the logger used for misconfiguration warnings.
func (c *ProtocolChainBuilder) WithLogger(logger *logrus.Logger) *ProtocolChainBuilder {
	c.logger = logger
	return c
}

func (c *ProtocolChainBuilder) add(p protocol.Protocol) *ProtocolChainBuilder {
	c.order = append(c.order, p)
	return c
}

// HTTP appends HTTP to the chain.
func (c *ProtocolChainBuilder) HTTP() *ProtocolChainBuilder { return c.add(protocol.HTTP) }

// TLS appends TLS to the chain.
func (c *ProtocolChainBuilder) TLS() *ProtocolChainBuilder { return c.add(protocol.TLS) }

// SSH appends SSH to the chain.
func (c *ProtocolChainBuilder) SSH() *ProtocolChainBuilder { return c.add(protocol.SSH) }

// DNS appends DNS to the chain.
func (c *ProtocolChainBuilder) DNS() *ProtocolChainBuilder { return c.add(protocol.DNS) }

// QUIC appends QUIC to the chain.
func (c *ProtocolChainBuilder) QUIC() *ProtocolChainBuilder { return c.add(protocol.QUIC) }

// MySQL appends MySQL to the chain.
func (c *ProtocolChainBuilder) MySQL() *ProtocolChainBuilder { return c.add(protocol.MySQL) }

// PostgreSQL appends PostgreSQL to the chain.
func (c *ProtocolChainBuilder) PostgreSQL() *ProtocolChainBuilder {
	return c.add(protocol.PostgreSQL)
}

// Redis appends Redis to the chain.
func (c *ProtocolChainBuilder) Redis() *ProtocolChainBuilder { return c.add(protocol.Redis) }

// MQTT appends MQTT to the chain.
func (c *ProtocolChainBuilder) MQTT() *ProtocolChainBuilder { return c.add(protocol.MQTT) }

// SMTP appends SMTP to the chain.
func (c *ProtocolChainBuilder) SMTP() *ProtocolChainBuilder { return c.add(protocol.SMTP) }

// POP3 appends POP3 to the chain.
func (c *ProtocolChainBuilder) POP3() *ProtocolChainBuilder { return c.add(protocol.POP3) }

// IMAP appends IMAP to the chain.
func (c *ProtocolChainBuilder) IMAP() *ProtocolChainBuilder { return c.add(protocol.IMAP) }

// FTP appends FTP to the chain.
func (c *ProtocolChainBuilder) FTP() *ProtocolChainBuilder { return c.add(protocol.FTP) }

// SMB appends SMB to the chain.
func (c *ProtocolChainBuilder) SMB() *ProtocolChainBuilder { return c.add(protocol.SMB) }

// STUN appends STUN to the chain.
func (c *ProtocolChainBuilder) STUN() *ProtocolChainBuilder { return c.add(protocol.STUN) }

// SIP appends SIP to the chain.
func (c *ProtocolChainBuilder) SIP() *ProtocolChainBuilder { return c.add(protocol.SIP) }

// RTSP appends RTSP to the chain.
func (c *ProtocolChainBuilder) RTSP() *ProtocolChainBuilder { return c.add(protocol.RTSP) }

// DHCP appends DHCP to the chain.
func (c *ProtocolChainBuilder) DHCP() *ProtocolChainBuilder { return c.add(protocol.DHCP) }

// NTP appends NTP to the chain.
func (c *ProtocolChainBuilder) NTP() *ProtocolChainBuilder { return c.add(protocol.NTP) }

// AllTCP appends the optimized default TCP ordering: SSH, TLS, HTTP, Redis,
// MySQL, PostgreSQL, MQTT.
func (c *ProtocolChainBuilder) AllTCP() *ProtocolChainBuilder {
	for _, p := range []protocol.Protocol{
		protocol.SSH, protocol.TLS, protocol.HTTP, protocol.Redis,
		protocol.MySQL, protocol.PostgreSQL, protocol.MQTT,
	} {
		c.add(p)
	}
	return c
}

// AllUDP appends the optimized default UDP ordering: DNS, QUIC.
func (c *ProtocolChainBuilder) AllUDP() *ProtocolChainBuilder {
	for _, p := range []protocol.Protocol{protocol.DNS, protocol.QUIC} {
		c.add(p)
	}
	return c
}

// AllDB appends the database protocol group: Redis, MySQL, PostgreSQL.
func (c *ProtocolChainBuilder) AllDB() *ProtocolChainBuilder {
	for _, p := range []protocol.Protocol{protocol.Redis, protocol.MySQL, protocol.PostgreSQL} {
		c.add(p)
	}
	return c
}

// AllWeb appends the web protocol group: HTTP, TLS, QUIC.
func (c *ProtocolChainBuilder) AllWeb() *ProtocolChainBuilder {
	for _, p := range []protocol.Protocol{protocol.HTTP, protocol.TLS, protocol.QUIC} {
		c.add(p)
	}
	return c
}

// FromSlice replaces the chain's order wholesale with protocols, in the
// order given.
func FromSlice(protocols []protocol.Protocol) *ProtocolChainBuilder {
	c := Chain()
	c.order = append(protocol.PriorityOrder{}, protocols...)
	return c
}

// MaxInspectBytes overrides the cap on leading bytes inspected.
func (c *ProtocolChainBuilder) MaxInspectBytes(n int) *ProtocolChainBuilder {
	c.maxInspectBytes = n
	return c
}

// Build produces the chain-based protocol.DetectorConfig described by the
// builder so far. An empty chain is a misconfiguration worth flagging: it
// detects nothing and silently returns Ok(None) for every input.
func (c *ProtocolChainBuilder) Build() protocol.DetectorConfig {
	if len(c.order) == 0 {
		c.logger.Warn("building a protocol chain with no protocols; every detection will return no match")
	}
	return protocol.NewChainConfig(c.order, c.maxInspectBytes, protocol.ProtocolVersionSet{}, protocol.TransportUnknown)
}
