// Package protocol implements zero-allocation, zero-copy detection of the
// application-layer protocol carried by the first few dozen bytes of a byte
// stream. Every exported function in this package is a pure function of its
// arguments: no I/O, no logging, no global state, no allocation beyond what
// the caller explicitly asks for at DetectorConfig construction time.
package protocol

import (
	"errors"
	"fmt"
)

// MaxInspectBytesDefault is the default cap on how many leading bytes any
// validator may see. The builders and the CLI start from this value;
// NewDetectorConfig and NewChainConfig use whatever value they are given.
const MaxInspectBytesDefault = 64

// DetectionStatus is the three-valued outcome of a single protocol validator.
type DetectionStatus uint8

const (
	// NoMatch means the prefix is definitively not this protocol.
	NoMatch DetectionStatus = iota
	// Match means the prefix is confirmed to be this protocol.
	Match
	// Incomplete means the prefix is consistent with this protocol so far,
	// but too short for a confident decision.
	Incomplete
)

func (s DetectionStatus) String() string {
	switch s {
	case Match:
		return "Match"
	case Incomplete:
		return "Incomplete"
	default:
		return "NoMatch"
	}
}

// VersionKind tags which protocol-specific payload a ProtocolVersion carries.
type VersionKind uint8

const (
	// VersionUnknown means no version was extracted, or none applies.
	VersionUnknown VersionKind = iota
	// VersionHTTP carries a textual HTTP version, e.g. "1.1", "2.0".
	VersionHTTP
	// VersionTLS carries a textual TLS version, e.g. "1.2", "1.3".
	VersionTLS
	// VersionSSH carries a textual SSH protocol version, e.g. "2.0".
	VersionSSH
	// VersionRedis carries the RESP major version, 2 or 3.
	VersionRedis
)

// ProtocolVersion is a zero-copy tagged union over protocol version payloads.
// The validators fill textual variants with package-level string constants
// ("1.1", "2.0", ...); no bytes are copied out of the inspected slice.
type ProtocolVersion struct {
	Kind  VersionKind
	text  string
	redis uint8
}

// UnknownVersion is the zero value: no version applicable or extractable.
var UnknownVersion = ProtocolVersion{Kind: VersionUnknown}

// HTTPVersion builds an HTTP-flavored version value, borrowing s.
func HTTPVersion(s string) ProtocolVersion { return ProtocolVersion{Kind: VersionHTTP, text: s} }

// TLSVersion builds a TLS-flavored version value, borrowing s.
func TLSVersion(s string) ProtocolVersion { return ProtocolVersion{Kind: VersionTLS, text: s} }

// SSHVersion builds an SSH-flavored version value, borrowing s.
func SSHVersion(s string) ProtocolVersion { return ProtocolVersion{Kind: VersionSSH, text: s} }

// RedisVersion builds a Redis RESP major-version value (2 or 3).
func RedisVersion(major uint8) ProtocolVersion { return ProtocolVersion{Kind: VersionRedis, redis: major} }

// Text returns the textual payload for HTTP/TLS/SSH versions, and "" otherwise.
func (v ProtocolVersion) Text() string { return v.text }

// RedisMajor returns the RESP major version for Redis versions, and 0 otherwise.
func (v ProtocolVersion) RedisMajor() uint8 { return v.redis }

func (v ProtocolVersion) String() string {
	switch v.Kind {
	case VersionHTTP:
		return "HTTP/" + v.text
	case VersionTLS:
		return "TLS/" + v.text
	case VersionSSH:
		return "SSH/" + v.text
	case VersionRedis:
		return fmt.Sprintf("RESP%d", v.redis)
	default:
		return "unknown"
	}
}

// Protocol is a closed enumeration of the application-layer protocols this
// package can identify.
type Protocol uint8

const (
	HTTP Protocol = iota
	TLS
	SSH
	DNS
	QUIC
	MySQL
	PostgreSQL
	Redis
	MQTT
	SMTP
	POP3
	IMAP
	FTP
	SMB
	STUN
	SIP
	RTSP
	DHCP
	NTP

	protocolCount // sentinel, not a real protocol
)

func (p Protocol) String() string {
	switch p {
	case HTTP:
		return "HTTP"
	case TLS:
		return "TLS"
	case SSH:
		return "SSH"
	case DNS:
		return "DNS"
	case QUIC:
		return "QUIC"
	case MySQL:
		return "MySQL"
	case PostgreSQL:
		return "PostgreSQL"
	case Redis:
		return "Redis"
	case MQTT:
		return "MQTT"
	case SMTP:
		return "SMTP"
	case POP3:
		return "POP3"
	case IMAP:
		return "IMAP"
	case FTP:
		return "FTP"
	case SMB:
		return "SMB"
	case STUN:
		return "STUN"
	case SIP:
		return "SIP"
	case RTSP:
		return "RTSP"
	case DHCP:
		return "DHCP"
	case NTP:
		return "NTP"
	default:
		return "Unknown"
	}
}

// ProtocolInfo pairs a detected Protocol with its extracted version.
type ProtocolInfo struct {
	Protocol Protocol
	Version  ProtocolVersion
}

// ErrInsufficientData is returned whenever the engine exhausts its input with
// at least one validator reporting Incomplete and none reporting Match;
// Protocol.DetectSingle wraps it when the input is shorter than the
// protocol's MinBytes. The caller's contract is to acquire more bytes and
// retry.
var ErrInsufficientData = errors.New("insufficient data: need more bytes to confirm protocol")

// ErrProtocolNotEnabled is reserved for surfaces that take a protocol
// argument but find it absent from the configured set. It is never raised by
// Detect or DetectInfo.
var ErrProtocolNotEnabled = errors.New("protocol not enabled")

// ProtocolNotEnabledError wraps ErrProtocolNotEnabled with the offending
// protocol, recoverable via errors.As.
type ProtocolNotEnabledError struct {
	Protocol Protocol
}

func (e *ProtocolNotEnabledError) Error() string {
	return fmt.Sprintf("%s: %s", ErrProtocolNotEnabled, e.Protocol)
}

func (e *ProtocolNotEnabledError) Unwrap() error { return ErrProtocolNotEnabled }

// InsufficientDataError is the detailed form of ErrInsufficientData returned
// by Protocol.DetectSingle, carrying exactly how many bytes were required and
// how many were supplied.
type InsufficientDataError struct {
	Required int
	Got      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need %d bytes, got %d", e.Required, e.Got)
}

func (e *InsufficientDataError) Unwrap() error { return ErrInsufficientData }

// MinBytes returns the minimum number of bytes required to identify p.
func (p Protocol) MinBytes() int {
	return registryOf(p).minBytes
}

// SupportsTransport reports whether p may be enabled on a detector
// restricted to transport t. This is a configuration-time question only:
// per spec, the transport marker never changes a validator's decision, only
// which protocols a restricted builder will accept.
func (p Protocol) SupportsTransport(t Transport) bool {
	return registryOf(p).transport.allowedOn(t)
}

// Protocols returns every protocol this package can detect, in enum
// declaration order. Intended for configuration-time enumeration (e.g. a
// fluent builder's "enable everything" option); not used on the detect
// hot path.
func Protocols() []Protocol {
	out := make([]Protocol, 0, int(protocolCount))
	for p := Protocol(0); p < protocolCount; p++ {
		out = append(out, p)
	}
	return out
}

// Probe inspects data and returns p's validator's three-valued status,
// discarding any extracted version.
func (p Protocol) Probe(data []byte) DetectionStatus {
	status, _ := p.ProbeInfo(data)
	return status
}

// ProbeInfo inspects data and returns p's validator's three-valued status
// together with any extracted version. It never allocates and never reads
// past len(data).
func (p Protocol) ProbeInfo(data []byte) (DetectionStatus, ProtocolVersion) {
	return registryOf(p).validate(data)
}

// DetectSingle checks whether data matches p specifically. It returns
// ErrInsufficientData (as an *InsufficientDataError) when len(data) is
// shorter than p.MinBytes(); otherwise it reports a plain Match/NoMatch
// boolean, collapsing Incomplete-after-minimum-length into NoMatch since the
// caller asked for a single yes/no check, not a streaming one.
func (p Protocol) DetectSingle(data []byte) (bool, error) {
	min := p.MinBytes()
	if len(data) < min {
		return false, &InsufficientDataError{Required: min, Got: len(data)}
	}
	status, _ := p.ProbeInfo(data)
	return status == Match, nil
}
