package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func allProtocolsConfig() DetectorConfig {
	return NewDetectorConfig(AllProtocols(), nil, MaxInspectBytesDefault, ProtocolVersionSet{}, TransportUnknown)
}

func TestDetectInfoScenarios(t *testing.T) {
	cfg := allProtocolsConfig()

	tests := []struct {
		name     string
		data     []byte
		wantProt Protocol
		wantVer  ProtocolVersion
	}{
		{
			name:     "http request line",
			data:     []byte("GET / HTTP/1.1\r\n"),
			wantProt: HTTP,
			wantVer:  HTTPVersion("1.1"),
		},
		{
			name:     "tls client hello",
			data:     []byte{0x16, 0x03, 0x01, 0x00, 0x05, 0x01, 0x00, 0x00, 0x01, 0x03, 0x03},
			wantProt: TLS,
			wantVer:  TLSVersion("1.2"),
		},
		{
			name:     "ssh banner",
			data:     []byte("SSH-2.0-OpenSSH_8.9\r\n"),
			wantProt: SSH,
			wantVer:  SSHVersion("2.0"),
		},
		{
			name:     "redis ping array",
			data:     []byte("*1\r\n$4\r\nPING\r\n"),
			wantProt: Redis,
			wantVer:  RedisVersion(2),
		},
		{
			name: "dns query",
			data: []byte{
				0x12, 0x34, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
				0x06, 'g', 'o', 'o', 'g', 'l', 'e', 0x03, 'c', 'o', 'm', 0x00, 0x00, 0x01, 0x00, 0x01,
			},
			wantProt: DNS,
			wantVer:  UnknownVersion,
		},
		{
			name:     "mqtt connect",
			data:     []byte{0x10, 0x0c, 0x00, 0x04, 'M', 'Q', 'T', 'T', 0x04, 0x02, 0x00, 0x3c},
			wantProt: MQTT,
			wantVer:  UnknownVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := cfg.DetectInfo(tt.data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info == nil {
				t.Fatalf("expected a match, got none")
			}
			if info.Protocol != tt.wantProt {
				t.Fatalf("protocol = %s, want %s", info.Protocol, tt.wantProt)
			}
			if info.Version != tt.wantVer {
				t.Fatalf("version = %v, want %v", info.Version, tt.wantVer)
			}
		})
	}
}

func TestDetectAllZeroBufferIsNoMatch(t *testing.T) {
	cfg := allProtocolsConfig()
	data := make([]byte, 64)
	info, err := cfg.DetectInfo(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info != nil {
		t.Fatalf("expected no match, got %v", info)
	}
}

func TestDetectShortDataIsInsufficientData(t *testing.T) {
	cfg := NewDetectorConfig(NewProtocolSet(HTTP), nil, MaxInspectBytesDefault, ProtocolVersionSet{}, TransportTCP)
	_, err := cfg.DetectInfo([]byte("G"))
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestPriorityOrderControlsAmbiguousMatch(t *testing.T) {
	data := []byte("+OK\r\n")

	redisFirst := NewDetectorConfig(
		NewProtocolSet(Redis, POP3),
		NewPriorityOrder(Redis, POP3),
		MaxInspectBytesDefault, ProtocolVersionSet{}, TransportTCP,
	)
	info, err := redisFirst.DetectInfo(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil || info.Protocol != Redis {
		t.Fatalf("expected Redis to win on '+OK\\r\\n', got %v", info)
	}

	// POP3 requires "+OK " with a trailing space; "+OK\r\n" never satisfies
	// it regardless of order, so putting POP3 first should fall through to
	// Redis too.
	pop3First := NewDetectorConfig(
		NewProtocolSet(Redis, POP3),
		NewPriorityOrder(POP3, Redis),
		MaxInspectBytesDefault, ProtocolVersionSet{}, TransportTCP,
	)
	info, err = pop3First.DetectInfo(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil || info.Protocol != Redis {
		t.Fatalf("expected Redis to still win, got %v", info)
	}
}

func TestPriorityOrderBetweenTwoGenuinelyAmbiguousProtocols(t *testing.T) {
	data := []byte("220 mirror.example.org FTP server ready\r\n")

	ftpFirst := NewDetectorConfig(
		NewProtocolSet(FTP, SMTP),
		NewPriorityOrder(FTP, SMTP),
		MaxInspectBytesDefault, ProtocolVersionSet{}, TransportTCP,
	)
	info, err := ftpFirst.DetectInfo(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil || info.Protocol != FTP {
		t.Fatalf("expected FTP first, got %v", info)
	}

	smtpFirst := NewDetectorConfig(
		NewProtocolSet(FTP, SMTP),
		NewPriorityOrder(SMTP, FTP),
		MaxInspectBytesDefault, ProtocolVersionSet{}, TransportTCP,
	)
	info, err = smtpFirst.DetectInfo(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil || info.Protocol != SMTP {
		t.Fatalf("expected SMTP first, got %v", info)
	}
}

func TestVersionFilterRejectsWrongVersion(t *testing.T) {
	expected := ProtocolVersionSet{}.With(HTTP, HTTPVersion("2.0"))
	cfg := NewDetectorConfig(NewProtocolSet(HTTP), nil, MaxInspectBytesDefault, expected, TransportTCP)

	info, err := cfg.DetectInfo([]byte("GET / HTTP/1.1\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info != nil {
		t.Fatalf("expected no match under a version filter, got %v", info)
	}
}

func TestVersionFilterAcceptsMatchingVersion(t *testing.T) {
	expected := ProtocolVersionSet{}.With(HTTP, HTTPVersion("1.1"))
	cfg := NewDetectorConfig(NewProtocolSet(HTTP), nil, MaxInspectBytesDefault, expected, TransportTCP)

	info, err := cfg.DetectInfo([]byte("GET / HTTP/1.1\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil || info.Protocol != HTTP {
		t.Fatalf("expected HTTP match, got %v", info)
	}
}

func TestTruncationInvarianceAtMaxInspectBytes(t *testing.T) {
	cfg := allProtocolsConfig()
	data := append([]byte("GET / HTTP/1.1\r\n"), make([]byte, 200)...)

	full, errFull := cfg.DetectInfo(data)
	truncated, errTrunc := cfg.DetectInfo(data[:cfg.MaxInspectBytes()])
	if errFull != errTrunc {
		t.Fatalf("errors differ: %v vs %v", errFull, errTrunc)
	}
	if (full == nil) != (truncated == nil) {
		t.Fatalf("match presence differs: %v vs %v", full, truncated)
	}
	if full != nil && *full != *truncated {
		t.Fatalf("results differ: %v vs %v", full, truncated)
	}
}

func TestMaxInspectBytesZeroMeansInsufficientData(t *testing.T) {
	cfg := NewDetectorConfig(NewProtocolSet(HTTP), nil, 0, ProtocolVersionSet{}, TransportTCP)
	_, err := cfg.DetectInfo([]byte("GET / HTTP/1.1\r\n"))
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestDeterminism(t *testing.T) {
	cfg := allProtocolsConfig()
	data := []byte("SSH-2.0-OpenSSH_8.9\r\n")
	first, err1 := cfg.DetectInfo(data)
	second, err2 := cfg.DetectInfo(data)
	if err1 != err2 {
		t.Fatalf("errors differ across calls: %v vs %v", err1, err2)
	}
	if (first == nil) != (second == nil) || (first != nil && *first != *second) {
		t.Fatalf("results differ across calls: %v vs %v", first, second)
	}
}

func TestNoPanicOnEmptyOrGarbageInput(t *testing.T) {
	cfg := allProtocolsConfig()
	inputs := [][]byte{
		nil,
		{},
		bytes.Repeat([]byte{0xFF}, 4096),
	}
	for _, in := range inputs {
		_, _ = cfg.DetectInfo(in)
		for p := Protocol(0); p < protocolCount; p++ {
			_ = p.Probe(in)
		}
	}
}

func TestChainBasedConfigIgnoresEnabledSet(t *testing.T) {
	cfg := NewChainConfig(NewPriorityOrder(HTTP, TLS), MaxInspectBytesDefault, ProtocolVersionSet{}, TransportTCP)
	info, err := cfg.DetectInfo([]byte("GET / HTTP/1.1\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil || info.Protocol != HTTP {
		t.Fatalf("expected HTTP match from chain config, got %v", info)
	}
}

func TestDetectSingleInsufficientDataCarriesCounts(t *testing.T) {
	_, err := HTTP.DetectSingle([]byte("G"))
	var ide *InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected *InsufficientDataError, got %v", err)
	}
	if ide.Required != 4 || ide.Got != 1 {
		t.Fatalf("got Required=%d Got=%d, want Required=4 Got=1", ide.Required, ide.Got)
	}
}

func TestDetectSingleMatch(t *testing.T) {
	ok, err := HTTP.DetectSingle([]byte("GET / HTTP/1.1\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected HTTP.DetectSingle to report a match")
	}
}
