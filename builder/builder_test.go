package builder

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"

	"protosniff/protocol"
)

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(bytes.NewBuffer(nil))
	return l
}

func TestHTTPBuildDetectsHTTP(t *testing.T) {
	cfg := New().WithLogger(silentLogger()).HTTP().Build()
	p, err := cfg.Detect([]byte("GET / HTTP/1.1\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || *p != protocol.HTTP {
		t.Fatalf("expected HTTP match, got %v", p)
	}
}

func TestAllBuildDetectsHTTP(t *testing.T) {
	cfg := New().WithLogger(silentLogger()).All().Build()
	p, err := cfg.Detect([]byte("GET / HTTP/1.1\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || *p != protocol.HTTP {
		t.Fatalf("expected HTTP match, got %v", p)
	}
}

func TestAllTCPDetectsTCPProtocols(t *testing.T) {
	cfg := New().WithLogger(silentLogger()).AllTCP().Build()

	p, err := cfg.Detect([]byte("GET / HTTP/1.1\r\n"))
	if err != nil || p == nil || *p != protocol.HTTP {
		t.Fatalf("expected HTTP match, got %v err %v", p, err)
	}

	p, err = cfg.Detect([]byte("SSH-2.0-OpenSSH_8.9\r\n"))
	if err != nil || p == nil || *p != protocol.SSH {
		t.Fatalf("expected SSH match, got %v err %v", p, err)
	}
}

func TestTCPRestrictionDropsUDPOnlyProtocol(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	cfg := New().WithLogger(logger).NTP().TCP().Build()
	if cfg.Enabled().Contains(protocol.NTP) {
		t.Fatalf("expected NTP to be dropped under TCP restriction")
	}
	if buf.Len() == 0 {
		t.Fatalf("expected a warning to be logged")
	}
}

func TestEnablingUDPOnlyProtocolAfterTCPRestrictionIsSkipped(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	cfg := New().WithLogger(logger).TCP().NTP().Build()
	if cfg.Enabled().Contains(protocol.NTP) {
		t.Fatalf("expected NTP enable to be skipped under TCP restriction")
	}
	if buf.Len() == 0 {
		t.Fatalf("expected a warning to be logged")
	}
}

func TestHTTPVersionAutoEnablesHTTP(t *testing.T) {
	cfg := New().WithLogger(silentLogger()).ExpectHTTPVersion("1.1").Build()
	p, err := cfg.Detect([]byte("GET / HTTP/1.1\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || *p != protocol.HTTP {
		t.Fatalf("expected HTTP match, got %v", p)
	}
}

func TestTLSVersionAutoEnablesTLS(t *testing.T) {
	cfg := New().WithLogger(silentLogger()).ExpectTLSVersion("1.2").Build()
	data := []byte{0x16, 0x03, 0x01, 0x00, 0x05, 0x01, 0x00, 0x00, 0x01, 0x03, 0x03}
	p, err := cfg.Detect(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || *p != protocol.TLS {
		t.Fatalf("expected TLS match, got %v", p)
	}
}

func TestEmptyBuilderReturnsNoMatchForAllData(t *testing.T) {
	cfg := New().WithLogger(silentLogger()).Build()
	for _, data := range [][]byte{
		[]byte("GET / HTTP/1.1\r\n"),
		[]byte("SSH-2.0-OpenSSH\r\n"),
		bytes.Repeat([]byte{0x42}, 256),
	} {
		p, err := cfg.Detect(data)
		if err != nil {
			t.Fatalf("unexpected error on %q: %v", data, err)
		}
		if p != nil {
			t.Fatalf("expected no match on %q, got %v", data, p)
		}
	}
}

func TestEmptyDataReturnsErrorNotPanic(t *testing.T) {
	cfg := New().WithLogger(silentLogger()).HTTP().Build()
	_, err := cfg.Detect([]byte(nil))
	if err == nil {
		t.Fatalf("expected ErrInsufficientData, got nil")
	}
}

func TestChainBuilderExplicitOrderWins(t *testing.T) {
	cfg := Chain().WithLogger(silentLogger()).Redis().POP3().Build()
	info, err := cfg.DetectInfo([]byte("+OK\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil || info.Protocol != protocol.Redis {
		t.Fatalf("expected Redis to win under Redis-first chain, got %v", info)
	}
}

func TestChainBuilderAllTCPDetectsSSH(t *testing.T) {
	cfg := Chain().WithLogger(silentLogger()).AllTCP().Build()
	info, err := cfg.DetectInfo([]byte("SSH-2.0-OpenSSH_8.9\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil || info.Protocol != protocol.SSH {
		t.Fatalf("expected SSH match, got %v", info)
	}
}

func TestEmptyChainWarnsAndMatchesNothing(t *testing.T) {
	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	cfg := Chain().WithLogger(logger).Build()
	if buf.Len() == 0 {
		t.Fatalf("expected a warning about an empty chain")
	}
	p, err := cfg.Detect([]byte("GET / HTTP/1.1\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Fatalf("expected no match from an empty chain, got %v", p)
	}
}

func TestFromSlicePreservesOrder(t *testing.T) {
	cfg := FromSlice([]protocol.Protocol{protocol.POP3, protocol.Redis}).WithLogger(silentLogger()).Build()
	info, err := cfg.DetectInfo([]byte("+OK POP3 server ready\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Both POP3 ("+OK ") and Redis ("+O") accept this line, so the winner
	// shows which protocol FromSlice put first.
	if info == nil || info.Protocol != protocol.POP3 {
		t.Fatalf("expected POP3 to win, got %v", info)
	}
}
