package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"protosniff/protocol"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchesLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchesLabels(m *dto.Metric, want map[string]string) bool {
	got := map[string]string{}
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestInstrumentedRecordsMatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := protocol.NewDetectorConfig(protocol.NewProtocolSet(protocol.HTTP), nil, protocol.MaxInspectBytesDefault, protocol.ProtocolVersionSet{}, protocol.TransportTCP)
	inst := NewInstrumented(cfg, reg)

	info, err := inst.DetectInfo([]byte("GET / HTTP/1.1\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil || info.Protocol != protocol.HTTP {
		t.Fatalf("expected HTTP match, got %v", info)
	}

	got := counterValue(t, reg, "protosniff_detections_total", map[string]string{"protocol": "HTTP", "status": "match"})
	if got != 1 {
		t.Fatalf("expected match counter 1, got %v", got)
	}
}

func TestInstrumentedRecordsNoMatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := protocol.NewDetectorConfig(protocol.NewProtocolSet(protocol.HTTP), nil, protocol.MaxInspectBytesDefault, protocol.ProtocolVersionSet{}, protocol.TransportTCP)
	inst := NewInstrumented(cfg, reg)

	info, err := inst.DetectInfo(make([]byte, 64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info != nil {
		t.Fatalf("expected no match, got %v", info)
	}

	got := counterValue(t, reg, "protosniff_detections_total", map[string]string{"status": "no_match"})
	if got != 1 {
		t.Fatalf("expected no_match counter 1, got %v", got)
	}
}

func TestInstrumentedRecordsInsufficientData(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := protocol.NewDetectorConfig(protocol.NewProtocolSet(protocol.HTTP), nil, protocol.MaxInspectBytesDefault, protocol.ProtocolVersionSet{}, protocol.TransportTCP)
	inst := NewInstrumented(cfg, reg)

	_, err := inst.DetectInfo([]byte("G"))
	if err == nil || !strings.Contains(err.Error(), "insufficient") {
		t.Fatalf("expected insufficient data error, got %v", err)
	}

	got := counterValue(t, reg, "protosniff_detections_total", map[string]string{"status": "insufficient_data"})
	if got != 1 {
		t.Fatalf("expected insufficient_data counter 1, got %v", got)
	}
}

func TestInstrumentedDetectWrapsDetectInfo(t *testing.T) {
	reg := prometheus.NewRegistry()
	cfg := protocol.NewDetectorConfig(protocol.NewProtocolSet(protocol.SSH), nil, protocol.MaxInspectBytesDefault, protocol.ProtocolVersionSet{}, protocol.TransportTCP)
	inst := NewInstrumented(cfg, reg)

	p, err := inst.Detect([]byte("SSH-2.0-OpenSSH_8.9\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p == nil || *p != protocol.SSH {
		t.Fatalf("expected SSH match, got %v", p)
	}
}
