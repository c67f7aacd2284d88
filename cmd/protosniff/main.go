package main

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"protosniff/builder"
	"protosniff/internal/config"
	"protosniff/metrics"
	"protosniff/protocol"
)

var (
	version   = "0.1.0"
	buildTime = "development"
	gitCommit = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	var (
		configPath      string
		protocolsFlag   []string
		priorityFlag    []string
		maxInspectBytes int
		transportFlag   string
		metricsAddr     string
		watch           bool
	)

	rootCmd := &cobra.Command{
		Use:     "protosniff",
		Short:   "Identify the application-layer protocol of a byte prefix",
		Version: fmt.Sprintf("%s (built: %s, commit: %s)", version, buildTime, gitCommit),
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	detectCmd := &cobra.Command{
		Use:   "detect <hex-literal|path|->",
		Short: "Detect the protocol of a byte prefix read from a hex literal, a file, or stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if len(protocolsFlag) > 0 {
				cfg.Protocols = protocolsFlag
			}
			if len(priorityFlag) > 0 {
				cfg.Priority = priorityFlag
			}
			if cmd.Flags().Changed("max-bytes") {
				cfg.MaxInspectBytes = maxInspectBytes
			}
			if transportFlag != "" {
				cfg.Transport = transportFlag
			}
			if metricsAddr != "" {
				cfg.MetricsAddr = metricsAddr
			}

			det, err := buildDetector(cfg, logger)
			if err != nil {
				return err
			}

			var inst *metrics.Instrumented
			if cfg.MetricsAddr != "" {
				inst = metrics.NewInstrumented(det, prometheus.DefaultRegisterer)
				go serveMetrics(cfg.MetricsAddr, logger)
			}

			if watch {
				return watchFrames(os.Stdin, det, inst, os.Stdout)
			}

			data, err := readInput(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return detectAndPrint(data, det, inst, os.Stdout)
		},
	}
	detectCmd.Flags().StringSliceVar(&protocolsFlag, "protocols", nil, "comma-separated protocol names, or 'all'")
	detectCmd.Flags().StringSliceVar(&priorityFlag, "priority", nil, "comma-separated explicit priority order")
	detectCmd.Flags().IntVar(&maxInspectBytes, "max-bytes", protocol.MaxInspectBytesDefault, "maximum leading bytes to inspect")
	detectCmd.Flags().StringVar(&transportFlag, "transport", "", "restrict to tcp, udp, or unknown")
	detectCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve /metrics on, e.g. :9090")
	detectCmd.Flags().BoolVar(&watch, "watch", false, "read successive 4-byte-length-prefixed frames from stdin")

	rootCmd.AddCommand(detectCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Fatal("protosniff failed")
	}
}

// buildDetector translates a loaded config.Config into a protocol.DetectorConfig
// via the fluent builder package.
func buildDetector(cfg *config.Config, logger *logrus.Logger) (protocol.DetectorConfig, error) {
	b := builder.New().WithLogger(logger)

	switch strings.ToLower(cfg.Transport) {
	case "tcp":
		b = b.TCP()
	case "udp":
		b = b.UDP()
	}

	if len(cfg.Priority) > 0 {
		chain := builder.Chain().WithLogger(logger).MaxInspectBytes(cfg.MaxInspectBytes)
		for _, name := range cfg.Priority {
			p, ok := parseProtocolName(name)
			if !ok {
				return protocol.DetectorConfig{}, fmt.Errorf("unknown protocol %q in priority order", name)
			}
			chain = chainAdd(chain, p)
		}
		return chain.Build(), nil
	}

	for _, name := range cfg.Protocols {
		switch strings.ToLower(name) {
		case "all":
			b = b.All()
		case "all_tcp":
			b = b.AllTCP()
		case "all_udp":
			b = b.AllUDP()
		default:
			p, ok := parseProtocolName(name)
			if !ok {
				return protocol.DetectorConfig{}, fmt.Errorf("unknown protocol %q", name)
			}
			b = builderEnable(b, p)
		}
	}

	return b.MaxInspectBytes(cfg.MaxInspectBytes).Build(), nil
}

var protocolNames = map[string]protocol.Protocol{
	"http": protocol.HTTP, "tls": protocol.TLS, "ssh": protocol.SSH, "dns": protocol.DNS,
	"quic": protocol.QUIC, "mysql": protocol.MySQL, "postgresql": protocol.PostgreSQL,
	"postgres": protocol.PostgreSQL, "redis": protocol.Redis, "mqtt": protocol.MQTT,
	"smtp": protocol.SMTP, "pop3": protocol.POP3, "imap": protocol.IMAP, "ftp": protocol.FTP,
	"smb": protocol.SMB, "stun": protocol.STUN, "sip": protocol.SIP, "rtsp": protocol.RTSP,
	"dhcp": protocol.DHCP, "ntp": protocol.NTP,
}

func parseProtocolName(name string) (protocol.Protocol, bool) {
	p, ok := protocolNames[strings.ToLower(name)]
	return p, ok
}

// builderEnable and chainAdd dispatch by Protocol value onto the fluent
// builder methods; the builder package exposes these as named methods
// (mirroring the original Rust crate's per-feature fluent API) rather than
// a single Enable(Protocol) method, so the CLI bridges the two here.
func builderEnable(b *builder.ProtocolDetectorBuilder, p protocol.Protocol) *builder.ProtocolDetectorBuilder {
	switch p {
	case protocol.HTTP:
		return b.HTTP()
	case protocol.TLS:
		return b.TLS()
	case protocol.SSH:
		return b.SSH()
	case protocol.DNS:
		return b.DNS()
	case protocol.QUIC:
		return b.QUIC()
	case protocol.MySQL:
		return b.MySQL()
	case protocol.PostgreSQL:
		return b.PostgreSQL()
	case protocol.Redis:
		return b.Redis()
	case protocol.MQTT:
		return b.MQTT()
	case protocol.SMTP:
		return b.SMTP()
	case protocol.POP3:
		return b.POP3()
	case protocol.IMAP:
		return b.IMAP()
	case protocol.FTP:
		return b.FTP()
	case protocol.SMB:
		return b.SMB()
	case protocol.STUN:
		return b.STUN()
	case protocol.SIP:
		return b.SIP()
	case protocol.RTSP:
		return b.RTSP()
	case protocol.DHCP:
		return b.DHCP()
	case protocol.NTP:
		return b.NTP()
	default:
		return b
	}
}

func chainAdd(c *builder.ProtocolChainBuilder, p protocol.Protocol) *builder.ProtocolChainBuilder {
	switch p {
	case protocol.HTTP:
		return c.HTTP()
	case protocol.TLS:
		return c.TLS()
	case protocol.SSH:
		return c.SSH()
	case protocol.DNS:
		return c.DNS()
	case protocol.QUIC:
		return c.QUIC()
	case protocol.MySQL:
		return c.MySQL()
	case protocol.PostgreSQL:
		return c.PostgreSQL()
	case protocol.Redis:
		return c.Redis()
	case protocol.MQTT:
		return c.MQTT()
	case protocol.SMTP:
		return c.SMTP()
	case protocol.POP3:
		return c.POP3()
	case protocol.IMAP:
		return c.IMAP()
	case protocol.FTP:
		return c.FTP()
	case protocol.SMB:
		return c.SMB()
	case protocol.STUN:
		return c.STUN()
	case protocol.SIP:
		return c.SIP()
	case protocol.RTSP:
		return c.RTSP()
	case protocol.DHCP:
		return c.DHCP()
	case protocol.NTP:
		return c.NTP()
	default:
		return c
	}
}

// readInput accepts a hex literal (optionally 0x-prefixed), a path to a
// file, or "-" for stdin.
func readInput(arg string) ([]byte, error) {
	if arg == "-" {
		return io.ReadAll(os.Stdin)
	}
	if looksLikeHex(arg) {
		return hex.DecodeString(strings.TrimPrefix(arg, "0x"))
	}
	return os.ReadFile(arg)
}

func looksLikeHex(s string) bool {
	s = strings.TrimPrefix(s, "0x")
	if len(s) == 0 || len(s)%2 != 0 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

type detectionResult struct {
	Protocol string `json:"protocol,omitempty"`
	Version  string `json:"version,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

func detectAndPrint(data []byte, cfg protocol.DetectorConfig, inst *metrics.Instrumented, out io.Writer) error {
	result := runDetection(data, cfg, inst)
	enc := json.NewEncoder(out)
	return enc.Encode(result)
}

func runDetection(data []byte, cfg protocol.DetectorConfig, inst *metrics.Instrumented) detectionResult {
	var (
		info *protocol.ProtocolInfo
		err  error
	)
	if inst != nil {
		info, err = inst.DetectInfo(data)
	} else {
		info, err = cfg.DetectInfo(data)
	}

	switch {
	case err != nil:
		return detectionResult{Status: "insufficient_data", Error: err.Error()}
	case info == nil:
		return detectionResult{Status: "no_match"}
	default:
		return detectionResult{
			Protocol: info.Protocol.String(),
			Version:  info.Version.String(),
			Status:   "match",
		}
	}
}

// watchFrames reads successive 4-byte-big-endian-length-prefixed frames
// from r, running detection on each and writing one JSON result per line to
// out. Intended for piping a packet-capture extraction tool's output.
func watchFrames(r io.Reader, cfg protocol.DetectorConfig, inst *metrics.Instrumented, out io.Writer) error {
	reader := bufio.NewReader(r)
	var lenBuf [4]byte
	for {
		if _, err := io.ReadFull(reader, lenBuf[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		frameLen := binary.BigEndian.Uint32(lenBuf[:])
		frame := make([]byte, frameLen)
		if _, err := io.ReadFull(reader, frame); err != nil {
			return err
		}
		if err := detectAndPrint(frame, cfg, inst, out); err != nil {
			return err
		}
	}
}

func serveMetrics(addr string, logger *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	logger.WithField("addr", addr).Info("starting metrics server")
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("metrics server error")
	}
}
