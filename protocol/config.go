package protocol

// ProtocolSet is an immutable, cheaply-copied semantic set of enabled
// protocols. Insertion order is irrelevant; only union and membership
// matter.
type ProtocolSet struct {
	bits uint32
}

// NewProtocolSet builds a ProtocolSet containing exactly the given protocols.
func NewProtocolSet(protocols ...Protocol) ProtocolSet {
	var s ProtocolSet
	for _, p := range protocols {
		s.bits |= 1 << uint(p)
	}
	return s
}

// AllProtocols is a ProtocolSet containing every protocol this package knows
// how to detect.
func AllProtocols() ProtocolSet {
	var s ProtocolSet
	for p := Protocol(0); p < protocolCount; p++ {
		s.bits |= 1 << uint(p)
	}
	return s
}

// With returns a new set with p added, leaving s unmodified.
func (s ProtocolSet) With(p Protocol) ProtocolSet {
	s.bits |= 1 << uint(p)
	return s
}

// Union returns the set-union of s and other.
func (s ProtocolSet) Union(other ProtocolSet) ProtocolSet {
	return ProtocolSet{bits: s.bits | other.bits}
}

// Contains reports whether p is a member of s.
func (s ProtocolSet) Contains(p Protocol) bool {
	return s.bits&(1<<uint(p)) != 0
}

// IsEmpty reports whether s has no members.
func (s ProtocolSet) IsEmpty() bool {
	return s.bits == 0
}

// ProtocolVersionSet is an immutable mapping from Protocol to an expected
// version value. An absent entry means "do not constrain".
type ProtocolVersionSet struct {
	present  uint32
	versions [protocolCount]ProtocolVersion
}

// With returns a new ProtocolVersionSet with p constrained to expect v,
// leaving s unmodified.
func (s ProtocolVersionSet) With(p Protocol, v ProtocolVersion) ProtocolVersionSet {
	s.versions[p] = v
	s.present |= 1 << uint(p)
	return s
}

// Get returns the expected version for p, and whether one was set.
func (s ProtocolVersionSet) Get(p Protocol) (ProtocolVersion, bool) {
	if s.present&(1<<uint(p)) == 0 {
		return ProtocolVersion{}, false
	}
	return s.versions[p], true
}

// PriorityOrder is either nil, selecting the engine's default order for the
// configured transport, or an explicit, caller-owned sequence of protocols.
// Duplicates are allowed but only the first occurrence of a protocol is
// meaningful; entries that are unknown or not enabled are skipped at
// detection time.
type PriorityOrder []Protocol

// NewPriorityOrder copies ps into a new, independently-owned PriorityOrder.
// This copy is the one allocation the core performs outside of a hot-path
// detect call, and happens once at configuration time.
func NewPriorityOrder(ps ...Protocol) PriorityOrder {
	order := make(PriorityOrder, len(ps))
	copy(order, ps)
	return order
}

// DetectorConfig is an immutable value describing how detection should run:
// which protocols are enabled (or, for a chain-based config, which
// protocols appear in an explicit order and are implicitly enabled by that
// membership), what order to try them in, how many leading bytes to
// inspect, and any expected-version constraints. Detection is a pure
// function of (DetectorConfig, input bytes); DetectorConfig carries no
// hidden state and is safe to share across goroutines.
type DetectorConfig struct {
	enabled          ProtocolSet
	priority         PriorityOrder
	maxInspectBytes  int
	expectedVersions ProtocolVersionSet
	transport        Transport
	chainBased       bool
}

// NewDetectorConfig builds a set-based DetectorConfig: only protocols present
// in enabled are considered, in priority order if non-nil else the default
// order for transport. maxInspectBytes is used as given: 0 (or a negative
// value) inspects no bytes at all; pass MaxInspectBytesDefault explicitly for
// the documented default.
func NewDetectorConfig(enabled ProtocolSet, priority PriorityOrder, maxInspectBytes int, expectedVersions ProtocolVersionSet, transport Transport) DetectorConfig {
	return DetectorConfig{
		enabled:          enabled,
		priority:         priority,
		maxInspectBytes:  maxInspectBytes,
		expectedVersions: expectedVersions,
		transport:        transport,
	}
}

// NewChainConfig builds a chain-based DetectorConfig: every protocol named in
// order is processed unconditionally, in exactly that sequence, regardless
// of any enabled set. This is the configuration shape produced by an
// explicit, ordered chain builder.
func NewChainConfig(order PriorityOrder, maxInspectBytes int, expectedVersions ProtocolVersionSet, transport Transport) DetectorConfig {
	enabled := NewProtocolSet(order...)
	return DetectorConfig{
		enabled:          enabled,
		priority:         order,
		maxInspectBytes:  maxInspectBytes,
		expectedVersions: expectedVersions,
		transport:        transport,
		chainBased:       true,
	}
}

// MaxInspectBytes returns the configured cap on inspected bytes.
func (c DetectorConfig) MaxInspectBytes() int { return c.maxInspectBytes }

// Transport returns the configured transport marker.
func (c DetectorConfig) Transport() Transport { return c.transport }

// Enabled returns the configured ProtocolSet.
func (c DetectorConfig) Enabled() ProtocolSet { return c.enabled }

// iterationOrder resolves which protocols to try and in what sequence.
func (c DetectorConfig) iterationOrder() []Protocol {
	if c.priority != nil {
		return c.priority
	}
	return defaultOrderFor(c.transport)
}
