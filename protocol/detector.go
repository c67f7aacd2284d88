package protocol

// Detect runs the configured validators over data in order and returns the
// first matching Protocol, nil if every reachable validator returned
// NoMatch, or ErrInsufficientData if at least one validator returned
// Incomplete and none matched.
func (c DetectorConfig) Detect(data []byte) (*Protocol, error) {
	info, err := c.DetectInfo(data)
	if err != nil || info == nil {
		return nil, err
	}
	p := info.Protocol
	return &p, nil
}

// DetectInfo runs the configured validators over data in order and returns
// the first matching ProtocolInfo (protocol plus extracted version), nil if
// every reachable validator returned NoMatch, or ErrInsufficientData if at
// least one validator returned Incomplete and none matched.
//
// Algorithm (mirrors the registry's default ordering and the chain/set
// distinction exactly):
//  1. window = data[:min(len(data), maxInspectBytes)].
//  2. Walk c.iterationOrder(): the caller's PriorityOrder if set, else the
//     registry's default order for c.Transport().
//  3. For a chain-based config every named protocol runs unconditionally;
//     for a set-based config a protocol only runs if c.Enabled() contains
//     it.
//  4. First Match wins, after being checked against any expected-version
//     constraint; a version mismatch coerces the result to NoMatch and the
//     loop continues. Any Incomplete sets a sticky flag. NoMatch is a no-op.
//  5. If nothing matched, ErrInsufficientData is returned when the sticky
//     flag is set, else (nil, nil).
func (c DetectorConfig) DetectInfo(data []byte) (*ProtocolInfo, error) {
	limit := c.maxInspectBytes
	if limit < 0 {
		limit = 0
	}
	if limit > len(data) {
		limit = len(data)
	}
	window := data[:limit]

	order := c.iterationOrder()
	seen := ProtocolSet{}
	anyIncomplete := false

	for _, p := range order {
		if p >= protocolCount || seen.Contains(p) {
			continue
		}
		seen = seen.With(p)

		if !c.chainBased && !c.enabled.Contains(p) {
			continue
		}

		status, version := p.ProbeInfo(window)

		switch status {
		case Match:
			if expected, ok := c.expectedVersions.Get(p); ok && expected != version {
				continue
			}
			return &ProtocolInfo{Protocol: p, Version: version}, nil
		case Incomplete:
			anyIncomplete = true
		}
	}

	if anyIncomplete {
		return nil, ErrInsufficientData
	}
	return nil, nil
}
