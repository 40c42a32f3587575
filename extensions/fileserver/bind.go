package fileserver

import "errors"

var fallbackPorts = []uint16{8888, 9000, 5000}

// IsAddressInUse reports whether err comes from binding a port that another
// socket already holds.
func IsAddressInUse(err error) bool {
	return err != nil && errors.Is(err, errAddressInUse)
}

// SuggestPorts returns alternatives for a port that could not be bound: the
// next port up, then a fixed list of common development ports.
func SuggestPorts(port uint16) []uint16 {
	var candidates []uint16
	if port < 65535 {
		candidates = append(candidates, port+1)
	}
	candidates = append(candidates, fallbackPorts...)
	suggestions := make([]uint16, 0, len(candidates))
	seen := map[uint16]bool{port: true}
	for _, candidate := range candidates {
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		suggestions = append(suggestions, candidate)
	}
	return suggestions
}
