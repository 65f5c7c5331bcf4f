package network

import "fmt"

// Builder can build networks.
type Builder struct {
	wordBits             uint64
	distributedMulticast bool
}

// MakeBuilder creates a builder with 16-bit words and no multicast.
func MakeBuilder() Builder {
	return Builder{
		wordBits: 16,
	}
}

// WithWordBits sets the width of a word on the network.
func (b Builder) WithWordBits(bits uint64) Builder {
	b.wordBits = bits
	return b
}

// WithDistributedMulticast enables or disables distributed multicast.
func (b Builder) WithDistributedMulticast(enabled bool) Builder {
	b.distributedMulticast = enabled
	return b
}

// Build creates the network.
func (b Builder) Build(name string) (*Network, error) {
	if b.wordBits == 0 {
		return nil, fmt.Errorf("network %s: word bits must be > 0", name)
	}

	return &Network{
		name:                 name,
		wordBits:             b.wordBits,
		distributedMulticast: b.distributedMulticast,
	}, nil
}
