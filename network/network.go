// Package network describes the interconnects that move words in and out of
// buffer levels.
package network

// Network is an interconnect between a buffer level and its children.
type Network struct {
	name                 string
	wordBits             uint64
	distributedMulticast bool
}

// Name returns the name of the network.
func (n *Network) Name() string {
	return n.name
}

// WordBits returns the width of a word on the network.
func (n *Network) WordBits() uint64 {
	return n.wordBits
}

// DistributedMulticastSupported tells if a word read once can be delivered
// to several instances that each hold part of a tile.
func (n *Network) DistributedMulticastSupported() bool {
	return n.distributedMulticast
}
