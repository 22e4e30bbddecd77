// Package topology turns a resolved parameter record into the node and LAN
// descriptors that the RSpec document is rendered from.
package topology

import "github.com/ygao-gw/cloudlab-openwhisk/internal/bootstrap"

// Interface is one node-attached network interface with its static address.
type Interface struct {
	// Name is the interface id local to the node, e.g. "if1". ClientID is
	// the descriptor-wide id, e.g. "ow1:if1".
	Name     string
	ClientID string
	Address  string
	Netmask  string
}

// BlockStore is the per-node scratch volume.
type BlockStore struct {
	Name       string
	MountPoint string
	Size       string
	Placement  string
}

// Node is one provisioned machine. Created once during Build, immutable
// afterwards.
type Node struct {
	Ordinal      int
	Name         string
	DiskImage    string
	HardwareType string
	Interface    Interface
	BlockStore   BlockStore

	// BootCommand is nil until the role pass assigns one.
	BootCommand *bootstrap.Command
}

// LAN is the single shared broadcast domain joining every node interface.
type LAN struct {
	Name       string
	Bandwidth  int64
	Interfaces []string
}

func (l *LAN) addInterface(clientID string) {
	l.Interfaces = append(l.Interfaces, clientID)
}

// Topology is the fully built experiment: the ordered node list plus the LAN
// that joins them. It is returned by Build rather than accumulated in
// package state, so two builds never share anything.
type Topology struct {
	Nodes []Node
	LAN   LAN
}

// Primary returns the first-created node, which carries the blocking
// bootstrap command. Build guarantees at least one node.
func (t *Topology) Primary() *Node {
	return &t.Nodes[0]
}

// Secondaries returns every node after the first.
func (t *Topology) Secondaries() []Node {
	return t.Nodes[1:]
}
