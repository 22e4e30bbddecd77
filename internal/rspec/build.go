package rspec

import (
	"github.com/ygao-gw/cloudlab-openwhisk/internal/bootstrap"
	"github.com/ygao-gw/cloudlab-openwhisk/internal/topology"
)

// SliverRawPC requests an exclusive bare-metal machine.
const SliverRawPC = "raw-pc"

// FromTopology renders a built topology into a request document. The node
// order of the topology is preserved, so identical topologies marshal to
// byte-identical documents.
func FromTopology(t *topology.Topology) *RSpec {
	doc := &RSpec{
		Type:  TypeRequest,
		Xmlns: Namespace,
	}

	for _, node := range t.Nodes {
		doc.Nodes = append(doc.Nodes, buildNode(node))
	}

	doc.Links = append(doc.Links, buildLAN(t.LAN))

	return doc
}

func buildNode(node topology.Node) Node {
	n := Node{
		ClientID:  node.Name,
		Exclusive: true,
		SliverType: &SliverType{
			Name:      SliverRawPC,
			DiskImage: &DiskImage{Name: node.DiskImage},
		},
		HardwareType: &HardwareType{Name: node.HardwareType},
		Interfaces: []Interface{
			{
				ClientID: node.Interface.ClientID,
				IPs: []IP{
					{
						Address: node.Interface.Address,
						Netmask: node.Interface.Netmask,
						Type:    "ipv4",
					},
				},
			},
		},
		BlockStores: []BlockStore{
			{
				Name:       node.BlockStore.Name,
				MountPoint: node.BlockStore.MountPoint,
				Class:      "local",
				Size:       node.BlockStore.Size,
				Placement:  node.BlockStore.Placement,
			},
		},
	}

	if node.BootCommand != nil {
		n.Services = &Services{
			Executes: []Execute{
				{
					Shell:   bootstrap.Shell,
					Command: node.BootCommand.String(),
				},
			},
		}
	}

	return n
}

// buildLAN emits the shared segment with the full pairwise capacity set, the
// way the portal expands a LAN bandwidth attribute.
func buildLAN(lan topology.LAN) Link {
	link := Link{
		ClientID:  lan.Name,
		LinkTypes: []LinkType{{Name: "lan"}},
	}

	for _, ifaceID := range lan.Interfaces {
		link.InterfaceRefs = append(link.InterfaceRefs, InterfaceRef{ClientID: ifaceID})
	}

	for _, src := range lan.Interfaces {
		for _, dst := range lan.Interfaces {
			if src == dst {
				continue
			}
			link.Properties = append(link.Properties, Property{
				SourceID: src,
				DestID:   dst,
				Capacity: lan.Bandwidth,
			})
		}
	}

	return link
}
