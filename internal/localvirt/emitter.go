// Package localvirt renders a topology as libvirt domain XML so a profile
// can be rehearsed on a local hypervisor before it is submitted to the
// testbed. It stops at XML; defining or starting domains is left to virsh.
package localvirt

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"libvirt.org/go/libvirtxml"

	"github.com/ygao-gw/cloudlab-openwhisk/internal/topology"
)

// Dry-run shape of every emulated node. The testbed hardware types do not
// map onto local resources, so the emulator uses one fixed size.
const (
	emulatedVCPUs     = 4
	emulatedMemoryMiB = 8192
	bridgeInterface   = "virbr0"
	imageDir          = "/var/lib/cloudlab-openwhisk/images"
)

// Emitter converts topology nodes into libvirt domain descriptors.
type Emitter struct {
	logger *slog.Logger
}

func NewEmitter(logger *slog.Logger) *Emitter {
	return &Emitter{
		logger: logger.With(slog.String("component", "localvirt")),
	}
}

// Domains returns one domain per node, in node order. Domain UUIDs are
// name-derived so repeated runs emit identical documents.
func (e *Emitter) Domains(t *topology.Topology) []libvirtxml.Domain {
	domains := make([]libvirtxml.Domain, 0, len(t.Nodes))
	for _, node := range t.Nodes {
		domains = append(domains, e.domain(node))
	}
	return domains
}

// Marshal renders every domain document, concatenated in node order.
func (e *Emitter) Marshal(t *topology.Topology) (string, error) {
	var b strings.Builder
	for _, domain := range e.Domains(t) {
		doc, err := domain.Marshal()
		if err != nil {
			return "", fmt.Errorf("could not serialize domain %s: %w", domain.Name, err)
		}
		b.WriteString(doc)
		if !strings.HasSuffix(doc, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func (e *Emitter) domain(node topology.Node) libvirtxml.Domain {
	domainUUID := uuid.NewSHA1(uuid.NameSpaceDNS, []byte(node.Name+".cloudlab-openwhisk.local"))

	domain := libvirtxml.Domain{
		Type:        "kvm",
		Name:        node.Name,
		UUID:        domainUUID.String(),
		Description: fmt.Sprintf("dry-run of %s (address %s, scratch at %s)", node.Name, node.Interface.Address, node.BlockStore.MountPoint),
		Memory: &libvirtxml.DomainMemory{
			Value: emulatedMemoryMiB,
			Unit:  "MiB",
		},
		VCPU: &libvirtxml.DomainVCPU{
			Value: emulatedVCPUs,
		},
		OS: &libvirtxml.DomainOS{
			Type: &libvirtxml.DomainOSType{
				Arch: "x86_64",
				Type: "hvm",
			},
		},
		Devices: &libvirtxml.DomainDeviceList{
			Disks: []libvirtxml.DomainDisk{
				e.disk(fmt.Sprintf("%s/%s.qcow2", imageDir, node.Name), "vda"),
				e.disk(fmt.Sprintf("%s/%s-scratch.qcow2", imageDir, node.Name), "vdb"),
			},
			Interfaces: []libvirtxml.DomainInterface{
				{
					Source: &libvirtxml.DomainInterfaceSource{
						Bridge: &libvirtxml.DomainInterfaceSourceBridge{
							Bridge: bridgeInterface,
						},
					},
					Model: &libvirtxml.DomainInterfaceModel{
						Type: "virtio",
					},
				},
			},
		},
	}

	e.logger.Debug("rendered domain",
		slog.String("node", node.Name),
		slog.String("uuid", domainUUID.String()),
	)

	return domain
}

func (e *Emitter) disk(path, dev string) libvirtxml.DomainDisk {
	return libvirtxml.DomainDisk{
		Device: "disk",
		Driver: &libvirtxml.DomainDiskDriver{
			Name: "qemu",
			Type: "qcow2",
		},
		Source: &libvirtxml.DomainDiskSource{
			File: &libvirtxml.DomainDiskSourceFile{
				File: path,
			},
		},
		Target: &libvirtxml.DomainDiskTarget{
			Dev: dev,
			Bus: "virtio",
		},
	}
}
