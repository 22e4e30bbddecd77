// Package rspec models the GENI request RSpec v3 documents consumed by the
// testbed's provisioning system. Like libvirtxml, it is a plain struct
// mapping over encoding/xml with Marshal/Unmarshal helpers; no behavior
// lives here.
package rspec

import "encoding/xml"

const (
	// Namespace is the GENI RSpec v3 schema namespace.
	Namespace = "http://www.geni.net/resources/rspec/3"
	// NamespaceEmulab carries the blockstore extension.
	NamespaceEmulab = "http://www.protogeni.net/resources/rspec/ext/emulab/1"
	// TypeRequest marks a request (as opposed to advertisement) document.
	TypeRequest = "request"
)

// RSpec is the document root.
type RSpec struct {
	XMLName xml.Name `xml:"rspec"`
	Type    string   `xml:"type,attr"`
	Xmlns   string   `xml:"xmlns,attr"`
	Nodes   []Node   `xml:"node"`
	Links   []Link   `xml:"link"`
}

// Node is one requested machine.
type Node struct {
	ClientID     string        `xml:"client_id,attr"`
	Exclusive    bool          `xml:"exclusive,attr"`
	SliverType   *SliverType   `xml:"sliver_type,omitempty"`
	HardwareType *HardwareType `xml:"hardware_type,omitempty"`
	Interfaces   []Interface   `xml:"interface"`
	Services     *Services     `xml:"services,omitempty"`
	// Declared with the full extension namespace; encoding/xml emits the
	// xmlns on the element itself rather than a prefixed name.
	BlockStores []BlockStore `xml:"http://www.protogeni.net/resources/rspec/ext/emulab/1 blockstore"`
}

// SliverType selects the sliver implementation; raw-pc for bare metal.
type SliverType struct {
	Name      string     `xml:"name,attr"`
	DiskImage *DiskImage `xml:"disk_image,omitempty"`
}

type DiskImage struct {
	Name string `xml:"name,attr"`
}

type HardwareType struct {
	Name string `xml:"name,attr"`
}

type Interface struct {
	ClientID string `xml:"client_id,attr"`
	IPs      []IP   `xml:"ip"`
}

type IP struct {
	Address string `xml:"address,attr"`
	Netmask string `xml:"netmask,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
}

type Services struct {
	Executes []Execute `xml:"execute"`
}

// Execute is a boot-time service command.
type Execute struct {
	Shell   string `xml:"shell,attr"`
	Command string `xml:"command,attr"`
}

// BlockStore is the emulab extension for scratch volumes.
type BlockStore struct {
	Name       string `xml:"name,attr"`
	MountPoint string `xml:"mountpoint,attr"`
	Class      string `xml:"class,attr,omitempty"`
	Size       string `xml:"size,attr,omitempty"`
	Placement  string `xml:"placement,attr,omitempty"`
}

// Link is a layer-2 segment joining interfaces; a LAN when it has a lan
// link_type and more than two members.
type Link struct {
	ClientID      string         `xml:"client_id,attr"`
	LinkTypes     []LinkType     `xml:"link_type"`
	InterfaceRefs []InterfaceRef `xml:"interface_ref"`
	Properties    []Property     `xml:"property"`
}

type LinkType struct {
	Name string `xml:"name,attr"`
}

type InterfaceRef struct {
	ClientID string `xml:"client_id,attr"`
}

// Property sets the capacity of one directed interface pair. The portal
// expands a LAN bandwidth into the full pairwise set.
type Property struct {
	SourceID string `xml:"source_id,attr"`
	DestID   string `xml:"dest_id,attr"`
	Capacity int64  `xml:"capacity,attr"`
}

// Marshal renders the document with the XML header. Output is deterministic
// for identical inputs; nothing here reads clocks or random sources.
func (r *RSpec) Marshal() (string, error) {
	doc, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(doc) + "\n", nil
}

// Unmarshal parses a document produced by Marshal.
func (r *RSpec) Unmarshal(doc string) error {
	return xml.Unmarshal([]byte(doc), r)
}
