package localvirt

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygao-gw/cloudlab-openwhisk/internal/config"
	"github.com/ygao-gw/cloudlab-openwhisk/internal/params"
	"github.com/ygao-gw/cloudlab-openwhisk/internal/topology"
)

func buildTopology(t *testing.T, nodeCount int) *topology.Topology {
	t.Helper()

	gen := config.Generation{
		BaseIP:       "10.10.1",
		Netmask:      "255.255.255.0",
		Image:        "urn:publicid:IDN+wisc.cloudlab.us+image+gwcloudlab-PG0:openwsk-v1:0",
		NamePrefix:   "ow",
		LANBandwidth: 10000000,
		ScriptPath:   "/local/repository/start.sh",
		BootLogPath:  "/home/cloudlab-openwhisk/start.log",
		MountPoint:   "/mydata",
	}
	p := params.Params{
		NodeCount:       nodeCount,
		NodeType:        "m510",
		StartKubernetes: true,
		DeployOpenWhisk: true,
		NumInvokers:     1,
		InvokerEngine:   "kubernetes",
	}

	builder := topology.NewBuilder(gen, slog.New(slog.NewTextHandler(io.Discard, nil)))
	topo, err := builder.Build(context.Background(), p)
	require.NoError(t, err)
	return topo
}

func testEmitter() *Emitter {
	return NewEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDomainsPerNode(t *testing.T) {
	domains := testEmitter().Domains(buildTopology(t, 3))

	require.Len(t, domains, 3)
	assert.Equal(t, "ow1", domains[0].Name)
	assert.Equal(t, "ow2", domains[1].Name)
	assert.Equal(t, "ow3", domains[2].Name)

	for _, domain := range domains {
		assert.Equal(t, "kvm", domain.Type)
		require.NotNil(t, domain.VCPU)
		assert.Equal(t, uint(emulatedVCPUs), domain.VCPU.Value)
		require.NotNil(t, domain.Devices)
		require.Len(t, domain.Devices.Disks, 2)
		require.Len(t, domain.Devices.Interfaces, 1)
	}
}

func TestDomainUUIDsDeterministic(t *testing.T) {
	first := testEmitter().Domains(buildTopology(t, 2))
	second := testEmitter().Domains(buildTopology(t, 2))

	require.Len(t, first, 2)
	assert.Equal(t, first[0].UUID, second[0].UUID)
	assert.Equal(t, first[1].UUID, second[1].UUID)
	assert.NotEqual(t, first[0].UUID, first[1].UUID)
}

func TestMarshalDeterministic(t *testing.T) {
	e := testEmitter()

	first, err := e.Marshal(buildTopology(t, 2))
	require.NoError(t, err)
	second, err := e.Marshal(buildTopology(t, 2))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMarshalContent(t *testing.T) {
	doc, err := testEmitter().Marshal(buildTopology(t, 2))
	require.NoError(t, err)

	assert.Contains(t, doc, "<name>ow1</name>")
	assert.Contains(t, doc, "<name>ow2</name>")
	assert.Contains(t, doc, "ow1.qcow2")
	assert.Contains(t, doc, "ow1-scratch.qcow2")
	assert.Contains(t, doc, "virbr0")
}
