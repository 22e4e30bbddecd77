package topology

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ygao-gw/cloudlab-openwhisk/internal/bootstrap"
	"github.com/ygao-gw/cloudlab-openwhisk/internal/config"
	"github.com/ygao-gw/cloudlab-openwhisk/internal/params"
)

// Builder constructs topologies from resolved parameters. It carries the
// generation constants explicitly instead of reading a shared request
// object.
type Builder struct {
	gen    config.Generation
	logger *slog.Logger

	nodeCounter   metric.Int64Counter
	buildDuration metric.Float64Histogram
}

func NewBuilder(gen config.Generation, logger *slog.Logger) *Builder {
	meter := otel.Meter("cloudlab-openwhisk/topology")

	nodeCounter, err := meter.Int64Counter(
		"cloudlab.topology.nodes",
		metric.WithDescription("Number of node descriptors built"),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		logger.Warn("failed to create nodeCounter metric", slog.String("error", err.Error()))
	}

	buildDuration, err := meter.Float64Histogram(
		"cloudlab.topology.build.duration",
		metric.WithDescription("Duration of topology builds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		logger.Warn("failed to create buildDuration metric", slog.String("error", err.Error()))
	}

	return &Builder{
		gen:           gen,
		logger:        logger.With(slog.String("component", "topology")),
		nodeCounter:   nodeCounter,
		buildDuration: buildDuration,
	}
}

// Build allocates one node descriptor per requested position, wires every
// interface into the shared LAN, and assigns the role-dependent bootstrap
// commands. The returned topology is complete and never mutated again.
func (b *Builder) Build(ctx context.Context, p params.Params) (*Topology, error) {
	tracer := otel.Tracer("cloudlab-openwhisk/topology")
	ctx, span := tracer.Start(ctx, "Build")
	defer span.End()
	span.SetAttributes(attribute.Int("node.count", p.NodeCount))

	startTime := time.Now()

	if p.NodeCount < 1 {
		return nil, fmt.Errorf("cannot build a topology with %d nodes", p.NodeCount)
	}

	t := &Topology{
		LAN: LAN{
			Name:      "lan",
			Bandwidth: b.gen.LANBandwidth,
		},
	}

	pool := newAddressPool(b.gen.BaseIP)

	for i := 0; i < p.NodeCount; i++ {
		node := b.buildNode(i, pool, p)
		t.LAN.addInterface(node.Interface.ClientID)
		t.Nodes = append(t.Nodes, node)

		b.logger.Info("created node",
			slog.String("node", node.Name),
			slog.String("address", node.Interface.Address),
		)
		if b.nodeCounter != nil {
			b.nodeCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("hardware_type", p.NodeType),
			))
		}
	}

	b.assignBootCommands(t, p)

	if b.buildDuration != nil {
		b.buildDuration.Record(ctx, time.Since(startTime).Seconds())
	}

	b.logger.Info("topology built",
		slog.Int("nodes", len(t.Nodes)),
		slog.String("primary", t.Primary().Name),
	)

	return t, nil
}

func (b *Builder) buildNode(ordinal int, pool *addressPool, p params.Params) Node {
	name := fmt.Sprintf("%s%d", b.gen.NamePrefix, ordinal+1)

	return Node{
		Ordinal:      ordinal,
		Name:         name,
		DiskImage:    b.gen.Image,
		HardwareType: p.NodeType,
		Interface: Interface{
			Name:     "if1",
			ClientID: name + ":if1",
			Address:  pool.allocate(),
			Netmask:  b.gen.Netmask,
		},
		BlockStore: BlockStore{
			Name:       name + "-bs",
			MountPoint: b.gen.MountPoint,
			Size:       fmt.Sprintf("%dGB", p.TempFileSystemSize),
			Placement:  "any",
		},
	}
}

// assignBootCommands gives the first-created node the blocking primary
// invocation and every other node a detached secondary one. Each command
// carries the node's own assigned address; the primary is not special-cased
// to a fixed suffix.
func (b *Builder) assignBootCommands(t *Topology, p params.Params) {
	for i := range t.Nodes {
		node := &t.Nodes[i]
		if i == 0 {
			cmd := bootstrap.NewPrimary(
				b.gen.ScriptPath,
				b.gen.BootLogPath,
				node.Interface.Address,
				p.NodeCount,
				p.StartKubernetes,
				p.DeployOpenWhisk,
				p.NumInvokers,
				p.InvokerEngine,
				p.SchedulerEnabled,
			)
			node.BootCommand = &cmd
			continue
		}

		cmd := bootstrap.NewSecondary(
			b.gen.ScriptPath,
			b.gen.BootLogPath,
			node.Interface.Address,
			p.StartKubernetes,
		)
		node.BootCommand = &cmd
	}
}
