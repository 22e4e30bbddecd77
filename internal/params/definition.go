package params

import "strings"

// CanonicalName maps a case-insensitive parameter name to its declared
// spelling. File-based sources lowercase their keys; this restores them.
func CanonicalName(name string) (string, bool) {
	for _, def := range definitions() {
		if strings.EqualFold(def.Name, name) {
			return def.Name, true
		}
	}
	return name, false
}

// Kind describes how a parameter value is parsed and checked.
type Kind int

const (
	KindInteger Kind = iota
	KindBoolean
	KindString
	// KindNodeType is a string naming a testbed hardware type. The portal
	// validates these against the site inventory; here it is a plain string.
	KindNodeType
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindNodeType:
		return "nodetype"
	default:
		return "unknown"
	}
}

// LegalValue is one entry of an enum parameter's value set.
type LegalValue struct {
	Value string
	Label string
}

// Definition declares one experiment knob: its type, default and value set.
type Definition struct {
	Name            string
	Description     string
	LongDescription string
	Kind            Kind
	Default         any
	LegalValues     []LegalValue
	Advanced        bool
}

// Parameter names recognized by the resolver.
const (
	NodeCount          = "nodeCount"
	NodeType           = "nodeType"
	StartKubernetes    = "startKubernetes"
	DeployOpenWhisk    = "deployOpenWhisk"
	NumInvokers        = "numInvokers"
	InvokerEngine      = "invokerEngine"
	SchedulerEnabled   = "schedulerEnabled"
	TempFileSystemSize = "tempFileSystemSize"
)

// Invoker engine values.
const (
	EngineKubernetes = "kubernetes"
	EngineDocker     = "docker"
)

func definitions() []Definition {
	return []Definition{
		{
			Name:        NodeCount,
			Description: "Number of nodes in the experiment. It is recommended that at least 3 be used.",
			Kind:        KindInteger,
			Default:     3,
		},
		{
			Name:            NodeType,
			Description:     "Node Hardware Type",
			LongDescription: "Tested primarily with m510 and xl170 nodes.",
			Kind:            KindNodeType,
			Default:         "m510",
		},
		{
			Name:            StartKubernetes,
			Description:     "Create Kubernetes cluster",
			LongDescription: "Set up a Kubernetes cluster with default configuration (Calico networking, etc.)",
			Kind:            KindBoolean,
			Default:         true,
		},
		{
			Name:            DeployOpenWhisk,
			Description:     "Deploy OpenWhisk",
			LongDescription: "Deploy OpenWhisk using Helm.",
			Kind:            KindBoolean,
			Default:         true,
		},
		{
			Name:            NumInvokers,
			Description:     "Number of Invokers",
			LongDescription: "Number of invokers for OpenWhisk. Non-invoker nodes become core nodes.",
			Kind:            KindInteger,
			Default:         1,
		},
		{
			Name:            InvokerEngine,
			Description:     "Invoker Engine",
			LongDescription: "Determines how the invoker creates containers.",
			Kind:            KindString,
			Default:         EngineKubernetes,
			LegalValues: []LegalValue{
				{Value: EngineKubernetes, Label: "Kubernetes Container Engine"},
				{Value: EngineDocker, Label: "Docker Container Engine"},
			},
		},
		{
			Name:            SchedulerEnabled,
			Description:     "Enable OpenWhisk Scheduler",
			LongDescription: "Enable the OpenWhisk scheduler component (and etcd).",
			Kind:            KindBoolean,
			Default:         false,
		},
		{
			Name:            TempFileSystemSize,
			Description:     "Temporary Filesystem Size (in GB)",
			LongDescription: "Size of temporary file system for each node (0 GB indicates maximum available).",
			Kind:            KindInteger,
			Default:         0,
			Advanced:        true,
		},
	}
}
