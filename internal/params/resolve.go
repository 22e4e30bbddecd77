package params

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// ErrInvalidParams is returned by Resolve when any warning was reported.
var ErrInvalidParams = errors.New("invalid experiment parameters")

// Warning is a validation problem attributed to one or more parameters. It
// is a user-facing message, not a programming error.
type Warning struct {
	Message string
	Fields  []string
}

func (w Warning) String() string {
	if len(w.Fields) == 0 {
		return w.Message
	}
	return fmt.Sprintf("%s (parameters: %v)", w.Message, w.Fields)
}

// Params is the resolved, read-only configuration record consumed by the
// topology builder.
type Params struct {
	NodeCount          int
	NodeType           string
	StartKubernetes    bool
	DeployOpenWhisk    bool
	NumInvokers        int
	InvokerEngine      string
	SchedulerEnabled   bool
	TempFileSystemSize int
}

// Context holds the parameter registry and collects warnings while binding.
type Context struct {
	defs     []Definition
	warnings []Warning
	logger   *slog.Logger
}

func NewContext(logger *slog.Logger) *Context {
	return &Context{
		defs:   definitions(),
		logger: logger.With(slog.String("component", "params")),
	}
}

// Definitions returns the registry in declaration order.
func (c *Context) Definitions() []Definition {
	defs := make([]Definition, len(c.defs))
	copy(defs, c.defs)
	return defs
}

// ReportWarning records a field-attributed validation problem.
func (c *Context) ReportWarning(w Warning) {
	c.logger.Warn("parameter validation failed",
		slog.String("message", w.Message),
		slog.Any("fields", w.Fields),
	)
	c.warnings = append(c.warnings, w)
}

// Warnings returns everything reported so far.
func (c *Context) Warnings() []Warning {
	return c.warnings
}

// Resolve applies overrides on top of the declared defaults, checks each
// value against its definition, enforces cross-field consistency and returns
// the resolved record. Any warning blocks resolution: the caller gets
// ErrInvalidParams and must correct the inputs. Resolution is deterministic
// and has no side effects beyond the warning channel.
func (c *Context) Resolve(overrides map[string]any) (Params, error) {
	values := make(map[string]any, len(c.defs))
	// Keyed case-insensitively: file-based sources (viper) lowercase keys.
	byName := make(map[string]Definition, len(c.defs))
	for _, def := range c.defs {
		values[def.Name] = def.Default
		byName[strings.ToLower(def.Name)] = def
	}

	// Stable order so repeated runs report identical warnings.
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def, ok := byName[strings.ToLower(name)]
		if !ok {
			c.ReportWarning(Warning{
				Message: fmt.Sprintf("unknown parameter %q", name),
				Fields:  []string{name},
			})
			continue
		}

		parsed, err := parseValue(def, overrides[name])
		if err != nil {
			c.ReportWarning(Warning{
				Message: err.Error(),
				Fields:  []string{def.Name},
			})
			continue
		}
		values[def.Name] = parsed
	}

	p := Params{
		NodeCount:          values[NodeCount].(int),
		NodeType:           values[NodeType].(string),
		StartKubernetes:    values[StartKubernetes].(bool),
		DeployOpenWhisk:    values[DeployOpenWhisk].(bool),
		NumInvokers:        values[NumInvokers].(int),
		InvokerEngine:      values[InvokerEngine].(string),
		SchedulerEnabled:   values[SchedulerEnabled].(bool),
		TempFileSystemSize: values[TempFileSystemSize].(int),
	}

	c.verify(p)

	if len(c.warnings) > 0 {
		return Params{}, ErrInvalidParams
	}

	c.logger.Debug("parameters resolved",
		slog.Int("node_count", p.NodeCount),
		slog.String("node_type", p.NodeType),
		slog.Bool("start_kubernetes", p.StartKubernetes),
		slog.Bool("deploy_openwhisk", p.DeployOpenWhisk),
	)

	return p, nil
}

// verify holds the range and cross-field checks that the per-parameter
// types cannot express.
func (c *Context) verify(p Params) {
	if p.NodeCount < 1 {
		c.ReportWarning(Warning{
			Message: "at least one node is required",
			Fields:  []string{NodeCount},
		})
	}

	if p.NumInvokers < 0 {
		c.ReportWarning(Warning{
			Message: "number of invokers must not be negative",
			Fields:  []string{NumInvokers},
		})
	}

	if p.TempFileSystemSize < 0 {
		c.ReportWarning(Warning{
			Message: "temporary filesystem size must not be negative",
			Fields:  []string{TempFileSystemSize},
		})
	}

	if p.DeployOpenWhisk && !p.StartKubernetes {
		c.ReportWarning(Warning{
			Message: "A Kubernetes cluster must be created to deploy OpenWhisk",
			Fields:  []string{StartKubernetes},
		})
	}
}

func parseValue(def Definition, raw any) (any, error) {
	switch def.Kind {
	case KindInteger:
		v, err := cast.ToIntE(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %v", def.Name, raw)
		}
		return v, nil

	case KindBoolean:
		v, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects a boolean, got %v", def.Name, raw)
		}
		return v, nil

	case KindString, KindNodeType:
		v, err := cast.ToStringE(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects a string, got %v", def.Name, raw)
		}
		if len(def.LegalValues) > 0 {
			for _, legal := range def.LegalValues {
				if v == legal.Value {
					return v, nil
				}
			}
			return nil, fmt.Errorf("%s must be one of %v, got %q", def.Name, legalValueNames(def), v)
		}
		return v, nil

	default:
		return nil, fmt.Errorf("%s has unsupported kind %s", def.Name, def.Kind)
	}
}

func legalValueNames(def Definition) []string {
	names := make([]string, len(def.LegalValues))
	for i, lv := range def.LegalValues {
		names[i] = lv.Value
	}
	return names
}
