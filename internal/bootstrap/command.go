// Package bootstrap builds the boot-time service commands that hand the
// resolved experiment parameters to the out-of-band start.sh script. The
// script does the actual cluster bring-up; this package only serializes a
// typed argument list into the shell line the testbed executes at boot.
package bootstrap

import (
	"strconv"
	"strings"
)

// Role selects the argument shape of the bootstrap invocation.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
)

// Shell is the interpreter the testbed uses for boot-time services.
const Shell = "bash"

// Command is one bootstrap invocation. Arguments are kept structured until
// String() so order and formatting stay testable without shell parsing.
type Command struct {
	Script     string
	Role       Role
	LogPath    string
	Background bool

	args []string
}

// NewPrimary builds the blocking invocation for the first-created node. Its
// completion is the synchronization point the provisioning tool waits on.
func NewPrimary(script, logPath, ownAddress string, nodeCount int, startKubernetes, deployOpenWhisk bool, numInvokers int, invokerEngine string, schedulerEnabled bool) Command {
	c := Command{
		Script:  script,
		Role:    RolePrimary,
		LogPath: logPath,
	}
	c.addString(ownAddress)
	c.addInt(nodeCount)
	c.addBool(startKubernetes)
	c.addBool(deployOpenWhisk)
	c.addInt(numInvokers)
	c.addString(invokerEngine)
	c.addBool(schedulerEnabled)
	return c
}

// NewSecondary builds the detached invocation for every other node.
func NewSecondary(script, logPath, ownAddress string, startKubernetes bool) Command {
	c := Command{
		Script:     script,
		Role:       RoleSecondary,
		LogPath:    logPath,
		Background: true,
	}
	c.addString(ownAddress)
	c.addBool(startKubernetes)
	return c
}

// Args returns the positional arguments after the role.
func (c Command) Args() []string {
	args := make([]string, len(c.args))
	copy(args, c.args)
	return args
}

// String serializes the command into the shell line placed in the
// descriptor: script, role, positional args, log redirect, and a trailing
// ampersand for detached invocations.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Script)
	b.WriteByte(' ')
	b.WriteString(string(c.Role))
	for _, arg := range c.args {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	if c.LogPath != "" {
		b.WriteString(" > ")
		b.WriteString(c.LogPath)
		b.WriteString(" 2>&1")
	}
	if c.Background {
		b.WriteString(" &")
	}
	return b.String()
}

func (c *Command) addString(v string) {
	c.args = append(c.args, v)
}

func (c *Command) addInt(v int) {
	c.args = append(c.args, strconv.Itoa(v))
}

// addBool writes the capitalized literals start.sh already parses.
func (c *Command) addBool(v bool) {
	if v {
		c.args = append(c.args, "True")
	} else {
		c.args = append(c.args, "False")
	}
}
