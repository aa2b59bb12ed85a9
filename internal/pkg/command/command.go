// Copyright 2025 Robert Bosch GmbH
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"flag"
	"fmt"
	"io"
	"reflect"
)

type CommandRunner interface {
	Name() string
	FlagSet() *flag.FlagSet
	Parse([]string) error
	Run() error
	LogLevel() int
}

// Configurer is implemented by commands which load configuration after
// their flags are parsed. Configure runs once the logger is installed.
type Configurer interface {
	Configure() error
}

type Command struct {
	Name    string
	FlagSet *flag.FlagSet

	logLevel *int
}

// NewCommand returns a command with its flag set and the common -logger
// flag registered.
func NewCommand(name string) Command {
	c := Command{
		Name:    name,
		FlagSet: flag.NewFlagSet(name, flag.ExitOnError),
	}
	c.logLevel = c.FlagSet.Int("logger", 3, "log level (select between 0..4)")
	return c
}

func (c Command) LogLevel() int {
	if c.logLevel == nil {
		return 3
	}
	return *c.logLevel
}

func output() io.Writer {
	return flag.CommandLine.Output()
}

func PrintUsage(usage string, cmds []CommandRunner) {
	fmt.Fprint(output(), usage)

	for _, cmd := range cmds {
		if cmd.Name() == "help" {
			continue
		}

		fmt.Fprintf(output(), "  %s\n", cmd.Name())
		fmt.Fprintf(output(), "    Options:\n")
		cmd.FlagSet().VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(output(), "      -%s %s\n", f.Name, reflect.TypeOf(f.Value))
			fmt.Fprintf(output(), "          %s", f.Usage)
			if f.DefValue != "" {
				fmt.Fprintf(output(), "  (default: %s)", f.DefValue)
			}
			fmt.Fprintf(output(), "\n")
		})
	}
}

// DispatchCommand parses args with the named command, calls setup (when
// not nil), configures and runs the command.
func DispatchCommand(name string, args []string, cmds []CommandRunner, setup func(CommandRunner)) error {
	var cmd CommandRunner
	for _, c := range cmds {
		if c.Name() == name {
			cmd = c
			break
		}
	}
	if cmd == nil {
		return fmt.Errorf("Unknown command: %s", name)
	}

	if err := cmd.Parse(args); err != nil {
		return err
	}
	if setup != nil {
		setup(cmd)
	}
	if c, ok := cmd.(Configurer); ok {
		if err := c.Configure(); err != nil {
			return err
		}
	}
	if cmd.Name() != "help" && cmd.LogLevel() <= 2 {
		fmt.Fprintf(output(), "Running command: %s\n", cmd.Name())
		fmt.Fprintf(output(), "Options:\n")
		cmd.FlagSet().VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(output(), "  %-15s: %s\n", f.Name, f.Value)
		})
	}
	return cmd.Run()
}

type HelpCommand struct {
	Command
}

func NewHelpCommand(name string) *HelpCommand {
	c := &HelpCommand{
		Command: NewCommand(name),
	}
	return c
}

func (c HelpCommand) Name() string {
	return c.Command.Name
}

func (c HelpCommand) FlagSet() *flag.FlagSet {
	return c.Command.FlagSet
}

func (c *HelpCommand) Parse(args []string) error {
	return c.FlagSet().Parse(args)
}

func (c *HelpCommand) Run() error {
	flag.Usage()
	return nil
}
