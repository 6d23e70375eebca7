package cmd

import (
	"os"

	"github.com/diamonddb/diamond-node/pkg/config"
	"github.com/diamonddb/diamond-node/pkg/engine"
	"github.com/diamonddb/diamond-node/pkg/storage"
	"github.com/spf13/cobra"
)

type Command struct {
	// The underlying cobra command.
	command *cobra.Command
	// A configuration function that returns an error if the configuration is invalid.
	configFuncE func(cmd *cobra.Command) error
	// A flags function that can be used to add flags to the command.
	flagsFunc func(cmd *cobra.Command)
}

func NewCommand(use, short string) *Command {
	return &Command{
		command: &cobra.Command{
			Use:   use,
			Short: short,
		},
		configFuncE: applyFlagsToEnv,
	}
}

func (c *Command) Build() *cobra.Command {
	if c.flagsFunc != nil {
		c.flagsFunc(c.command)
	}

	return c.command
}

func (c *Command) WithArgs(args cobra.PositionalArgs) *Command {
	c.command.Args = args

	return c
}

func (c *Command) WithConfigE(config func(cmd *cobra.Command) error) *Command {
	c.configFuncE = config

	return c
}

func (c *Command) WithFlags(flags func(cmd *cobra.Command)) *Command {
	c.flagsFunc = flags

	return c
}

// WithRunE runs the command against an engine initialized from the
// configuration.
func (c *Command) WithRunE(run func(cmd *cobra.Command, args []string, e *engine.Engine) error) *Command {
	c.command.RunE = func(cmd *cobra.Command, args []string) error {
		if c.configFuncE != nil {
			if err := c.configFuncE(cmd); err != nil {
				return err
			}
		}

		e, err := openEngine(cmd)

		if err != nil {
			return err
		}

		return run(cmd, args, e)
	}

	return c
}

// Copy the persistent flags that override the configuration into the
// environment read by config.NewConfig.
func applyFlagsToEnv(cmd *cobra.Command) error {
	overrides := map[string]string{
		"data-path":    "DIAMOND_DATA_PATH",
		"page-size":    "DIAMOND_PAGE_SIZE",
		"storage-mode": "DIAMOND_STORAGE_MODE",
	}

	for flag, key := range overrides {
		f := cmd.Flag(flag)

		if f == nil || !f.Changed {
			continue
		}

		if err := os.Setenv(key, f.Value.String()); err != nil {
			return err
		}
	}

	return nil
}

func openEngine(cmd *cobra.Command) (*engine.Engine, error) {
	c := config.NewConfig()

	fileSystem, err := storage.NewFileSystemFromConfig(c)

	if err != nil {
		return nil, err
	}

	e := engine.New(c, fileSystem)

	if _, err := e.Initialize(cmd.Context()); err != nil {
		return nil, err
	}

	return e, nil
}
