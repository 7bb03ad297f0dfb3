package main

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"seehuhn.de/go/svgrender"
)

// cli holds the state shared by all commands.
type cli struct {
	logger     *log.Logger
	verbose    bool
	configPath string
	cfg        config
}

func newCLI(w io.Writer) *cli {
	return &cli{logger: newLogger(w, log.InfoLevel)}
}

// rootCommand creates the root command with all subcommands registered.
func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "svgtile",
		Short:        "Render sample scenes through a raster tile cache",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.logger.SetLevel(log.DebugLevel)
			}
			svgrender.SetLogger(slogAdapter(c.logger))

			if c.configPath == "" {
				return nil
			}
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger.Debug("loaded config", "path", c.configPath)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "TOML configuration file")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.pdfCommand())

	return root
}
