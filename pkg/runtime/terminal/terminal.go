package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/costseg/pkg/runtime/terminal/commands"
	"github.com/de-tools/costseg/pkg/runtime/terminal/export"
	"github.com/de-tools/costseg/pkg/services/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	svc      report.Service
	fs       afero.Fs
	reporter *Reporter
	summary  *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Service report.Service
	// Fs is where input files are read from and exports are written to.
	Fs     afero.Fs
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	cli := &CLI{
		svc:      opts.Service,
		fs:       opts.Fs,
		reporter: NewReporter(opts.Output),
		summary:  export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args for the next Execute.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "costseg",
		Short:         "Cost segregation report tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewTemplateCmd(cli.svc, cli.fs, cli.reporter))
	cmd.AddCommand(commands.NewReportCmd(cli.svc, cli.fs, cli.reporter, cli.summary))

	return cmd
}
