package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fismcp/pkg/server"

	_ "fismcp/toolsets/aws"
)

const version = "0.1.0"

var runServer = server.Run
var exit = os.Exit

func main() {
	cmd := newRootCmd(os.Stderr)
	cmd.SetArgs(os.Args[1:])
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		exit(1)
	}
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	var (
		profile     string
		region      string
		allowWrites bool
		configPath  string
		configDir   string
		logLevel    string
		toolsets    string
	)
	cmd := &cobra.Command{
		Use:   "fismcp",
		Short: "MCP server for AWS Fault Injection Service experiments",
		Long: `fismcp serves AWS Fault Injection Service, CloudFormation, Resource Explorer
and AWS Config operations as MCP tools over stdio.

Mutating tools are rejected unless --allow-writes is set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), server.Options{
				ConfigPath:  configPath,
				ConfigDir:   configDir,
				Region:      region,
				Profile:     profile,
				AllowWrites: allowWrites,
				Toolsets:    parseCSV(toolsets),
				LogLevel:    logLevel,
				Version:     version,
				Stderr:      stderr,
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&profile, "aws-profile", "", "AWS profile to use")
	flags.StringVar(&region, "aws-region", "", "AWS region to use")
	flags.BoolVar(&allowWrites, "allow-writes", false, "enable write operations such as starting experiments")
	flags.StringVar(&configPath, "config", "", "config file path (defaults to $"+server.ConfigEnv+")")
	flags.StringVar(&configDir, "config-dir", "", "directory of drop-in .toml config files")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&toolsets, "toolsets", "", "comma-separated toolsets to enable")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the fismcp version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return cmd
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
