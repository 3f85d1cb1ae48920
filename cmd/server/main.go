package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"bitbucket-mcp/server/internal/mcpserver"
	"bitbucket-mcp/server/internal/middleware"
	"bitbucket-mcp/server/internal/observability"
)

const defaultEnvFile = ".env"

func buildRootCommand() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "bitbucket-mcp",
		Short: "MCP server for the Bitbucket Cloud API",
		Long: `Serves Bitbucket Cloud repositories, commits, branch restrictions, branching
models, projects, pull requests and workspaces as MCP tools over stdio.

Credentials are read from BITBUCKET_USERNAME, BITBUCKET_APP_PASSWORD and
BITBUCKET_WORKSPACE (or the --env-file).`,
		Version:       mcpserver.ServerVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return serve(envFile)
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile,
		"Path to a .env file; variables already in the environment take precedence")

	cmd.AddCommand(buildToolsCommand())
	return cmd
}

// serve wires the container and blocks until the client disconnects.
func serve(envFile string) error {
	container := dig.New()
	if err := RegisterProviders(container, envFile); err != nil {
		return err
	}
	return container.Invoke(func(
		h *mcpserver.Handler,
		usage *middleware.Usage,
		hook *observability.LokiHook,
	) error {
		defer func() {
			usage.Wait()
			if hook != nil {
				hook.Wait()
			}
		}()
		return h.ServeStdio()
	})
}

func main() {
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})

	if err := buildRootCommand().Execute(); err != nil {
		logger.Fatalf("Error executing 'bitbucket-mcp': %s", err)
	}
}
