// Copyright Contributors to the KubeTask project

// Command kubetask is the submission client: it submits DocsRun and
// CodeRun requests to a submission gateway process over a
// line-delimited JSON-RPC connection, filling in repository URL,
// working directory, and user identity from the local git checkout
// when a flag is omitted.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var gatewayCommand string

var rootCmd = &cobra.Command{
	Use:   "kubetask",
	Short: "Submit documentation and code-implementation runs to KubeTask",
	Long: `kubetask submits run requests to a KubeTask submission gateway.

Available commands:
  docs   Submit a documentation-generation run
  code   Submit a code-implementation run for a task

Examples:
  kubetask docs --working-directory docs
  kubetask code 42 --service widgets --docs-repository-url https://github.com/acme/widgets-docs`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&gatewayCommand, "gateway-command", "kubetask-gateway",
		"Command used to start the submission gateway process that this client talks to over stdio.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
