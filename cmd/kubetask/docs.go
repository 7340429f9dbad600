// Copyright Contributors to the KubeTask project

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kubetask-io/orchestrator/internal/submission"
)

func init() {
	rootCmd.AddCommand(docsCmd)
}

var (
	docsWorkingDirectory string
	docsModel            string
	docsGitHubUser       string
	docsRepositoryURL    string
	docsSourceBranch     string
	docsIncludeCodebase  bool
	docsService          string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Submit a documentation-generation run",
	Long: `Submit a documentation-generation run against a repository.

Any omitted repository URL defaults to the current directory's origin
remote; any omitted working directory defaults to the current
directory relative to the repository root; any omitted user identity
defaults to git's configured user name.`,
	RunE: runDocs,
}

func init() {
	docsCmd.Flags().StringVar(&docsWorkingDirectory, "working-directory", "", "Directory within the repository to document.")
	docsCmd.Flags().StringVar(&docsModel, "model", "", "Agent model override.")
	docsCmd.Flags().StringVar(&docsGitHubUser, "github-user", "", "GitHub identity the run authenticates as.")
	docsCmd.Flags().StringVar(&docsRepositoryURL, "repository-url", "", "Repository to document.")
	docsCmd.Flags().StringVar(&docsSourceBranch, "source-branch", "main", "Branch to document.")
	docsCmd.Flags().BoolVar(&docsIncludeCodebase, "include-codebase", false, "Include the full codebase in the documentation context.")
	docsCmd.Flags().StringVar(&docsService, "service", "", "Service label for the run; defaults to the working directory's base name.")
}

func runDocs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	detector := submission.NewDetector()

	repositoryURL, err := resolveFlag(ctx, docsRepositoryURL, detector.RepositoryURL)
	if err != nil {
		return fmt.Errorf("resolving repository URL: %w", err)
	}
	workingDirectory, err := resolveFlag(ctx, docsWorkingDirectory, detector.WorkingDirectory)
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	githubUser, err := resolveFlag(ctx, docsGitHubUser, detector.GitHubUser)
	if err != nil {
		return fmt.Errorf("resolving github user: %w", err)
	}
	service := docsService
	if service == "" {
		service = strings.ToLower(filepath.Base(workingDirectory))
	}

	client, wait, err := submission.SpawnGateway(ctx, gatewayCommand)
	if err != nil {
		return err
	}
	defer wait()

	if err := client.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing gateway connection: %w", err)
	}

	args2 := map[string]any{
		"service":          service,
		"repositoryUrl":    repositoryURL,
		"workingDirectory": workingDirectory,
		"sourceBranch":     docsSourceBranch,
		"githubUser":       githubUser,
		"includeCodebase":  docsIncludeCodebase,
	}
	if docsModel != "" {
		args2["model"] = docsModel
	}

	result, err := client.SubmitDocs(ctx, args2)
	if err != nil {
		return fmt.Errorf("submitting docs run: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s/%s\n", result["namespace"], result["name"])
	return nil
}

func resolveFlag(ctx context.Context, value string, detect func(context.Context) (string, error)) (string, error) {
	if value != "" {
		return value, nil
	}
	return detect(ctx)
}
