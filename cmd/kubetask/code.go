// Copyright Contributors to the KubeTask project

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubetask-io/orchestrator/internal/submission"
)

func init() {
	rootCmd.AddCommand(codeCmd)
}

var (
	codeWorkingDirectory     string
	codeModel                string
	codeGitHubUser           string
	codeRepositoryURL        string
	codeService              string
	codeDocsRepositoryURL    string
	codeDocsProjectDirectory string
	codeContextVersion       int
	codeDocsBranch           string
	codeContinueSession      bool
	codeOverwriteMemory      bool
	codeEnv                  string
	codeEnvFromSecrets       string
)

var codeCmd = &cobra.Command{
	Use:   "code <task_id>",
	Short: "Submit a code-implementation run for a task",
	Long: `Submit a code-implementation run for a task against a service's codebase.

An omitted --repository-url defaults to the current directory's origin
remote; --docs-repository-url is required and is not detected. Any
omitted working directory defaults to the current
directory relative to the repository root; any omitted user identity
defaults to git's configured user name.`,
	Args: cobra.ExactArgs(1),
	RunE: runCode,
}

func init() {
	codeCmd.Flags().StringVar(&codeWorkingDirectory, "working-directory", "", "Subdirectory within the repository this task operates on.")
	codeCmd.Flags().StringVar(&codeModel, "model", "", "Agent model override.")
	codeCmd.Flags().StringVar(&codeGitHubUser, "github-user", "", "GitHub identity the run authenticates as.")
	codeCmd.Flags().StringVar(&codeRepositoryURL, "repository-url", "", "Repository to implement the task against.")
	codeCmd.Flags().StringVar(&codeService, "service", "", "Service label this run operates against.")
	codeCmd.Flags().StringVar(&codeDocsRepositoryURL, "docs-repository-url", "", "Documentation repository's origin URL.")
	codeCmd.Flags().StringVar(&codeDocsProjectDirectory, "docs-project-directory", "", "Subdirectory of the documentation repository to read from.")
	codeCmd.Flags().IntVar(&codeContextVersion, "context-version", 1, "Monotonic retry counter; increment to force a fresh attempt.")
	codeCmd.Flags().StringVar(&codeDocsBranch, "docs-branch", "main", "Branch of the documentation repository to read from.")
	codeCmd.Flags().BoolVar(&codeContinueSession, "continue-session", false, "Resume a prior session on the shared service workspace.")
	codeCmd.Flags().BoolVar(&codeOverwriteMemory, "overwrite-memory", false, "Regenerate CLAUDE.md from scratch rather than merging.")
	codeCmd.Flags().StringVar(&codeEnv, "env", "", "Comma-separated key=val environment variable bindings.")
	codeCmd.Flags().StringVar(&codeEnvFromSecrets, "env-from-secrets", "", "Comma-separated name:secret:key secret-backed environment bindings.")

	codeCmd.MarkFlagRequired("service")
	codeCmd.MarkFlagRequired("docs-repository-url")
}

func runCode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	detector := submission.NewDetector()

	taskID, err := submission.ParseTaskID(args[0])
	if err != nil {
		return err
	}
	repositoryURL, err := resolveFlag(ctx, codeRepositoryURL, detector.RepositoryURL)
	if err != nil {
		return fmt.Errorf("resolving repository URL: %w", err)
	}
	workingDirectory, err := resolveFlag(ctx, codeWorkingDirectory, detector.WorkingDirectory)
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	githubUser, err := resolveFlag(ctx, codeGitHubUser, detector.GitHubUser)
	if err != nil {
		return fmt.Errorf("resolving github user: %w", err)
	}

	env, err := submission.ParseEnv(codeEnv)
	if err != nil {
		return err
	}
	envFromSecrets, err := submission.ParseEnvFromSecrets(codeEnvFromSecrets)
	if err != nil {
		return err
	}

	client, wait, err := submission.SpawnGateway(ctx, gatewayCommand)
	if err != nil {
		return err
	}
	defer wait()

	if err := client.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing gateway connection: %w", err)
	}

	callArgs := map[string]any{
		"taskId":            taskID,
		"service":           codeService,
		"repositoryUrl":     repositoryURL,
		"docsRepositoryUrl": codeDocsRepositoryURL,
		"workingDirectory":  workingDirectory,
		"githubUser":        githubUser,
		"contextVersion":    codeContextVersion,
		"docsBranch":        codeDocsBranch,
		"continueSession":   codeContinueSession,
		"overwriteMemory":   codeOverwriteMemory,
	}
	if codeModel != "" {
		callArgs["model"] = codeModel
	}
	if codeDocsProjectDirectory != "" {
		callArgs["docsProjectDirectory"] = codeDocsProjectDirectory
	}
	if len(env) > 0 {
		callArgs["env"] = env
	}
	if len(envFromSecrets) > 0 {
		callArgs["envFromSecrets"] = envFromSecrets
	}

	result, err := client.SubmitCode(ctx, callArgs)
	if err != nil {
		return fmt.Errorf("submitting code run: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s/%s\n", result["namespace"], result["name"])
	return nil
}
