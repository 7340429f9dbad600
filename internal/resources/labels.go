// Copyright Contributors to the KubeTask project

// Package resources builds and reconciles the cluster objects that
// back a run request: the configuration bundle, the batch job, and (for
// code runs) the shared persistent workspace.
package resources

import (
	"github.com/kubetask-io/orchestrator/internal/naming"
)

const appName = "kubetask"

// ComponentDocs and ComponentCode are the "component" label values.
const (
	ComponentDocs = "docs-generator"
	ComponentCode = "code-runner"
)

// TaskTypeDocs and TaskTypeCode are the "task-type" label values.
const (
	TaskTypeDocs = "docs"
	TaskTypeCode = "code"
)

// DocsLabels builds the standard label set for a docs run's objects.
func DocsLabels(githubUser, service string, contextVersion int32) map[string]string {
	return naming.Labels{
		AppName:        appName,
		Component:      ComponentDocs,
		TaskType:       TaskTypeDocs,
		GitHubUser:     githubUser,
		ContextVersion: contextVersion,
		Service:        service,
	}.Build()
}

// CodeLabels builds the standard label set for a code run's objects.
func CodeLabels(githubUser, service string, contextVersion int32, taskID int64) map[string]string {
	return naming.Labels{
		AppName:        appName,
		Component:      ComponentCode,
		TaskType:       TaskTypeCode,
		GitHubUser:     githubUser,
		ContextVersion: contextVersion,
		Service:        service,
		TaskID:         &taskID,
	}.Build()
}
