// Copyright Contributors to the KubeTask project

// Package naming derives deterministic, cluster-legal names and label
// values for every object the resource manager materializes.
package naming

import (
	"fmt"
	"strings"
)

// maxNameLength is the Kubernetes object-name ceiling (DNS subdomain
// label rules apply to most of these kinds).
const maxNameLength = 63

// maxLabelValueLength is the Kubernetes label-value ceiling.
const maxLabelValueLength = 63

// dashify lowercases input and folds '_' and '.' to '-'.
func dashify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, ".", "-")
	return s
}

// UID8 returns the first 8 characters of a Kubernetes object UID, the
// deterministic disambiguator folded into every derived name.
func UID8(uid string) string {
	if len(uid) <= 8 {
		return uid
	}
	return uid[:8]
}

// DocsConfigMapName derives the configuration-bundle name for a docs run.
func DocsConfigMapName(ns, requestName, uid8 string, version int32) string {
	return dashify(fmt.Sprintf("docs-%s-%s-%s-v%d-files", ns, requestName, uid8, version))
}

// CodeConfigMapName derives the configuration-bundle name for a code run.
func CodeConfigMapName(ns, requestName, uid8, service string, taskID int64, version int32) string {
	return dashify(fmt.Sprintf("code-%s-%s-%s-%s-t%d-v%d-files", ns, requestName, uid8, service, taskID, version))
}

// DocsJobName derives the batch Job name for a docs run, truncating the
// variable prefix and preserving the deterministic suffix if the full
// name would exceed 63 characters.
func DocsJobName(ns, requestName, uid8 string) string {
	prefix := dashify(fmt.Sprintf("docs-%s-%s", ns, requestName))
	suffix := dashify(fmt.Sprintf("-%s", uid8))
	return truncatePreservingSuffix(prefix, suffix)
}

// CodeJobName derives the batch Job name for a code run, truncating the
// variable prefix and preserving the deterministic suffix if the full
// name would exceed 63 characters.
func CodeJobName(ns, requestName, uid8 string, taskID int64, version int32) string {
	prefix := dashify(fmt.Sprintf("code-%s-%s", ns, requestName))
	suffix := dashify(fmt.Sprintf("-%s-t%d-v%d", uid8, taskID, version))
	return truncatePreservingSuffix(prefix, suffix)
}

// truncatePreservingSuffix joins prefix and suffix, trimming the prefix
// from its end as needed so the joined result fits within
// maxNameLength. The suffix is never trimmed.
func truncatePreservingSuffix(prefix, suffix string) string {
	full := prefix + suffix
	if len(full) <= maxNameLength {
		return full
	}
	keep := maxNameLength - len(suffix)
	if keep < 0 {
		keep = 0
	}
	if keep > len(prefix) {
		keep = len(prefix)
	}
	return prefix[:keep] + suffix
}

// WorkspaceName derives the shared persistent-workspace name for a
// service. Shared across every code run of that service.
func WorkspaceName(service string) string {
	return dashify(fmt.Sprintf("workspace-%s", service))
}

// SanitizeLabelValue normalizes an arbitrary string into a legal
// Kubernetes label value: lowercased, spaces and underscores folded to
// hyphens, disallowed characters dropped, leading/trailing
// non-alphanumerics trimmed, and truncated to 63 characters with a
// second trim pass. Empty input yields an empty string.
func SanitizeLabelValue(input string) string {
	if input == "" {
		return ""
	}

	s := strings.ToLower(input)
	s = strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' {
			return '-'
		}
		return r
	}, s)

	s = strings.Map(func(r rune) rune {
		if isAlphanumeric(r) || r == '-' || r == '_' || r == '.' {
			return r
		}
		return -1
	}, s)

	s = trimNonAlphanumeric(s)

	if len(s) > maxLabelValueLength {
		s = s[:maxLabelValueLength]
		s = trimNonAlphanumeric(s)
	}

	return s
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func trimNonAlphanumeric(s string) string {
	start := 0
	for start < len(s) && !isAlphanumeric(rune(s[start])) {
		start++
	}
	end := len(s)
	for end > start && !isAlphanumeric(rune(s[end-1])) {
		end--
	}
	return s[start:end]
}

// Labels enumerates the standard label set applied to every managed
// object. TaskID is ignored (omitted) for docs runs.
type Labels struct {
	AppName        string
	Component      string
	TaskType       string
	GitHubUser     string
	ContextVersion int32
	Service        string
	TaskID         *int64
}

// Standard label keys.
const (
	LabelApp            = "app"
	LabelComponent      = "component"
	LabelTaskType       = "task-type"
	LabelGitHubUser     = "github-user"
	LabelContextVersion = "context-version"
	LabelService        = "service"
	LabelTaskID         = "task-id"
)

// Build renders the standard label map, sanitizing free-form values.
func (l Labels) Build() map[string]string {
	out := map[string]string{
		LabelApp:            SanitizeLabelValue(l.AppName),
		LabelComponent:      l.Component,
		LabelTaskType:       l.TaskType,
		LabelGitHubUser:     SanitizeLabelValue(l.GitHubUser),
		LabelContextVersion: fmt.Sprintf("%d", l.ContextVersion),
		LabelService:        SanitizeLabelValue(l.Service),
	}
	if l.TaskID != nil {
		out[LabelTaskID] = fmt.Sprintf("%d", *l.TaskID)
	}
	return out
}
