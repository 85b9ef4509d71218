// Package runinfo describes the environment a run executes in so that case
// reports can be traced back to the CI job that produced them.
package runinfo

import (
	"os"
	"regexp"
	"strings"
)

var pullRefPattern = regexp.MustCompile(`^refs/pull/([0-9]+)/`)

// BasicInfo captures CI metadata attached to summaries and case reports.
type BasicInfo struct {
	CI          bool   `json:"ci,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Repository  string `json:"repository,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Commit      string `json:"commit,omitempty"`
	RunID       string `json:"run_id,omitempty"`
	PullRequest string `json:"pull_request,omitempty"`
	BuildURL    string `json:"build_url,omitempty"`
}

// overridePrefix names the variables that win over anything detected.
const overridePrefix = "JSONORACLE_CI_"

// FromEnv builds run metadata from environment variables, or returns nil
// outside CI when nothing is set.
func FromEnv() *BasicInfo {
	info := detect()
	explicit := applyOverrides(&info)
	info.Provider = strings.ToLower(info.Provider)
	info.Branch = strings.TrimPrefix(strings.TrimPrefix(info.Branch, "refs/heads/"), "origin/")
	if explicit && !ciExplicitlyOff() {
		info.CI = true
	}
	if info.CI && info.Provider == "" {
		info.Provider = "generic"
	}
	if info == (BasicInfo{}) {
		return nil
	}
	return &info
}

func detect() BasicInfo {
	var info BasicInfo
	if truthy(env("GITHUB_ACTIONS")) {
		info.CI = true
		info.Provider = "github_actions"
		info.Repository = env("GITHUB_REPOSITORY")
		info.Branch = firstEnv("GITHUB_HEAD_REF", "GITHUB_REF_NAME")
		info.Commit = env("GITHUB_SHA")
		info.RunID = env("GITHUB_RUN_ID")
		if m := pullRefPattern.FindStringSubmatch(env("GITHUB_REF")); len(m) > 1 {
			info.PullRequest = m[1]
		}
		if info.Repository != "" && info.RunID != "" {
			server := env("GITHUB_SERVER_URL")
			if server == "" {
				server = "https://github.com"
			}
			info.BuildURL = strings.TrimRight(server, "/") + "/" + info.Repository + "/actions/runs/" + info.RunID
		}
		return info
	}
	if truthy(env("GITLAB_CI")) {
		info.CI = true
		info.Provider = "gitlab_ci"
		info.Repository = env("CI_PROJECT_PATH")
		info.Branch = env("CI_COMMIT_REF_NAME")
		info.Commit = env("CI_COMMIT_SHA")
		info.RunID = env("CI_PIPELINE_ID")
		info.BuildURL = env("CI_JOB_URL")
		return info
	}
	if truthy(env("CI")) {
		info.CI = true
		info.Commit = firstEnv("GIT_COMMIT")
		info.Branch = firstEnv("BRANCH_NAME", "GIT_BRANCH")
		info.BuildURL = env("BUILD_URL")
	}
	return info
}

func applyOverrides(info *BasicInfo) bool {
	fields := []struct {
		key string
		dst *string
	}{
		{"PROVIDER", &info.Provider},
		{"REPOSITORY", &info.Repository},
		{"BRANCH", &info.Branch},
		{"COMMIT", &info.Commit},
		{"RUN_ID", &info.RunID},
		{"PULL_REQUEST", &info.PullRequest},
		{"BUILD_URL", &info.BuildURL},
	}
	explicit := false
	for _, f := range fields {
		if v := env(overridePrefix + f.key); v != "" {
			*f.dst = v
			explicit = true
		}
	}
	if v := env(strings.TrimSuffix(overridePrefix, "_")); v != "" {
		info.CI = truthy(v)
	}
	return explicit
}

func ciExplicitlyOff() bool {
	v := env(strings.TrimSuffix(overridePrefix, "_"))
	return v != "" && !truthy(v)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := env(key); v != "" {
			return v
		}
	}
	return ""
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
