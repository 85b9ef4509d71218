package runinfo

import "testing"

var knownEnv = []string{
	"CI", "GIT_COMMIT", "BRANCH_NAME", "GIT_BRANCH", "BUILD_URL",
	"GITLAB_CI", "CI_PROJECT_PATH", "CI_COMMIT_REF_NAME", "CI_COMMIT_SHA", "CI_PIPELINE_ID", "CI_JOB_URL",
	"GITHUB_ACTIONS", "GITHUB_REPOSITORY", "GITHUB_HEAD_REF", "GITHUB_REF_NAME", "GITHUB_SHA",
	"GITHUB_RUN_ID", "GITHUB_REF", "GITHUB_SERVER_URL",
	"JSONORACLE_CI", "JSONORACLE_CI_PROVIDER", "JSONORACLE_CI_REPOSITORY", "JSONORACLE_CI_BRANCH",
	"JSONORACLE_CI_COMMIT", "JSONORACLE_CI_RUN_ID", "JSONORACLE_CI_PULL_REQUEST", "JSONORACLE_CI_BUILD_URL",
}

func clearKnownEnv(t *testing.T) {
	t.Helper()
	for _, key := range knownEnv {
		t.Setenv(key, "")
	}
}

func TestFromEnvGitHubActions(t *testing.T) {
	clearKnownEnv(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_REPOSITORY", "acme/jsonoracle")
	t.Setenv("GITHUB_HEAD_REF", "fuzz-corpus")
	t.Setenv("GITHUB_REF", "refs/pull/17/merge")
	t.Setenv("GITHUB_SHA", "deadbeef")
	t.Setenv("GITHUB_RUN_ID", "9001")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected run info")
	}
	if !info.CI || info.Provider != "github_actions" {
		t.Fatalf("unexpected provider: %+v", *info)
	}
	if info.PullRequest != "17" {
		t.Fatalf("pull_request=%q", info.PullRequest)
	}
	if info.BuildURL != "https://github.com/acme/jsonoracle/actions/runs/9001" {
		t.Fatalf("build_url=%q", info.BuildURL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearKnownEnv(t)
	t.Setenv("JSONORACLE_CI_PROVIDER", "Manual")
	t.Setenv("JSONORACLE_CI_BRANCH", "refs/heads/nightly")
	t.Setenv("JSONORACLE_CI_COMMIT", "abc123")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected run info")
	}
	if !info.CI {
		t.Fatalf("expected ci=true when overrides are set")
	}
	if info.Provider != "manual" || info.Branch != "nightly" || info.Commit != "abc123" {
		t.Fatalf("unexpected info: %+v", *info)
	}
}

func TestFromEnvOverrideCIOff(t *testing.T) {
	clearKnownEnv(t)
	t.Setenv("JSONORACLE_CI", "false")
	t.Setenv("JSONORACLE_CI_COMMIT", "abc123")

	info := FromEnv()
	if info == nil || info.CI {
		t.Fatalf("expected metadata without ci flag, got %+v", info)
	}
}

func TestFromEnvEmpty(t *testing.T) {
	clearKnownEnv(t)
	if info := FromEnv(); info != nil {
		t.Fatalf("expected nil run info, got %+v", *info)
	}
}
