package githubapp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-github/v80/github"

	"github.com/tokengate/tokengate/internal/core"
)

func TestToInstallationPermissions(t *testing.T) {
	ghPerms, err := toInstallationPermissions(core.PermissionMap{
		"contents": core.LevelRead,
		"issues":   core.LevelWrite,
	})
	if err != nil {
		t.Fatalf("toInstallationPermissions() error = %v", err)
	}
	if got := ghPerms.GetContents(); got != "read" {
		t.Errorf("Contents = %q, want 'read'", got)
	}
	if got := ghPerms.GetIssues(); got != "write" {
		t.Errorf("Issues = %q, want 'write'", got)
	}
	if ghPerms.Metadata != nil {
		t.Error("unset scope should remain nil")
	}
}

func TestFromInstallationPermissions(t *testing.T) {
	got, err := fromInstallationPermissions(&github.InstallationPermissions{
		Contents: github.Ptr("write"),
		Metadata: github.Ptr("read"),
	})
	if err != nil {
		t.Fatalf("fromInstallationPermissions() error = %v", err)
	}
	want := core.PermissionMap{
		"contents": core.LevelWrite,
		"metadata": core.LevelRead,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fromInstallationPermissions() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromInstallationPermissionsNil(t *testing.T) {
	got, err := fromInstallationPermissions(nil)
	if err != nil {
		t.Fatalf("fromInstallationPermissions(nil) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("fromInstallationPermissions(nil) = %v, want empty map", got)
	}
}

func TestPermissionsRoundTrip(t *testing.T) {
	original := core.PermissionMap{
		"contents":       core.LevelRead,
		"pull_requests":  core.LevelWrite,
		"administration": core.LevelAdmin,
	}
	ghPerms, err := toInstallationPermissions(original)
	if err != nil {
		t.Fatalf("toInstallationPermissions() error = %v", err)
	}
	back, err := fromInstallationPermissions(ghPerms)
	if err != nil {
		t.Fatalf("fromInstallationPermissions() error = %v", err)
	}
	if diff := cmp.Diff(original, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
