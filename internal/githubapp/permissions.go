package githubapp

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-github/v80/github"

	"github.com/tokengate/tokengate/internal/core"
)

// toInstallationPermissions converts a permission map to the API's
// installation permission struct. We use JSON to translate between the
// map and the typed struct; this is a bit hacky, but works for now :)
func toInstallationPermissions(permissions core.PermissionMap) (*github.InstallationPermissions, error) {
	jsonBytes, err := json.Marshal(permissions)
	if err != nil {
		return nil, fmt.Errorf("marshaling permissions: %w", err)
	}
	var ghPerms github.InstallationPermissions
	if err := json.Unmarshal(jsonBytes, &ghPerms); err != nil {
		return nil, fmt.Errorf("unmarshaling permissions to github installation permissions: %w", err)
	}
	return &ghPerms, nil
}

// fromInstallationPermissions converts the API's installation permission
// struct back into a permission map, dropping unset scopes.
func fromInstallationPermissions(ghPerms *github.InstallationPermissions) (core.PermissionMap, error) {
	if ghPerms == nil {
		return core.PermissionMap{}, nil
	}
	jsonBytes, err := json.Marshal(ghPerms)
	if err != nil {
		return nil, fmt.Errorf("marshaling github installation permissions: %w", err)
	}
	var permissions core.PermissionMap
	if err := json.Unmarshal(jsonBytes, &permissions); err != nil {
		return nil, fmt.Errorf("unmarshaling github installation permissions: %w", err)
	}
	return permissions, nil
}
