package api

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAccessTokenPayloadValidate(t *testing.T) {
	tests := []struct {
		name       string
		payload    AccessTokenPayload
		wantIssues int
	}{
		{
			name: "Valid",
			payload: AccessTokenPayload{
				Repository:  "octo-org/octo-repo",
				Permissions: map[string]string{"contents": "read"},
			},
		},
		{
			name: "Valid Without Repository",
			payload: AccessTokenPayload{
				Permissions: map[string]string{"contents": "write"},
			},
		},
		{
			name: "Invalid Repository Format",
			payload: AccessTokenPayload{
				Repository:  "not-a-repo",
				Permissions: map[string]string{"contents": "read"},
			},
			wantIssues: 1,
		},
		{
			name: "Empty Permissions",
			payload: AccessTokenPayload{
				Repository: "octo-org/octo-repo",
			},
			wantIssues: 1,
		},
		{
			name: "Invalid Permission Level",
			payload: AccessTokenPayload{
				Repository:  "octo-org/octo-repo",
				Permissions: map[string]string{"contents": "root"},
			},
			wantIssues: 1,
		},
		{
			name: "Multiple Issues Collected",
			payload: AccessTokenPayload{
				Repository:  "/",
				Permissions: map[string]string{"contents": "root", "issues": "sudo"},
			},
			wantIssues: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := tt.payload.validate()
			if len(issues) != tt.wantIssues {
				t.Errorf("validate() = %v, want %d issues", issues, tt.wantIssues)
			}
		})
	}
}

func TestDecodePayloadStrict(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "Valid",
			body: `{"repository": "octo-org/octo-repo", "permissions": {"contents": "read"}}`,
		},
		{
			name:    "Unknown Field",
			body:    `{"permissions": {"contents": "read"}, "reposittory": "typo/field"}`,
			wantErr: true,
		},
		{
			name:    "Trailing Data",
			body:    `{"permissions": {"contents": "read"}} {"again": true}`,
			wantErr: true,
		},
		{
			name:    "Not JSON",
			body:    `repository=octo-org/octo-repo`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", AccessTokensRoute, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			var payload AccessTokenPayload
			err := DecodePayload(req, &payload)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodePayload() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodePayloadRejectsUnsupportedContentType(t *testing.T) {
	req := httptest.NewRequest("POST", AccessTokensRoute, strings.NewReader("<xml/>"))
	req.Header.Set("Content-Type", "application/xml")

	var payload AccessTokenPayload
	if err := DecodePayload(req, &payload); err == nil {
		t.Error("DecodePayload() accepted unsupported content type")
	}
}
