package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Level
		want int
	}{
		{name: "Equal Read", a: LevelRead, b: LevelRead, want: 0},
		{name: "Equal Write", a: LevelWrite, b: LevelWrite, want: 0},
		{name: "Equal Admin", a: LevelAdmin, b: LevelAdmin, want: 0},
		{name: "Admin Over Read", a: LevelAdmin, b: LevelRead, want: 1},
		{name: "Read Under Admin", a: LevelRead, b: LevelAdmin, want: -1},
		{name: "Write Over Read", a: LevelWrite, b: LevelRead, want: 1},
		{name: "Absent Under Read", a: "", b: LevelRead, want: -1},
		{name: "Read Over Absent", a: LevelRead, b: "", want: 1},
		{name: "Both Absent", a: "", b: "", want: 0},
		{name: "Unknown Treated As Absent", a: "bogus", b: LevelRead, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsGranted(t *testing.T) {
	tests := []struct {
		name               string
		requested, granted Level
		want               bool
	}{
		{name: "Exact Match", requested: LevelRead, granted: LevelRead, want: true},
		{name: "Below Grant", requested: LevelRead, granted: LevelAdmin, want: true},
		{name: "Above Grant", requested: LevelWrite, granted: LevelRead, want: false},
		{name: "Nothing Granted", requested: LevelRead, granted: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGranted(tt.requested, tt.granted); got != tt.want {
				t.Errorf("IsGranted(%q, %q) = %v, want %v", tt.requested, tt.granted, got, tt.want)
			}
		})
	}
}

func TestDenyList(t *testing.T) {
	tests := []struct {
		name               string
		requested, granted PermissionMap
		want               PermissionMap
	}{
		{
			name:      "Fully Granted",
			requested: PermissionMap{"contents": LevelWrite},
			granted:   PermissionMap{"contents": LevelAdmin},
			want:      nil,
		},
		{
			name:      "Level Exceeded",
			requested: PermissionMap{"contents": LevelWrite},
			granted:   PermissionMap{"contents": LevelRead},
			want:      PermissionMap{"contents": LevelWrite},
		},
		{
			name:      "Missing Scope Denied",
			requested: PermissionMap{"contents": LevelWrite, "issues": LevelRead},
			granted:   PermissionMap{"contents": LevelAdmin},
			want:      PermissionMap{"issues": LevelRead},
		},
		{
			name:      "Extra Granted Scopes Ignored",
			requested: PermissionMap{"contents": LevelRead},
			granted:   PermissionMap{"contents": LevelRead, "issues": LevelAdmin},
			want:      nil,
		},
		{
			name:      "Empty Request Fully Granted",
			requested: PermissionMap{},
			granted:   PermissionMap{},
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DenyList(tt.requested, tt.granted)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DenyList() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		maps []PermissionMap
		want PermissionMap
	}{
		{
			name: "Max Wins",
			maps: []PermissionMap{{"contents": LevelRead}, {"contents": LevelWrite}},
			want: PermissionMap{"contents": LevelWrite},
		},
		{
			name: "Union Of Scopes",
			maps: []PermissionMap{{"contents": LevelRead}, {"issues": LevelWrite}},
			want: PermissionMap{"contents": LevelRead, "issues": LevelWrite},
		},
		{
			name: "Order Independent",
			maps: []PermissionMap{{"contents": LevelAdmin}, {"contents": LevelRead}},
			want: PermissionMap{"contents": LevelAdmin},
		},
		{
			name: "Empty Input",
			maps: nil,
			want: PermissionMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.maps)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Repository
		wantErr bool
	}{
		{name: "Valid", in: "octo-org/octo-repo", want: Repository{Owner: "octo-org", Name: "octo-repo"}},
		{name: "Missing Name", in: "octo-org/", wantErr: true},
		{name: "No Separator", in: "octo-org", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRepository(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRepository(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseRepository(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSubjectRef(t *testing.T) {
	got, err := ParseSubjectRef("repo:octo-org/octo-repo:ref:refs/heads/main")
	if err != nil {
		t.Fatalf("ParseSubjectRef() error = %v", err)
	}
	want := SubjectRef{Repository: "octo-org/octo-repo", RefType: "ref", RefValue: "refs/heads/main"}
	if got != want {
		t.Errorf("ParseSubjectRef() = %v, want %v", got, want)
	}

	if _, err := ParseSubjectRef("environment:prod"); err == nil {
		t.Error("ParseSubjectRef() expected error for abbreviated subject")
	}
}
