package schema

import (
	"strings"
	"testing"
)

func TestValidateWorkflow(t *testing.T) {
	tests := []struct {
		name        string
		doc         map[string]any
		wantErr     bool
		errContains string
	}{
		{
			name: "minimal valid workflow",
			doc: map[string]any{
				"on": "push",
				"jobs": map[string]any{
					"build": map[string]any{
						"runs-on": "ubuntu-latest",
						"steps": []any{
							map[string]any{"uses": "actions/checkout@v4"},
						},
					},
				},
			},
		},
		{
			name: "missing jobs",
			doc: map[string]any{
				"on": "push",
			},
			wantErr:     true,
			errContains: "jobs",
		},
		{
			name: "unknown job key",
			doc: map[string]any{
				"on": "push",
				"jobs": map[string]any{
					"build": map[string]any{
						"runs-on":    "ubuntu-latest",
						"not-a-slot": true,
					},
				},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Workflow, tt.doc)
			if tt.wantErr && err == nil {
				t.Fatalf("expected an error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.errContains != "" && (err == nil || !strings.Contains(err.Error(), tt.errContains)) {
				t.Fatalf("error %v does not contain %q", err, tt.errContains)
			}
		})
	}
}

func TestValidateDependabot(t *testing.T) {
	doc := map[string]any{
		"version": float64(2),
		"updates": []any{
			map[string]any{
				"package-ecosystem": "github-actions",
				"directory":         "/",
				"schedule": map[string]any{
					"interval": "weekly",
				},
			},
		},
	}
	if err := Validate(Dependabot, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := map[string]any{"version": float64(2)}
	if err := Validate(Dependabot, bad); err == nil {
		t.Fatalf("expected an error for missing updates")
	}
}

func TestValidateAction(t *testing.T) {
	doc := map[string]any{
		"name": "my-composite-action",
		"runs": map[string]any{
			"using": "composite",
			"steps": []any{
				map[string]any{"run": "echo hi", "shell": "bash"},
			},
		},
	}
	if err := Validate(Action, doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidationErrorHasDottedPath(t *testing.T) {
	err := Validate(Workflow, map[string]any{"on": "push"})
	if err == nil {
		t.Fatalf("expected an error")
	}
	ve, ok := err.(*ViolationError)
	if !ok {
		t.Fatalf("expected *ViolationError, got %T", err)
	}
	if ve.Path == "" {
		t.Fatalf("expected a non-empty dotted path")
	}
}
