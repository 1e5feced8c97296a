package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "waypoints.json", false},
		{"nested", "data/waypoints.json", false},
		{"absolute", "/var/lib/waypoints.json", false},

		{"empty", "", true},
		{"null byte", "way\x00points.json", true},
		{"control char", "way\x01points.json", true},
		{"too long", strings.Repeat("a", 5000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "waypoints", false},
		{"prefixed", "waypoints:default", false},
		{"object path", "libraries/waypoints.json", false},

		{"empty", "", true},
		{"leading slash", "/waypoints.json", true},
		{"traversal", "a/../b", true},
		{"newline", "way\npoints", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"postgres", "postgres://localhost/db", []string{"postgres", "postgresql"}, false},
		{"postgresql", "postgresql://localhost/db", []string{"postgres", "postgresql"}, false},
		{"mongo srv", "mongodb+srv://cluster.example.net", []string{"mongodb", "mongodb+srv"}, false},

		{"empty", "", []string{"postgres"}, true},
		{"wrong scheme", "mysql://localhost/db", []string{"postgres"}, true},
		{"no scheme", "localhost:5432", []string{"postgres"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURI(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
