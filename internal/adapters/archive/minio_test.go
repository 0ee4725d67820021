package archive

import (
	"strings"
	"testing"
)

func TestNewArchive_Validation(t *testing.T) {
	base := Config{
		Endpoint:  "storage.example.net:9000",
		AccessKey: "curator",
		SecretKey: "hunter2",
		Bucket:    "curator-reports",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "missing endpoint",
			mutate:  func(c *Config) { c.Endpoint = " " },
			wantErr: "endpoint is required",
		},
		{
			name:    "missing access key",
			mutate:  func(c *Config) { c.AccessKey = "" },
			wantErr: "access key and secret key are required",
		},
		{
			name:    "missing secret key",
			mutate:  func(c *Config) { c.SecretKey = "" },
			wantErr: "access key and secret key are required",
		},
		{
			name:    "missing bucket",
			mutate:  func(c *Config) { c.Bucket = "" },
			wantErr: "bucket is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			_, err := NewArchive(cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestNewArchive_Defaults(t *testing.T) {
	a, err := NewArchive(Config{
		Endpoint:  "storage.example.net:9000",
		AccessKey: "curator",
		SecretKey: "hunter2",
		Bucket:    "curator-reports",
		Prefix:    "/runs/",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.region != "us-east-1" {
		t.Errorf("expected default region, got %q", a.region)
	}
	if a.prefix != "runs" {
		t.Errorf("expected prefix slashes trimmed, got %q", a.prefix)
	}
}

func TestObjectKey(t *testing.T) {
	if got := objectKey("", "snapshot.json"); got != "snapshot.json" {
		t.Errorf("expected bare name without prefix, got %q", got)
	}
	if got := objectKey("runs", "PLAN-003/report.json"); got != "runs/PLAN-003/report.json" {
		t.Errorf("expected prefixed key, got %q", got)
	}
}
