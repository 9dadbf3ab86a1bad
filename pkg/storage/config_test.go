package storage_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jrycodes/typotrace/pkg/storage"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderLocal {
		t.Errorf("provider: got %s, want local", cfg.Provider)
	}
	if cfg.Root != ".data" {
		t.Errorf("root: got %s, want .data", cfg.Root)
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "s3")
	t.Setenv("TEST_BUCKET", "results")
	t.Setenv("TEST_PATH_STYLE", "true")

	env := &storage.Env{
		Provider:     "TEST_PROVIDER",
		Bucket:       "TEST_BUCKET",
		UsePathStyle: "TEST_PATH_STYLE",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Provider != storage.ProviderS3 {
		t.Errorf("provider: got %s, want s3", cfg.Provider)
	}
	if cfg.Bucket != "results" {
		t.Errorf("bucket: got %s, want results", cfg.Bucket)
	}
	if !cfg.UsePathStyle {
		t.Error("use_path_style: got false, want true")
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{
			name:    "azure missing connection_string",
			cfg:     storage.Config{Provider: "azure"},
			wantErr: "connection_string required",
		},
		{
			name: "azure complete",
			cfg:  storage.Config{Provider: "azure", ConnectionString: "conn"},
		},
		{
			name:    "s3 missing bucket",
			cfg:     storage.Config{Provider: "s3"},
			wantErr: "bucket required",
		},
		{
			name:    "unknown provider",
			cfg:     storage.Config{Provider: "ftp"},
			wantErr: "unknown storage provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestUnknownProviderSentinel(t *testing.T) {
	cfg := storage.Config{Provider: "ftp"}
	if err := cfg.Finalize(nil); !errors.Is(err, storage.ErrUnknownProvider) {
		t.Errorf("got %v, want ErrUnknownProvider", err)
	}
}

func TestMerge(t *testing.T) {
	base := storage.Config{Provider: "local", Root: ".data", Bucket: "a"}
	base.Merge(&storage.Config{Provider: "s3", Region: "eu-west-1"})

	if base.Provider != "s3" {
		t.Errorf("provider: got %s, want s3", base.Provider)
	}
	if base.Root != ".data" {
		t.Errorf("root: got %s, want .data", base.Root)
	}
	if base.Bucket != "a" {
		t.Errorf("bucket: got %s, want a", base.Bucket)
	}
	if base.Region != "eu-west-1" {
		t.Errorf("region: got %s, want eu-west-1", base.Region)
	}
}
