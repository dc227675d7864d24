package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReturnNonDefault(t *testing.T) {
	tests := []struct {
		name       string
		a          interface{}
		b          interface{}
		defaultVal interface{}
		want       interface{}
		wantErr    bool
	}{
		{
			name:       "Both defaults",
			a:          "default",
			b:          "default",
			defaultVal: "default",
			want:       "default",
			wantErr:    false,
		},
		{
			name:       "A non-default",
			a:          "non-default",
			b:          "default",
			defaultVal: "default",
			want:       "non-default",
			wantErr:    false,
		},
		{
			name:       "B non-default",
			a:          "default",
			b:          "non-default",
			defaultVal: "default",
			want:       "non-default",
			wantErr:    false,
		},
		{
			name:       "Both non-default",
			a:          "non-default-a",
			b:          "non-default-b",
			defaultVal: "default",
			want:       "default",
			wantErr:    true,
		},
		{
			name:       "Both non-default same value",
			a:          "non-default",
			b:          "non-default",
			defaultVal: "default",
			want:       "default",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReturnNonDefault(tt.a, tt.b, tt.defaultVal)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReturnNonDefault() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ReturnNonDefault() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateConfigDir(t *testing.T) {
	configDirPath := filepath.Join(t.TempDir(), "toolagent")

	err := CreateConfigDir(configDirPath)
	if err != nil {
		t.Errorf("Unexpected error creating config directory: %v", err)
	}
	if _, err := os.Stat(configDirPath); os.IsNotExist(err) {
		t.Error("Expected config directory to exist")
	}

	err = CreateConfigDir(configDirPath)
	if err != nil {
		t.Errorf("Unexpected error creating existing config directory: %v", err)
	}
}

func TestCreateDefaultConfigFile(t *testing.T) {
	configDirPath := t.TempDir()
	configFileName := "config.yaml"

	dflt := &struct {
		Name string `yaml:"name"`
	}{Name: "John"}
	err := createDefaultConfigFile(configDirPath, configFileName, dflt)
	if err != nil {
		t.Errorf("Unexpected error creating default config file: %v", err)
	}
	configFilePath := filepath.Join(configDirPath, configFileName)
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		t.Error("Expected default config file to exist")
	}

	err = createDefaultConfigFile(configDirPath, configFileName, dflt)
	if err != nil {
		t.Errorf("Unexpected error creating existing default config file: %v", err)
	}
}

type testPrompts struct {
	Format string `yaml:"format"`
	Mail   string `yaml:"mail"`
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Run("it should create the default when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "cfg")
		dflt := testPrompts{Format: "f", Mail: "m"}
		got, err := LoadConfigFromFile(dir, "prompts.yaml", &dflt)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if got != dflt {
			t.Fatalf("expected %+v, got %+v", dflt, got)
		}
	})

	t.Run("it should keep user values and append new fields", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "prompts.yaml")
		if err := os.WriteFile(path, []byte("format: custom\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		dflt := testPrompts{Format: "f", Mail: "m"}
		got, err := LoadConfigFromFile(dir, "prompts.yaml", &dflt)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		want := testPrompts{Format: "custom", Mail: "m"}
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
		var onDisk testPrompts
		if err := ReadAndUnmarshal(path, &onDisk); err != nil {
			t.Fatalf("failed to read back: %v", err)
		}
		if onDisk != want {
			t.Fatalf("expected appended fields to be persisted, got %+v", onDisk)
		}
	})

	t.Run("it should fail on malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "prompts.yaml"), []byte("format: [unclosed"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadConfigFromFile(dir, "prompts.yaml", &testPrompts{})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestExpandUserPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	got, err := ExpandUserPath("~/x/.env")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "/home/tester/x/.env" {
		t.Errorf("unexpected path: %v", got)
	}
	got, _ = ExpandUserPath("~other/x")
	if got != "~other/x" {
		t.Errorf("expected ~user paths to be left alone, got %v", got)
	}
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv("TOOLAGENT_CONFIG_HOME", "/tmp/toolagent-test")
	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != "/tmp/toolagent-test" {
		t.Errorf("unexpected dir: %v", got)
	}
}
