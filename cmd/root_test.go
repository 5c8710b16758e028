package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInitConfig_FileNotFound(t *testing.T) {
	origHome := os.Getenv("HOME")
	defer os.Setenv("HOME", origHome)

	// Set HOME to a temp dir with no config
	tmpDir := t.TempDir()
	os.Setenv("HOME", tmpDir)

	viper.Reset()
	cfgFile = ""

	// A missing config file is fine; initConfig must not panic or error out
	initConfig()
}

func TestInitConfig_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `connections:
  default:
    host: testhost
    port: 3307
    user: testuser
    database: testdb
defaults:
  format: json
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	viper.Reset()
	cfgFile = configPath

	initConfig()

	if viper.GetString("connections.default.host") != "testhost" {
		t.Errorf("expected nested config to be loaded, got: %s", viper.GetString("connections.default.host"))
	}

	// initConfig maps connections.default.* to the flat keys flags expect
	// when the flag was not set explicitly.
	if viper.GetString("host") != "testhost" {
		t.Errorf("host = %s, want testhost", viper.GetString("host"))
	}
	if viper.GetInt("port") != 3307 {
		t.Errorf("port = %d, want 3307", viper.GetInt("port"))
	}
	if viper.GetString("format") != "json" {
		t.Errorf("format = %s, want json", viper.GetString("format"))
	}
}

func TestInitConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `connections:
  default:
    host: testhost
	invalid indentation
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	viper.Reset()
	cfgFile = configPath

	// initConfig should handle this gracefully without panicking
	initConfig()

	if viper.GetString("connections.default.host") == "testhost" {
		t.Error("invalid YAML should not have been parsed successfully")
	}
}

func TestRootCommand_Structure(t *testing.T) {
	if rootCmd.Use != "idxlint" {
		t.Errorf("rootCmd.Use = %q, want 'idxlint'", rootCmd.Use)
	}
	for _, flag := range []string{"host", "port", "user", "password", "database", "socket", "tls", "tls-ca", "format", "verbose", "quiet"} {
		if rootCmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag %q", flag)
		}
	}
	if rootCmd.PersistentFlags().Lookup("password").NoOptDefVal != "" {
		t.Error("password flag should allow -p without a value")
	}
}
