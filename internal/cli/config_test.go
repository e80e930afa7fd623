package cli

import (
	"os"
	"strings"
	"testing"
)

func TestConfigInit_WritesCompleteFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := configInitCmd.RunE(configInitCmd, nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	home, _ := os.UserHomeDir()
	data, err := os.ReadFile(home + "/.tradecheck/config.yaml")
	if err != nil {
		t.Fatalf("Expected config file, got %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "# tradecheck configuration file") {
		t.Error("Expected file to start with the header comment")
	}
	for _, want := range []string{"api:", "poll:", "history:", "OPENAI_API_KEY"} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected config file to contain %q", want)
		}
	}
	if strings.Index(content, "api:") < strings.Index(content, "# tradecheck") {
		t.Error("Expected the header comment before the yaml body")
	}
}

func TestConfigInit_RefusesExistingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := configInitCmd.RunE(configInitCmd, nil); err != nil {
		t.Fatalf("Expected no error on first init, got %v", err)
	}
	err := configInitCmd.RunE(configInitCmd, nil)
	if err == nil {
		t.Fatal("Expected an error when the config file already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Unexpected error: %v", err)
	}
}
