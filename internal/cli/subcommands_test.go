package cli

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/codetree/internal/extract"
	"github.com/temirov/codetree/internal/utils"
)

func TestInitCommandWritesGlobalConfiguration(t *testing.T) {
	result := executeCommand(t, "init", "--global")
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		t.Fatalf("home directory: %v", homeError)
	}
	expectedPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
	if !strings.Contains(readFile(t, expectedPath), "extract:") {
		t.Fatalf("expected configuration template at %s", expectedPath)
	}
	if !strings.Contains(result.stderr, expectedPath) {
		t.Fatalf("expected destination on stderr, got %q", result.stderr)
	}
}

func TestHarvestCommandWritesKnowledgeBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(writer, "<html><body><nav>Menu</nav><p>Page %s</p></body></html>", strings.TrimPrefix(request.URL.Path, "/"))
	}))
	defer server.Close()

	directory := t.TempDir()
	sourcesPath := filepath.Join(directory, "sources.yaml")
	sources := fmt.Sprintf("home: %s/home\nabout: %s/about\n", server.URL, server.URL)
	if err := os.WriteFile(sourcesPath, []byte(sources), 0o600); err != nil {
		t.Fatalf("write sources: %v", err)
	}
	outputPath := filepath.Join(directory, "knowledge.json")

	result := executeCommand(t, "harvest", "--sources", sourcesPath, "--output", outputPath, "--concurrency", "2")
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	expected := "{\n  \"about\": \"Page about\",\n  \"home\": \"Page home\"\n}\n"
	if knowledge := readFile(t, outputPath); knowledge != expected {
		t.Fatalf("unexpected knowledge base:\n%s", knowledge)
	}
	if result.logs.FilterMessage("fetching page").Len() != 2 {
		t.Fatalf("expected one progress entry per page, got %v", result.logs.All())
	}
}

func TestHarvestCommandRejectsInvalidSettings(t *testing.T) {
	sourcesPath := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(sourcesPath, []byte("home: https://example.com\n"), 0o600); err != nil {
		t.Fatalf("write sources: %v", err)
	}
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "missing_sources", arguments: []string{"harvest"}},
		{name: "bad_timeout", arguments: []string{"harvest", "--sources", sourcesPath, "--timeout", "soon"}},
		{name: "zero_concurrency", arguments: []string{"harvest", "--sources", sourcesPath, "--concurrency", "0"}},
		{name: "unreadable_sources", arguments: []string{"harvest", "--sources", sourcesPath + ".missing"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := executeCommand(t, testCase.arguments...)
			var configError *extract.ConfigError
			if !errors.As(result.err, &configError) {
				t.Fatalf("expected ConfigError, got %v", result.err)
			}
		})
	}
}
