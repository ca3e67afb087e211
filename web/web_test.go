package web

import (
	"html/template"
	"io/fs"
	"testing"
)

func TestEmbeddedTemplatesExist(t *testing.T) {
	templatesFS := GetTemplatesFS()

	requiredFiles := []string{
		"display.html",
		"host/login.html",
		"host/layout.html",
		"host/console.html",
	}

	for _, file := range requiredFiles {
		_, err := fs.Stat(templatesFS, file)
		if err != nil {
			t.Errorf("required template %q not found: %v", file, err)
		}
	}
}

func TestEmbeddedStaticFilesExist(t *testing.T) {
	staticFS := GetStaticFS()

	requiredFiles := []string{
		"css/display.css",
		"css/host.css",
		"js/display.js",
		"js/host.js",
	}

	for _, file := range requiredFiles {
		_, err := fs.Stat(staticFS, file)
		if err != nil {
			t.Errorf("required static file %q not found: %v", file, err)
		}
	}
}

func TestTemplatesParse(t *testing.T) {
	templatesFS := GetTemplatesFS()

	if _, err := template.ParseFS(templatesFS, "display.html"); err != nil {
		t.Errorf("display.html: %v", err)
	}
	if _, err := template.ParseFS(templatesFS, "host/login.html"); err != nil {
		t.Errorf("host/login.html: %v", err)
	}

	host, err := template.ParseFS(templatesFS, "host/layout.html", "host/console.html")
	if err != nil {
		t.Fatalf("host templates: %v", err)
	}
	if host.Lookup("host") == nil || host.Lookup("content") == nil {
		t.Error("expected the host layout to define host and content")
	}
}

func TestStaticFilesReadable(t *testing.T) {
	staticFS := GetStaticFS()

	// Verify we can actually read content
	content, err := fs.ReadFile(staticFS, "js/display.js")
	if err != nil {
		t.Fatalf("failed to read js/display.js: %v", err)
	}
	if len(content) == 0 {
		t.Error("js/display.js is empty")
	}
}
