// Package scaffold generates the on-disk layout for a new martforge
// project: configuration, a starter reference file and the raw schema
// DDL expected by the extraction layer.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"martforge/internal/common"
)

// Generator handles project scaffolding
type Generator struct {
	projectDir string
	config     *Config
}

// Config holds scaffolding configuration
type Config struct {
	ProjectName  string
	Author       string
	Database     string
	RawSchema    string
	MartsSchema  string
	Environments []string
}

// NewGenerator creates a new scaffold generator
func NewGenerator(projectDir string, config *Config) *Generator {
	return &Generator{
		projectDir: projectDir,
		config:     config,
	}
}

// Generate creates the full project layout.
func (g *Generator) Generate() error {
	if err := os.MkdirAll(g.projectDir, common.DirPermissionNormal); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	files := []struct {
		path string
		tmpl string
	}{
		{"config.yaml", configTemplate},
		{"reference.yaml", referenceTemplate},
		{".env.example", envTemplate},
		{filepath.Join("sql", "raw_schema.sql"), rawSchemaTemplate},
		{"README.md", readmeTemplate},
	}

	for _, f := range files {
		if err := g.writeTemplate(f.path, f.tmpl); err != nil {
			return err
		}
	}

	return nil
}

func (g *Generator) writeTemplate(relPath, tmpl string) error {
	fullPath := filepath.Join(g.projectDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), common.DirPermissionNormal); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", relPath, err)
	}

	content, err := g.processTemplate(relPath, tmpl)
	if err != nil {
		return err
	}

	if err := os.WriteFile(fullPath, []byte(content), common.FilePermissionSecure); err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return nil
}

func (g *Generator) processTemplate(name, tmpl string) (string, error) {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	vars := map[string]interface{}{
		"ProjectName":  g.config.ProjectName,
		"Author":       g.config.Author,
		"Database":     g.config.Database,
		"RawSchema":    g.config.RawSchema,
		"MartsSchema":  g.config.MartsSchema,
		"Environments": g.config.Environments,
		"Date":         time.Now().Format("2006-01-02"),
	}

	var buf strings.Builder
	if err := t.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
