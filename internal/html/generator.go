package html

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mabhi256/ldiag/internal/chain"
)

// Embed template files at compile time
//
//go:embed templates/template.html
var htmlTemplate string

//go:embed templates/styles.css
var cssContent string

//go:embed templates/app.js
var jsContent string

// GenerateReport writes a self-contained HTML leak report (CSS and JS
// inlined, report data embedded as JSON) and returns the absolute path.
func GenerateReport(report *chain.JSONReport, outputPath string) (string, error) {
	if report == nil {
		return "", fmt.Errorf("invalid report data: report cannot be nil")
	}
	if len(report.Chains) == 0 {
		return "", fmt.Errorf("invalid report data: no chains analyzed")
	}

	jsonData, err := report.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal report data: %v", err)
	}

	content := htmlTemplate
	content = strings.ReplaceAll(content, "{{CSS_CONTENT}}", cssContent)
	content = strings.ReplaceAll(content, "{{JS_CONTENT}}", jsContent)
	content = strings.ReplaceAll(content, "{{JSON_DATA}}", string(jsonData))

	absPath, err := GetOutputPath(outputPath)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write HTML file: %v", err)
	}

	return absPath, nil
}

// GetOutputPath returns a safe output path, creating directories if needed
func GetOutputPath(path string) (string, error) {
	outputPath := path
	if outputPath == "" {
		outputPath = GetDefaultOutputPath()
	}

	// Ensure .html extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath += ".html"
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %v", outputPath, err)
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	return absPath, nil
}

// GetDefaultOutputPath returns a default HTML output path
func GetDefaultOutputPath() string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("leak-report-%s.html", timestamp)
}
