package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Job describes one reconciliation run: the purchase-order workbooks to
// combine, the sales-tax workbook to match them against, and where the
// derived reports go.
type Job struct {
	PurchaseFiles []string `yaml:"purchase_files"`
	SalesFile     string   `yaml:"sales_file"`
	OutputDir     string   `yaml:"output_dir"`
}

// LoadJob reads a job definition from a YAML file.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file %s: %w", path, err)
	}

	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}

	if len(job.PurchaseFiles) == 0 {
		return nil, fmt.Errorf("job %s lists no purchase_files", path)
	}
	if job.SalesFile == "" {
		return nil, fmt.Errorf("job %s is missing sales_file", path)
	}
	return &job, nil
}

// Inputs returns the purchase and sales paths with ~ expanded.
func (j *Job) Inputs() ([]string, string, error) {
	purchases := make([]string, 0, len(j.PurchaseFiles))
	for _, p := range j.PurchaseFiles {
		expanded, err := expandHome(p)
		if err != nil {
			return nil, "", err
		}
		purchases = append(purchases, expanded)
	}
	sales, err := expandHome(j.SalesFile)
	if err != nil {
		return nil, "", err
	}
	return purchases, sales, nil
}

func expandHome(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
