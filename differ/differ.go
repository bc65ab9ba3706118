package differ

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cznethub/bblocktools/resolver"
	"github.com/cznethub/bblocktools/schema"
)

// Status classifies the outcome of comparing one building block.
type Status int

const (
	// StatusOK means both representations agree.
	StatusOK Status = iota
	// StatusDiff means the representations have drifted apart.
	StatusDiff
	// StatusError means a representation could not be parsed.
	StatusError
	// StatusSkip means the block has nothing to compare.
	StatusSkip
)

// String returns the report label for the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusDiff:
		return "DIFF"
	case StatusError:
		return "ERROR"
	case StatusSkip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// BlockResult is the comparison outcome for one building block.
type BlockResult struct {
	// Name is the block's path relative to the sources directory.
	Name string
	// Status classifies the outcome.
	Status Status
	// Findings describe each difference, one line per finding.
	Findings []string
}

// Differ compares every building block's schema.yaml against its companion
// JSON schema.
type Differ struct {
	// SourcesDir is the building-block source tree.
	SourcesDir string
	// Logger receives comparison diagnostics. Defaults to NopLogger.
	Logger resolver.Logger
}

// New creates a Differ over the given sources directory.
func New(sourcesDir string) *Differ {
	return &Differ{
		SourcesDir: sourcesDir,
		Logger:     resolver.NopLogger{},
	}
}

// Compare discovers all building blocks and compares each one's two
// representations. Sources are never modified.
func (d *Differ) Compare() (*Report, error) {
	logger := d.Logger
	if logger == nil {
		logger = resolver.NopLogger{}
	}

	blocks, err := discoverBlocks(d.SourcesDir)
	if err != nil {
		return nil, err
	}

	report := &Report{SourcesDir: d.SourcesDir}
	for _, block := range blocks {
		report.Total++
		result := d.compareBlock(block)
		switch result.Status {
		case StatusOK:
			report.Checked++
			report.Passed++
		case StatusDiff, StatusError:
			report.Checked++
			report.Differing++
		case StatusSkip:
			report.Skipped++
		}
		logger.Debug("compared building block", "block", result.Name, "status", result.Status.String())
		report.Results = append(report.Results, result)
	}
	return report, nil
}

type blockDir struct {
	name string // relative to sources dir
	dir  string
}

// discoverBlocks walks the sources tree for directories carrying a
// bblock.json sidecar, in sorted order.
func discoverBlocks(sourcesDir string) ([]blockDir, error) {
	var blocks []blockDir
	err := filepath.WalkDir(sourcesDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || entry.Name() != "bblock.json" {
			return nil
		}
		dir := filepath.Dir(path)
		rel, err := filepath.Rel(sourcesDir, dir)
		if err != nil {
			rel = dir
		}
		blocks = append(blocks, blockDir{name: rel, dir: dir})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].name < blocks[j].name })
	return blocks, nil
}

func (d *Differ) compareBlock(block blockDir) BlockResult {
	yamlPath := filepath.Join(block.dir, "schema.yaml")
	if _, err := os.Stat(yamlPath); err != nil {
		return BlockResult{Name: block.name, Status: StatusSkip, Findings: []string{"no schema.yaml"}}
	}

	jsonPath := findCompanionJSON(block.dir, filepath.Base(block.dir))
	if jsonPath == "" {
		return BlockResult{Name: block.name, Status: StatusSkip, Findings: []string{"no companion JSON schema"}}
	}

	yamlDoc, err := schema.ParseFile(yamlPath)
	if err != nil {
		return BlockResult{
			Name:     block.name,
			Status:   StatusError,
			Findings: []string{fmt.Sprintf("cannot parse schema.yaml: %v", err)},
		}
	}
	jsonDoc, err := schema.ParseFile(jsonPath)
	if err != nil {
		return BlockResult{
			Name:     block.name,
			Status:   StatusError,
			Findings: []string{fmt.Sprintf("cannot parse %s: %v", filepath.Base(jsonPath), err)},
		}
	}

	var findings []string
	findings = append(findings, checkPropertyCoverage(yamlDoc, jsonDoc)...)
	findings = append(findings, compareValues(yamlDoc, jsonDoc, "")...)

	if len(findings) > 0 {
		return BlockResult{Name: block.name, Status: StatusDiff, Findings: findings}
	}
	return BlockResult{Name: block.name, Status: StatusOK}
}

// findCompanionJSON locates the hand-maintained JSON representation next to
// a block's schema.yaml: <name>Schema.json, <name>schema.json, the generic
// schema.json, then a case-insensitive fallback.
func findCompanionJSON(dir, name string) string {
	for _, base := range []string{name + "Schema.json", name + "schema.json", "schema.json"} {
		candidate := filepath.Join(dir, base)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	want := strings.ToLower(name + "schema.json")
	for _, entry := range entries {
		if strings.ToLower(entry.Name()) == want {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}
