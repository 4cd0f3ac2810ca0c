package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

// ProjectFileName is the project configuration the CLI looks for
const ProjectFileName = "gxt.json"

// ProjectConfig describes a project scanned by the CLI
type ProjectConfig struct {
	Flags    *Flags   `json:"-"`
	Bindings []string `json:"bindings"`
	Include  []string `json:"include"`
	Exclude  []string `json:"exclude"`
	// Hints is a type-hint document, relative to the configuration file
	Hints string `json:"hints"`
}

// ParseProjectConfig reads and parses a project configuration file. Flags
// come from its "flags" object; without one the defaults apply.
func ParseProjectConfig(path string) (*ProjectConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config: %w", err)
	}

	var cfg ProjectConfig
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse project config: %w", err)
	}
	cfg.Flags = DefaultFlags()
	if gjson.GetBytes(data, "flags").IsObject() {
		if cfg.Flags, err = ParseFlags(data, nil); err != nil {
			return nil, err
		}
	}
	if cfg.Hints != "" && !filepath.IsAbs(cfg.Hints) {
		cfg.Hints = filepath.Join(filepath.Dir(absPath), cfg.Hints)
	}
	return &cfg, nil
}

// GetProjectRoot returns the directory containing the configuration file
func (c *ProjectConfig) GetProjectRoot(configPath string) string {
	return filepath.Dir(configPath)
}

// Matches reports whether a slash separated path relative to the project
// root is selected by Include and not rejected by Exclude. A pattern ending
// in "/**" selects everything below a directory; other patterns use
// filepath.Match against the whole path and against its base name.
func (c *ProjectConfig) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.Exclude {
		if matchPattern(pattern, rel) {
			return false
		}
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, pattern := range c.Include {
		if matchPattern(pattern, rel) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, rel string) bool {
	if dir, ok := strings.CutSuffix(pattern, "/**"); ok {
		return rel == dir || strings.HasPrefix(rel, dir+"/")
	}
	if ok, _ := filepath.Match(pattern, rel); ok {
		return true
	}
	ok, _ := filepath.Match(pattern, filepath.Base(rel))
	return ok
}
