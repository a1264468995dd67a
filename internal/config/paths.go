package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved output locations for a run.
//
// Directory structure:
//
//	dist/
//	  ├── data/
//	  │   ├── reports/   (summary CSV tables)
//	  │   └── charts/    (chart PNG artifacts)
//	  └── logs/          (application logs)
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	ChartsDir     string
	LogsDir       string
}

// ResolvePaths resolves the configured paths against the executable
// directory. All relative paths are anchored there, never the current
// working directory, so the binary behaves the same wherever it is invoked.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(exeDir, p)
	}

	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       resolve(cfg.DataDir),
		ReportsDir:    resolve(cfg.ReportsDir),
		ChartsDir:     resolve(cfg.ChartsDir),
		LogsDir:       resolve(cfg.LogsDir),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ReportsDir,
		p.ChartsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// GetReportPath returns the path of a named summary table file.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetChartPath returns the path of a named chart artifact.
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetLogPath returns the path of a log file.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists at the given path
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
