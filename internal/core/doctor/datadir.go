package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DataDirCheck verifies the data directory is usable for the database and
// log file.
type DataDirCheck struct {
	dataDir string
}

// NewDataDirCheck creates a data directory check.
func NewDataDirCheck(dataDir string) *DataDirCheck {
	return &DataDirCheck{dataDir: dataDir}
}

func (c *DataDirCheck) Name() string {
	return "Data Directory"
}

func (c *DataDirCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.dataDir)
	switch {
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:  c.dataDir,
			Status: StatusWarn,
			Detail: "does not exist yet (created on first run)",
		})
		return result
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  c.dataDir,
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		})
		return result
	case !info.IsDir():
		result.Items = append(result.Items, CheckItem{
			Label:  c.dataDir,
			Status: StatusFail,
			Detail: "path is not a directory",
		})
		return result
	}

	if file, err := os.CreateTemp(c.dataDir, ".doctor-*"); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.dataDir,
			Status: StatusFail,
			Detail: fmt.Sprintf("not writable: %v", err),
		})
	} else {
		name := file.Name()
		_ = file.Close()
		_ = os.Remove(name)
		result.Items = append(result.Items, CheckItem{
			Label:  c.dataDir,
			Status: StatusPass,
			Detail: "writable",
		})
	}

	dbPath := filepath.Join(c.dataDir, "kandev.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		result.Items = append(result.Items, CheckItem{
			Label:  "database",
			Status: StatusPass,
			Detail: "no database yet (created on first review)",
		})
	} else if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "database",
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "database",
			Status: StatusPass,
			Detail: dbPath,
		})
	}

	return result
}

// ConfigCheck verifies the config file parses when present.
type ConfigCheck struct {
	path string
	load func() error
}

// NewConfigCheck creates a config check. load should attempt a full config
// parse and return its error.
func NewConfigCheck(path string, load func() error) *ConfigCheck {
	return &ConfigCheck{path: path, load: load}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if _, err := os.Stat(c.path); os.IsNotExist(err) {
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusPass,
			Detail: "not present (using defaults)",
		})
		return result
	}

	if err := c.load(); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.path,
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.path,
		Status: StatusPass,
	})
	return result
}
