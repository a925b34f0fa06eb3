package doctor

import (
	"context"
	"os/exec"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// ToolsCheck verifies that required external tools are available on $PATH.
type ToolsCheck struct {
	gitPath string
}

// NewToolsCheck creates a tools check. gitPath is the configured git binary,
// usually just "git".
func NewToolsCheck(gitPath string) *ToolsCheck {
	if gitPath == "" {
		gitPath = "git"
	}
	return &ToolsCheck{gitPath: gitPath}
}

func (c *ToolsCheck) Name() string {
	return "Tools"
}

func (c *ToolsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	// git is required
	if path, err := lookPathFunc(c.gitPath); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.gitPath,
			Status: StatusFail,
			Detail: "not found on PATH",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  c.gitPath,
			Status: StatusPass,
			Detail: path,
		})
	}

	// gh is optional; without it PR feedback is unavailable
	if path, err := lookPathFunc("gh"); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "gh",
			Status: StatusWarn,
			Detail: "not found on PATH (pull request feedback disabled)",
		})
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "gh",
			Status: StatusPass,
			Detail: path,
		})
	}

	return result
}
