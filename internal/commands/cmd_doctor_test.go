package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/kdlbs/kandev/internal/core/config"
)

func TestDoctorCmd_JSON(t *testing.T) {
	cfg := config.DefaultConfig()
	flags := &Flags{
		Config:     &cfg,
		ConfigPath: t.TempDir() + "/config.yaml",
		DataDir:    t.TempDir(),
	}

	var buf bytes.Buffer
	app := &cli.Command{
		Name:   "kandev",
		Writer: &buf,
	}
	NewDoctorCmd(flags).Register(app)

	err := app.Run(context.Background(), []string{"kandev", "doctor", "--json"})
	require.NoError(t, err, "doctor --json")

	var out struct {
		Healthy bool `json:"healthy"`
		Summary struct {
			Passed int `json:"passed"`
			Failed int `json:"failed"`
		} `json:"summary"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	require.Len(t, out.Checks, 3)
	assert.Equal(t, "Tools", out.Checks[0].Name)
	assert.Equal(t, "Configuration", out.Checks[1].Name)
	assert.Equal(t, "Data Directory", out.Checks[2].Name)
	// config file is absent and the data dir exists, so nothing should fail
	// unless git itself is missing from the test environment
	assert.Zero(t, out.Summary.Failed)
	assert.True(t, out.Healthy)
}
