package version

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/command/handlers/handlertest"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/pkg/output"
)

func TestVersionHandler_Name(t *testing.T) {
	h := &VersionHandler{}
	assert.Equal(t, "version", h.Name())
	assert.Equal(t, constants.ActVersion, h.Name())
	assert.NotEmpty(t, h.Description())
}

func TestRegisterCmd(t *testing.T) {
	command.Reset()
	RegisterCmd()

	h, ok := command.Get(constants.ActVersion)
	require.True(t, ok)
	assert.IsType(t, &VersionHandler{}, h)
}

func TestVersionHandler_Execute_TextOutput(t *testing.T) {
	env := handlertest.New(t, output.FormatText)

	require.NoError(t, (&VersionHandler{}).Execute(context.Background(), env.Cfg, env.Deps))

	out := env.Out.String()
	assert.Contains(t, out, "mediaio version")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionHandler_Execute_JSONOutput(t *testing.T) {
	env := handlertest.New(t, output.FormatJSON)

	require.NoError(t, (&VersionHandler{}).Execute(context.Background(), env.Cfg, env.Deps))

	result := env.Result(t)
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, "version", result["command"])

	data := env.Data(t)
	assert.NotEmpty(t, data["version"])
	assert.Equal(t, runtime.Version(), data["go_version"])

	sizes, ok := data["buffer_sizes"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 64, sizes["small"], "малый класс равен линии кэша")
	assert.Contains(t, sizes, "large")
}

func TestBuildVersionData_Fallbacks(t *testing.T) {
	env := handlertest.New(t, output.FormatText)

	d := buildVersionData("", "", env.Deps.IO.Policy())
	assert.Equal(t, "dev", d.Version)
	assert.Equal(t, "unknown", d.Commit)

	d = buildVersionData("1.4.0", "abc123", env.Deps.IO.Policy())
	assert.Equal(t, "1.4.0", d.Version)
	assert.Equal(t, "abc123", d.Commit)
}
