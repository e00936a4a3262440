package diskusagehandler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/command/handlers/handlertest"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/diskmon"
	"github.com/Kargones/mediaio/internal/pkg/apperrors"
)

func TestHandler_Name(t *testing.T) {
	h := &Handler{}
	assert.Equal(t, constants.ActDiskUsage, h.Name())
	assert.NotEmpty(t, h.Description())
}

func TestRegisterCmd(t *testing.T) {
	command.Reset()
	t.Cleanup(command.Reset)

	RegisterCmd()

	_, ok := command.Get(constants.ActDiskUsage)
	assert.True(t, ok)
}

func TestExecute_RealDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 100_000), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.bin"), make([]byte, 50_000), 0o600))

	env := handlertest.New(t, "json")
	env.Cfg.Params.Dir = dir

	require.NoError(t, (&Handler{}).Execute(context.Background(), env.Cfg, env.Deps))

	d := env.Data(t)
	assert.Equal(t, dir, d["dir"])
	assert.GreaterOrEqual(t, d["bytes"].(float64), float64(150_000))
	assert.NotEmpty(t, d["human"])

	st, stDir := env.Deps.Monitor.State()
	assert.Equal(t, diskmon.StateConsumed, st)
	assert.Equal(t, dir, stDir)
}

func TestExecute_WorkDirFallback(t *testing.T) {
	env := handlertest.New(t, "text")
	env.Cfg.Disk.WorkDir = t.TempDir()
	env.Deps.Monitor = diskmon.NewMonitor(diskmon.WithSizeFunc(func(context.Context, string) (int64, error) {
		return 5_000_000, nil
	}))

	require.NoError(t, (&Handler{}).Execute(context.Background(), env.Cfg, env.Deps))

	assert.Contains(t, env.Out.String(), env.Cfg.Disk.WorkDir)
	assert.Contains(t, env.Out.String(), "MB")
}

func TestExecute_Timeout(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	env := handlertest.New(t, "json")
	env.Cfg.Params.Dir = t.TempDir()
	env.Cfg.Disk.WaitTimeout = 20 * time.Millisecond
	env.Deps.Monitor = diskmon.NewMonitor(diskmon.WithSizeFunc(func(ctx context.Context, _ string) (int64, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return 0, ctx.Err()
	}))

	err := (&Handler{}).Execute(context.Background(), env.Cfg, env.Deps)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrDiskTimeout, apperrors.CodeOf(err, ""))
	assert.Equal(t, "error", env.Result(t)["status"])
	st, _ := env.Deps.Monitor.State()
	assert.Equal(t, diskmon.StateIdle, st, "просроченный подсчёт забыт")
}

func TestExecute_MissingDirectory(t *testing.T) {
	env := handlertest.New(t, "json")
	env.Cfg.Params.Dir = filepath.Join(t.TempDir(), "missing")

	err := (&Handler{}).Execute(context.Background(), env.Cfg, env.Deps)

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrDiskUnavailable, apperrors.CodeOf(err, ""))
}
