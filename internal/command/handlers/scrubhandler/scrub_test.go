package scrubhandler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/command/handlers/handlertest"
	"github.com/Kargones/mediaio/internal/constants"
	"github.com/Kargones/mediaio/internal/pkg/apperrors"
	"github.com/Kargones/mediaio/internal/pkg/testutil"
)

// reverseChunks переставляет куски по chunk байт, отсчитанные с конца data.
func reverseChunks(data []byte, chunk int) []byte {
	out := make([]byte, 0, len(data))
	for end := len(data); end > 0; end -= chunk {
		out = append(out, data[max(end-chunk, 0):end]...)
	}
	return out
}

func TestReverseChunks(t *testing.T) {
	assert.Equal(t, []byte{4, 5, 2, 3, 1}, reverseChunks([]byte{1, 2, 3, 4, 5}, 2))
	assert.Empty(t, reverseChunks(nil, 3))
}

func TestHandler_Name(t *testing.T) {
	h := &Handler{}
	assert.Equal(t, constants.ActScrub, h.Name())
	assert.NotEmpty(t, h.Description())
}

func TestRegisterCmd(t *testing.T) {
	command.Reset()
	t.Cleanup(command.Reset)

	RegisterCmd()

	_, ok := command.Get(constants.ActScrub)
	assert.True(t, ok)
}

func TestExecute_Reverses(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		chunk    int
		slurpMax int64
		mode     string
	}{
		{"slurp кратный размер", 40_000, 1000, 1 << 30, ModeSlurp},
		{"slurp с остатком", 40_123, 1000, 1 << 30, ModeSlurp},
		{"slurp пустой файл", 0, 512, 1 << 30, ModeSlurp},
		{"буфер с остатком", 40_123, 1000, 1000, ModeBuffered},
		{"буфер кусок больше файла", 300, 4096, 100, ModeBuffered},
		{"буфер крупные куски", 500_000, 70_000, 1000, ModeBuffered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := testutil.Pattern(tt.size)
			src := testutil.WriteFile(t, "src.bin", data)
			dst := filepath.Join(t.TempDir(), "dst.bin")

			env := handlertest.New(t, "json")
			env.Cfg.Params.Src = src
			env.Cfg.Params.Dst = dst
			env.Cfg.Params.Chunk = tt.chunk
			env.Cfg.IO.SlurpMaxSize = tt.slurpMax

			require.NoError(t, (&Handler{}).Execute(context.Background(), env.Cfg, env.Deps))

			got, err := os.ReadFile(dst)
			require.NoError(t, err)
			assert.Equal(t, reverseChunks(data, tt.chunk), got)

			d := env.Data(t)
			assert.Equal(t, tt.mode, d["mode"])
			assert.EqualValues(t, tt.size, d["bytes"])
			assert.EqualValues(t, (tt.size+tt.chunk-1)/tt.chunk, d["chunks"])
			if tt.mode == ModeSlurp {
				assert.EqualValues(t, 0, d["scan_physical_ops"], "после загрузки чтения идут из памяти")
			}
			assert.Zero(t, env.Deps.IO.Len())
		})
	}
}

func TestExecute_Text(t *testing.T) {
	src := testutil.WriteFile(t, "src.bin", testutil.Pattern(100))
	env := handlertest.New(t, "text")
	env.Cfg.Params.Src = src
	env.Cfg.Params.Dst = filepath.Join(t.TempDir(), "dst.bin")

	require.NoError(t, (&Handler{}).Execute(context.Background(), env.Cfg, env.Deps))

	assert.Contains(t, env.Out.String(), "Обратный проход")
	assert.Contains(t, env.Out.String(), "Режим: slurp")
}

func TestExecute_Errors(t *testing.T) {
	existing := testutil.WriteFile(t, "src.bin", testutil.Pattern(10))

	tests := []struct {
		name     string
		src, dst string
		code     string
	}{
		{"нет параметров", "", "", apperrors.ErrConfigValidate},
		{"один и тот же файл", existing, existing, apperrors.ErrConfigValidate},
		{"источник не существует", filepath.Join(t.TempDir(), "missing.bin"), filepath.Join(t.TempDir(), "x"), apperrors.ErrIOOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := handlertest.New(t, "json")
			env.Cfg.Params.Src = tt.src
			env.Cfg.Params.Dst = tt.dst

			err := (&Handler{}).Execute(context.Background(), env.Cfg, env.Deps)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err, ""))
			assert.Equal(t, "error", env.Result(t)["status"])
		})
	}
}

func TestExecute_DryRun(t *testing.T) {
	t.Setenv(constants.EnvDryRun, "1")
	src := testutil.WriteFile(t, "src.bin", testutil.Pattern(1000))
	dst := filepath.Join(t.TempDir(), "dst.bin")

	env := handlertest.New(t, "text")
	env.Cfg.Params.Src = src
	env.Cfg.Params.Dst = dst
	env.Cfg.IO.SlurpMaxSize = 10

	require.NoError(t, (&Handler{}).Execute(context.Background(), env.Cfg, env.Deps))

	assert.Contains(t, env.Out.String(), "read-reversed")
	assert.Contains(t, env.Out.String(), ModeBuffered)
	assert.NoFileExists(t, dst)
}
