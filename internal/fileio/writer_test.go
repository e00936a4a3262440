package fileio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kargones/mediaio/internal/pkg/testutil"
)

func TestWriter_SmallWriteWithPreallocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	hints := &recordingHinter{}
	cfg := DefaultConfig()
	cfg.Preallocate = true
	s := New(cfg, WithHinter(hints))

	h, err := s.OpenWriter(path, 0o600, false)
	require.NoError(t, err)
	n, err := s.Write(h, []byte("0123456789"), false)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(64), st.Size(), "место под буфер зарезервировано")

	require.NoError(t, s.Close(h))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789"), got)
	assert.Equal(t, 1, hints.preallocations())
}

func TestWriter_AppendKeepsOriginalContent(t *testing.T) {
	orig := testutil.Pattern(100)
	path := testutil.WriteFile(t, "out.bin", orig)
	cfg := DefaultConfig()
	cfg.Preallocate = true
	s := New(cfg, WithHinter(&recordingHinter{}))

	h, err := s.OpenWriter(path, 0o600, true)
	require.NoError(t, err)

	size, err := s.OrigSize(h)
	require.NoError(t, err)
	assert.Equal(t, int64(100), size)

	_, err = s.Write(h, []byte("tail!"), false)
	require.NoError(t, err)
	off, err := s.Offset(h)
	require.NoError(t, err)
	assert.Equal(t, int64(105), off)
	require.NoError(t, s.Close(h))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append(orig, []byte("tail!")...), got)
}

func TestWriter_SeekBackKeepsFurthestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	cfg := DefaultConfig()
	cfg.Preallocate = true
	s := New(cfg, WithHinter(&recordingHinter{}))

	h, err := s.OpenWriter(path, 0o600, false)
	require.NoError(t, err)
	_, err = s.Write(h, []byte("hello world"), false)
	require.NoError(t, err)

	pos, err := s.SeekAbsolute(h, 0)
	require.NoError(t, err)
	assert.Zero(t, pos)
	_, err = s.Write(h, []byte("J"), false)
	require.NoError(t, err)
	require.NoError(t, s.Close(h))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jello world", string(got))
}

func TestWriter_SecondFlushIsNoop(t *testing.T) {
	stats := &statsCollector{}
	s := newTestSubsystem(WithMetrics(stats))
	h, err := s.OpenWriter(filepath.Join(t.TempDir(), "out.bin"), 0o600, false)
	require.NoError(t, err)

	_, err = s.Write(h, []byte("0123456789"), false)
	require.NoError(t, err)

	n, err := s.Flush(h)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	require.Equal(t, 1, stats.writes())

	n, err = s.Flush(h)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, stats.writes())
}

func TestWriter_RoundTripAcrossClassBoundaries(t *testing.T) {
	sizes := []int{
		0, 1,
		63, 64, 65,
		1023, 1024, 1025,
		4095, 4096, 4097,
		16383, 16384, 16385,
		65535, 65536, 65537,
		200_000,
	}
	dir := t.TempDir()

	for _, n := range sizes {
		for _, chunk := range []int{777, n} {
			t.Run(fmt.Sprintf("%d_by_%d", n, chunk), func(t *testing.T) {
				data := testutil.Pattern(n)
				path := filepath.Join(dir, fmt.Sprintf("rt_%d_%d.bin", n, chunk))
				s := newTestSubsystem()

				w, err := s.OpenWriter(path, 0o600, false)
				require.NoError(t, err)
				for off := 0; off < n; off += max(chunk, 1) {
					end := min(off+max(chunk, 1), n)
					written, err := s.Write(w, data[off:end], false)
					require.NoError(t, err)
					require.Equal(t, end-off, written)
				}
				require.NoError(t, s.Close(w))

				r, err := s.Open(path)
				require.NoError(t, err)
				got := make([]byte, n+1)
				read, err := s.Read(r, got, true)
				require.NoError(t, err)
				assert.Equal(t, n, read)
				assert.Equal(t, data, got[:read])
				assert.True(t, s.Eof(r))
				require.NoError(t, s.Close(r))
			})
		}
	}
}

func TestWriter_ClassEscalatesWithVolume(t *testing.T) {
	s := newTestSubsystem()
	h, err := s.OpenWriter(filepath.Join(t.TempDir(), "out.bin"), 0o600, false)
	require.NoError(t, err)
	fb, err := s.Registry().Find(h)
	require.NoError(t, err)

	prev := fb.class
	for i := 0; i < 200; i++ {
		_, err := s.Write(h, testutil.Pattern(100), false)
		require.NoError(t, err)
		require.GreaterOrEqual(t, fb.class, prev)
		prev = fb.class
	}
	assert.Equal(t, ClassMed, fb.class)
}

func TestWriter_LargeWriteFlushesPendingFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	stats := &statsCollector{}
	s := newTestSubsystem(WithMetrics(stats))
	h, err := s.OpenWriter(path, 0o600, false)
	require.NoError(t, err)

	big := testutil.Pattern(70_000)
	_, err = s.Write(h, []byte("head"), false)
	require.NoError(t, err)
	n, err := s.Write(h, big, false)
	require.NoError(t, err)
	assert.Equal(t, len(big), n)
	assert.Equal(t, 2, stats.writes())
	require.NoError(t, s.Close(h))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append([]byte("head"), big...), got)
}

func TestWriter_StrictShortfallTearsDown(t *testing.T) {
	open, _ := stubOpener(func(f *stubFile) { f.limit = 100 })
	s := newTestSubsystem(WithOpener(open))
	path := filepath.Join(t.TempDir(), "out.bin")
	h, err := s.OpenWriter(path, 0o600, false)
	require.NoError(t, err)

	_, err = s.Write(h, testutil.Pattern(200), false)
	require.NoError(t, err)

	_, err = s.Flush(h)

	require.ErrorIs(t, err, ErrWriteShortfall)
	assert.ErrorIs(t, err, syscall.ENOSPC)
	var short *ShortfallError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, int64(200), short.Requested)
	assert.Equal(t, int64(100), short.Actual)
	assert.Zero(t, s.Len())

	_, err = s.Write(h, []byte("x"), false)
	assert.ErrorIs(t, err, ErrNotFound)

	f, ok := s.Diagnostics().LastWrite()
	require.True(t, ok)
	assert.Equal(t, "flush", f.Op)
	assert.Equal(t, path, f.Path)
}

func TestWriter_AllowFailKeepsHandle(t *testing.T) {
	open, _ := stubOpener(func(f *stubFile) { f.limit = 100 })
	s := newTestSubsystem(WithOpener(open))
	h, err := s.OpenWriter(filepath.Join(t.TempDir(), "out.bin"), 0o600, false)
	require.NoError(t, err)

	_, err = s.Write(h, testutil.Pattern(200), true)
	require.NoError(t, err)

	n, err := s.Flush(h)

	assert.Equal(t, 100, n)
	assert.ErrorIs(t, err, ErrWriteShortfall)
	assert.Equal(t, 1, s.Len())
	assert.NoError(t, s.Close(h))
}

func TestWriter_AllowFailDirectWrite(t *testing.T) {
	open, _ := stubOpener(func(f *stubFile) { f.limit = 1000 })
	s := newTestSubsystem(WithOpener(open))
	h, err := s.OpenWriter(filepath.Join(t.TempDir(), "out.bin"), 0o600, false)
	require.NoError(t, err)

	n, err := s.Write(h, testutil.Pattern(70_000), true)

	assert.Equal(t, 1000, n)
	assert.ErrorIs(t, err, ErrWriteShortfall)
	assert.Equal(t, 1, s.Len())
	assert.NoError(t, s.Close(h))
}

func TestWriter_SetCustomSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	stats := &statsCollector{}
	s := newTestSubsystem(WithMetrics(stats))
	h, err := s.OpenWriter(path, 0o600, false)
	require.NoError(t, err)

	_, err = s.Write(h, []byte("0123456789"), false)
	require.NoError(t, err)
	require.NoError(t, s.SetCustomSize(h, 100))
	assert.Equal(t, 1, stats.writes(), "буфер сброшен перед сменой размера")

	fb, err := s.Registry().Find(h)
	require.NoError(t, err)
	assert.Equal(t, ClassCustom, fb.class)
	assert.Equal(t, 96, fb.custom)

	data := testutil.Pattern(200)
	_, err = s.Write(h, data, false)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.writes())
	require.NoError(t, s.Close(h))
	assert.Equal(t, 4, stats.writes())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, append([]byte("0123456789"), data...), got)
}

func TestWriter_SetCustomSizeMinimum(t *testing.T) {
	s := newTestSubsystem()
	h, err := s.OpenWriter(filepath.Join(t.TempDir(), "out.bin"), 0o600, false)
	require.NoError(t, err)

	require.NoError(t, s.SetCustomSize(h, 5))

	fb, err := s.Registry().Find(h)
	require.NoError(t, err)
	assert.Equal(t, 16, fb.custom)
}

func TestWriter_WritePrintf(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	s := newTestSubsystem()
	h, err := s.CreateNoSync(path, 0o600)
	require.NoError(t, err)

	_, err = s.WritePrintf(h, false, "кадр %d из %d\n", 3, 10)
	require.NoError(t, err)
	require.NoError(t, s.Close(h))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "кадр 3 из 10\n", string(got))
}

func TestWriter_CreateTruncates(t *testing.T) {
	path := testutil.WriteFile(t, "out.bin", testutil.Pattern(500))
	s := newTestSubsystem()

	h, err := s.Create(path, 0o600)
	require.NoError(t, err)
	_, err = s.Write(h, []byte("new"), false)
	require.NoError(t, err)
	require.NoError(t, s.Sync(h))
	require.NoError(t, s.Close(h))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestWriter_WrongModeAndZeroWrite(t *testing.T) {
	path := testutil.WriteFile(t, "in.bin", testutil.Pattern(10))
	s := newTestSubsystem()
	h, err := s.Open(path)
	require.NoError(t, err)

	n, err := s.Write(h, nil, false)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.Write(h, []byte("x"), false)
	assert.ErrorIs(t, err, ErrWrongMode)
	_, err = s.Flush(h)
	assert.ErrorIs(t, err, ErrWrongMode)
}

func TestWriter_CloseUnknownHandle(t *testing.T) {
	s := newTestSubsystem()

	assert.ErrorIs(t, s.Close(Buffered(12345)), ErrNotFound)
}
