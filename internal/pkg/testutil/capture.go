// Package testutil: вспомогательные функции для тестов mediaio.
package testutil

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CaptureStdout перехватывает всё, что fn пишет в os.Stdout.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err, "не удалось создать pipe для stdout")

	saved := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = saved }()

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r) //nolint:errcheck // test pipe
		done <- buf.Bytes()
	}()

	fn()
	require.NoError(t, w.Close())
	return string(<-done)
}

// Pattern возвращает n байт с предсказуемым содержимым: байт i равен i*7+3 mod 251.
// Период 251 не кратен степеням двойки, поэтому смещение на размер буфера
// не даёт совпадающих фрагментов.
func Pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte((i*7 + 3) % 251)
	}
	return b
}

// WriteFile создаёт во временном каталоге теста файл name с data и возвращает путь.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
