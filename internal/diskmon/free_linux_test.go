//go:build linux

package diskmon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeSpace_TempDir(t *testing.T) {
	dir := t.TempDir()

	free, err := FreeSpace(dir)

	require.NoError(t, err)
	assert.Positive(t, free)

	bs, err := BlockSize(dir)
	require.NoError(t, err)
	assert.Positive(t, bs)
}

func TestFreeSpace_UnwritableDir(t *testing.T) {
	free, err := FreeSpace("/nonexistent/mediaio")

	require.NoError(t, err)
	assert.Zero(t, free)
}

func TestStatus_ReservedSpace(t *testing.T) {
	dir := t.TempDir()
	th := Thresholds{WarningLevel: 0, CriticalLevel: 0}

	r, err := Status(dir, 0, 0, th)
	require.NoError(t, err)
	assert.Equal(t, StatusNormal, r.Status)
	assert.Positive(t, r.Free)

	r, err = Status(dir, 0, 1<<62, th)
	require.NoError(t, err)
	assert.Equal(t, StatusOverflow, r.Status)
}
