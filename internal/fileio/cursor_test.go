package fileio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_ReadBookkeeping(t *testing.T) {
	var c cursor
	c.drop(100)
	assert.Equal(t, int64(100), c.virtual())

	buf := []byte("0123456789")
	c.load(buf, 10, 100, 0)
	assert.Equal(t, int64(110), c.offset)
	assert.Equal(t, int64(100), c.start())
	assert.Equal(t, 10, c.ahead())

	assert.Equal(t, []byte("0123"), c.take(4))
	assert.Equal(t, int64(104), c.virtual())
	assert.Equal(t, c.offset-int64(c.ahead()), c.virtual())

	assert.Equal(t, []byte("23"), c.takeBack(2))
	assert.Equal(t, int64(102), c.virtual())
	assert.Equal(t, 2, c.behind())
}

func TestCursor_ContainsAndMoveTo(t *testing.T) {
	var c cursor
	assert.False(t, c.contains(0), "пустой буфер ничего не содержит")

	c.load(make([]byte, 16), 16, 32, 0)
	assert.True(t, c.contains(32))
	assert.True(t, c.contains(48))
	assert.False(t, c.contains(31))
	assert.False(t, c.contains(49))

	c.moveTo(40)
	assert.Equal(t, int64(40), c.virtual())
}

func TestCursor_ReleaseKeepsPosition(t *testing.T) {
	var c cursor
	c.load(make([]byte, 8), 8, 0, 3)

	c.release()

	assert.Nil(t, c.buf)
	assert.Equal(t, int64(3), c.virtual())
}

func TestCursor_WriteBookkeeping(t *testing.T) {
	c := cursor{buf: make([]byte, 4), offset: 10}

	assert.Equal(t, 4, c.put([]byte("abcdef")))
	assert.Equal(t, 0, c.space())
	assert.Equal(t, []byte("abcd"), c.pending())
	assert.Equal(t, int64(14), c.position())

	c.flushed(4)
	assert.Equal(t, int64(14), c.offset)
	assert.Equal(t, 4, c.space())
	assert.Empty(t, c.pending())
}
