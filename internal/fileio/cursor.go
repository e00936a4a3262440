package fileio

// cursor ведёт позицию внутри буфера и связывает её с позицией в файле.
//
// Чтение: buf[:n] содержит байты файла [offset-n, offset), pos: следующий
// непрочитанный байт. Виртуальная позиция потока равна offset-(n-pos).
//
// Запись: buf[:pos] ещё не записан, offset: позиция в файле сразу за
// последним записанным байтом. Логическая позиция равна offset+pos.
type cursor struct {
	buf    []byte
	pos    int
	n      int
	offset int64
}

// ahead: непрочитанные байты за курсором.
func (c *cursor) ahead() int { return c.n - c.pos }

// behind: уже прочитанные байты перед курсором (доступны для чтения назад).
func (c *cursor) behind() int { return c.pos }

// virtual: позиция потока для чтения.
func (c *cursor) virtual() int64 { return c.offset - int64(c.n-c.pos) }

// start: позиция файла, соответствующая buf[0].
func (c *cursor) start() int64 { return c.offset - int64(c.n) }

// take отдаёт k байт вперёд от курсора.
func (c *cursor) take(k int) []byte {
	b := c.buf[c.pos : c.pos+k]
	c.pos += k
	return b
}

// takeBack отдаёт k байт перед курсором и сдвигает курсор назад.
func (c *cursor) takeBack(k int) []byte {
	c.pos -= k
	return c.buf[c.pos : c.pos+k]
}

// contains сообщает, лежит ли позиция v в загруженной области [start, offset].
func (c *cursor) contains(v int64) bool {
	return c.n > 0 && v >= c.start() && v <= c.offset
}

// moveTo ставит курсор на позицию v; v должна лежать в загруженной области.
func (c *cursor) moveTo(v int64) { c.pos = int(v - c.start()) }

// load делает buf[:filled] содержимым файла с позиции at, курсор: на индекс pos.
func (c *cursor) load(buf []byte, filled int, at int64, pos int) {
	c.buf = buf
	c.n = filled
	c.pos = pos
	c.offset = at + int64(filled)
}

// drop забывает содержимое буфера (память остаётся для повторного
// использования) и ставит виртуальную позицию в v.
func (c *cursor) drop(v int64) {
	c.n, c.pos = 0, 0
	c.offset = v
}

// release освобождает память буфера, сохраняя позицию.
func (c *cursor) release() {
	v := c.virtual()
	c.buf = nil
	c.drop(v)
}

// space: свободное место в буфере записи.
func (c *cursor) space() int { return len(c.buf) - c.pos }

// put копирует в буфер записи сколько поместится.
func (c *cursor) put(p []byte) int {
	k := copy(c.buf[c.pos:], p)
	c.pos += k
	return k
}

// pending: ещё не записанные байты.
func (c *cursor) pending() []byte { return c.buf[:c.pos] }

// flushed отмечает запись written байт и очищает буфер.
func (c *cursor) flushed(written int) {
	c.offset += int64(written)
	c.pos = 0
}

// position: логическая позиция писателя.
func (c *cursor) position() int64 { return c.offset + int64(c.pos) }
