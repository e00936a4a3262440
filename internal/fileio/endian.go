package fileio

import "fmt"

// needSwap сообщает, нужно ли переставлять байты little-endian данных.
func (s *Subsystem) needSwap() bool {
	return s.hostOrder.Uint16([]byte{0, 1}) == 1 && !s.cfg.EndianBug
}

// ReadLE читает little-endian элементы шириной width байт и приводит их
// к порядку хоста. Неполный хвостовой элемент не переставляется.
func (s *Subsystem) ReadLE(h Handle, p []byte, width int, allowPartial bool) (int, error) {
	if err := checkWidth(width); err != nil {
		return 0, err
	}
	n, err := s.Read(h, p, allowPartial)
	if n > 0 && s.needSwap() {
		swapElements(p[:n], width)
	}
	return n, err
}

// WriteLE пишет элементы шириной width байт в little-endian порядке.
// Данные вызывающего не изменяются.
func (s *Subsystem) WriteLE(h Handle, p []byte, width int, allowFail bool) (int, error) {
	if err := checkWidth(width); err != nil {
		return 0, err
	}
	if !s.needSwap() {
		return s.Write(h, p, allowFail)
	}
	tmp := make([]byte, len(p))
	copy(tmp, p)
	swapElements(tmp, width)
	return s.Write(h, tmp, allowFail)
}

func checkWidth(width int) error {
	switch width {
	case 1, 2, 4, 8:
		return nil
	default:
		return fmt.Errorf("fileio: недопустимая ширина элемента %d", width)
	}
}

// swapElements разворачивает байты каждого целого элемента шириной width.
func swapElements(p []byte, width int) {
	if width == 1 {
		return
	}
	for i := 0; i+width <= len(p); i += width {
		e := p[i : i+width]
		for l, r := 0, width-1; l < r; l, r = l+1, r-1 {
			e[l], e[r] = e[r], e[l]
		}
	}
}
