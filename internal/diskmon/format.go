package diskmon

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Десятичные кратные единицы.
const (
	kilo = 1000
	mega = kilo * 1000
	giga = mega * 1000
	tera = giga * 1000
	peta = tera * 1000
	exa  = peta * 1000
)

// Formatter форматирует объёмы с учётом языка: разделители групп
// разрядов и десятичной части берутся из локали.
type Formatter struct {
	p *message.Printer
}

// NewFormatter создаёт Formatter для языка tag.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{p: message.NewPrinter(tag)}
}

var defaultFormatter = NewFormatter(language.English)

// StorageSpace выбирает единицу по величине: EB, PB, TB, GB, MB
// (десятичные), KiB или байты.
func (f *Formatter) StorageSpace(space uint64) string {
	v := float64(space)
	switch {
	case space >= exa:
		return f.p.Sprintf("%.2f EB", v/exa)
	case space >= peta:
		return f.p.Sprintf("%.2f PB", v/peta)
	case space >= tera:
		return f.p.Sprintf("%.2f TB", v/tera)
	case space >= giga:
		return f.p.Sprintf("%.2f GB", v/giga)
	case space >= mega:
		return f.p.Sprintf("%.2f MB", v/mega)
	case space >= 1024:
		return f.p.Sprintf("%.2f KiB", v/1024)
	default:
		return f.p.Sprintf("%d bytes", space)
	}
}

// Bytes форматирует число байт с разделителями групп разрядов.
func (f *Formatter) Bytes(n int64) string {
	return f.p.Sprintf("%d", n)
}

// FormatStorageSpace: StorageSpace для английской локали.
func FormatStorageSpace(space uint64) string {
	return defaultFormatter.StorageSpace(space)
}
