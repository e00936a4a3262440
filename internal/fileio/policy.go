package fileio

import (
	"sync"
	"time"
)

// SizeClass: класс размера буфера.
type SizeClass int

const (
	ClassSlurp    SizeClass = -2 // весь файл в памяти
	ClassCustom   SizeClass = -1 // явный размер
	ClassSmall    SizeClass = 0
	ClassSmallMed SizeClass = 1
	ClassMed      SizeClass = 2
	ClassBigMed   SizeClass = 3 // только для записи
	ClassLarge    SizeClass = 4
)

func (c SizeClass) String() string {
	switch c {
	case ClassSlurp:
		return "slurp"
	case ClassCustom:
		return "custom"
	case ClassSmall:
		return "small"
	case ClassSmallMed:
		return "small-medium"
	case ClassMed:
		return "medium"
	case ClassBigMed:
		return "big-medium"
	case ClassLarge:
		return "large"
	default:
		return "unknown"
	}
}

// Фиксированные размеры классов записи, кратные 16.
const (
	writeSmall    = 64
	writeSmallMed = 1024
	writeMed      = 4096
	writeBigMed   = 16384
	writeLarge    = 65536
)

// Минимальные размеры классов чтения.
const (
	minReadSmallMed = 1024
	minReadMed      = 4096
	minReadLarge    = 65536
)

// readCumulativeFactor: класс чтения растёт, когда суммарно прочитано
// больше readCumulativeFactor размеров текущего класса.
const readCumulativeFactor = 16

// Policy хранит текущие размеры классов. Размеры чтения могут меняться
// авто-подстройкой, поэтому доступ идёт под мьютексом.
type Policy struct {
	mu    sync.RWMutex
	read  [ClassLarge + 1]int
	write [ClassLarge + 1]int
	tuner *autoTuner
}

// NewPolicy вычисляет размеры классов из размера блока и строки кэша.
// Нулевые и отрицательные значения заменяются значениями по умолчанию.
func NewPolicy(blockSize, cacheLine int) *Policy {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if cacheLine <= 0 {
		cacheLine = DefaultCacheLineSize
	}

	p := &Policy{}
	p.read[ClassSmall] = cacheLine
	p.read[ClassSmallMed] = max(minReadSmallMed, blockSize/4)
	p.read[ClassMed] = max(minReadMed, blockSize)
	p.read[ClassBigMed] = p.read[ClassMed]
	p.read[ClassLarge] = max(minReadLarge, 16*blockSize)

	p.write = [ClassLarge + 1]int{writeSmall, writeSmallMed, writeMed, writeBigMed, writeLarge}
	return p
}

// EnableAutoTune включает подстройку классов чтения; samples: замеров на значение.
func (p *Policy) EnableAutoTune(samples int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tuner = newAutoTuner(samples, p.read)
}

// ReadSize возвращает размер класса чтения. Для Custom и Slurp: 0:
// их размер хранится в самом буфере.
func (p *Policy) ReadSize(c SizeClass) int {
	if c < ClassSmall || c > ClassLarge {
		return 0
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.read[c]
}

// WriteSize возвращает размер класса записи.
func (p *Policy) WriteSize(c SizeClass) int {
	if c < ClassSmall || c > ClassLarge {
		return 0
	}
	return p.write[c]
}

// LargeReadThreshold: начиная с этого размера запроса чтение идёт мимо буфера.
func (p *Policy) LargeReadThreshold() int { return p.ReadSize(ClassLarge) }

// LargeWriteThreshold: начиная с этого размера запись идёт мимо буфера.
func (p *Policy) LargeWriteThreshold() int { return writeLarge }

// ClassifyRead повышает класс чтения по размеру запроса и объёму уже
// прочитанного. Класс никогда не понижается; Custom и Slurp не меняются.
func (p *Policy) ClassifyRead(cur SizeClass, requested int, cumulative int64) SizeClass {
	if cur < ClassSmall || cur >= ClassLarge {
		return cur
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	for {
		var next SizeClass
		var threshold int
		switch cur {
		case ClassSmall:
			next, threshold = ClassSmallMed, p.read[ClassSmall]/4
		case ClassSmallMed:
			next, threshold = ClassMed, p.read[ClassSmallMed]/4
		case ClassMed, ClassBigMed:
			next, threshold = ClassLarge, p.read[ClassMed]/2
		default:
			return cur
		}
		size := p.read[cur]
		if requested < threshold && requested <= size && cumulative <= int64(readCumulativeFactor*size) {
			return cur
		}
		cur = next
	}
}

// ClassifyWrite выбирает класс записи по размеру запроса и общему объёму
// записанного; результат не меньше cur.
func (p *Policy) ClassifyWrite(cur SizeClass, requested int, cumulative int64) SizeClass {
	if cur < ClassSmall {
		return cur
	}
	next := ClassSmall
	switch {
	case requested >= writeBigMed/2:
		next = ClassLarge
	case requested >= writeMed/2:
		next = ClassBigMed
	case cumulative >= writeSmallMed:
		next = ClassMed
	case cumulative >= writeSmall:
		next = ClassSmallMed
	}
	return max(cur, next)
}

// observeRead передаёт замер операции чтения в авто-подстройку.
// cost: вес замера: последовательные чтения дешевле, 1/(1+nseq).
func (p *Policy) observeRead(c SizeClass, elapsed time.Duration, cost float64) {
	if c < ClassSmall || c > ClassLarge {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tuner == nil {
		return
	}
	if size, ok := p.tuner.observe(c, elapsed, cost); ok {
		p.read[c] = size
		if c == ClassMed {
			p.read[ClassBigMed] = size
		}
	}
}

// Tuned сообщает, завершена ли подстройка класса c.
func (p *Policy) Tuned(c SizeClass) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tuner != nil && p.tuner.converged(c)
}

func (p *Policy) autoTuning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tuner != nil
}
