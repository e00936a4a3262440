package fileio

import (
	"math"
	"math/bits"
	"time"
)

// maxTuneCycles ограничивает число пробных значений на класс.
const maxTuneCycles = 16

// tuneRange: допустимый диапазон подстройки класса чтения.
type tuneRange struct {
	min, max int
}

// tuneRanges задаёт диапазоны по текущим размерам классов. Диапазоны
// класса строятся от соседних, как при обычном посеве размеров.
func tuneRanges(read [ClassLarge + 1]int) [ClassLarge + 1]tuneRange {
	var r [ClassLarge + 1]tuneRange
	r[ClassSmall] = tuneRange{8, max(8, read[ClassSmallMed]/4)}
	r[ClassSmallMed] = tuneRange{read[ClassSmall] * 4, 32768}
	r[ClassMed] = tuneRange{read[ClassSmallMed] * 4, 65536 * 2}
	r[ClassLarge] = tuneRange{read[ClassMed] * 4, 8192 * 1024}
	for i := range r {
		r[i].max = max(r[i].min, r[i].max)
	}
	return r
}

type tuneStat struct {
	trials int
	cost   float64
}

func (s tuneStat) average() float64 {
	if s.trials == 0 {
		return math.Inf(1)
	}
	return s.cost / float64(s.trials)
}

// classTuner подбирает размер одного класса: ntrials замеров на значение,
// затем шаг к соседнему (вдвое меньше или больше) значению с меньшей
// средней стоимостью.
type classTuner struct {
	rng     tuneRange
	ntrials int
	cur     int
	trials  int
	cost    float64
	cycles  int
	stats   map[int]tuneStat
	done    bool
}

func (t *classTuner) observe(elapsed time.Duration, cost float64) (int, bool) {
	if t.done {
		return t.cur, false
	}
	t.trials++
	t.cost += float64(elapsed) * cost
	if t.trials < t.ntrials {
		return t.cur, false
	}

	st := t.stats[t.cur]
	st.trials += t.trials
	st.cost += t.cost
	t.stats[t.cur] = st
	t.trials, t.cost = 0, 0
	t.cycles++

	next := t.step()
	if next == t.cur || t.cycles >= maxTuneCycles {
		t.done = true
		t.cur = nearPow2(t.best())
		return t.cur, true
	}
	t.cur = next
	return t.cur, true
}

// step выбирает следующее пробное значение. Сначала пробуются соседи без
// замеров (на нечётных циклах: меньший), затем лучший из измеренных.
func (t *classTuner) step() int {
	smaller := max(t.rng.min, t.cur/2)
	larger := min(t.rng.max, t.cur*2)

	candidates := []int{larger, smaller}
	if t.cycles%2 == 1 {
		candidates = []int{smaller, larger}
	}
	for _, c := range candidates {
		if _, seen := t.stats[c]; !seen && c != t.cur {
			return c
		}
	}

	best := t.cur
	for _, c := range candidates {
		if t.stats[c].average() < t.stats[best].average() {
			best = c
		}
	}
	return best
}

func (t *classTuner) best() int {
	best := t.cur
	for v, st := range t.stats {
		if st.average() < t.stats[best].average() || (st.average() == t.stats[best].average() && v < best) {
			best = v
		}
	}
	return best
}

// autoTuner подстраивает классы чтения по очереди: класс начинает
// подстраиваться только после сходимости предыдущего.
type autoTuner struct {
	samples int
	classes [ClassLarge + 1]*classTuner
	ranges  [ClassLarge + 1]tuneRange
}

func newAutoTuner(samples int, read [ClassLarge + 1]int) *autoTuner {
	if samples <= 0 {
		samples = DefaultAutoTuneSamples
	}
	return &autoTuner{samples: samples, ranges: tuneRanges(read)}
}

// prev возвращает класс, который должен сойтись раньше c.
func prevTuned(c SizeClass) SizeClass {
	switch c {
	case ClassSmallMed:
		return ClassSmall
	case ClassMed:
		return ClassSmallMed
	case ClassLarge:
		return ClassMed
	default:
		return ClassCustom
	}
}

func (a *autoTuner) converged(c SizeClass) bool {
	if c < ClassSmall || c > ClassLarge {
		return true
	}
	t := a.classes[c]
	return t != nil && t.done
}

// observe учитывает замер класса c. Возвращает новый размер класса и true,
// если он изменился.
func (a *autoTuner) observe(c SizeClass, elapsed time.Duration, cost float64) (int, bool) {
	if c == ClassBigMed {
		return 0, false
	}
	if p := prevTuned(c); p != ClassCustom && !a.converged(p) {
		return 0, false
	}
	t := a.classes[c]
	if t == nil {
		rng := a.ranges[c]
		t = &classTuner{rng: rng, ntrials: a.samples, stats: make(map[int]tuneStat)}
		a.classes[c] = t
		// первое пробное значение: среднее геометрическое границ
		mid := int(math.Sqrt(float64(rng.min) * float64(rng.max)))
		t.cur = min(max(nearPow2(mid), rng.min), rng.max)
		return t.cur, true
	}
	return t.observe(elapsed, cost)
}

// nearPow2 округляет v до ближайшей степени двойки.
func nearPow2(v int) int {
	if v <= 1 {
		return 1
	}
	lo := 1 << (bits.Len(uint(v)) - 1)
	hi := lo << 1
	if v-lo <= hi-v {
		return lo
	}
	return hi
}
