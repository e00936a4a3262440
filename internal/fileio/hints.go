package fileio

// Advice: рекомендация ОС о характере доступа к файлу.
type Advice int

const (
	AdviceNormal Advice = iota
	AdviceSequential
	AdviceRandom
	AdviceWillNeed
	AdviceNoReuse
)

// Hinter передаёт ОС рекомендации. Ошибки рекомендаций не влияют на
// корректность: вызывающий код их только логирует.
type Hinter interface {
	Advise(f File, offset, length int64, advice Advice) error
	Preallocate(f File, offset, length int64) error
	Lock(b []byte) error
	Unlock(b []byte) error
}

// fdFile: файл с дескриптором ОС.
type fdFile interface {
	Fd() uintptr
}

// NopHinter игнорирует все рекомендации.
type NopHinter struct{}

func (NopHinter) Advise(File, int64, int64, Advice) error { return nil }
func (NopHinter) Preallocate(File, int64, int64) error    { return nil }
func (NopHinter) Lock([]byte) error                       { return nil }
func (NopHinter) Unlock([]byte) error                     { return nil }
