package command

import (
	"maps"
	"regexp"
	"slices"
	"sync"
)

// namePattern описывает kebab-case: строчные буквы и цифры, сегменты через
// одиночный дефис, первый символ: буква.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// reg: глобальный реестр обработчиков по имени команды.
var reg = struct {
	sync.RWMutex
	handlers map[string]Handler
}{handlers: make(map[string]Handler)}

// Register добавляет обработчик в реестр. Вызывается из RegisterCmd
// пакетов-обработчиков.
//
// Пустой или не kebab-case Name, nil и повторная регистрация: ошибки
// программиста, Register паникует.
func Register(h Handler) {
	name := checkedName(h)

	reg.Lock()
	defer reg.Unlock()
	if _, dup := reg.handlers[name]; dup {
		panic("command: duplicate handler registration for " + name)
	}
	reg.handlers[name] = h
}

func checkedName(h Handler) string {
	switch {
	case h == nil:
		panic("command: nil handler")
	case h.Name() == "":
		panic("command: empty handler name")
	case !namePattern.MatchString(h.Name()):
		panic("command: invalid handler name format (must be kebab-case): " + h.Name())
	}
	return h.Name()
}

// Get ищет обработчик по имени.
func Get(name string) (Handler, bool) {
	reg.RLock()
	defer reg.RUnlock()
	h, ok := reg.handlers[name]
	return h, ok
}

// All возвращает копию реестра.
func All() map[string]Handler {
	reg.RLock()
	defer reg.RUnlock()
	return maps.Clone(reg.handlers)
}

// Names возвращает имена команд по алфавиту.
func Names() []string {
	reg.RLock()
	defer reg.RUnlock()
	return slices.Sorted(maps.Keys(reg.handlers))
}

// Reset очищает реестр перед повторной регистрацией в тестах.
func Reset() {
	reg.Lock()
	defer reg.Unlock()
	clear(reg.handlers)
}
