// Package smoketest содержит smoke-тесты системной целостности mediaio.
//
// Smoke-тесты проверяют:
//   - регистрацию всех команд в глобальном реестре;
//   - непустые Name() и Description() каждого обработчика;
//   - валидный JSON-вывод каждой команды при успехе и при ошибке.
//
// Это не unit-тесты отдельных обработчиков: бизнес-логика проверяется
// в _test.go каждого пакета обработчика.
package smoketest
