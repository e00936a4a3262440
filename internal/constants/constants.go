// Package constants содержит константы, общие для команд mediaio.
package constants

// Константы сообщений приложения
const (
	// MsgAppExit - сообщение о завершении работы программы
	MsgAppExit = "Завершение работы программы"
	// MsgErrProcessing - сообщение об обработке ошибки
	MsgErrProcessing = "Обработка ошибки"
)

// Константы действий (команд)
const (
	// ActCopy - копирование файла через буферизованные чтение и запись
	ActCopy = "copy"
	// ActScrub - загрузка файла целиком и запись его кусков в обратном порядке
	ActScrub = "scrub"
	// ActDiskUsage - подсчёт размера каталога монитором
	ActDiskUsage = "disk-usage"
	// ActStorageStatus - оценка состояния хранилища рабочего каталога
	ActStorageStatus = "storage-status"
	// ActVersion - вывод версии
	ActVersion = "version"
	// ActHelp - список команд
	ActHelp = "help"
)

// Переменные окружения, которые читаются вне config.
const (
	// EnvDryRun включает dry-run: команда выводит план без изменения файлов.
	EnvDryRun = "MIO_DRY_RUN"
)

// APIVersion - версия формата JSON-вывода команд.
const APIVersion = "v1"

// Коды завершения процесса.
const (
	ExitOK             = 0
	ExitUnknownCommand = 2
	ExitConfig         = 5
	ExitCommandFailed  = 8
)
