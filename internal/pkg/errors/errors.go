package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrFormat используется, когда структура импортируемого файла некорректна
	// (отсутствует обязательная секция, байты не парсятся).
	ErrFormat = errors.New("unsupported or malformed input format")

	// ErrValidation используется, когда корректный по форме ввод ссылается на
	// несуществующее состояние (например, неизвестный целевой предмет).
	ErrValidation = errors.New("validation failed")

	// ErrPersistence используется, когда операция хранилища завершилась ошибкой.
	ErrPersistence = errors.New("persistence operation failed")

	// ErrConflict используется для конфликтов состояния (например, повторное
	// сохранение результата той же сессии).
	ErrConflict = errors.New("resource state conflict")

	// ErrNoSession используется, когда операция требует активной экзаменационной
	// сессии, а её нет.
	ErrNoSession = errors.New("no active exam session")
)
