package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	return scanJSONB(value, o, func() { *o = StringArray{} })
}

// Value реализует интерфейс driver.Valuer для StringArray
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// NullableStringArray - массив строк, в котором допустимы null-элементы.
// Используется для optionImages: вариант ответа может не иметь картинки.
type NullableStringArray []*string

// Scan реализует интерфейс sql.Scanner для NullableStringArray
func (o *NullableStringArray) Scan(value interface{}) error {
	return scanJSONB(value, o, func() { *o = NullableStringArray{} })
}

// Value реализует интерфейс driver.Valuer для NullableStringArray
func (o NullableStringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// BoolArray - массив булевых значений (эталонные ответы TRUE_FALSE_TABLE)
type BoolArray []bool

// Scan реализует интерфейс sql.Scanner для BoolArray
func (o *BoolArray) Scan(value interface{}) error {
	return scanJSONB(value, o, func() { *o = BoolArray{} })
}

// Value реализует интерфейс driver.Valuer для BoolArray
func (o BoolArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// TriStateArray - массив ответов пользователя на под-вопросы:
// true, false или nil (нет ответа).
type TriStateArray []*bool

// Scan реализует интерфейс sql.Scanner для TriStateArray
func (o *TriStateArray) Scan(value interface{}) error {
	return scanJSONB(value, o, func() { *o = TriStateArray{} })
}

// Value реализует интерфейс driver.Valuer для TriStateArray
func (o TriStateArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// UintArray - массив идентификаторов (порядок вопросов в результате)
type UintArray []uint

// Scan реализует интерфейс sql.Scanner для UintArray
func (o *UintArray) Scan(value interface{}) error {
	return scanJSONB(value, o, func() { *o = UintArray{} })
}

// Value реализует интерфейс driver.Valuer для UintArray
func (o UintArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// AnswerMap - снимок ответов пользователя: questionId -> буква(ы) ответа
type AnswerMap map[uint]string

// Scan реализует интерфейс sql.Scanner для AnswerMap
func (o *AnswerMap) Scan(value interface{}) error {
	return scanJSONB(value, o, func() { *o = AnswerMap{} })
}

// Value реализует интерфейс driver.Valuer для AnswerMap
func (o AnswerMap) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(o)
}

// SubAnswerMap - снимок ответов на под-вопросы: questionId -> [true|false|null]
type SubAnswerMap map[uint]TriStateArray

// Scan реализует интерфейс sql.Scanner для SubAnswerMap
func (o *SubAnswerMap) Scan(value interface{}) error {
	return scanJSONB(value, o, func() { *o = SubAnswerMap{} })
}

// Value реализует интерфейс driver.Valuer для SubAnswerMap
func (o SubAnswerMap) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(o)
}

// scanJSONB - общая реализация Scan для JSONB-типов.
// NULL и пустые значения из базы превращаются в пустую коллекцию.
func scanJSONB(value interface{}, dest interface{}, reset func()) error {
	if value == nil {
		reset()
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONB value: expected []byte or string")
	}

	if len(bytes) == 0 {
		reset()
		return nil
	}

	return json.Unmarshal(bytes, dest)
}
