// Package importer нормализует четыре входных формата банка вопросов
// (zip-архив, свободный JSON, таблица Excel, текстовый документ) в единое
// промежуточное представление. Нормализаторы никогда не пишут в хранилище:
// они возвращают черновики, которые сохраняет оркестратор импорта.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// Format определяет входной формат импорта
type Format string

const (
	FormatArchive  Format = "archive"  // zip: metadata.json + questions.json + images/
	FormatJSON     Format = "json"     // свободный JSON с историческими псевдонимами полей
	FormatExcel    Format = "excel"    // xlsx с фиксированными позициями колонок
	FormatDocument Format = "document" // извлечённый текст (docx или txt)
)

// SubjectDraft - черновик предмета из архива. Id здесь - идентификаторы
// исходного файла; новые id присваивает хранилище при вставке, а оркестратор
// держит соответствие старый -> новый только на время одного импорта.
type SubjectDraft struct {
	SourceID       uint
	ParentSourceID *uint
	Name           string
	Level          string
	Type           string
	ExamTerm       string
}

// ParseResult - результат работы нормализатора. В Questions поле SubjectID
// содержит id исходного файла (архив) либо 0; окончательную привязку к
// предмету выполняет оркестратор.
type ParseResult struct {
	Subjects  []SubjectDraft
	Questions []entity.Question
}

// Normalizer - способность "разобрать сырые байты в черновики вопросов".
// Структурные проблемы (нет обязательной секции, байты не парсятся) -
// apperrors.ErrFormat; отдельные испорченные записи молча пропускаются.
type Normalizer interface {
	Parse(data []byte) (*ParseResult, error)
}

// DetectFormat определяет формат по расширению имени файла
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		return FormatArchive, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx", ".xls":
		return FormatExcel, nil
	case ".docx", ".txt":
		return FormatDocument, nil
	}
	return "", fmt.Errorf("%w: unsupported file extension %q", apperrors.ErrFormat, filepath.Ext(filename))
}

// ForFormat возвращает нормализатор для формата
func ForFormat(format Format) (Normalizer, error) {
	switch format {
	case FormatArchive:
		return NewArchiveNormalizer(), nil
	case FormatJSON:
		return NewJSONNormalizer(), nil
	case FormatExcel:
		return NewExcelNormalizer(), nil
	case FormatDocument:
		return NewDocumentNormalizer(), nil
	}
	return nil, fmt.Errorf("%w: unknown format %q", apperrors.ErrFormat, format)
}

// padOptionImages дополняет массив картинок вариантов до длины options,
// чтобы сохранить инвариант options.length == optionImages.length
func padOptionImages(images entity.NullableStringArray, optionCount int) entity.NullableStringArray {
	if images == nil {
		images = entity.NullableStringArray{}
	}
	for len(images) < optionCount {
		images = append(images, nil)
	}
	return images[:optionCount]
}
