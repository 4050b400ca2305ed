package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// Фиксированный контракт позиций колонок шаблона импорта.
// Должен сохраняться в точности ради совместимости с опубликованным шаблоном.
const (
	colContent      = 0  // содержимое вопроса
	colOptionsFrom  = 2  // варианты ответов: колонки 2-9 (до 8 штук)
	colOptionsTo    = 10 // не включительно
	colAnswers      = 10 // буквы правильных ответов через запятую
	colExplanation  = 11 // пояснение
	colImage        = 12 // основная картинка
	colOptionImgs   = 13 // картинки вариантов: колонки 13-16
	colOptionImgsTo = 17 // не включительно
	colExplImage    = 17 // картинка пояснения
	colSubQuestions = 18 // под-вопросы TRUE_FALSE_TABLE, разделитель '|'
	colSubAnswers   = 19 // T/F маркеры под-вопросов через запятую
)

// ExcelNormalizer разбирает xlsx-таблицу с фиксированными позициями колонок
type ExcelNormalizer struct{}

// NewExcelNormalizer создает нормализатор таблиц
func NewExcelNormalizer() *ExcelNormalizer {
	return &ExcelNormalizer{}
}

// Parse разбирает первый лист книги. Первая строка - заголовки; колонка типа
// ищется по заголовку без учёта регистра, при её отсутствии каждая строка
// считается MULTIPLE_CHOICE. Строки с пустой ячейкой содержимого пропускаются.
func (n *ExcelNormalizer) Parse(data []byte) (*ParseResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: not an xlsx workbook: %v", apperrors.ErrFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", apperrors.ErrFormat)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read sheet %q: %v", apperrors.ErrFormat, sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: workbook is empty or has no data rows", apperrors.ErrFormat)
	}

	// Ищем колонку типа вопроса по заголовку
	typeIdx := -1
	for i, header := range rows[0] {
		lower := strings.ToLower(header)
		if strings.Contains(lower, "type") || strings.Contains(lower, "loại") {
			typeIdx = i
			break
		}
	}

	var questions []entity.Question
	for _, row := range rows[1:] {
		content := cell(row, colContent)
		if content == "" {
			continue
		}

		questionType := entity.TypeMultipleChoice
		if typeIdx != -1 {
			if t := cell(row, typeIdx); t != "" {
				questionType = t
			}
		}

		if questionType == entity.TypeTrueFalseTable {
			questions = append(questions, parseTableRow(row, content))
			continue
		}
		questions = append(questions, parseChoiceRow(row, content, questionType))
	}

	return &ParseResult{Questions: questions}, nil
}

// parseChoiceRow разбирает строку вопроса с выбором варианта
func parseChoiceRow(row []string, content, questionType string) entity.Question {
	options := entity.StringArray{}
	for i := colOptionsFrom; i < colOptionsTo; i++ {
		if v := cell(row, i); v != "" {
			options = append(options, v)
		}
	}

	answers := cell(row, colAnswers)
	if answers == "" {
		answers = "A"
	}
	correctAnswers := entity.StringArray{}
	for _, part := range strings.Split(answers, ",") {
		if trimmed := strings.ToUpper(strings.TrimSpace(part)); trimmed != "" {
			correctAnswers = append(correctAnswers, trimmed)
		}
	}

	optionImages := entity.NullableStringArray{}
	for i := colOptionImgs; i < colOptionImgsTo; i++ {
		if v := cell(row, i); v != "" {
			img := v
			optionImages = append(optionImages, &img)
		} else {
			optionImages = append(optionImages, nil)
		}
	}

	return entity.Question{
		Content:          content,
		QuestionType:     questionType,
		Options:          options,
		OptionImages:     padOptionImages(optionImages, len(options)),
		CorrectAnswers:   correctAnswers,
		SubQuestions:     entity.StringArray{},
		SubAnswers:       entity.BoolArray{},
		Explanation:      optionalCell(row, colExplanation),
		Image:            optionalCell(row, colImage),
		ExplanationImage: optionalCell(row, colExplImage),
		Status:           entity.StatusNew,
	}
}

// parseTableRow разбирает строку TRUE_FALSE_TABLE: под-вопросы в колонке 18
// через '|', маркеры T/F в колонке 19 через запятую
func parseTableRow(row []string, content string) entity.Question {
	subQuestions := entity.StringArray{}
	for _, part := range strings.Split(cell(row, colSubQuestions), "|") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			subQuestions = append(subQuestions, trimmed)
		}
	}

	subAnswers := entity.BoolArray{}
	for _, part := range strings.Split(cell(row, colSubAnswers), ",") {
		marker := strings.ToUpper(strings.TrimSpace(part))
		if marker == "" {
			continue
		}
		subAnswers = append(subAnswers, marker == "T")
	}

	return entity.Question{
		Content:          content,
		QuestionType:     entity.TypeTrueFalseTable,
		Options:          entity.StringArray{},
		OptionImages:     entity.NullableStringArray{},
		CorrectAnswers:   entity.StringArray{},
		SubQuestions:     subQuestions,
		SubAnswers:       subAnswers,
		Explanation:      optionalCell(row, colExplanation),
		Image:            optionalCell(row, colImage),
		ExplanationImage: optionalCell(row, colExplImage),
		Status:           entity.StatusNew,
	}
}

// cell безопасно возвращает значение ячейки: GetRows обрезает короткие строки
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalCell(row []string, idx int) *string {
	if v := cell(row, idx); v != "" {
		return &v
	}
	return nil
}
