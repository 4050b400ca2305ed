package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// buildWorkbook собирает xlsx в памяти из строк значений
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestExcelNormalizer_Parse_FixedColumns(t *testing.T) {
	// Arrange: заголовок с колонкой типа, одна MC-строка с полным контрактом колонок
	header := make([]interface{}, 20)
	header[0] = "Content"
	header[1] = "Type"
	rows := [][]interface{}{
		header,
		{
			"2+2?", "MULTIPLE_CHOICE",
			"3", "4", "5", "6", "", "", "", "", // колонки 2-9: варианты
			"b, a",        // колонка 10: буквы ответов
			"арифметика",  // колонка 11: пояснение
			"main.png",    // колонка 12: картинка
			"", "o2.png", "", "", // колонки 13-16: картинки вариантов
			"expl.png", // колонка 17: картинка пояснения
		},
	}
	data := buildWorkbook(t, rows)

	// Act
	result, err := NewExcelNormalizer().Parse(data)

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	q := result.Questions[0]
	assert.Equal(t, "2+2?", q.Content)
	assert.Equal(t, entity.StringArray{"3", "4", "5", "6"}, q.Options)
	assert.Equal(t, entity.StringArray{"B", "A"}, q.CorrectAnswers, "буквы ответов приводятся к верхнему регистру")
	require.NotNil(t, q.Explanation)
	assert.Equal(t, "арифметика", *q.Explanation)
	require.NotNil(t, q.Image)
	assert.Equal(t, "main.png", *q.Image)
	require.Len(t, q.OptionImages, 4, "картинки вариантов выравниваются по числу вариантов")
	assert.Nil(t, q.OptionImages[0])
	require.NotNil(t, q.OptionImages[1])
	assert.Equal(t, "o2.png", *q.OptionImages[1])
	require.NotNil(t, q.ExplanationImage)
	assert.Equal(t, "expl.png", *q.ExplanationImage)
}

func TestExcelNormalizer_Parse_TrueFalseTableRow(t *testing.T) {
	// Arrange: строка TRUE_FALSE_TABLE с под-вопросами в колонках 18/19
	row := make([]interface{}, 20)
	row[0] = "Отметьте верные утверждения"
	row[1] = "TRUE_FALSE_TABLE"
	row[18] = "первое|второе|третье"
	row[19] = "T, f, t"
	data := buildWorkbook(t, [][]interface{}{
		{"Content", "Type"},
		row,
	})

	// Act
	result, err := NewExcelNormalizer().Parse(data)

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	q := result.Questions[0]
	assert.Equal(t, entity.TypeTrueFalseTable, q.QuestionType)
	assert.Equal(t, entity.StringArray{"первое", "второе", "третье"}, q.SubQuestions)
	assert.Equal(t, entity.BoolArray{true, false, true}, q.SubAnswers)
	assert.Empty(t, q.Options, "у табличного вопроса нет вариантов")
	assert.Empty(t, q.CorrectAnswers)
}

func TestExcelNormalizer_Parse_SkipsEmptyContent(t *testing.T) {
	// Arrange: строка с пустой ячейкой содержимого пропускается
	data := buildWorkbook(t, [][]interface{}{
		{"Content"},
		{"", "x"},
		{"вопрос?", "", "a", "b"},
	})

	// Act
	result, err := NewExcelNormalizer().Parse(data)

	// Assert
	require.NoError(t, err)
	assert.Len(t, result.Questions, 1)
}

func TestExcelNormalizer_Parse_NoTypeColumn(t *testing.T) {
	// Arrange: без колонки типа каждая строка - MULTIPLE_CHOICE
	data := buildWorkbook(t, [][]interface{}{
		{"Content"},
		{"вопрос?", "", "a", "b"},
	})

	// Act
	result, err := NewExcelNormalizer().Parse(data)

	// Assert: при пустой колонке ответов подставляется "A"
	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, entity.TypeMultipleChoice, result.Questions[0].QuestionType)
	assert.Equal(t, entity.StringArray{"A"}, result.Questions[0].CorrectAnswers)
}

func TestExcelNormalizer_Parse_Malformed(t *testing.T) {
	_, err := NewExcelNormalizer().Parse([]byte("not an xlsx"))
	assert.ErrorIs(t, err, apperrors.ErrFormat)

	// Книга только с заголовком - структурная ошибка
	data := buildWorkbook(t, [][]interface{}{{"Content"}})
	_, err = NewExcelNormalizer().Parse(data)
	assert.ErrorIs(t, err, apperrors.ErrFormat)
}
