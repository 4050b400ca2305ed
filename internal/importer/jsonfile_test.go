package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

func TestJSONNormalizer_Parse_ArrayWithAliases(t *testing.T) {
	// Arrange: массив с историческими псевдонимами полей
	data := []byte(`[
		{"Q": "1+1?", "1": "1", "2": "2", "3": "3", "4": "4", "A": "B"},
		{"Q": "capital?", "options": ["Paris", "Rome"], "correctAnswers": ["A"]}
	]`)

	// Act
	result, err := NewJSONNormalizer().Parse(data)

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Questions, 2)

	first := result.Questions[0]
	assert.Equal(t, "1+1?", first.Content)
	assert.Equal(t, entity.StringArray{"1", "2", "3", "4"}, first.Options, "нумерованные ключи собираются в options")
	assert.Equal(t, entity.StringArray{"B"}, first.CorrectAnswers, "строка под ключом A становится correctAnswers")
	assert.Equal(t, entity.TypeMultipleChoice, first.QuestionType, "тип по умолчанию - MULTIPLE_CHOICE")
	assert.Len(t, first.OptionImages, 4, "optionImages дополняется до длины options")

	second := result.Questions[1]
	assert.Equal(t, entity.StringArray{"A"}, second.CorrectAnswers)
}

func TestJSONNormalizer_Parse_QuestionsObject(t *testing.T) {
	// Arrange: форма {questions: [...]}
	data := []byte(`{"questions": [{"content": "x?", "options": ["a", "b"]}]}`)

	// Act
	result, err := NewJSONNormalizer().Parse(data)

	// Assert: correctAnswers по умолчанию ["A"] для MULTIPLE_CHOICE
	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, entity.StringArray{"A"}, result.Questions[0].CorrectAnswers)
}

func TestJSONNormalizer_Parse_KeyedMap(t *testing.T) {
	// Arrange: словарь, значения которого похожи на вопросы
	data := []byte(`{
		"q1": {"Q": "первый?", "options": ["a", "b"]},
		"q2": {"content": "второй?", "options": ["c", "d"]},
		"meta": {"version": 3}
	}`)

	// Act
	result, err := NewJSONNormalizer().Parse(data)

	// Assert: записи без Q/content не считаются вопросами
	require.NoError(t, err)
	assert.Len(t, result.Questions, 2)
}

func TestJSONNormalizer_Parse_FieldAliases(t *testing.T) {
	// Arrange
	data := []byte(`[{
		"Q": "?",
		"options": ["a", "b"],
		"A": "A",
		"img": "main.png",
		"explain": "потому что",
		"img_explain": "expl.png"
	}]`)

	// Act
	result, err := NewJSONNormalizer().Parse(data)

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	q := result.Questions[0]
	require.NotNil(t, q.Image)
	assert.Equal(t, "main.png", *q.Image)
	require.NotNil(t, q.Explanation)
	assert.Equal(t, "потому что", *q.Explanation)
	require.NotNil(t, q.ExplanationImage)
	assert.Equal(t, "expl.png", *q.ExplanationImage)
}

func TestJSONNormalizer_Parse_JunkSkipped(t *testing.T) {
	// Arrange: записи без содержимого молча пропускаются
	data := []byte(`[{"Q": ""}, {"options": ["a", "b"]}, {"Q": "ok?", "options": ["a", "b"]}]`)

	// Act
	result, err := NewJSONNormalizer().Parse(data)

	// Assert
	require.NoError(t, err)
	assert.Len(t, result.Questions, 1)
}

func TestJSONNormalizer_Parse_Malformed(t *testing.T) {
	_, err := NewJSONNormalizer().Parse([]byte("{not json"))
	assert.ErrorIs(t, err, apperrors.ErrFormat)

	_, err = NewJSONNormalizer().Parse([]byte(`"just a string"`))
	assert.ErrorIs(t, err, apperrors.ErrFormat)
}
