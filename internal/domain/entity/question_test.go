package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_IsAnswerCorrect_SingleChoice(t *testing.T) {
	// Arrange
	question := &Question{
		ID:             1,
		SubjectID:      1,
		Content:        "Столица Франции?",
		QuestionType:   TypeMultipleChoice,
		Options:        StringArray{"Париж", "Рим", "Берлин", "Мадрид"},
		OptionImages:   NullableStringArray{nil, nil, nil, nil},
		CorrectAnswers: StringArray{"A"},
	}

	// Act & Assert
	assert.True(t, question.IsAnswerCorrect("A"), "IsAnswerCorrect должен вернуть true для правильной буквы")
	assert.False(t, question.IsAnswerCorrect("B"), "IsAnswerCorrect должен вернуть false для неправильной буквы")
	assert.False(t, question.IsAnswerCorrect(""), "Пустой ответ всегда неверен")
}

func TestQuestion_IsAnswerCorrect_MultiSelect(t *testing.T) {
	// Arrange: вопрос с несколькими правильными ответами
	question := &Question{
		QuestionType:   TypeMultipleChoice,
		Options:        StringArray{"1", "2", "3", "4"},
		OptionImages:   NullableStringArray{nil, nil, nil, nil},
		CorrectAnswers: StringArray{"B", "A"},
	}

	// Act & Assert: сравнивается отсортированная конкатенация букв
	assert.True(t, question.IsAnswerCorrect("AB"), "Отсортированный набор букв должен совпадать")
	assert.True(t, question.IsAnswerCorrect("BA"), "Порядок букв пользователя не важен")
	assert.False(t, question.IsAnswerCorrect("A"), "Неполный набор букв неверен")
	assert.False(t, question.IsAnswerCorrect("ABC"), "Лишняя буква делает ответ неверным")
}

func TestQuestion_ScoringItems(t *testing.T) {
	// Arrange
	table := &Question{
		QuestionType: TypeTrueFalseTable,
		SubQuestions: StringArray{"a", "b", "c"},
		SubAnswers:   BoolArray{true, false, true},
	}
	choice := &Question{QuestionType: TypeMultipleChoice}

	// Act & Assert: каждый под-вопрос таблицы - отдельный элемент
	assert.Equal(t, 3, table.ScoringItems())
	assert.Equal(t, 1, choice.ScoringItems())
}

func TestQuestion_Validate(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		wantErr  bool
	}{
		{
			name: "валидный MULTIPLE_CHOICE",
			question: Question{
				Content:        "2+2?",
				QuestionType:   TypeMultipleChoice,
				Options:        StringArray{"3", "4"},
				OptionImages:   NullableStringArray{nil, nil},
				CorrectAnswers: StringArray{"B"},
			},
			wantErr: false,
		},
		{
			name: "несовпадение длин options и optionImages",
			question: Question{
				Content:        "2+2?",
				QuestionType:   TypeMultipleChoice,
				Options:        StringArray{"3", "4"},
				OptionImages:   NullableStringArray{nil},
				CorrectAnswers: StringArray{"A"},
			},
			wantErr: true,
		},
		{
			name: "буква ответа вне диапазона вариантов",
			question: Question{
				Content:        "2+2?",
				QuestionType:   TypeMultipleChoice,
				Options:        StringArray{"3", "4"},
				OptionImages:   NullableStringArray{nil, nil},
				CorrectAnswers: StringArray{"C"},
			},
			wantErr: true,
		},
		{
			name: "валидный TRUE_FALSE",
			question: Question{
				Content:        "Земля круглая?",
				QuestionType:   TypeTrueFalse,
				CorrectAnswers: StringArray{"TRUE"},
			},
			wantErr: false,
		},
		{
			name: "TRUE_FALSE с несколькими ответами",
			question: Question{
				Content:        "?",
				QuestionType:   TypeTrueFalse,
				CorrectAnswers: StringArray{"TRUE", "FALSE"},
			},
			wantErr: true,
		},
		{
			name: "TRUE_FALSE_TABLE с разной длиной под-вопросов и ответов",
			question: Question{
				Content:      "Отметьте верные утверждения",
				QuestionType: TypeTrueFalseTable,
				SubQuestions: StringArray{"a", "b"},
				SubAnswers:   BoolArray{true},
			},
			wantErr: true,
		},
		{
			name: "пустое содержимое",
			question: Question{
				Content:      "   ",
				QuestionType: TypeMultipleChoice,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.question.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOptionLetter(t *testing.T) {
	require.Equal(t, "A", OptionLetter(0))
	require.Equal(t, "B", OptionLetter(1))
	require.Equal(t, "H", OptionLetter(7))
}
