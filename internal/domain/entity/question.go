package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Типы вопросов
const (
	TypeMultipleChoice = "MULTIPLE_CHOICE"
	TypeTrueFalse      = "TRUE_FALSE"
	TypeTrueFalseTable = "TRUE_FALSE_TABLE"
)

// Статусы изучения вопроса
const (
	StatusNew      = 0 // Новый
	StatusMastered = 1 // Выучен
	StatusWrong    = 2 // Часто ошибается
)

// Question представляет вопрос в банке вопросов.
//
// Для MULTIPLE_CHOICE заполняются Options/OptionImages/CorrectAnswers,
// для TRUE_FALSE CorrectAnswers содержит ровно одно значение TRUE или FALSE,
// для TRUE_FALSE_TABLE заполняются SubQuestions/SubAnswers, а Options и
// CorrectAnswers остаются пустыми.
type Question struct {
	ID               uint                `gorm:"primaryKey" json:"id"`
	SubjectID        uint                `gorm:"not null;index" json:"subjectId"`
	Content          string              `gorm:"type:text;not null" json:"content"`
	QuestionType     string              `gorm:"size:32;not null;default:'MULTIPLE_CHOICE';index" json:"questionType"`
	Options          StringArray         `gorm:"type:jsonb;not null" json:"options"`
	OptionImages     NullableStringArray `gorm:"type:jsonb;not null" json:"optionImages"`
	SubQuestions     StringArray         `gorm:"type:jsonb;not null" json:"subQuestions"`
	SubAnswers       BoolArray           `gorm:"type:jsonb;not null" json:"subAnswers"`
	CorrectAnswers   StringArray         `gorm:"type:jsonb;not null" json:"correctAnswers"`
	Explanation      *string             `gorm:"type:text" json:"explanation"`
	Image            *string             `gorm:"type:text" json:"image"`
	ExplanationImage *string             `gorm:"type:text" json:"explanationImage"`
	Status           int                 `gorm:"not null;default:0;index" json:"status"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// OptionLetter возвращает букву варианта ответа по индексу: 0 -> "A", 1 -> "B" и т.д.
func OptionLetter(index int) string {
	return string(rune('A' + index))
}

// Validate проверяет инварианты вопроса в зависимости от его типа
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Content) == "" {
		return fmt.Errorf("question content is empty")
	}

	switch q.QuestionType {
	case TypeMultipleChoice:
		if len(q.Options) != len(q.OptionImages) {
			return fmt.Errorf("options length %d does not match option images length %d",
				len(q.Options), len(q.OptionImages))
		}
		for _, letter := range q.CorrectAnswers {
			if len(letter) != 1 {
				return fmt.Errorf("correct answer %q is not a valid option letter", letter)
			}
			idx := int(letter[0] - 'A')
			if idx < 0 || idx >= len(q.Options) {
				return fmt.Errorf("correct answer %q is not a valid option letter", letter)
			}
		}
	case TypeTrueFalse:
		if len(q.CorrectAnswers) != 1 || (q.CorrectAnswers[0] != "TRUE" && q.CorrectAnswers[0] != "FALSE") {
			return fmt.Errorf("TRUE_FALSE question must have exactly one answer TRUE or FALSE")
		}
	case TypeTrueFalseTable:
		if len(q.SubQuestions) != len(q.SubAnswers) {
			return fmt.Errorf("sub questions length %d does not match sub answers length %d",
				len(q.SubQuestions), len(q.SubAnswers))
		}
	default:
		return fmt.Errorf("unknown question type %q", q.QuestionType)
	}
	return nil
}

// IsAnswerCorrect проверяет ответ пользователя для вопросов с выбором варианта.
// Одиночный выбор - буква должна входить в CorrectAnswers; множественный выбор -
// отсортированная конкатенация букв пользователя должна точно совпадать с
// отсортированной конкатенацией CorrectAnswers.
func (q *Question) IsAnswerCorrect(answer string) bool {
	if answer == "" {
		return false
	}
	if len(q.CorrectAnswers) > 1 {
		return sortLetters(answer) == sortLetters(strings.Join(q.CorrectAnswers, ""))
	}
	for _, correct := range q.CorrectAnswers {
		if answer == correct {
			return true
		}
	}
	return false
}

// ScoringItems возвращает число оцениваемых элементов вопроса:
// каждый под-вопрос TRUE_FALSE_TABLE считается отдельным элементом,
// любой другой вопрос - одним элементом.
func (q *Question) ScoringItems() int {
	if q.QuestionType == TypeTrueFalseTable {
		return len(q.SubAnswers)
	}
	return 1
}

func sortLetters(s string) string {
	letters := strings.Split(s, "")
	sort.Strings(letters)
	return strings.Join(letters, "")
}
