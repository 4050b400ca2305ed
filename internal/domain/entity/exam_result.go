package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// SubjectResult - итог одного предмета внутри многопредметного экзамена
type SubjectResult struct {
	SubjectID      uint    `json:"subjectId"`
	SubjectName    string  `json:"subjectName"`
	Score          float64 `json:"score"`
	CorrectCount   int     `json:"correctCount"`
	TotalQuestions int     `json:"totalQuestions"`
	Passed         bool    `json:"passed"`
}

// SubjectResultList - JSONB-список итогов по предметам
type SubjectResultList []SubjectResult

// Scan реализует интерфейс sql.Scanner для SubjectResultList
func (o *SubjectResultList) Scan(value interface{}) error {
	return scanJSONB(value, o, func() { *o = SubjectResultList{} })
}

// Value реализует интерфейс driver.Valuer для SubjectResultList
func (o SubjectResultList) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// ExamResult представляет неизменяемую запись о завершённой попытке экзамена.
// Создаётся один раз при завершении сессии; после этого возможно только
// удаление. QuestionIDs сохраняет порядок вопросов для точного повтора
// в режиме просмотра.
type ExamResult struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	SubjectID      uint              `gorm:"not null;index" json:"subjectId"`
	SubjectName    string            `gorm:"size:255;not null" json:"subjectName"`
	Score          float64           `gorm:"not null;default:0" json:"score"`
	CorrectCount   int               `gorm:"not null;default:0" json:"correctCount"`
	TotalQuestions int               `gorm:"not null;default:0" json:"totalQuestions"`
	Timestamp      time.Time         `gorm:"not null;index" json:"timestamp"`
	SessionID      string            `gorm:"size:64;not null;uniqueIndex" json:"sessionId"`
	ExamName       *string           `gorm:"size:255" json:"examName"`
	QuestionIDs    UintArray         `gorm:"type:jsonb;not null" json:"questionIds"`
	UserAnswers    AnswerMap         `gorm:"type:jsonb;not null" json:"userAnswers"`
	UserSubAnswers SubAnswerMap      `gorm:"type:jsonb;not null" json:"userSubAnswers"`
	IsMultiSubject bool              `gorm:"not null;default:false" json:"isMultiSubject"`
	SubjectResults SubjectResultList `gorm:"type:jsonb;not null" json:"subjectResults"`
	Passed         bool              `gorm:"not null;default:false" json:"passed"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// TableName определяет имя таблицы для GORM
func (ExamResult) TableName() string {
	return "exam_results"
}
