package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// SubjectConfig описывает один предмет внутри шаблона экзамена:
// сколько вопросов взять и сколько минут на них отводится.
type SubjectConfig struct {
	SubjectID   uint   `json:"subjectId"`
	SubjectName string `json:"subjectName"`
	Count       int    `json:"count"`
	Time        int    `json:"time"` // Минуты
}

// SubjectConfigList - JSONB-список конфигураций предметов
type SubjectConfigList []SubjectConfig

// Scan реализует интерфейс sql.Scanner для SubjectConfigList
func (o *SubjectConfigList) Scan(value interface{}) error {
	return scanJSONB(value, o, func() { *o = SubjectConfigList{} })
}

// Value реализует интерфейс driver.Valuer для SubjectConfigList
func (o SubjectConfigList) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// ExamConfig представляет сохранённый шаблон экзамена (набор предметов).
// Создаётся экраном управления экзаменами, потребляется движком сессий.
type ExamConfig struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"size:255;not null" json:"name"`
	ExamTerm  string            `gorm:"size:100;not null;default:''" json:"examTerm"`
	Level     string            `gorm:"size:100;not null;default:''" json:"level"`
	Subjects  SubjectConfigList `gorm:"type:jsonb;not null" json:"subjects"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// TableName определяет имя таблицы для GORM
func (ExamConfig) TableName() string {
	return "exam_configs"
}
