package entity

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// UserProfile - локальный профиль пользователя приложения (единственная запись)
type UserProfile struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	FullName       string    `gorm:"size:255;not null;default:''" json:"fullName"`
	Gender         string    `gorm:"size:32;not null;default:''" json:"gender"`
	BirthYear      int       `gorm:"not null;default:0" json:"birthYear"`
	EducationLevel string    `gorm:"size:100;not null;default:''" json:"educationLevel"`
	Avatar         *string   `gorm:"type:text" json:"avatar"` // Data-URL
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TableName определяет имя таблицы для GORM
func (UserProfile) TableName() string {
	return "user_profiles"
}

// IntArray - JSONB-массив целых чисел (дни недели напоминания)
type IntArray []int

// Scan реализует интерфейс sql.Scanner для IntArray
func (o *IntArray) Scan(value interface{}) error {
	return scanJSONB(value, o, func() { *o = IntArray{} })
}

// Value реализует интерфейс driver.Valuer для IntArray
func (o IntArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Reminder - напоминание о занятиях
type Reminder struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"size:500;not null;default:''" json:"message"`
	Time      string    `gorm:"size:8;not null" json:"time"` // HH:mm
	Days      IntArray  `gorm:"type:jsonb;not null" json:"days"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName определяет имя таблицы для GORM
func (Reminder) TableName() string {
	return "reminders"
}

// PropertyOption - пользовательское значение справочника (level/type/examTerm)
type PropertyOption struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Type      string    `gorm:"size:32;not null;index" json:"type"` // level | type | examTerm
	CreatedAt time.Time `json:"createdAt"`
}

// TableName определяет имя таблицы для GORM
func (PropertyOption) TableName() string {
	return "property_options"
}
