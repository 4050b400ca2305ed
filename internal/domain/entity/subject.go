package entity

import (
	"time"
)

// Subject представляет узел дерева предметов, под которым хранятся вопросы.
// Дерево образует лес: цепочка ParentID обязана заканчиваться корнем с
// ParentID == nil. Импорт может принести испорченные данные, поэтому обходы
// дерева защищаются от циклов (см. SubjectRepo.DescendantIDs).
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Level     string    `gorm:"size:100;not null;default:''" json:"level"`
	Type      string    `gorm:"size:100;not null;default:''" json:"type"`
	ExamTerm  string    `gorm:"size:100;not null;default:''" json:"examTerm"`
	ParentID  *uint     `gorm:"index" json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName определяет имя таблицы для GORM
func (Subject) TableName() string {
	return "subjects"
}

// IsRoot возвращает true, если предмет является корнем дерева
func (s *Subject) IsRoot() bool {
	return s.ParentID == nil
}
