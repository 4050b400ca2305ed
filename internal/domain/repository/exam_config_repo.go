package repository

import (
	"github.com/yourusername/onthi-api/internal/domain/entity"
)

// ExamConfigRepository определяет методы для работы с шаблонами экзаменов
type ExamConfigRepository interface {
	Create(config *entity.ExamConfig) error
	GetByID(id uint) (*entity.ExamConfig, error)
	GetAll() ([]entity.ExamConfig, error)
	Update(config *entity.ExamConfig) error
	Delete(id uint) error
}
