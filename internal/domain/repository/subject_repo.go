package repository

import (
	"github.com/yourusername/onthi-api/internal/domain/entity"
)

// SubjectRepository определяет методы для работы с деревом предметов
type SubjectRepository interface {
	Create(subject *entity.Subject) error
	GetByID(id uint) (*entity.Subject, error)
	GetAll() ([]entity.Subject, error)
	Update(subject *entity.Subject) error
	Delete(id uint) error
	Count() (int64, error)

	// DescendantIDs возвращает id предмета и всех его потомков.
	// Реализация обязана быть устойчивой к циклам в parent_id,
	// которые могут появиться из испорченных импортированных данных.
	DescendantIDs(id uint) ([]uint, error)
}
