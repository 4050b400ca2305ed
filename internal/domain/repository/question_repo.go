package repository

import (
	"github.com/yourusername/onthi-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetByIDs возвращает найденные вопросы без гарантии порядка;
	// восстановление порядка - забота вызывающего кода.
	GetByIDs(ids []uint) ([]entity.Question, error)
	GetBySubjectIDs(subjectIDs []uint) ([]entity.Question, error)
	GetBySubjectAndStatus(subjectIDs []uint, status int) ([]entity.Question, error)
	GetAll() ([]entity.Question, error)
	Update(question *entity.Question) error
	UpdateStatus(id uint, status int) error
	Delete(id uint) error
	CountBySubjectIDs(subjectIDs []uint) (int64, error)
}
