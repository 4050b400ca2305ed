package repository

import (
	"github.com/yourusername/onthi-api/internal/domain/entity"
)

// ResultRepository определяет методы для работы с результатами экзаменов
type ResultRepository interface {
	// Save сохраняет результат завершённой сессии. Повторное сохранение
	// результата с тем же sessionId возвращает apperrors.ErrConflict.
	Save(result *entity.ExamResult) error
	GetByID(id uint) (*entity.ExamResult, error)
	// GetAll возвращает результаты в порядке убывания времени завершения
	GetAll(limit, offset int) ([]entity.ExamResult, int64, error)
	Delete(id uint) error
}
