package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// ExamConfigRepo реализует repository.ExamConfigRepository
type ExamConfigRepo struct {
	db *gorm.DB
}

// NewExamConfigRepo создает новый репозиторий шаблонов экзаменов
func NewExamConfigRepo(db *gorm.DB) *ExamConfigRepo {
	return &ExamConfigRepo{db: db}
}

// Create создает новый шаблон экзамена
func (r *ExamConfigRepo) Create(config *entity.ExamConfig) error {
	return r.db.Create(config).Error
}

// GetByID возвращает шаблон по ID
func (r *ExamConfigRepo) GetByID(id uint) (*entity.ExamConfig, error) {
	var config entity.ExamConfig
	err := r.db.First(&config, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &config, nil
}

// GetAll возвращает все шаблоны экзаменов
func (r *ExamConfigRepo) GetAll() ([]entity.ExamConfig, error) {
	var configs []entity.ExamConfig
	err := r.db.Order("id").Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

// Update обновляет шаблон экзамена
func (r *ExamConfigRepo) Update(config *entity.ExamConfig) error {
	return r.db.Save(config).Error
}

// Delete удаляет шаблон экзамена
func (r *ExamConfigRepo) Delete(id uint) error {
	return r.db.Delete(&entity.ExamConfig{}, id).Error
}
