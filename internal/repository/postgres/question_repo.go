package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// CreateBatch создает пакет вопросов одной вставкой
func (r *QuestionRepo) CreateBatch(questions []entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Устанавливаем кодировку UTF-8 внутри транзакции
		if err := tx.Exec("SET CLIENT_ENCODING TO 'UTF8'").Error; err != nil {
			return err
		}
		return tx.Create(&questions).Error
	})
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByIDs возвращает вопросы по списку ID; отсутствующие id молча пропускаются
func (r *QuestionRepo) GetByIDs(ids []uint) ([]entity.Question, error) {
	if len(ids) == 0 {
		return []entity.Question{}, nil
	}
	var questions []entity.Question
	err := r.db.Where("id IN ?", ids).Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// GetBySubjectIDs возвращает вопросы перечисленных предметов
func (r *QuestionRepo) GetBySubjectIDs(subjectIDs []uint) ([]entity.Question, error) {
	if len(subjectIDs) == 0 {
		return []entity.Question{}, nil
	}
	var questions []entity.Question
	err := r.db.Where("subject_id IN ?", subjectIDs).Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// GetBySubjectAndStatus возвращает вопросы предметов с заданным статусом изучения
func (r *QuestionRepo) GetBySubjectAndStatus(subjectIDs []uint, status int) ([]entity.Question, error) {
	if len(subjectIDs) == 0 {
		return []entity.Question{}, nil
	}
	var questions []entity.Question
	err := r.db.Where("subject_id IN ? AND status = ?", subjectIDs, status).Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// GetAll возвращает все вопросы (используется резервным копированием)
func (r *QuestionRepo) GetAll() ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// Update обновляет информацию о вопросе
func (r *QuestionRepo) Update(question *entity.Question) error {
	return r.db.Save(question).Error
}

// UpdateStatus обновляет статус изучения вопроса
func (r *QuestionRepo) UpdateStatus(id uint, status int) error {
	result := r.db.Model(&entity.Question{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет вопрос
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Question{}, id).Error
}

// CountBySubjectIDs возвращает количество вопросов перечисленных предметов
func (r *QuestionRepo) CountBySubjectIDs(subjectIDs []uint) (int64, error) {
	if len(subjectIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&entity.Question{}).Where("subject_id IN ?", subjectIDs).Count(&count).Error
	return count, err
}
