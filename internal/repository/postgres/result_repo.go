package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий результатов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Save сохраняет результат завершённой сессии.
// sessionId уникален: повторная запись того же результата - конфликт состояния.
func (r *ResultRepo) Save(result *entity.ExamResult) error {
	err := r.db.Create(result).Error
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}

// GetByID возвращает результат по ID
func (r *ResultRepo) GetByID(id uint) (*entity.ExamResult, error) {
	var result entity.ExamResult
	err := r.db.First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetAll возвращает страницу результатов, новые первыми
func (r *ResultRepo) GetAll(limit, offset int) ([]entity.ExamResult, int64, error) {
	var results []entity.ExamResult
	var total int64

	if err := r.db.Model(&entity.ExamResult{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// Delete удаляет результат
func (r *ResultRepo) Delete(id uint) error {
	return r.db.Delete(&entity.ExamResult{}, id).Error
}
