package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// SubjectRepo реализует repository.SubjectRepository
type SubjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo создает новый репозиторий предметов
func NewSubjectRepo(db *gorm.DB) *SubjectRepo {
	return &SubjectRepo{db: db}
}

// Create создает новый предмет; id присваивается базой
func (r *SubjectRepo) Create(subject *entity.Subject) error {
	return r.db.Create(subject).Error
}

// GetByID возвращает предмет по ID
func (r *SubjectRepo) GetByID(id uint) (*entity.Subject, error) {
	var subject entity.Subject
	err := r.db.First(&subject, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &subject, nil
}

// GetAll возвращает все предметы
func (r *SubjectRepo) GetAll() ([]entity.Subject, error) {
	var subjects []entity.Subject
	err := r.db.Order("id").Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

// Update обновляет информацию о предмете
func (r *SubjectRepo) Update(subject *entity.Subject) error {
	return r.db.Save(subject).Error
}

// Delete удаляет предмет
func (r *SubjectRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Subject{}, id).Error
}

// Count возвращает количество предметов
func (r *SubjectRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.Subject{}).Count(&count).Error
	return count, err
}

// DescendantIDs возвращает id предмета и всех его потомков.
// Обход выполняется в памяти по полному списку предметов; посещённые id
// отслеживаются, чтобы цикл в parent_id (испорченный импорт) не завесил обход.
func (r *SubjectRepo) DescendantIDs(id uint) ([]uint, error) {
	var subjects []entity.Subject
	if err := r.db.Select("id", "parent_id").Find(&subjects).Error; err != nil {
		return nil, err
	}

	children := make(map[uint][]uint, len(subjects))
	for _, s := range subjects {
		if s.ParentID != nil {
			children[*s.ParentID] = append(children[*s.ParentID], s.ID)
		}
	}

	visited := map[uint]bool{}
	result := []uint{}
	queue := []uint{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		result = append(result, current)
		queue = append(queue, children[current]...)
	}
	return result, nil
}
