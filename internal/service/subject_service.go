package service

import (
	"fmt"
	"log"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	"github.com/yourusername/onthi-api/internal/domain/repository"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// SubjectNode - предмет с числом вопросов его поддерева
type SubjectNode struct {
	entity.Subject
	QuestionCount int64 `json:"questionCount"`
}

// SubjectService управляет деревом предметов
type SubjectService struct {
	subjectRepo  repository.SubjectRepository
	questionRepo repository.QuestionRepository
}

// NewSubjectService создает новый сервис предметов
func NewSubjectService(
	subjectRepo repository.SubjectRepository,
	questionRepo repository.QuestionRepository,
) *SubjectService {
	return &SubjectService{
		subjectRepo:  subjectRepo,
		questionRepo: questionRepo,
	}
}

// Create создает предмет. Родитель, если указан, обязан существовать.
func (s *SubjectService) Create(subject *entity.Subject) error {
	if subject.Name == "" {
		return fmt.Errorf("%w: subject name is required", apperrors.ErrValidation)
	}
	if subject.ParentID != nil {
		if _, err := s.subjectRepo.GetByID(*subject.ParentID); err != nil {
			return fmt.Errorf("%w: parent subject %d does not exist", apperrors.ErrValidation, *subject.ParentID)
		}
	}
	return s.subjectRepo.Create(subject)
}

// GetByID возвращает предмет по id
func (s *SubjectService) GetByID(id uint) (*entity.Subject, error) {
	return s.subjectRepo.GetByID(id)
}

// GetAll возвращает все предметы с числом вопросов в поддереве каждого
func (s *SubjectService) GetAll() ([]SubjectNode, error) {
	subjects, err := s.subjectRepo.GetAll()
	if err != nil {
		return nil, err
	}

	nodes := make([]SubjectNode, 0, len(subjects))
	for _, subject := range subjects {
		ids, err := s.subjectRepo.DescendantIDs(subject.ID)
		if err != nil {
			return nil, err
		}
		count, err := s.questionRepo.CountBySubjectIDs(ids)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, SubjectNode{Subject: subject, QuestionCount: count})
	}
	return nodes, nil
}

// Update обновляет предмет. Перенос под собственного потомка отклоняется:
// такой parent_id зациклил бы дерево.
func (s *SubjectService) Update(subject *entity.Subject) error {
	if subject.Name == "" {
		return fmt.Errorf("%w: subject name is required", apperrors.ErrValidation)
	}
	if subject.ParentID != nil {
		descendants, err := s.subjectRepo.DescendantIDs(subject.ID)
		if err != nil {
			return err
		}
		for _, id := range descendants {
			if id == *subject.ParentID {
				return fmt.Errorf("%w: cannot move subject under its own descendant", apperrors.ErrValidation)
			}
		}
	}
	return s.subjectRepo.Update(subject)
}

// Delete удаляет предмет вместе с потомками и всеми их вопросами
func (s *SubjectService) Delete(id uint) error {
	ids, err := s.subjectRepo.DescendantIDs(id)
	if err != nil {
		return err
	}

	questions, err := s.questionRepo.GetBySubjectIDs(ids)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if err := s.questionRepo.Delete(q.ID); err != nil {
			return err
		}
	}

	// Потомки раньше корня, чтобы не осталось висячих parent_id
	for i := len(ids) - 1; i >= 0; i-- {
		if err := s.subjectRepo.Delete(ids[i]); err != nil {
			return err
		}
	}

	log.Printf("[SubjectService] Удален предмет #%d: %d узлов, %d вопросов", id, len(ids), len(questions))
	return nil
}
