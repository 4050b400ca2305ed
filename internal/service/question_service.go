package service

import (
	"fmt"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	"github.com/yourusername/onthi-api/internal/domain/repository"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// QuestionService управляет банком вопросов
type QuestionService struct {
	subjectRepo  repository.SubjectRepository
	questionRepo repository.QuestionRepository
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(
	subjectRepo repository.SubjectRepository,
	questionRepo repository.QuestionRepository,
) *QuestionService {
	return &QuestionService{
		subjectRepo:  subjectRepo,
		questionRepo: questionRepo,
	}
}

// Create создает вопрос под существующим предметом
func (s *QuestionService) Create(question *entity.Question) error {
	if err := question.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if _, err := s.subjectRepo.GetByID(question.SubjectID); err != nil {
		return fmt.Errorf("%w: subject %d does not exist", apperrors.ErrValidation, question.SubjectID)
	}
	return s.questionRepo.Create(question)
}

// GetByID возвращает вопрос по id
func (s *QuestionService) GetByID(id uint) (*entity.Question, error) {
	return s.questionRepo.GetByID(id)
}

// GetBySubject возвращает вопросы поддерева предмета, опционально
// отфильтрованные по статусу изучения (-1 - без фильтра)
func (s *QuestionService) GetBySubject(subjectID uint, status int) ([]entity.Question, error) {
	ids, err := s.subjectRepo.DescendantIDs(subjectID)
	if err != nil {
		return nil, err
	}
	if status < 0 {
		return s.questionRepo.GetBySubjectIDs(ids)
	}
	return s.questionRepo.GetBySubjectAndStatus(ids, status)
}

// Update обновляет вопрос
func (s *QuestionService) Update(question *entity.Question) error {
	if err := question.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if _, err := s.questionRepo.GetByID(question.ID); err != nil {
		return err
	}
	return s.questionRepo.Update(question)
}

// UpdateStatus помечает вопрос как новый, выученный или часто ошибаемый
func (s *QuestionService) UpdateStatus(id uint, status int) error {
	switch status {
	case entity.StatusNew, entity.StatusMastered, entity.StatusWrong:
	default:
		return fmt.Errorf("%w: unknown question status %d", apperrors.ErrValidation, status)
	}
	return s.questionRepo.UpdateStatus(id, status)
}

// Delete удаляет вопрос
func (s *QuestionService) Delete(id uint) error {
	return s.questionRepo.Delete(id)
}
