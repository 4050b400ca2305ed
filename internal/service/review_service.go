package service

import (
	"log"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	"github.com/yourusername/onthi-api/internal/domain/repository"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
	"github.com/yourusername/onthi-api/internal/service/examsession"
)

// ReviewData - результат вместе с вопросами в порядке их предъявления
type ReviewData struct {
	Result    *entity.ExamResult `json:"result"`
	Questions []entity.Question  `json:"questions"`
}

// ReviewService восстанавливает завершённые попытки для просмотра и пересдачи
type ReviewService struct {
	subjectRepo  repository.SubjectRepository
	questionRepo repository.QuestionRepository
	resultRepo   repository.ResultRepository
	sessions     *examsession.Manager
}

// NewReviewService создает новый сервис просмотра результатов
func NewReviewService(
	subjectRepo repository.SubjectRepository,
	questionRepo repository.QuestionRepository,
	resultRepo repository.ResultRepository,
	sessions *examsession.Manager,
) *ReviewService {
	return &ReviewService{
		subjectRepo:  subjectRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		sessions:     sessions,
	}
}

// LoadForReview возвращает результат и его вопросы в сохранённом порядке.
// Вопросы, удалённые из банка после попытки, молча выпадают из просмотра.
// Старые записи без сохранённого порядка вопросов получают вопросы предмета
// как есть, обрезанные до числа вопросов попытки.
func (s *ReviewService) LoadForReview(resultID uint) (*ReviewData, error) {
	result, err := s.resultRepo.GetByID(resultID)
	if err != nil {
		return nil, err
	}

	questions, err := s.loadQuestions(result)
	if err != nil {
		return nil, err
	}

	return &ReviewData{Result: result, Questions: questions}, nil
}

// Retake запускает новую сессию с теми же вопросами в том же порядке.
// Исходное время предметов в записи результата не хранится, поэтому на
// пересдачу отводится время по умолчанию. Многопредметная попытка
// пересдаётся одной общей секцией.
func (s *ReviewService) Retake(resultID uint) (*examsession.Session, error) {
	result, err := s.resultRepo.GetByID(resultID)
	if err != nil {
		return nil, err
	}

	questions, err := s.loadQuestions(result)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperrors.ErrNotFound
	}

	name := result.SubjectName
	if result.ExamName != nil && *result.ExamName != "" {
		name = *result.ExamName
	}
	configs := []entity.SubjectConfig{
		{
			SubjectID:   result.SubjectID,
			SubjectName: result.SubjectName,
			Count:       len(questions),
			Time:        examsession.DefaultRetakeMinutes,
		},
	}

	log.Printf("[ReviewService] Пересдача результата #%d: %d вопросов", resultID, len(questions))
	return s.sessions.Start(name, configs, questions)
}

// loadQuestions собирает вопросы попытки в порядке их предъявления
func (s *ReviewService) loadQuestions(result *entity.ExamResult) ([]entity.Question, error) {
	if len(result.QuestionIDs) > 0 {
		found, err := s.questionRepo.GetByIDs(result.QuestionIDs)
		if err != nil {
			return nil, err
		}
		byID := make(map[uint]entity.Question, len(found))
		for _, q := range found {
			byID[q.ID] = q
		}

		ordered := make([]entity.Question, 0, len(result.QuestionIDs))
		for _, id := range result.QuestionIDs {
			if q, ok := byID[id]; ok {
				ordered = append(ordered, q)
			}
		}
		if len(ordered) < len(result.QuestionIDs) {
			log.Printf("[ReviewService] Результат #%d: %d из %d вопросов удалены из банка",
				result.ID, len(result.QuestionIDs)-len(ordered), len(result.QuestionIDs))
		}
		return ordered, nil
	}

	// Старый формат записи без порядка вопросов
	ids, err := s.subjectRepo.DescendantIDs(result.SubjectID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.GetBySubjectIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(questions) > result.TotalQuestions && result.TotalQuestions > 0 {
		questions = questions[:result.TotalQuestions]
	}
	return questions, nil
}
