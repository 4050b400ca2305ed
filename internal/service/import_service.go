package service

import (
	"fmt"
	"log"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	"github.com/yourusername/onthi-api/internal/domain/repository"
	"github.com/yourusername/onthi-api/internal/importer"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// ImportSummary - итог одного импорта
type ImportSummary struct {
	Format            importer.Format `json:"format"`
	SubjectsCreated   int             `json:"subjectsCreated"`
	QuestionsImported int             `json:"questionsImported"`
	QuestionsSkipped  int             `json:"questionsSkipped"`
}

// ImportService - оркестратор импорта: определяет формат, вызывает
// нормализатор и сохраняет черновики в хранилище
type ImportService struct {
	subjectRepo  repository.SubjectRepository
	questionRepo repository.QuestionRepository
}

// NewImportService создает новый сервис импорта
func NewImportService(
	subjectRepo repository.SubjectRepository,
	questionRepo repository.QuestionRepository,
) *ImportService {
	return &ImportService{
		subjectRepo:  subjectRepo,
		questionRepo: questionRepo,
	}
}

// ImportFile выполняет полный цикл импорта одного файла.
//
// Явный targetSubjectID переводит все вопросы на этот предмет независимо от
// иерархии в источнике. Без явной цели архив несёт собственное поддерево
// предметов: черновики вставляются последовательно (родители раньше детей),
// соответствие старый id -> новый id живёт только до конца вызова. Вопрос,
// который не удалось привязать ни к цели, ни к поддереву, получает
// subject_id 0 - маркер "без предмета".
//
// Вставка вопросов выполняется одним batch-запросом после всех предметов.
// Компенсирующего отката предметов при ошибке вставки вопросов нет: частично
// созданное поддерево остаётся и подлежит ручному удалению.
func (s *ImportService) ImportFile(filename string, data []byte, targetSubjectID uint) (*ImportSummary, error) {
	format, err := importer.DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	normalizer, err := importer.ForFormat(format)
	if err != nil {
		return nil, err
	}

	result, err := normalizer.Parse(data)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{Format: format}

	var parentForRoots *uint
	if targetSubjectID != 0 {
		if _, err := s.subjectRepo.GetByID(targetSubjectID); err != nil {
			return nil, fmt.Errorf("%w: target subject %d does not exist", apperrors.ErrValidation, targetSubjectID)
		}
		parentForRoots = &targetSubjectID
	}

	// Соответствие id исходного файла -> id в хранилище
	idMap := map[uint]uint{}

	if len(result.Subjects) > 0 {
		for _, draft := range result.Subjects {
			subject := &entity.Subject{
				Name:     draft.Name,
				Level:    draft.Level,
				Type:     draft.Type,
				ExamTerm: draft.ExamTerm,
			}
			if draft.ParentSourceID != nil {
				if newID, ok := idMap[*draft.ParentSourceID]; ok {
					parentID := newID
					subject.ParentID = &parentID
				} else {
					// Родитель не из этого архива: черновик становится корнем
					subject.ParentID = parentForRoots
				}
			} else {
				subject.ParentID = parentForRoots
			}

			if err := s.subjectRepo.Create(subject); err != nil {
				return nil, fmt.Errorf("%w: failed to create subject %q: %v", apperrors.ErrPersistence, draft.Name, err)
			}
			idMap[draft.SourceID] = subject.ID
			summary.SubjectsCreated++
		}
	}

	questions := make([]entity.Question, 0, len(result.Questions))
	for _, q := range result.Questions {
		if targetSubjectID != 0 {
			// Явная цель важнее иерархии источника
			q.SubjectID = targetSubjectID
		} else if newID, ok := idMap[q.SubjectID]; ok {
			q.SubjectID = newID
		} else {
			// Автопривязка не нашла предмет: вопрос остаётся без предмета
			if q.SubjectID != 0 {
				log.Printf("[ImportService] Вопрос ссылается на неизвестный предмет (исходный id %d), оставляю без предмета", q.SubjectID)
			}
			q.SubjectID = 0
		}

		if err := q.Validate(); err != nil {
			log.Printf("[ImportService] Пропускаю некорректный вопрос: %v", err)
			summary.QuestionsSkipped++
			continue
		}
		q.Status = entity.StatusNew
		questions = append(questions, q)
	}

	if len(questions) > 0 {
		if err := s.questionRepo.CreateBatch(questions); err != nil {
			// Предметы уже вставлены; частичное поддерево остаётся
			log.Printf("[ImportService] Ошибка batch-вставки %d вопросов, создано предметов: %d",
				len(questions), summary.SubjectsCreated)
			return nil, fmt.Errorf("%w: failed to insert questions: %v", apperrors.ErrPersistence, err)
		}
	}
	summary.QuestionsImported = len(questions)

	log.Printf("[ImportService] Импорт %s завершён: предметов %d, вопросов %d, пропущено %d",
		format, summary.SubjectsCreated, summary.QuestionsImported, summary.QuestionsSkipped)
	return summary, nil
}
