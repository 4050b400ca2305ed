package service

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	"github.com/yourusername/onthi-api/internal/domain/repository"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
	"github.com/yourusername/onthi-api/internal/service/examsession"
)

// SubmitOutcome - итог отправки активного предмета. Либо промежуточный
// результат предмета (остались ещё предметы), либо финальная запись экзамена.
type SubmitOutcome struct {
	SubjectResult *entity.SubjectResult `json:"subjectResult,omitempty"`
	FinalResult   *entity.ExamResult    `json:"finalResult,omitempty"`
	ExamFinished  bool                  `json:"examFinished"`
}

// ExamService управляет жизненным циклом экзамена поверх движка сессий:
// набирает вопросы, отправляет предметы, фиксирует финальный результат
type ExamService struct {
	subjectRepo  repository.SubjectRepository
	questionRepo repository.QuestionRepository
	resultRepo   repository.ResultRepository
	configRepo   repository.ExamConfigRepository
	sessions     *examsession.Manager

	// submitMu сериализует составной переход "подсчитать-зафиксировать-дальше":
	// отправка пользователем и автоотправка таймера не должны считать один
	// предмет дважды или закрыть экзамен по чужим ответам
	submitMu sync.Mutex
}

// NewExamService создает новый сервис экзаменов
func NewExamService(
	subjectRepo repository.SubjectRepository,
	questionRepo repository.QuestionRepository,
	resultRepo repository.ResultRepository,
	configRepo repository.ExamConfigRepository,
	sessions *examsession.Manager,
) *ExamService {
	return &ExamService{
		subjectRepo:  subjectRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		configRepo:   configRepo,
		sessions:     sessions,
	}
}

// Start набирает вопросы и запускает новую сессию. Для каждого предмета
// берутся вопросы его поддерева, перемешиваются и обрезаются до заявленного
// числа. Если вопросов меньше заявленного, счётчик конфигурации уменьшается
// до фактического: срезы активного предмета считаются по этим счётчикам.
func (s *ExamService) Start(name string, configs []entity.SubjectConfig) (*examsession.Session, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("%w: exam requires at least one subject", apperrors.ErrValidation)
	}

	allQuestions := make([]entity.Question, 0)
	normalized := make([]entity.SubjectConfig, 0, len(configs))

	for _, cfg := range configs {
		if cfg.Count <= 0 || cfg.Time <= 0 {
			return nil, fmt.Errorf("%w: subject %q has invalid count or time", apperrors.ErrValidation, cfg.SubjectName)
		}

		ids, err := s.subjectRepo.DescendantIDs(cfg.SubjectID)
		if err != nil {
			return nil, err
		}
		pool, err := s.questionRepo.GetBySubjectIDs(ids)
		if err != nil {
			return nil, err
		}
		if len(pool) == 0 {
			return nil, fmt.Errorf("%w: subject %q has no questions", apperrors.ErrValidation, cfg.SubjectName)
		}

		rand.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		if len(pool) > cfg.Count {
			pool = pool[:cfg.Count]
		}
		cfg.Count = len(pool)

		allQuestions = append(allQuestions, pool...)
		normalized = append(normalized, cfg)
	}

	return s.sessions.Start(name, normalized, allQuestions)
}

// StartFromConfig запускает экзамен по сохранённому шаблону
func (s *ExamService) StartFromConfig(configID uint) (*examsession.Session, error) {
	config, err := s.configRepo.GetByID(configID)
	if err != nil {
		return nil, err
	}
	return s.Start(config.Name, config.Subjects)
}

// Current возвращает копию текущей сессии
func (s *ExamService) Current() *examsession.Session {
	return s.sessions.Current()
}

// Pause приостанавливает текущую сессию
func (s *ExamService) Pause() error {
	return s.sessions.Pause()
}

// Resume возобновляет текущую сессию
func (s *ExamService) Resume() error {
	return s.sessions.Resume()
}

// UpdateAnswer записывает ответ на вопрос с выбором варианта
func (s *ExamService) UpdateAnswer(questionID uint, letter string) error {
	return s.sessions.UpdateAnswer(questionID, letter)
}

// UpdateSubAnswer записывает ответ на утверждение табличного вопроса
func (s *ExamService) UpdateSubAnswer(questionID uint, index int, value bool) error {
	return s.sessions.UpdateSubAnswer(questionID, index, value)
}

// SubmitActiveSubject подсчитывает активный предмет и фиксирует его итог.
// Когда завершён последний предмет, сессия закрывается: строится финальная
// запись, сохраняется в хранилище и только затем сессия очищается. Порядок
// "сохранить, потом очистить" гарантирует, что результат не теряется при
// сбое записи: сессия остаётся и отправку можно повторить.
func (s *ExamService) SubmitActiveSubject() (*SubmitOutcome, error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	return s.submitActiveSubjectLocked()
}

func (s *ExamService) submitActiveSubjectLocked() (*SubmitOutcome, error) {
	session := s.sessions.Current()
	if session == nil {
		return nil, apperrors.ErrNoSession
	}

	var subjectResult entity.SubjectResult
	if cfg, ok := session.ActiveConfig(); ok {
		subjectResult = examsession.EvaluateSubject(cfg, session.ActiveQuestions(), session.Answers)
		if err := s.sessions.CompleteSubject(subjectResult); err != nil {
			return nil, err
		}

		session = s.sessions.Current()
		if !session.AllSubjectsDone() {
			if err := s.sessions.NextSubject(); err != nil {
				return nil, err
			}
			return &SubmitOutcome{SubjectResult: &subjectResult}, nil
		}
	} else {
		// Все предметы уже подсчитаны: повторная отправка после сбоя
		// сохранения результата, повторяем только финализацию
		subjectResult = session.AccumulatedResults[len(session.AccumulatedResults)-1]
	}

	if err := s.sessions.Finish(); err != nil {
		return nil, err
	}

	finalResult := examsession.BuildResult(s.sessions.Current())
	if err := s.resultRepo.Save(finalResult); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Результат этой сессии уже сохранён (повторная отправка)
			log.Printf("[ExamService] Результат сессии %s уже сохранён", finalResult.SessionID)
		} else {
			return nil, err
		}
	}
	s.sessions.Clear()

	log.Printf("[ExamService] Экзамен завершён: балл %.1f, сдан: %v", finalResult.Score, finalResult.Passed)
	return &SubmitOutcome{SubjectResult: &subjectResult, FinalResult: finalResult, ExamFinished: true}, nil
}

// AutoSubmit - обработчик истечения времени предмета для таймера сессии.
// Отправляет предмет только если время действительно на нуле: если отправка
// пользователя успела пройти первой и таймер следующего предмета уже
// перезапущен, срабатывание становится пустым.
func (s *ExamService) AutoSubmit() {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	session := s.sessions.Current()
	if session == nil || session.TimeLeft > 0 {
		return
	}
	if _, err := s.submitActiveSubjectLocked(); err != nil {
		log.Printf("[ExamService] Автоотправка по истечении времени не удалась: %v", err)
	}
}

// Abandon прерывает текущую сессию без сохранения результата
func (s *ExamService) Abandon() error {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	if s.sessions.Current() == nil {
		return apperrors.ErrNoSession
	}
	s.sessions.Clear()
	return nil
}
