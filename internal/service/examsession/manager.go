package examsession

import (
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// Manager владеет единственной изменяемой сессией. Каждый переход
// применяется целиком под мьютексом: никакой другой мутатор не может
// увидеть или породить наполовину обновлённую сессию. После каждой
// мутации снимок сессии уходит в кеш (поддержка резюме); ошибка снимка
// не фатальна и только логируется.
type Manager struct {
	mu      sync.RWMutex
	session *Session

	config *Config
	deps   *Dependencies
}

// NewManager создает новый движок сессий
func NewManager(config *Config, deps *Dependencies) *Manager {
	return &Manager{
		config: config,
		deps:   deps,
	}
}

// Start начинает новую сессию, вытесняя предыдущую.
// Вопросы обязаны быть конкатенацией выборок предметов в порядке configs;
// отбор и перемешивание - забота вызывающего кода.
func (m *Manager) Start(name string, configs []entity.SubjectConfig, questions []entity.Question) (*Session, error) {
	if len(configs) == 0 {
		return nil, errors.New("at least one subject config is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = &Session{
		SessionID:          uuid.NewString(),
		Name:               name,
		Configs:            configs,
		Questions:          questions,
		Answers:            map[uint]Answer{},
		TimeLeft:           configs[0].Time * 60,
		IsFinished:         false,
		IsPaused:           false,
		AccumulatedResults: []entity.SubjectResult{},
	}
	m.snapshotLocked()

	log.Printf("[ExamSession] Сессия %s начата: %d предметов, %d вопросов",
		m.session.SessionID, len(configs), len(questions))
	return m.copyLocked(), nil
}

// Current возвращает копию текущей сессии или nil
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copyLocked()
}

// UpdateAnswer перезаписывает ответ на вопрос с выбором варианта.
// Ответ на неизвестный id просто записывается: валидация против типа вопроса
// выполняется при подсчёте, не здесь.
func (m *Manager) UpdateAnswer(questionID uint, letter string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return apperrors.ErrNoSession
	}
	m.session.Answers[questionID] = Answer{Choice: letter}
	m.snapshotLocked()
	return nil
}

// UpdateSubAnswer записывает ответ на одно утверждение вопроса
// TRUE_FALSE_TABLE; остальные утверждения сохраняют прежние значения
func (m *Manager) UpdateSubAnswer(questionID uint, index int, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return apperrors.ErrNoSession
	}
	if index < 0 {
		return apperrors.ErrValidation
	}

	answer := m.session.Answers[questionID]
	for len(answer.Sub) <= index {
		answer.Sub = append(answer.Sub, nil)
	}
	v := value
	answer.Sub[index] = &v
	m.session.Answers[questionID] = answer
	m.snapshotLocked()
	return nil
}

// DecrementTime уменьшает оставшееся время на секунду с зажимом на нуле.
// Ничего не делает для завершённой или приостановленной сессии.
// Возвращает true, когда время только что истекло (переход в ноль):
// сигнал внешнему планировщику принудительно отправить предмет.
func (m *Manager) DecrementTime() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.IsFinished || m.session.IsPaused {
		return false
	}
	if m.session.TimeLeft <= 0 {
		m.session.TimeLeft = 0
		return false
	}
	m.session.TimeLeft--
	m.snapshotLocked()
	return m.session.TimeLeft == 0
}

// Pause приостанавливает сессию
func (m *Manager) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return apperrors.ErrNoSession
	}
	m.session.IsPaused = true
	m.snapshotLocked()
	return nil
}

// Resume возобновляет приостановленную сессию
func (m *Manager) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return apperrors.ErrNoSession
	}
	if !m.session.IsFinished {
		m.session.IsPaused = false
	}
	m.snapshotLocked()
	return nil
}

// CompleteSubject записывает итог активного предмета. Метод только
// добавляет результат: решение "есть ли ещё предметы" и сброс таймера -
// ответственность вызывающего кода (NextSubject), потому что между этими
// шагами показывается промежуточный экран завершения предмета.
func (m *Manager) CompleteSubject(result entity.SubjectResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return apperrors.ErrNoSession
	}
	m.session.AccumulatedResults = append(m.session.AccumulatedResults, result)
	m.snapshotLocked()

	log.Printf("[ExamSession] Предмет %q завершён: %d/%d, балл %.1f",
		result.SubjectName, result.CorrectCount, result.TotalQuestions, result.Score)
	return nil
}

// NextSubject переводит таймер на следующий предмет.
// Индекс следующего предмета выводится из числа завершённых.
func (m *Manager) NextSubject() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return apperrors.ErrNoSession
	}
	idx := m.session.ActiveSubjectIndex()
	if idx >= len(m.session.Configs) {
		return apperrors.ErrConflict // все предметы уже завершены
	}
	m.session.TimeLeft = m.session.Configs[idx].Time * 60
	m.snapshotLocked()
	return nil
}

// Finish помечает сессию завершённой (терминальное состояние)
func (m *Manager) Finish() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return apperrors.ErrNoSession
	}
	m.session.IsFinished = true
	m.session.IsPaused = true
	m.snapshotLocked()

	log.Printf("[ExamSession] Сессия %s завершена", m.session.SessionID)
	return nil
}

// Clear уничтожает состояние сессии. Безопасен в любом состоянии.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	if m.deps.CacheRepo != nil {
		if err := m.deps.CacheRepo.Delete(snapshotKey); err != nil {
			log.Printf("[ExamSession] Не удалось удалить снимок сессии: %v", err)
		}
	}
}

// Restore поднимает незавершённую сессию из снимка в кеше.
// Отсутствие снимка - не ошибка.
func (m *Manager) Restore() error {
	if m.deps.CacheRepo == nil {
		return nil
	}

	var restored Session
	err := m.deps.CacheRepo.GetJSON(snapshotKey, &restored)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if restored.Answers == nil {
		restored.Answers = map[uint]Answer{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &restored
	log.Printf("[ExamSession] Сессия %s восстановлена из снимка (%d предметов, осталось %d сек.)",
		restored.SessionID, len(restored.Configs), restored.TimeLeft)
	return nil
}

// snapshotLocked сохраняет снимок сессии в кеш; вызывается под мьютексом
func (m *Manager) snapshotLocked() {
	if m.deps.CacheRepo == nil || m.session == nil {
		return
	}
	if err := m.deps.CacheRepo.SetJSON(snapshotKey, m.session, m.config.SnapshotTTL); err != nil {
		log.Printf("[ExamSession] Не удалось сохранить снимок сессии: %v", err)
	}
}

// copyLocked возвращает копию сессии; карта ответов копируется, чтобы
// читатель не делил изменяемое состояние с менеджером
func (m *Manager) copyLocked() *Session {
	if m.session == nil {
		return nil
	}
	copied := *m.session
	copied.Answers = make(map[uint]Answer, len(m.session.Answers))
	for k, v := range m.session.Answers {
		copied.Answers[k] = v
	}
	copied.AccumulatedResults = append([]entity.SubjectResult(nil), m.session.AccumulatedResults...)
	return &copied
}
