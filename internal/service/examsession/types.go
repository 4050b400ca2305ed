package examsession

import (
	"time"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	"github.com/yourusername/onthi-api/internal/domain/repository"
)

// Константы по умолчанию
const (
	// DefaultRetakeMinutes - время на пересдачу, когда исходное время
	// предмета не сохранилось в результате
	DefaultRetakeMinutes = 45

	// snapshotKey - ключ снимка незавершённой сессии в кеше
	snapshotKey = "exam:session:current"
)

// Config содержит настройки движка сессий
type Config struct {
	// SnapshotTTL - время жизни снимка сессии в кеше (резюме после перезапуска)
	SnapshotTTL time.Duration

	// TickInterval - период тика таймера
	TickInterval time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		SnapshotTTL:  24 * time.Hour,
		TickInterval: time.Second,
	}
}

// Dependencies содержит зависимости движка сессий
type Dependencies struct {
	CacheRepo repository.CacheRepository
}

// Answer - размеченное объединение ответа пользователя, различаемое по типу
// вопроса: Choice для вопросов с выбором варианта, Sub для TRUE_FALSE_TABLE
// (по одному значению true/false/nil на каждое утверждение).
type Answer struct {
	Choice string               `json:"choice,omitempty"`
	Sub    entity.TriStateArray `json:"sub,omitempty"`
}

// Session - живое состояние незавершённой попытки экзамена.
// Вопросы лежат плоским списком: конкатенация выборок предметов в порядке
// конфигураций. Индекс активного предмета НЕ хранится: он всегда равен
// len(AccumulatedResults) - переход к следующему предмету есть чистая функция
// от числа завершённых предметов.
type Session struct {
	SessionID          string                 `json:"sessionId"`
	Name               string                 `json:"name"`
	Configs            []entity.SubjectConfig `json:"configs"`
	Questions          []entity.Question      `json:"questions"`
	Answers            map[uint]Answer        `json:"answers"`
	TimeLeft           int                    `json:"timeLeft"` // Секунды, текущий предмет
	IsFinished         bool                   `json:"isFinished"`
	IsPaused           bool                   `json:"isPaused"`
	AccumulatedResults []entity.SubjectResult `json:"accumulatedResults"`
}

// ActiveSubjectIndex возвращает индекс активного предмета.
// Всегда вычисляется, никогда не хранится.
func (s *Session) ActiveSubjectIndex() int {
	return len(s.AccumulatedResults)
}

// AllSubjectsDone возвращает true, когда завершены все предметы
func (s *Session) AllSubjectsDone() bool {
	return s.ActiveSubjectIndex() >= len(s.Configs)
}

// ActiveConfig возвращает конфигурацию активного предмета
func (s *Session) ActiveConfig() (entity.SubjectConfig, bool) {
	idx := s.ActiveSubjectIndex()
	if idx >= len(s.Configs) {
		return entity.SubjectConfig{}, false
	}
	return s.Configs[idx], true
}

// ActiveQuestions возвращает срез вопросов активного предмета.
// Смещение считается по заявленным счётчикам конфигураций: вопросы были
// сложены последовательно в том же порядке.
func (s *Session) ActiveQuestions() []entity.Question {
	idx := s.ActiveSubjectIndex()
	if idx >= len(s.Configs) {
		return nil
	}
	start := 0
	for i := 0; i < idx; i++ {
		start += s.Configs[i].Count
	}
	if start > len(s.Questions) {
		return nil
	}
	end := start + s.Configs[idx].Count
	if end > len(s.Questions) {
		end = len(s.Questions)
	}
	return s.Questions[start:end]
}
