package service

import (
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/onthi-api/internal/domain/entity"
)

// ============================================================================
// Моки репозиториев для сервисных тестов
// ============================================================================

// MockSubjectRepo реализует repository.SubjectRepository
type MockSubjectRepo struct {
	mock.Mock
}

func (m *MockSubjectRepo) Create(subject *entity.Subject) error {
	args := m.Called(subject)
	return args.Error(0)
}

func (m *MockSubjectRepo) GetByID(id uint) (*entity.Subject, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subject), args.Error(1)
}

func (m *MockSubjectRepo) GetAll() ([]entity.Subject, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Subject), args.Error(1)
}

func (m *MockSubjectRepo) Update(subject *entity.Subject) error {
	args := m.Called(subject)
	return args.Error(0)
}

func (m *MockSubjectRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockSubjectRepo) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubjectRepo) DescendantIDs(id uint) ([]uint, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

// MockQuestionRepo реализует repository.QuestionRepository
type MockQuestionRepo struct {
	mock.Mock
}

func (m *MockQuestionRepo) Create(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepo) CreateBatch(questions []entity.Question) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockQuestionRepo) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetByIDs(ids []uint) ([]entity.Question, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetBySubjectIDs(subjectIDs []uint) ([]entity.Question, error) {
	args := m.Called(subjectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetBySubjectAndStatus(subjectIDs []uint, status int) ([]entity.Question, error) {
	args := m.Called(subjectIDs, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) GetAll() ([]entity.Question, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepo) Update(question *entity.Question) error {
	args := m.Called(question)
	return args.Error(0)
}

func (m *MockQuestionRepo) UpdateStatus(id uint, status int) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockQuestionRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockQuestionRepo) CountBySubjectIDs(subjectIDs []uint) (int64, error) {
	args := m.Called(subjectIDs)
	return args.Get(0).(int64), args.Error(1)
}

// MockResultRepo реализует repository.ResultRepository
type MockResultRepo struct {
	mock.Mock
}

func (m *MockResultRepo) Save(result *entity.ExamResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockResultRepo) GetByID(id uint) (*entity.ExamResult, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExamResult), args.Error(1)
}

func (m *MockResultRepo) GetAll(limit, offset int) ([]entity.ExamResult, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.ExamResult), args.Get(1).(int64), args.Error(2)
}

func (m *MockResultRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockExamConfigRepo реализует repository.ExamConfigRepository
type MockExamConfigRepo struct {
	mock.Mock
}

func (m *MockExamConfigRepo) Create(config *entity.ExamConfig) error {
	args := m.Called(config)
	return args.Error(0)
}

func (m *MockExamConfigRepo) GetByID(id uint) (*entity.ExamConfig, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExamConfig), args.Error(1)
}

func (m *MockExamConfigRepo) GetAll() ([]entity.ExamConfig, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ExamConfig), args.Error(1)
}

func (m *MockExamConfigRepo) Update(config *entity.ExamConfig) error {
	args := m.Called(config)
	return args.Error(0)
}

func (m *MockExamConfigRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}
