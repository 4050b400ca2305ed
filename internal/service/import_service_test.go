package service

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// buildTestArchive собирает zip-архив с метаданными и вопросами в памяти
func buildTestArchive(t *testing.T, metadata interface{}, questions interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	if metadata != nil {
		f, err := w.Create("metadata.json")
		require.NoError(t, err)
		data, err := json.Marshal(metadata)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}

	f, err := w.Create("questions.json")
	require.NoError(t, err)
	data, err := json.Marshal(questions)
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func testArchiveMetadata() map[string]interface{} {
	return map[string]interface{}{
		"version": "1",
		"subjects": []map[string]interface{}{
			{"id": 1, "parentId": nil, "name": "Toán", "level": "THPT", "type": "Tự nhiên", "examTerm": "2026"},
			{"id": 2, "parentId": 1, "name": "Đại số", "level": "THPT", "type": "Tự nhiên", "examTerm": "2026"},
		},
	}
}

func testArchiveQuestions() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"subjectId":      2,
			"content":        "2+2?",
			"questionType":   "MULTIPLE_CHOICE",
			"options":        []string{"3", "4"},
			"correctAnswers": []string{"B"},
		},
	}
}

func TestImportService_Archive_RemapsSubjectIDs(t *testing.T) {
	// Arrange: хранилище выдает предметам новые id, не совпадающие с архивными
	subjectRepo := new(MockSubjectRepo)
	questionRepo := new(MockQuestionRepo)

	nextID := uint(100)
	subjectRepo.On("Create", mock.AnythingOfType("*entity.Subject")).Run(func(args mock.Arguments) {
		nextID++
		args.Get(0).(*entity.Subject).ID = nextID
	}).Return(nil)

	var inserted []entity.Question
	questionRepo.On("CreateBatch", mock.AnythingOfType("[]entity.Question")).Run(func(args mock.Arguments) {
		inserted = args.Get(0).([]entity.Question)
	}).Return(nil)

	svc := NewImportService(subjectRepo, questionRepo)

	// Act
	summary, err := svc.ImportFile("bank.zip", buildTestArchive(t, testArchiveMetadata(), testArchiveQuestions()), 0)

	// Assert: вопрос привязан к новому id дочернего предмета
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SubjectsCreated)
	assert.Equal(t, 1, summary.QuestionsImported)
	require.Len(t, inserted, 1)
	assert.Equal(t, uint(102), inserted[0].SubjectID)
	subjectRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestImportService_Archive_TwiceProducesIndependentSubtrees(t *testing.T) {
	// Arrange
	subjectRepo := new(MockSubjectRepo)
	questionRepo := new(MockQuestionRepo)

	nextID := uint(0)
	subjectRepo.On("Create", mock.AnythingOfType("*entity.Subject")).Run(func(args mock.Arguments) {
		nextID++
		args.Get(0).(*entity.Subject).ID = nextID
	}).Return(nil)

	var batches [][]entity.Question
	questionRepo.On("CreateBatch", mock.AnythingOfType("[]entity.Question")).Run(func(args mock.Arguments) {
		batches = append(batches, args.Get(0).([]entity.Question))
	}).Return(nil)

	svc := NewImportService(subjectRepo, questionRepo)
	archive := buildTestArchive(t, testArchiveMetadata(), testArchiveQuestions())

	// Act: один и тот же архив импортируется дважды
	_, err := svc.ImportFile("bank.zip", archive, 0)
	require.NoError(t, err)
	_, err = svc.ImportFile("bank.zip", archive, 0)
	require.NoError(t, err)

	// Assert: второй импорт не переиспользует id первого
	require.Len(t, batches, 2)
	assert.Equal(t, uint(2), batches[0][0].SubjectID)
	assert.Equal(t, uint(4), batches[1][0].SubjectID)
}

func TestImportService_Archive_ExplicitTargetForcesQuestions(t *testing.T) {
	// Arrange: явная цель указана, архив несёт собственную иерархию
	subjectRepo := new(MockSubjectRepo)
	questionRepo := new(MockQuestionRepo)

	subjectRepo.On("GetByID", uint(7)).Return(&entity.Subject{ID: 7, Name: "Lớp 12"}, nil)

	var createdRoots []*uint
	nextID := uint(10)
	subjectRepo.On("Create", mock.AnythingOfType("*entity.Subject")).Run(func(args mock.Arguments) {
		subject := args.Get(0).(*entity.Subject)
		nextID++
		subject.ID = nextID
		if subject.Name == "Toán" {
			createdRoots = append(createdRoots, subject.ParentID)
		}
	}).Return(nil)

	var inserted []entity.Question
	questionRepo.On("CreateBatch", mock.AnythingOfType("[]entity.Question")).Run(func(args mock.Arguments) {
		inserted = args.Get(0).([]entity.Question)
	}).Return(nil)

	svc := NewImportService(subjectRepo, questionRepo)

	// Act
	_, err := svc.ImportFile("bank.zip", buildTestArchive(t, testArchiveMetadata(), testArchiveQuestions()), 7)

	// Assert: корень архива становится ребёнком целевого предмета,
	// но все вопросы привязаны к самой цели, а не к поддереву
	require.NoError(t, err)
	require.Len(t, createdRoots, 1)
	require.NotNil(t, createdRoots[0])
	assert.Equal(t, uint(7), *createdRoots[0])
	require.Len(t, inserted, 1)
	assert.Equal(t, uint(7), inserted[0].SubjectID)
}

func TestImportService_TargetMustExistWhenGiven(t *testing.T) {
	subjectRepo := new(MockSubjectRepo)
	questionRepo := new(MockQuestionRepo)
	svc := NewImportService(subjectRepo, questionRepo)

	payload := []byte(`[{"content": "2+2?", "options": ["3", "4"], "correctAnswers": ["B"]}]`)

	subjectRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)
	_, err := svc.ImportFile("bank.json", payload, 99)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestImportService_NoTargetAssignsUnassignedSentinel(t *testing.T) {
	// Arrange: формат без собственных предметов, цель не указана
	subjectRepo := new(MockSubjectRepo)
	questionRepo := new(MockQuestionRepo)

	var inserted []entity.Question
	questionRepo.On("CreateBatch", mock.AnythingOfType("[]entity.Question")).Run(func(args mock.Arguments) {
		inserted = args.Get(0).([]entity.Question)
	}).Return(nil)

	svc := NewImportService(subjectRepo, questionRepo)
	payload := []byte(`[{"content": "2+2?", "options": ["3", "4"], "correctAnswers": ["B"]}]`)

	// Act
	summary, err := svc.ImportFile("bank.json", payload, 0)

	// Assert: вопрос получает subject_id 0 - маркер "без предмета"
	require.NoError(t, err)
	assert.Equal(t, 1, summary.QuestionsImported)
	assert.Equal(t, 0, summary.QuestionsSkipped)
	require.Len(t, inserted, 1)
	assert.Equal(t, uint(0), inserted[0].SubjectID)
}

func TestImportService_Archive_UnknownSubjectFallsBackToSentinel(t *testing.T) {
	// Arrange: вопрос ссылается на предмет, которого нет в метаданных архива
	subjectRepo := new(MockSubjectRepo)
	questionRepo := new(MockQuestionRepo)

	nextID := uint(0)
	subjectRepo.On("Create", mock.AnythingOfType("*entity.Subject")).Run(func(args mock.Arguments) {
		nextID++
		args.Get(0).(*entity.Subject).ID = nextID
	}).Return(nil)

	var inserted []entity.Question
	questionRepo.On("CreateBatch", mock.AnythingOfType("[]entity.Question")).Run(func(args mock.Arguments) {
		inserted = args.Get(0).([]entity.Question)
	}).Return(nil)

	svc := NewImportService(subjectRepo, questionRepo)
	questions := []map[string]interface{}{
		{
			"subjectId":      42,
			"content":        "2+2?",
			"questionType":   "MULTIPLE_CHOICE",
			"options":        []string{"3", "4"},
			"correctAnswers": []string{"B"},
		},
	}

	// Act
	summary, err := svc.ImportFile("bank.zip", buildTestArchive(t, testArchiveMetadata(), questions), 0)

	// Assert: вопрос не пропускается, а остаётся без предмета
	require.NoError(t, err)
	assert.Equal(t, 1, summary.QuestionsImported)
	assert.Equal(t, 0, summary.QuestionsSkipped)
	require.Len(t, inserted, 1)
	assert.Equal(t, uint(0), inserted[0].SubjectID)
}

func TestImportService_JSON_AssignsTargetSubject(t *testing.T) {
	// Arrange
	subjectRepo := new(MockSubjectRepo)
	questionRepo := new(MockQuestionRepo)
	subjectRepo.On("GetByID", uint(5)).Return(&entity.Subject{ID: 5, Name: "Toán"}, nil)

	var inserted []entity.Question
	questionRepo.On("CreateBatch", mock.AnythingOfType("[]entity.Question")).Run(func(args mock.Arguments) {
		inserted = args.Get(0).([]entity.Question)
	}).Return(nil)

	svc := NewImportService(subjectRepo, questionRepo)
	payload := []byte(`[{"content": "2+2?", "options": ["3", "4"], "correctAnswers": ["B"]}]`)

	// Act
	summary, err := svc.ImportFile("bank.json", payload, 5)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, summary.SubjectsCreated)
	assert.Equal(t, 1, summary.QuestionsImported)
	require.Len(t, inserted, 1)
	assert.Equal(t, uint(5), inserted[0].SubjectID)
	assert.Equal(t, entity.StatusNew, inserted[0].Status)
}

func TestImportService_SkipsInvalidQuestions(t *testing.T) {
	subjectRepo := new(MockSubjectRepo)
	questionRepo := new(MockQuestionRepo)
	subjectRepo.On("GetByID", uint(5)).Return(&entity.Subject{ID: 5}, nil)

	var inserted []entity.Question
	questionRepo.On("CreateBatch", mock.AnythingOfType("[]entity.Question")).Run(func(args mock.Arguments) {
		inserted = args.Get(0).([]entity.Question)
	}).Return(nil)

	svc := NewImportService(subjectRepo, questionRepo)
	// Вторая запись ссылается на вариант за пределами списка
	payload := []byte(`[
		{"content": "ok", "options": ["a", "b"], "correctAnswers": ["A"]},
		{"content": "bad", "options": ["a"], "correctAnswers": ["D"]}
	]`)

	summary, err := svc.ImportFile("bank.json", payload, 5)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.QuestionsImported)
	assert.Equal(t, 1, summary.QuestionsSkipped)
	require.Len(t, inserted, 1)
	assert.Equal(t, "ok", inserted[0].Content)
}

func TestImportService_BatchFailureKeepsSubjects(t *testing.T) {
	// Arrange: вставка вопросов падает после создания предметов
	subjectRepo := new(MockSubjectRepo)
	questionRepo := new(MockQuestionRepo)

	nextID := uint(0)
	subjectRepo.On("Create", mock.AnythingOfType("*entity.Subject")).Run(func(args mock.Arguments) {
		nextID++
		args.Get(0).(*entity.Subject).ID = nextID
	}).Return(nil)
	questionRepo.On("CreateBatch", mock.Anything).Return(errors.New("connection lost"))

	svc := NewImportService(subjectRepo, questionRepo)

	// Act
	_, err := svc.ImportFile("bank.zip", buildTestArchive(t, testArchiveMetadata(), testArchiveQuestions()), 0)

	// Assert: ошибка хранилища, компенсирующего удаления предметов нет
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
	subjectRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestImportService_UnsupportedExtension(t *testing.T) {
	svc := NewImportService(new(MockSubjectRepo), new(MockQuestionRepo))

	_, err := svc.ImportFile("bank.pdf", []byte("%PDF"), 1)

	assert.ErrorIs(t, err, apperrors.ErrFormat)
}
