package examsession

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/onthi-api/internal/domain/entity"
)

func newTestManager() *Manager {
	return NewManager(DefaultConfig(), &Dependencies{})
}

func twoSubjectConfigs() []entity.SubjectConfig {
	return []entity.SubjectConfig{
		{SubjectID: 1, SubjectName: "Toán", Count: 2, Time: 30},
		{SubjectID: 2, SubjectName: "Lý", Count: 1, Time: 20},
	}
}

func twoSubjectQuestions() []entity.Question {
	return []entity.Question{
		{ID: 10, SubjectID: 1, Content: "1+1?", QuestionType: entity.TypeMultipleChoice,
			Options: entity.StringArray{"1", "2"}, CorrectAnswers: entity.StringArray{"B"}},
		{ID: 11, SubjectID: 1, Content: "2+2?", QuestionType: entity.TypeMultipleChoice,
			Options: entity.StringArray{"4", "5"}, CorrectAnswers: entity.StringArray{"A"}},
		{ID: 20, SubjectID: 2, Content: "F=ma?", QuestionType: entity.TypeTrueFalse,
			CorrectAnswers: entity.StringArray{"TRUE"}},
	}
}

func TestManager_Start_InitializesTimerFromFirstSubject(t *testing.T) {
	// Arrange
	m := newTestManager()

	// Act
	session, err := m.Start("Thi thử", twoSubjectConfigs(), twoSubjectQuestions())

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, 30*60, session.TimeLeft)
	assert.Equal(t, 0, session.ActiveSubjectIndex())
	assert.False(t, session.IsFinished)
	assert.False(t, session.IsPaused)
}

func TestManager_Start_RequiresAtLeastOneSubject(t *testing.T) {
	m := newTestManager()

	_, err := m.Start("", nil, nil)

	assert.Error(t, err)
}

func TestManager_ActiveSubjectIndex_DerivedFromCompletedResults(t *testing.T) {
	// Arrange
	m := newTestManager()
	_, err := m.Start("Thi thử", twoSubjectConfigs(), twoSubjectQuestions())
	require.NoError(t, err)

	// Act: завершаем первый предмет
	err = m.CompleteSubject(entity.SubjectResult{SubjectID: 1, SubjectName: "Toán"})
	require.NoError(t, err)

	// Assert: индекс активного предмета равен числу завершённых
	session := m.Current()
	assert.Equal(t, 1, session.ActiveSubjectIndex())
	assert.False(t, session.AllSubjectsDone())

	// Переход к следующему предмету сбрасывает таймер из его конфигурации
	require.NoError(t, m.NextSubject())
	assert.Equal(t, 20*60, m.Current().TimeLeft)

	// Завершение последнего предмета исчерпывает сессию
	require.NoError(t, m.CompleteSubject(entity.SubjectResult{SubjectID: 2, SubjectName: "Lý"}))
	assert.True(t, m.Current().AllSubjectsDone())
	assert.Equal(t, entity.SubjectConfig{}, func() entity.SubjectConfig {
		cfg, _ := m.Current().ActiveConfig()
		return cfg
	}())
}

func TestManager_ActiveQuestions_SlicesByConfigOffsets(t *testing.T) {
	m := newTestManager()
	_, err := m.Start("Thi thử", twoSubjectConfigs(), twoSubjectQuestions())
	require.NoError(t, err)

	first := m.Current().ActiveQuestions()
	require.Len(t, first, 2)
	assert.Equal(t, uint(10), first[0].ID)

	require.NoError(t, m.CompleteSubject(entity.SubjectResult{SubjectID: 1}))
	require.NoError(t, m.NextSubject())

	second := m.Current().ActiveQuestions()
	require.Len(t, second, 1)
	assert.Equal(t, uint(20), second[0].ID)
}

func TestManager_DecrementTime_ClampsAtZero(t *testing.T) {
	// Arrange: сессия с одной секундой на первый предмет
	m := newTestManager()
	configs := []entity.SubjectConfig{{SubjectID: 1, SubjectName: "Toán", Count: 0, Time: 0}}
	_, err := m.Start("", configs, nil)
	require.NoError(t, err)
	m.session.TimeLeft = 1

	// Act & Assert: переход в ноль сигнализирует об истечении
	assert.True(t, m.DecrementTime())
	assert.Equal(t, 0, m.Current().TimeLeft)

	// Повторные тики на нуле ничего не меняют и не сигнализируют
	assert.False(t, m.DecrementTime())
	assert.Equal(t, 0, m.Current().TimeLeft)
}

func TestManager_DecrementTime_NoopWhenPausedOrFinished(t *testing.T) {
	m := newTestManager()
	configs := []entity.SubjectConfig{{SubjectID: 1, SubjectName: "Toán", Count: 0, Time: 10}}
	_, err := m.Start("", configs, nil)
	require.NoError(t, err)

	require.NoError(t, m.Pause())
	assert.False(t, m.DecrementTime())
	assert.Equal(t, 600, m.Current().TimeLeft)

	require.NoError(t, m.Resume())
	assert.False(t, m.DecrementTime())
	assert.Equal(t, 599, m.Current().TimeLeft)

	require.NoError(t, m.Finish())
	assert.False(t, m.DecrementTime())
	assert.Equal(t, 599, m.Current().TimeLeft)
}

func TestManager_Resume_DoesNotReviveFinishedSession(t *testing.T) {
	m := newTestManager()
	_, err := m.Start("", twoSubjectConfigs(), nil)
	require.NoError(t, err)
	require.NoError(t, m.Finish())

	require.NoError(t, m.Resume())

	session := m.Current()
	assert.True(t, session.IsFinished)
	assert.True(t, session.IsPaused)
}

func TestManager_UpdateAnswer_OverwritesPreviousChoice(t *testing.T) {
	m := newTestManager()
	_, err := m.Start("", twoSubjectConfigs(), twoSubjectQuestions())
	require.NoError(t, err)

	require.NoError(t, m.UpdateAnswer(10, "A"))
	require.NoError(t, m.UpdateAnswer(10, "B"))

	assert.Equal(t, "B", m.Current().Answers[10].Choice)
}

func TestManager_UpdateSubAnswer_GrowsSparseArray(t *testing.T) {
	// Arrange
	m := newTestManager()
	_, err := m.Start("", twoSubjectConfigs(), twoSubjectQuestions())
	require.NoError(t, err)

	// Act: отвечаем на третье утверждение, пропуская первые два
	require.NoError(t, m.UpdateSubAnswer(20, 2, true))

	// Assert
	sub := m.Current().Answers[20].Sub
	require.Len(t, sub, 3)
	assert.Nil(t, sub[0])
	assert.Nil(t, sub[1])
	require.NotNil(t, sub[2])
	assert.True(t, *sub[2])

	// Отрицательный индекс отвергается
	assert.Error(t, m.UpdateSubAnswer(20, -1, true))
}

func TestManager_OperationsWithoutSessionReturnErrNoSession(t *testing.T) {
	m := newTestManager()

	assert.Error(t, m.UpdateAnswer(1, "A"))
	assert.Error(t, m.UpdateSubAnswer(1, 0, true))
	assert.Error(t, m.Pause())
	assert.Error(t, m.Resume())
	assert.Error(t, m.Finish())
	assert.Error(t, m.NextSubject())
	assert.Nil(t, m.Current())
	assert.False(t, m.DecrementTime())
}

func TestManager_Clear_DropsSession(t *testing.T) {
	m := newTestManager()
	_, err := m.Start("", twoSubjectConfigs(), nil)
	require.NoError(t, err)

	m.Clear()

	assert.Nil(t, m.Current())
}

func TestManager_Current_ReturnsIndependentCopy(t *testing.T) {
	m := newTestManager()
	_, err := m.Start("", twoSubjectConfigs(), twoSubjectQuestions())
	require.NoError(t, err)
	require.NoError(t, m.UpdateAnswer(10, "A"))

	copied := m.Current()
	copied.Answers[10] = Answer{Choice: "B"}
	copied.TimeLeft = 0

	assert.Equal(t, "A", m.Current().Answers[10].Choice)
	assert.Equal(t, 30*60, m.Current().TimeLeft)
}
