package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	"github.com/yourusername/onthi-api/internal/domain/repository"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
	"github.com/yourusername/onthi-api/internal/service"
)

// ExamHandler обрабатывает запросы жизненного цикла экзамена
// и шаблонов экзаменов
type ExamHandler struct {
	examService *service.ExamService
	configRepo  repository.ExamConfigRepository
}

// NewExamHandler создает новый обработчик экзаменов
func NewExamHandler(examService *service.ExamService, configRepo repository.ExamConfigRepository) *ExamHandler {
	return &ExamHandler{
		examService: examService,
		configRepo:  configRepo,
	}
}

// StartExamRequest представляет запрос на запуск экзамена
type StartExamRequest struct {
	Name     string                 `json:"name" binding:"omitempty,max=255"`
	Subjects []entity.SubjectConfig `json:"subjects" binding:"required,min=1,dive"`
}

// Start запускает новую сессию экзамена
func (h *ExamHandler) Start(c *gin.Context) {
	var req StartExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.examService.Start(req.Name, req.Subjects)
	if err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// StartFromConfig запускает экзамен по сохранённому шаблону
func (h *ExamHandler) StartFromConfig(c *gin.Context) {
	configID := c.MustGet("configID").(uint)

	session, err := h.examService.StartFromConfig(configID)
	if err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// Current возвращает состояние текущей сессии
func (h *ExamHandler) Current(c *gin.Context) {
	session := h.examService.Current()
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.ErrNoSession.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

// AnswerRequest представляет ответ на вопрос с выбором варианта
type AnswerRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// Answer записывает ответ на вопрос активного предмета
func (h *ExamHandler) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.examService.UpdateAnswer(req.QuestionID, req.Answer); err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer recorded"})
}

// SubAnswerRequest представляет ответ на одно утверждение табличного вопроса
type SubAnswerRequest struct {
	QuestionID uint  `json:"questionId" binding:"required"`
	Index      *int  `json:"index" binding:"required"`
	Value      *bool `json:"value" binding:"required"`
}

// SubAnswer записывает ответ на утверждение вопроса TRUE_FALSE_TABLE
func (h *ExamHandler) SubAnswer(c *gin.Context) {
	var req SubAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.examService.UpdateSubAnswer(req.QuestionID, *req.Index, *req.Value); err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer recorded"})
}

// Pause приостанавливает текущую сессию
func (h *ExamHandler) Pause(c *gin.Context) {
	if err := h.examService.Pause(); err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session paused"})
}

// Resume возобновляет текущую сессию
func (h *ExamHandler) Resume(c *gin.Context) {
	if err := h.examService.Resume(); err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session resumed"})
}

// Submit отправляет активный предмет на подсчёт
func (h *ExamHandler) Submit(c *gin.Context) {
	outcome, err := h.examService.SubmitActiveSubject()
	if err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// Abandon прерывает текущую сессию без сохранения результата
func (h *ExamHandler) Abandon(c *gin.Context) {
	if err := h.examService.Abandon(); err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session abandoned"})
}

// ExamConfigRequest представляет запрос на создание или обновление шаблона
type ExamConfigRequest struct {
	Name     string                 `json:"name" binding:"required,min=1,max=255"`
	ExamTerm string                 `json:"examTerm" binding:"omitempty,max=100"`
	Level    string                 `json:"level" binding:"omitempty,max=100"`
	Subjects []entity.SubjectConfig `json:"subjects" binding:"required,min=1,dive"`
}

// CreateConfig создает шаблон экзамена
func (h *ExamHandler) CreateConfig(c *gin.Context) {
	var req ExamConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config := &entity.ExamConfig{
		Name:     req.Name,
		ExamTerm: req.ExamTerm,
		Level:    req.Level,
		Subjects: req.Subjects,
	}
	if err := h.configRepo.Create(config); err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, config)
}

// GetConfigs возвращает все шаблоны экзаменов
func (h *ExamHandler) GetConfigs(c *gin.Context) {
	configs, err := h.configRepo.GetAll()
	if err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, configs)
}

// UpdateConfig обновляет шаблон экзамена
func (h *ExamHandler) UpdateConfig(c *gin.Context) {
	configID := c.MustGet("configID").(uint)

	var req ExamConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := h.configRepo.GetByID(configID)
	if err != nil {
		h.handleExamError(c, err)
		return
	}
	config.Name = req.Name
	config.ExamTerm = req.ExamTerm
	config.Level = req.Level
	config.Subjects = req.Subjects

	if err := h.configRepo.Update(config); err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, config)
}

// DeleteConfig удаляет шаблон экзамена
func (h *ExamHandler) DeleteConfig(c *gin.Context) {
	configID := c.MustGet("configID").(uint)

	if err := h.configRepo.Delete(configID); err != nil {
		h.handleExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exam config deleted"})
}

func (h *ExamHandler) handleExamError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNoSession) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ExamHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
