package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
	"github.com/yourusername/onthi-api/internal/service"
)

// SubjectHandler обрабатывает запросы, связанные с деревом предметов
type SubjectHandler struct {
	subjectService *service.SubjectService
	exportService  *service.ExportService
}

// NewSubjectHandler создает новый обработчик предметов
func NewSubjectHandler(subjectService *service.SubjectService, exportService *service.ExportService) *SubjectHandler {
	return &SubjectHandler{
		subjectService: subjectService,
		exportService:  exportService,
	}
}

// SubjectRequest представляет запрос на создание или обновление предмета
type SubjectRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Level    string `json:"level" binding:"omitempty,max=100"`
	Type     string `json:"type" binding:"omitempty,max=100"`
	ExamTerm string `json:"examTerm" binding:"omitempty,max=100"`
	ParentID *uint  `json:"parentId"`
}

// Create обрабатывает запрос на создание предмета
func (h *SubjectHandler) Create(c *gin.Context) {
	var req SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := &entity.Subject{
		Name:     req.Name,
		Level:    req.Level,
		Type:     req.Type,
		ExamTerm: req.ExamTerm,
		ParentID: req.ParentID,
	}
	if err := h.subjectService.Create(subject); err != nil {
		h.handleSubjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// GetAll возвращает все предметы с числом вопросов
func (h *SubjectHandler) GetAll(c *gin.Context) {
	subjects, err := h.subjectService.GetAll()
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, subjects)
}

// Get возвращает предмет по id
func (h *SubjectHandler) Get(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint) // Получаем из контекста

	subject, err := h.subjectService.GetByID(subjectID)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, subject)
}

// Update обрабатывает запрос на обновление предмета
func (h *SubjectHandler) Update(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	var req SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject, err := h.subjectService.GetByID(subjectID)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}
	subject.Name = req.Name
	subject.Level = req.Level
	subject.Type = req.Type
	subject.ExamTerm = req.ExamTerm
	subject.ParentID = req.ParentID

	if err := h.subjectService.Update(subject); err != nil {
		h.handleSubjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, subject)
}

// Delete удаляет предмет вместе с поддеревом и вопросами
func (h *SubjectHandler) Delete(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	if err := h.subjectService.Delete(subjectID); err != nil {
		h.handleSubjectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subject deleted"})
}

// Export выгружает поддерево предмета zip-архивом
func (h *SubjectHandler) Export(c *gin.Context) {
	subjectID := c.MustGet("subjectID").(uint)

	data, err := h.exportService.ExportSubject(subjectID)
	if err != nil {
		h.handleSubjectError(c, err)
		return
	}

	filename := fmt.Sprintf("subject_%d.zip", subjectID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/zip", data)
}

func (h *SubjectHandler) handleSubjectError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in SubjectHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
