package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
	"github.com/yourusername/onthi-api/internal/service"
)

// ImportHandler обрабатывает загрузку файлов с вопросами
type ImportHandler struct {
	importService *service.ImportService
	maxFileSize   int64
}

// NewImportHandler создает новый обработчик импорта.
// maxFileSizeMB ограничивает размер загружаемого файла.
func NewImportHandler(importService *service.ImportService, maxFileSizeMB int) *ImportHandler {
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = 50
	}
	return &ImportHandler{
		importService: importService,
		maxFileSize:   int64(maxFileSizeMB) << 20,
	}
}

// Import обрабатывает запрос на импорт файла вопросов.
// Ожидает multipart-форму с полем file и опциональным полем subjectId
// (цель для форматов без собственной иерархии предметов).
func (h *ImportHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
		return
	}

	var targetSubjectID uint
	if raw := c.PostForm("subjectId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subjectId"})
			return
		}
		targetSubjectID = uint(id)
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	if int64(len(data)) > h.maxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
		return
	}

	summary, err := h.importService.ImportFile(fileHeader.Filename, data, targetSubjectID)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, summary)
}

func (h *ImportHandler) handleImportError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrFormat) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in ImportHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
