package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
	"github.com/yourusername/onthi-api/internal/service"
)

// BackupHandler обрабатывает выгрузку и восстановление полного снимка данных
type BackupHandler struct {
	backupService *service.BackupService
	maxFileSize   int64
}

// NewBackupHandler создает новый обработчик резервных копий
func NewBackupHandler(backupService *service.BackupService, maxFileSizeMB int) *BackupHandler {
	if maxFileSizeMB <= 0 {
		maxFileSizeMB = 50
	}
	return &BackupHandler{
		backupService: backupService,
		maxFileSize:   int64(maxFileSizeMB) << 20,
	}
}

// Export отдаёт полный снимок данных JSON-файлом
func (h *BackupHandler) Export(c *gin.Context) {
	data, err := h.backupService.Export()
	if err != nil {
		log.Printf("ERROR: Internal server error in BackupHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	filename := fmt.Sprintf("backup_%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Restore замещает все данные содержимым загруженного снимка
func (h *BackupHandler) Restore(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file is too large"})
		return
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

	if err := h.backupService.Restore(data); err != nil {
		if errors.Is(err, apperrors.ErrFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("ERROR: Internal server error in BackupHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Backup restored"})
}
