package service

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/onthi-api/internal/domain/entity"
	apperrors "github.com/yourusername/onthi-api/internal/pkg/errors"
)

// backupVersion - версия формата резервной копии
const backupVersion = 1

// Backup - полный снимок данных приложения в переносимом JSON
type Backup struct {
	Version         int                     `json:"version"`
	ExportedAt      time.Time               `json:"timestamp"`
	Subjects        []entity.Subject        `json:"subjects"`
	Questions       []entity.Question       `json:"questions"`
	ExamResults     []entity.ExamResult     `json:"examResults"`
	ExamConfigs     []entity.ExamConfig     `json:"examConfigs"`
	Profiles        []entity.UserProfile    `json:"userProfile"`
	Reminders       []entity.Reminder       `json:"reminders"`
	PropertyOptions []entity.PropertyOption `json:"propertyOptions"`
}

// BackupService выгружает и восстанавливает полный снимок данных.
// Работает напрямую с gorm: восстановление очищает и заполняет все таблицы
// в одной транзакции, что не выражается через репозитории отдельных сущностей.
type BackupService struct {
	db *gorm.DB
}

// NewBackupService создает новый сервис резервных копий
func NewBackupService(db *gorm.DB) *BackupService {
	return &BackupService{db: db}
}

// Export собирает снимок всех таблиц. Порядок внутри каждой таблицы
// детерминирован (по id), чтобы повторная выгрузка без изменений давала
// байт-в-байт тот же файл.
func (s *BackupService) Export() ([]byte, error) {
	backup := &Backup{
		Version:         backupVersion,
		ExportedAt:      time.Now(),
		Subjects:        []entity.Subject{},
		Questions:       []entity.Question{},
		ExamResults:     []entity.ExamResult{},
		ExamConfigs:     []entity.ExamConfig{},
		Profiles:        []entity.UserProfile{},
		Reminders:       []entity.Reminder{},
		PropertyOptions: []entity.PropertyOption{},
	}

	if err := s.db.Order("id").Find(&backup.Subjects).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id").Find(&backup.Questions).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id").Find(&backup.ExamResults).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id").Find(&backup.ExamConfigs).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id").Find(&backup.Profiles).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id").Find(&backup.Reminders).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("id").Find(&backup.PropertyOptions).Error; err != nil {
		return nil, err
	}

	log.Printf("[BackupService] Выгрузка: %d предметов, %d вопросов, %d результатов",
		len(backup.Subjects), len(backup.Questions), len(backup.ExamResults))
	return json.MarshalIndent(backup, "", "  ")
}

// Restore замещает все данные приложения содержимым снимка.
// Таблицы очищаются и заполняются в одной транзакции: либо восстановился
// весь снимок, либо данные остались нетронутыми. Исходные id сохраняются,
// поэтому ссылки предмет-вопрос и результат-вопрос остаются валидными.
func (s *BackupService) Restore(data []byte) error {
	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("%w: invalid backup file: %v", apperrors.ErrFormat, err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("%w: unsupported backup version %d", apperrors.ErrFormat, backup.Version)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Вопросы раньше предметов из-за внешнего ключа
		tables := []string{
			entity.Question{}.TableName(),
			entity.Subject{}.TableName(),
			entity.ExamResult{}.TableName(),
			entity.ExamConfig{}.TableName(),
			entity.UserProfile{}.TableName(),
			entity.Reminder{}.TableName(),
			entity.PropertyOption{}.TableName(),
		}
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}

		if len(backup.Subjects) > 0 {
			if err := tx.Create(&backup.Subjects).Error; err != nil {
				return err
			}
		}
		if len(backup.Questions) > 0 {
			if err := tx.Create(&backup.Questions).Error; err != nil {
				return err
			}
		}
		if len(backup.ExamResults) > 0 {
			if err := tx.Create(&backup.ExamResults).Error; err != nil {
				return err
			}
		}
		if len(backup.ExamConfigs) > 0 {
			if err := tx.Create(&backup.ExamConfigs).Error; err != nil {
				return err
			}
		}
		if len(backup.Profiles) > 0 {
			if err := tx.Create(&backup.Profiles).Error; err != nil {
				return err
			}
		}
		if len(backup.Reminders) > 0 {
			if err := tx.Create(&backup.Reminders).Error; err != nil {
				return err
			}
		}
		if len(backup.PropertyOptions) > 0 {
			if err := tx.Create(&backup.PropertyOptions).Error; err != nil {
				return err
			}
		}

		// После вставки с явными id двигаем последовательности вперёд
		for _, table := range tables {
			seq := fmt.Sprintf(
				"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
				table, table)
			if err := tx.Exec(seq).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: restore failed: %v", apperrors.ErrPersistence, err)
	}

	log.Printf("[BackupService] Восстановление завершено: %d предметов, %d вопросов, %d результатов",
		len(backup.Subjects), len(backup.Questions), len(backup.ExamResults))
	return nil
}
