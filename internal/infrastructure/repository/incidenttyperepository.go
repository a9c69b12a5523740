package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"urbanincidents/internal/domain/incident"
	"urbanincidents/internal/infrastructure/persistence/mappers"
	"urbanincidents/internal/infrastructure/persistence/models"
	"urbanincidents/internal/shared/db"
	apperrors "urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
)

// IncidentTypeRepositoryImpl implements incident.TypeRepository on gorm.
type IncidentTypeRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.IncidentMapper
	logger logger.Interface
}

func NewIncidentTypeRepository(db *gorm.DB, logger logger.Interface) incident.TypeRepository {
	return &IncidentTypeRepositoryImpl{
		db:     db,
		mapper: mappers.NewIncidentMapper(),
		logger: logger,
	}
}

func (r *IncidentTypeRepositoryImpl) FindByID(ctx context.Context, id uint) (*incident.IncidentType, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByName matches case-sensitively. MySQL's default collation folds case,
// so the comparison is repeated on the loaded row.
func (r *IncidentTypeRepositoryImpl) FindByName(ctx context.Context, name string) (*incident.IncidentType, error) {
	t, err := r.findOne(ctx, "name = ?", name)
	if err != nil {
		return nil, err
	}
	if t.Name() != name {
		return nil, incident.ErrTypeNotFound
	}
	return t, nil
}

func (r *IncidentTypeRepositoryImpl) findOne(ctx context.Context, cond string, arg any) (*incident.IncidentType, error) {
	var model models.IncidentTypeModel
	if err := db.GetTxFromContext(ctx, r.db).Where(cond, arg).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, incident.ErrTypeNotFound
		}
		r.logger.Errorw("failed to get incident type", "condition", cond, "value", arg, "error", err)
		return nil, fmt.Errorf("failed to get incident type: %w", err)
	}
	return r.mapper.TypeToDomain(&model)
}

func (r *IncidentTypeRepositoryImpl) FindAll(ctx context.Context) ([]*incident.IncidentType, error) {
	var list []models.IncidentTypeModel
	if err := db.GetTxFromContext(ctx, r.db).Scopes(db.OrderByID("incident_types")).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list incident types", "error", err)
		return nil, fmt.Errorf("failed to list incident types: %w", err)
	}

	result := make([]*incident.IncidentType, 0, len(list))
	for i := range list {
		t, err := r.mapper.TypeToDomain(&list[i])
		if err != nil {
			return nil, fmt.Errorf("failed to map incident type: %w", err)
		}
		result = append(result, t)
	}
	return result, nil
}

func (r *IncidentTypeRepositoryImpl) Save(ctx context.Context, t *incident.IncidentType) error {
	model := r.mapper.TypeToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if model.ID == 0 {
		if err := tx.Create(model).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return incident.ErrTypeAlreadyExists
			}
			r.logger.Errorw("failed to create incident type", "name", model.Name, "error", err)
			return fmt.Errorf("failed to create incident type: %w", err)
		}
		if err := t.SetID(model.ID); err != nil {
			return fmt.Errorf("failed to set incident type ID: %w", err)
		}
		r.logger.Infow("incident type created successfully", "id", model.ID, "name", model.Name)
		return nil
	}

	result := tx.Model(&models.IncidentTypeModel{}).Where("id = ?", model.ID).Update("name", model.Name)
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return incident.ErrTypeAlreadyExists
		}
		r.logger.Errorw("failed to update incident type", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update incident type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return incident.ErrTypeNotFound
	}
	return nil
}

// Delete maps a foreign key violation to ErrTypeInUse, which covers an
// incident filed between the caller's reference check and this statement.
func (r *IncidentTypeRepositoryImpl) Delete(ctx context.Context, t *incident.IncidentType) error {
	result := db.GetTxFromContext(ctx, r.db).Where("id = ?", t.ID()).Delete(&models.IncidentTypeModel{})
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return incident.ErrTypeInUse
		}
		r.logger.Errorw("failed to delete incident type", "id", t.ID(), "error", result.Error)
		return fmt.Errorf("failed to delete incident type: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return incident.ErrTypeNotFound
	}

	r.logger.Infow("incident type deleted successfully", "id", t.ID(), "name", t.Name())
	return nil
}

func isForeignKeyViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}
