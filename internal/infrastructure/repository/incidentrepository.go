package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"urbanincidents/internal/domain/incident"
	vo "urbanincidents/internal/domain/incident/valueobjects"
	"urbanincidents/internal/infrastructure/persistence/mappers"
	"urbanincidents/internal/infrastructure/persistence/models"
	"urbanincidents/internal/shared/db"
	"urbanincidents/internal/shared/logger"
)

const incidentTable = "incidents"

// IncidentRepositoryImpl implements incident.Repository on gorm.
type IncidentRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.IncidentMapper
	logger logger.Interface
}

// NewIncidentRepository creates a new incident repository instance.
func NewIncidentRepository(db *gorm.DB, logger logger.Interface) incident.Repository {
	return &IncidentRepositoryImpl{
		db:     db,
		mapper: mappers.NewIncidentMapper(),
		logger: logger,
	}
}

// query selects incident rows together with the referenced type name.
func (r *IncidentRepositoryImpl) query(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db).
		Model(&models.IncidentModel{}).
		Select("incidents.*, incident_types.name AS type_name").
		Joins("LEFT JOIN incident_types ON incident_types.id = incidents.type_id")
}

func (r *IncidentRepositoryImpl) FindByID(ctx context.Context, id uint) (*incident.Incident, error) {
	var model models.IncidentModel
	if err := r.query(ctx).Where("incidents.id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, incident.ErrIncidentNotFound
		}
		r.logger.Errorw("failed to get incident by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}
	return r.toDomain(&model)
}

// FindByIDForUpdate locks only the incident row; the type name is read
// separately so the lock never extends to incident_types.
func (r *IncidentRepositoryImpl) FindByIDForUpdate(ctx context.Context, id uint) (*incident.Incident, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.IncidentModel
	if err := tx.Scopes(db.ForUpdate()).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, incident.ErrIncidentNotFound
		}
		r.logger.Errorw("failed to lock incident", "id", id, "error", err)
		return nil, fmt.Errorf("failed to lock incident: %w", err)
	}

	var typeModel models.IncidentTypeModel
	if err := tx.Select("name").Where("id = ?", model.TypeID).Take(&typeModel).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Errorw("failed to get incident type name", "type_id", model.TypeID, "error", err)
		return nil, fmt.Errorf("failed to get incident type: %w", err)
	}
	model.TypeName = typeModel.Name

	return r.toDomain(&model)
}

func (r *IncidentRepositoryImpl) FindByReporter(ctx context.Context, email string) ([]*incident.Incident, error) {
	return r.list(ctx, "by_reporter", r.query(ctx).Where("incidents.reporter_email = ?", email))
}

func (r *IncidentRepositoryImpl) FindByType(ctx context.Context, typeID uint) ([]*incident.Incident, error) {
	return r.list(ctx, "by_type", r.query(ctx).Where("incidents.type_id = ?", typeID))
}

func (r *IncidentRepositoryImpl) FindByState(ctx context.Context, state vo.State) ([]*incident.Incident, error) {
	return r.list(ctx, "by_state", r.query(ctx).Where("incidents.state = ?", state.String()))
}

func (r *IncidentRepositoryImpl) FindByTypeAndState(ctx context.Context, typeID uint, state vo.State) ([]*incident.Incident, error) {
	return r.list(ctx, "by_type_and_state", r.query(ctx).
		Where("incidents.type_id = ? AND incidents.state = ?", typeID, state.String()))
}

func (r *IncidentRepositoryImpl) FindAll(ctx context.Context) ([]*incident.Incident, error) {
	return r.list(ctx, "all", r.query(ctx))
}

func (r *IncidentRepositoryImpl) FindOpen(ctx context.Context) ([]*incident.Incident, error) {
	open := vo.OpenStates()
	states := make([]string, 0, len(open))
	for _, s := range open {
		states = append(states, s.String())
	}
	return r.list(ctx, "open", r.query(ctx).Where("incidents.state IN ?", states))
}

func (r *IncidentRepositoryImpl) list(ctx context.Context, name string, q *gorm.DB) ([]*incident.Incident, error) {
	var list []models.IncidentModel
	if err := q.Scopes(db.OrderByID(incidentTable)).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list incidents", "query", name, "error", err)
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}

	entities, err := r.mapper.ToDomainList(list)
	if err != nil {
		r.logger.Errorw("failed to map incident models to entities", "query", name, "error", err)
		return nil, fmt.Errorf("failed to map incidents: %w", err)
	}
	return entities, nil
}

// FindPhoto returns nil without error when the incident exists but has no photo.
func (r *IncidentRepositoryImpl) FindPhoto(ctx context.Context, id uint) ([]byte, error) {
	var photo models.IncidentPhotoModel
	err := db.GetTxFromContext(ctx, r.db).Where("incident_id = ?", id).Take(&photo).Error
	if err == nil {
		return photo.Data, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Errorw("failed to get incident photo", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get incident photo: %w", err)
	}

	exists, err := r.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, incident.ErrIncidentNotFound
	}
	return nil, nil
}

// Save inserts new incidents at version 0. Existing incidents are updated only
// if the stored version still equals the carried one; the version is then
// advanced both in the row and in the entity.
func (r *IncidentRepositoryImpl) Save(ctx context.Context, inc *incident.Incident) error {
	if inc.IsNew() {
		return r.create(ctx, inc)
	}

	model := r.mapper.ToModel(inc)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.IncidentModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]any{
			"type_id":        model.TypeID,
			"description":    model.Description,
			"location":       model.Location,
			"latitude":       model.Latitude,
			"longitude":      model.Longitude,
			"department":     model.Department,
			"state":          model.State,
			"reporter_email": model.ReporterEmail,
			"has_photo":      model.HasPhoto,
			"version":        gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update incident", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update incident: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return r.casFailure(ctx, model.ID)
	}

	inc.IncrementVersion()
	r.logger.Debugw("incident updated", "id", model.ID, "version", inc.Version(), "state", model.State)
	return nil
}

func (r *IncidentRepositoryImpl) create(ctx context.Context, inc *incident.Incident) error {
	model := r.mapper.ToModel(inc)
	model.Version = 0

	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if len(inc.Photo()) > 0 {
			photo := &models.IncidentPhotoModel{IncidentID: model.ID, Data: inc.Photo()}
			if err := tx.Create(photo).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Errorw("failed to create incident in database", "error", err)
		return fmt.Errorf("failed to create incident: %w", err)
	}

	if err := inc.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set incident ID", "error", err)
		return fmt.Errorf("failed to set incident ID: %w", err)
	}

	r.logger.Infow("incident created successfully", "id", model.ID, "type_id", model.TypeID, "reporter", model.ReporterEmail)
	return nil
}

// Delete removes the incident and its photo under the same version check as Save.
func (r *IncidentRepositoryImpl) Delete(ctx context.Context, inc *incident.Incident) error {
	var rows int64
	err := db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND version = ?", inc.ID(), inc.Version()).Delete(&models.IncidentModel{})
		if result.Error != nil {
			return result.Error
		}
		rows = result.RowsAffected
		if rows == 0 {
			return nil
		}
		return tx.Where("incident_id = ?", inc.ID()).Delete(&models.IncidentPhotoModel{}).Error
	})
	if err != nil {
		r.logger.Errorw("failed to delete incident", "id", inc.ID(), "error", err)
		return fmt.Errorf("failed to delete incident: %w", err)
	}

	if rows == 0 {
		return r.casFailure(ctx, inc.ID())
	}

	r.logger.Infow("incident deleted successfully", "id", inc.ID())
	return nil
}

func (r *IncidentRepositoryImpl) CountByType(ctx context.Context, typeID uint) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.IncidentModel{}).Where("type_id = ?", typeID).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to count incidents by type", "type_id", typeID, "error", err)
		return 0, fmt.Errorf("failed to count incidents: %w", err)
	}
	return count, nil
}

// Flush is a no-op: gorm executes every statement eagerly, so version
// conflicts already surfaced from Save or Delete.
func (r *IncidentRepositoryImpl) Flush(ctx context.Context) error {
	return ctx.Err()
}

// casFailure distinguishes a lost race from a row that no longer exists.
func (r *IncidentRepositoryImpl) casFailure(ctx context.Context, id uint) error {
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return incident.ErrIncidentNotFound
	}
	return incident.ErrVersionConflict
}

func (r *IncidentRepositoryImpl) exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.IncidentModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		r.logger.Errorw("failed to check incident existence", "id", id, "error", err)
		return false, fmt.Errorf("failed to check incident: %w", err)
	}
	return count > 0, nil
}

func (r *IncidentRepositoryImpl) toDomain(model *models.IncidentModel) (*incident.Incident, error) {
	entity, err := r.mapper.ToDomain(model)
	if err != nil {
		r.logger.Errorw("failed to map incident model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map incident: %w", err)
	}
	return entity, nil
}
