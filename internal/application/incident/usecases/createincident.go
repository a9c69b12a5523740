package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"urbanincidents/internal/application/incident/dto"
	"urbanincidents/internal/domain/incident"
	vo "urbanincidents/internal/domain/incident/valueobjects"
	"urbanincidents/internal/domain/permission"
	"urbanincidents/internal/domain/user"
	"urbanincidents/internal/shared/errors"
	"urbanincidents/internal/shared/logger"
	"urbanincidents/internal/shared/utils"
)

type CreateIncidentCommand struct {
	Reporter    *user.User `json:"-"`
	ReportedAt  time.Time  `json:"reported_at"`
	TypeName    string     `json:"type" validate:"notblank"`
	Description string     `json:"description" validate:"notblank"`
	Location    string     `json:"location" validate:"notblank"`
	Latitude    float32    `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float32    `json:"longitude" validate:"gte=-180,lte=180"`
	Department  string     `json:"department" validate:"notblank"`
	Photo       []byte     `json:"-"`
}

// CreateIncidentUseCase files a new incident unless an unresolved one lies
// within incident.DuplicateRadiusMeters of it.
type CreateIncidentUseCase struct {
	incidentRepo incident.Repository
	typeRepo     incident.TypeRepository
	txRunner     TransactionRunner
	enforcer     permission.PermissionEnforcer
	logger       logger.Interface
}

func NewCreateIncidentUseCase(
	incidentRepo incident.Repository,
	typeRepo incident.TypeRepository,
	txRunner TransactionRunner,
	enforcer permission.PermissionEnforcer,
	logger logger.Interface,
) *CreateIncidentUseCase {
	return &CreateIncidentUseCase{
		incidentRepo: incidentRepo,
		typeRepo:     typeRepo,
		txRunner:     txRunner,
		enforcer:     enforcer,
		logger:       logger,
	}
}

func (uc *CreateIncidentUseCase) Execute(ctx context.Context, cmd CreateIncidentCommand) (*dto.IncidentDTO, error) {
	if cmd.Reporter == nil {
		return nil, errors.NewNotAuthorizedError("reporter identity is required")
	}

	uc.logger.Infow("executing create incident use case", "reporter", cmd.Reporter.Email(), "type", cmd.TypeName)

	if err := authorize(uc.enforcer, uc.logger, cmd.Reporter, permission.ResourceIncident, permission.ActionCreate); err != nil {
		return nil, err
	}

	cmd.TypeName = utils.NormalizeName(cmd.TypeName)
	cmd.Description = utils.CleanText(cmd.Description)
	cmd.Location = utils.CleanText(cmd.Location)
	cmd.Department = utils.CleanText(cmd.Department)

	if err := utils.ValidateStruct(cmd); err != nil {
		uc.logger.Warnw("invalid create incident command", "error", err)
		return nil, err
	}

	coords, err := vo.NewCoordinate(cmd.Latitude, cmd.Longitude)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	incidentType, err := uc.typeRepo.FindByName(ctx, cmd.TypeName)
	if err != nil {
		if stderrors.Is(err, incident.ErrTypeNotFound) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("incident type %q not found", cmd.TypeName))
		}
		uc.logger.Errorw("failed to get incident type", "type", cmd.TypeName, "error", err)
		return nil, errors.NewInternalError("failed to get incident type")
	}

	newIncident, err := incident.NewIncident(
		cmd.ReportedAt,
		incidentType,
		cmd.Description,
		cmd.Location,
		coords,
		cmd.Department,
		cmd.Reporter.Email(),
		cmd.Photo,
	)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		duplicate, err := uc.findOpenNear(ctx, coords)
		if err != nil {
			return err
		}
		if duplicate != nil {
			uc.logger.Infow("rejecting duplicate incident report",
				"existing_id", duplicate.ID(),
				"distance_m", vo.DistanceMeters(coords, duplicate.Coordinates()))
			return errors.NewIncidentInProgressError(
				fmt.Sprintf("incident %d is already being handled at this location", duplicate.ID()))
		}

		if err := uc.incidentRepo.Save(ctx, newIncident); err != nil {
			uc.logger.Errorw("failed to save incident", "error", err)
			return errors.NewInternalError("failed to save incident")
		}
		return uc.incidentRepo.Flush(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("incident created successfully", "incident_id", newIncident.ID(), "reporter", newIncident.ReporterEmail())

	return dto.ToIncidentDTO(newIncident), nil
}

// findOpenNear returns the first pending or under-review incident strictly
// closer than the duplicate radius, or nil.
func (uc *CreateIncidentUseCase) findOpenNear(ctx context.Context, coords vo.Coordinate) (*incident.Incident, error) {
	open, err := uc.incidentRepo.FindOpen(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list open incidents", "error", err)
		return nil, errors.NewInternalError("failed to check for duplicate incidents")
	}
	for _, existing := range open {
		if existing.IsNear(coords) {
			return existing, nil
		}
	}
	return nil, nil
}
