package usecases

import (
	"context"

	"urbanincidents/internal/application/incident/dto"
	"urbanincidents/internal/domain/incident"
	"urbanincidents/internal/shared/logger"
)

type GetIncidentQuery struct {
	IncidentID uint
}

type GetIncidentUseCase struct {
	incidentRepo incident.Repository
	logger       logger.Interface
}

func NewGetIncidentUseCase(incidentRepo incident.Repository, logger logger.Interface) *GetIncidentUseCase {
	return &GetIncidentUseCase{
		incidentRepo: incidentRepo,
		logger:       logger,
	}
}

func (uc *GetIncidentUseCase) Execute(ctx context.Context, query GetIncidentQuery) (*dto.IncidentDTO, error) {
	found, err := uc.incidentRepo.FindByID(ctx, query.IncidentID)
	if err != nil {
		return nil, mapIncidentError(uc.logger, "get incident", query.IncidentID, err)
	}
	return dto.ToIncidentDTO(found), nil
}

type GetIncidentPhotoQuery struct {
	IncidentID uint
}

// GetIncidentPhotoUseCase returns the photo payload, which list and search
// results never carry. An incident without a photo yields nil.
type GetIncidentPhotoUseCase struct {
	incidentRepo incident.Repository
	logger       logger.Interface
}

func NewGetIncidentPhotoUseCase(incidentRepo incident.Repository, logger logger.Interface) *GetIncidentPhotoUseCase {
	return &GetIncidentPhotoUseCase{
		incidentRepo: incidentRepo,
		logger:       logger,
	}
}

func (uc *GetIncidentPhotoUseCase) Execute(ctx context.Context, query GetIncidentPhotoQuery) ([]byte, error) {
	photo, err := uc.incidentRepo.FindPhoto(ctx, query.IncidentID)
	if err != nil {
		return nil, mapIncidentError(uc.logger, "get incident photo", query.IncidentID, err)
	}
	return photo, nil
}
