package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"lotus/internal/itinerary"
	dbm "lotus/internal/models/db_models"
	"lotus/internal/repositories"
	"lotus/pkg/utils"
)

type ItineraryPersisterInterface interface {
	// Persist stores it for ownerID. With a tripID the existing trip is
	// updated and its days are replaced; a tripID that does not exist yet is
	// created under that id. The returned id is nil when nothing usable was
	// stored, and the pre-existing id when an update failed part way.
	Persist(ctx context.Context, it itinerary.Itinerary, ownerID uuid.UUID, tripID *uuid.UUID) (*uuid.UUID, error)
}

type ItineraryPersister struct {
	tripRepo repositories.TripRepository
	logger   *zap.Logger
}

func NewItineraryPersister(tripRepo repositories.TripRepository, logger *zap.Logger) ItineraryPersisterInterface {
	return &ItineraryPersister{tripRepo: tripRepo, logger: logger}
}

func (p *ItineraryPersister) Persist(ctx context.Context, it itinerary.Itinerary, ownerID uuid.UUID, tripID *uuid.UUID) (*uuid.UUID, error) {
	var existing *dbm.Trip
	if tripID != nil {
		trip, err := p.tripRepo.GetTripByID(ctx, *tripID)
		if err != nil {
			return nil, fmt.Errorf("%w: load trip: %v", utils.ErrDatabaseError, err)
		}
		if trip != nil && trip.OwnerID != ownerID {
			return nil, utils.ErrForbidden
		}
		existing = trip
	}

	var id uuid.UUID
	if existing != nil {
		id = existing.ID
		if err := p.replaceTrip(ctx, existing, it); err != nil {
			return &id, err
		}
	} else {
		trip := newTripModel(it, ownerID)
		if tripID != nil {
			trip.ID = *tripID
		}
		if err := p.tripRepo.CreateTrip(ctx, trip); err != nil {
			return nil, fmt.Errorf("%w: create trip: %v", utils.ErrDatabaseError, err)
		}
		id = trip.ID
	}

	days, activities := dayRows(id, it.Days)
	if err := p.tripRepo.CreateTripDays(ctx, days); err != nil {
		if existing != nil {
			return &id, fmt.Errorf("%w: insert days: %v", utils.ErrDatabaseError, err)
		}
		return nil, fmt.Errorf("%w: insert days: %v", utils.ErrDatabaseError, err)
	}

	// the trip is usable without activity detail
	if err := p.tripRepo.CreateTripActivities(ctx, activities); err != nil {
		p.logger.Error("failed to insert trip activities",
			zap.String("trip_id", id.String()),
			zap.Int("count", len(activities)),
			zap.Error(err))
	}

	return &id, nil
}

// replaceTrip updates the trip columns in place and drops the old days.
// Dates missing from the new itinerary keep their stored values.
func (p *ItineraryPersister) replaceTrip(ctx context.Context, existing *dbm.Trip, it itinerary.Itinerary) error {
	startDate := utils.ParseDate(it.StartDate)
	if startDate == nil {
		startDate = existing.StartDate
	}
	endDate := utils.ParseDate(it.EndDate)
	if endDate == nil {
		endDate = existing.EndDate
	}

	updates := map[string]any{
		"title":           it.Title,
		"destination":     it.Destination,
		"start_date":      startDate,
		"end_date":        endDate,
		"party_size":      it.PartySize,
		"budget_currency": it.BudgetCurrency,
		"budget_total":    it.BudgetTotal,
		"notes":           it.Notes,
		"metadata":        mergeTripMetadata(existing.Metadata, it),
	}
	if err := p.tripRepo.UpdateTrip(ctx, existing.ID, updates); err != nil {
		return fmt.Errorf("%w: update trip: %v", utils.ErrDatabaseError, err)
	}
	if err := p.tripRepo.DeleteTripDays(ctx, existing.ID); err != nil {
		return fmt.Errorf("%w: delete days: %v", utils.ErrDatabaseError, err)
	}
	return nil
}

func newTripModel(it itinerary.Itinerary, ownerID uuid.UUID) *dbm.Trip {
	return &dbm.Trip{
		OwnerID:        ownerID,
		Title:          it.Title,
		Destination:    it.Destination,
		StartDate:      utils.ParseDate(it.StartDate),
		EndDate:        utils.ParseDate(it.EndDate),
		PartySize:      it.PartySize,
		BudgetCurrency: it.BudgetCurrency,
		BudgetTotal:    it.BudgetTotal,
		Notes:          it.Notes,
		Metadata:       mergeTripMetadata(nil, it),
	}
}
