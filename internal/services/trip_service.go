package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"lotus/internal/itinerary"
	dbm "lotus/internal/models/db_models"
	"lotus/internal/models/response_models"
	"lotus/internal/repositories"
	"lotus/pkg/utils"
)

const defaultEventLength = time.Hour

type TripServiceInterface interface {
	GetTripDetails(ctx context.Context, tripID string, userID uuid.UUID) (*response_models.TripDetailResponse, error)
	GetItinerary(ctx context.Context, tripID string, userID uuid.UUID) (*itinerary.Itinerary, error)
	ExportCalendar(ctx context.Context, tripID string, userID uuid.UUID) (string, error)
}

type TripService struct {
	tripRepo repositories.TripRepository
	pipeline itinerary.Pipeline
}

func NewTripService(tripRepo repositories.TripRepository, pipeline itinerary.Pipeline) TripServiceInterface {
	return &TripService{tripRepo: tripRepo, pipeline: pipeline}
}

func (s *TripService) GetTripDetails(ctx context.Context, tripID string, userID uuid.UUID) (*response_models.TripDetailResponse, error) {
	trip, err := s.loadOwnedTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	return tripDetailFromModel(trip, s.location()), nil
}

// GetItinerary rebuilds the normalized itinerary from the stored rows.
func (s *TripService) GetItinerary(ctx context.Context, tripID string, userID uuid.UUID) (*itinerary.Itinerary, error) {
	trip, err := s.loadOwnedTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	it, err := s.pipeline.Renormalize(itineraryFromTrip(trip, s.location()))
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ExportCalendar renders the trip as an iCalendar document with one event
// per activity that has a start time. Activities without an end last an hour.
func (s *TripService) ExportCalendar(ctx context.Context, tripID string, userID uuid.UUID) (string, error) {
	trip, err := s.loadOwnedTrip(ctx, tripID, userID)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//lotus//itinerary//ZH")
	cal.SetXWRCalName(trip.Title)

	for _, day := range trip.Days {
		for _, a := range day.Activities {
			if a.StartTime == nil {
				continue
			}
			end := a.StartTime.Add(defaultEventLength)
			if a.EndTime != nil && a.EndTime.After(*a.StartTime) {
				end = *a.EndTime
			}

			event := cal.AddEvent(fmt.Sprintf("%s@lotus", a.ID))
			event.SetDtStampTime(trip.UpdatedAt)
			event.SetCreatedTime(trip.CreatedAt)
			event.SetStartAt(*a.StartTime)
			event.SetEndAt(end)
			event.SetSummary(a.Title)
			if a.Location != nil {
				event.SetLocation(*a.Location)
			}
			if desc := eventDescription(day, a); desc != "" {
				event.SetDescription(desc)
			}
		}
	}
	return cal.Serialize(), nil
}

func eventDescription(day dbm.TripDay, a dbm.TripActivity) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("第%d天", day.DayIndex))
	if a.Notes != nil && *a.Notes != "" {
		parts = append(parts, *a.Notes)
	}
	if a.EstimatedCost != nil {
		parts = append(parts, fmt.Sprintf("预估费用 %.2f", *a.EstimatedCost))
	}
	return strings.Join(parts, "\n")
}

func (s *TripService) loadOwnedTrip(ctx context.Context, tripID string, userID uuid.UUID) (*dbm.Trip, error) {
	id, err := uuid.Parse(tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: trip id must be a UUID", utils.ErrInvalidInput)
	}

	trip, err := s.tripRepo.GetTripDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	if trip.OwnerID != userID {
		return nil, utils.ErrForbidden
	}
	return trip, nil
}

func (s *TripService) location() *time.Location {
	if s.pipeline.Location == nil {
		return time.UTC
	}
	return s.pipeline.Location
}
