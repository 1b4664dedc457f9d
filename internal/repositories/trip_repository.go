package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "lotus/internal/models/db_models"
)

type TripRepository interface {
	GetTripByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error)
	GetTripDetails(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error)
	CreateTrip(ctx context.Context, trip *dbm.Trip) error
	UpdateTrip(ctx context.Context, tripID uuid.UUID, updates map[string]any) error
	DeleteTripDays(ctx context.Context, tripID uuid.UUID) error
	CreateTripDays(ctx context.Context, days []dbm.TripDay) error
	CreateTripActivities(ctx context.Context, activities []dbm.TripActivity) error
	CreateTranscript(ctx context.Context, transcript *dbm.ItineraryTranscript) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

// GetTripByID returns nil without an error when the trip does not exist.
func (r *tripRepository) GetTripByID(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).First(&trip, "id = ?", tripID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("repo.TripRepository.GetTripByID: %w", err)
	}
	return &trip, nil
}

// GetTripDetails loads the trip with its days ordered by day_index and each
// day's activities ordered by order_index, then start_time.
func (r *tripRepository) GetTripDetails(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_index ASC")
		}).
		Preload("Days.Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC").Order("start_time ASC NULLS LAST")
		}).
		First(&trip, "id = ?", tripID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("repo.TripRepository.GetTripDetails: %w", err)
	}
	return &trip, nil
}

func (r *tripRepository) CreateTrip(ctx context.Context, trip *dbm.Trip) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(trip).Error; err != nil {
		return fmt.Errorf("repo.TripRepository.CreateTrip: %w", err)
	}
	return nil
}

// UpdateTrip writes the given columns, including NULLs, in place.
func (r *tripRepository) UpdateTrip(ctx context.Context, tripID uuid.UUID, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&dbm.Trip{}).Where("id = ?", tripID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("repo.TripRepository.UpdateTrip: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("repo.TripRepository.UpdateTrip: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteTripDays removes every day of the trip and their activities.
func (r *tripRepository) DeleteTripDays(ctx context.Context, tripID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", tripID).Delete(&dbm.TripActivity{}).Error; err != nil {
			return err
		}
		return tx.Where("trip_id = ?", tripID).Delete(&dbm.TripDay{}).Error
	})
	if err != nil {
		return fmt.Errorf("repo.TripRepository.DeleteTripDays: %w", err)
	}
	return nil
}

func (r *tripRepository) CreateTripDays(ctx context.Context, days []dbm.TripDay) error {
	if len(days) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&days).Error; err != nil {
		return fmt.Errorf("repo.TripRepository.CreateTripDays: %w", err)
	}
	return nil
}

func (r *tripRepository) CreateTripActivities(ctx context.Context, activities []dbm.TripActivity) error {
	if len(activities) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&activities).Error; err != nil {
		return fmt.Errorf("repo.TripRepository.CreateTripActivities: %w", err)
	}
	return nil
}

func (r *tripRepository) CreateTranscript(ctx context.Context, transcript *dbm.ItineraryTranscript) error {
	if err := r.db.WithContext(ctx).Create(transcript).Error; err != nil {
		return fmt.Errorf("repo.TripRepository.CreateTranscript: %w", err)
	}
	return nil
}
