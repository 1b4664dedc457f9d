package services_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	dbm "lotus/internal/models/db_models"
	"lotus/internal/repositories"
	"lotus/pkg/utils"
)

var shanghai = time.FixedZone("CST", 8*60*60)

// fakeTripRepo keeps rows in memory. The *Err fields make the matching
// write fail.
type fakeTripRepo struct {
	trips       map[uuid.UUID]*dbm.Trip
	days        []dbm.TripDay
	activities  []dbm.TripActivity
	transcripts []dbm.ItineraryTranscript

	getErr              error
	updateErr           error
	createDaysErr       error
	createActivitiesErr error
	createTranscriptErr error
}

var _ repositories.TripRepository = (*fakeTripRepo)(nil)

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: map[uuid.UUID]*dbm.Trip{}}
}

func (f *fakeTripRepo) GetTripByID(_ context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	trip, ok := f.trips[tripID]
	if !ok {
		return nil, nil
	}
	cp := *trip
	cp.Days = nil
	return &cp, nil
}

func (f *fakeTripRepo) GetTripDetails(ctx context.Context, tripID uuid.UUID) (*dbm.Trip, error) {
	trip, err := f.GetTripByID(ctx, tripID)
	if trip == nil || err != nil {
		return trip, err
	}
	for _, d := range f.days {
		if d.TripID != tripID {
			continue
		}
		for _, a := range f.activities {
			if a.TripDayID == d.ID {
				d.Activities = append(d.Activities, a)
			}
		}
		sort.Slice(d.Activities, func(i, j int) bool { return d.Activities[i].OrderIndex < d.Activities[j].OrderIndex })
		trip.Days = append(trip.Days, d)
	}
	sort.Slice(trip.Days, func(i, j int) bool { return trip.Days[i].DayIndex < trip.Days[j].DayIndex })
	return trip, nil
}

func (f *fakeTripRepo) CreateTrip(_ context.Context, trip *dbm.Trip) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	now := time.Now()
	trip.CreatedAt, trip.UpdatedAt = now, now
	cp := *trip
	f.trips[trip.ID] = &cp
	return nil
}

func (f *fakeTripRepo) UpdateTrip(_ context.Context, tripID uuid.UUID, updates map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	trip, ok := f.trips[tripID]
	if !ok {
		return utils.ErrTripNotFound
	}
	for k, v := range updates {
		switch k {
		case "title":
			trip.Title = v.(string)
		case "destination":
			trip.Destination = v.(string)
		case "start_date":
			trip.StartDate = v.(*time.Time)
		case "end_date":
			trip.EndDate = v.(*time.Time)
		case "party_size":
			trip.PartySize = v.(int)
		case "budget_currency":
			trip.BudgetCurrency = v.(string)
		case "budget_total":
			trip.BudgetTotal = v.(*float64)
		case "notes":
			trip.Notes = v.(*string)
		case "metadata":
			trip.Metadata = v.(datatypes.JSONMap)
		}
	}
	trip.UpdatedAt = time.Now()
	return nil
}

func (f *fakeTripRepo) DeleteTripDays(_ context.Context, tripID uuid.UUID) error {
	var days []dbm.TripDay
	for _, d := range f.days {
		if d.TripID != tripID {
			days = append(days, d)
		}
	}
	var activities []dbm.TripActivity
	for _, a := range f.activities {
		if a.TripID != tripID {
			activities = append(activities, a)
		}
	}
	f.days, f.activities = days, activities
	return nil
}

func (f *fakeTripRepo) CreateTripDays(_ context.Context, days []dbm.TripDay) error {
	if f.createDaysErr != nil {
		return f.createDaysErr
	}
	f.days = append(f.days, days...)
	return nil
}

func (f *fakeTripRepo) CreateTripActivities(_ context.Context, activities []dbm.TripActivity) error {
	if f.createActivitiesErr != nil {
		return f.createActivitiesErr
	}
	for _, a := range activities {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		f.activities = append(f.activities, a)
	}
	return nil
}

func (f *fakeTripRepo) CreateTranscript(_ context.Context, transcript *dbm.ItineraryTranscript) error {
	if f.createTranscriptErr != nil {
		return f.createTranscriptErr
	}
	f.transcripts = append(f.transcripts, *transcript)
	return nil
}

func (f *fakeTripRepo) activitiesOf(tripID uuid.UUID) []dbm.TripActivity {
	var out []dbm.TripActivity
	for _, a := range f.activities {
		if a.TripID == tripID {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeTripRepo) daysOf(tripID uuid.UUID) []dbm.TripDay {
	var out []dbm.TripDay
	for _, d := range f.days {
		if d.TripID == tripID {
			out = append(out, d)
		}
	}
	return out
}

type fakeCompletionClient struct {
	complete func(ctx context.Context, systemPrompt, userPrompt string) (utils.Completion, error)
}

var _ utils.CompletionClient = (*fakeCompletionClient)(nil)

func (f *fakeCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (utils.Completion, error) {
	return f.complete(ctx, systemPrompt, userPrompt)
}

func replying(content string) *fakeCompletionClient {
	return &fakeCompletionClient{complete: func(context.Context, string, string) (utils.Completion, error) {
		return utils.Completion{Content: content, Raw: map[string]any{"content": content}}, nil
	}}
}
