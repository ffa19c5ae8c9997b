package repo

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"CareerBot/model"
)

// Realtime Database paths of each submission kind.
const (
	profilesPath      = "profiles"
	verificationsPath = "verifications"
	bookingsPath      = "bookings"
	evaluationsPath   = "evaluations"
)

// FirebaseConnector struct to hold Firebase client and database reference
type FirebaseConnector struct {
	app    *firebase.App
	client *db.Client
}

// NewFirebaseConnector creates a new Firebase connector
func NewFirebaseConnector(ctx context.Context, serviceAccountKeyPath string, databaseURL string) (*FirebaseConnector, error) {
	var opts []option.ClientOption
	if serviceAccountKeyPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountKeyPath))
	}

	config := &firebase.Config{
		DatabaseURL: databaseURL,
	}
	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting database client: %w", err)
	}

	return &FirebaseConnector{
		app:    app,
		client: client,
	}, nil
}

// set writes v at path/id. IDs are generated by the caller, so retrying a
// failed submission overwrites the same node instead of pushing a duplicate.
func (fc *FirebaseConnector) set(ctx context.Context, path, id string, v any) error {
	if id == "" {
		return errors.New("missing submission id")
	}
	return fc.client.NewRef(path).Child(id).Set(ctx, v)
}

// SaveProfile stores a completed profile.
func (fc *FirebaseConnector) SaveProfile(ctx context.Context, profile model.Profile) error {
	if err := fc.set(ctx, profilesPath, profile.ID, profile); err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}
	return nil
}

// SaveVerification stores a completed interviewer verification.
func (fc *FirebaseConnector) SaveVerification(ctx context.Context, v model.Verification) error {
	if err := fc.set(ctx, verificationsPath, v.ID, v); err != nil {
		return fmt.Errorf("error saving verification: %w", err)
	}
	return nil
}

// SaveBooking stores a completed mock interview booking.
func (fc *FirebaseConnector) SaveBooking(ctx context.Context, booking model.Booking) error {
	if err := fc.set(ctx, bookingsPath, booking.ID, booking); err != nil {
		return fmt.Errorf("error saving booking: %w", err)
	}
	return nil
}

// SaveEvaluation stores an interviewer's evaluation of a mock interview.
func (fc *FirebaseConnector) SaveEvaluation(ctx context.Context, e model.Evaluation) error {
	if err := fc.set(ctx, evaluationsPath, e.ID, e); err != nil {
		return fmt.Errorf("error saving evaluation: %w", err)
	}
	return nil
}

// ListBookingsByInterviewID lists every booking carrying the six-digit ID
// shown to users. The query needs the ".indexOn" rules in database.rules.json.
func (fc *FirebaseConnector) ListBookingsByInterviewID(ctx context.Context, interviewID string) ([]model.Booking, error) {
	var bookings map[string]model.Booking
	err := fc.client.NewRef(bookingsPath).OrderByChild("interviewID").EqualTo(interviewID).Get(ctx, &bookings)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	return bookingList(bookings), nil
}

// ListBookingsByUserID lists the bookings made by a Telegram user.
func (fc *FirebaseConnector) ListBookingsByUserID(ctx context.Context, userID int64) ([]model.Booking, error) {
	var bookings map[string]model.Booking
	err := fc.client.NewRef(bookingsPath).OrderByChild("userid").EqualTo(userID).Get(ctx, &bookings)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	return bookingList(bookings), nil
}

func bookingList(bookings map[string]model.Booking) []model.Booking {
	list := make([]model.Booking, 0, len(bookings))
	for key, b := range bookings {
		if b.ID == "" {
			b.ID = key
		}
		list = append(list, b)
	}
	return list
}
