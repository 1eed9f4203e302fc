package validator_test

import (
	"errors"
	"testing"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"
	"readyToHelp/pkg/validator"
)

func ptr[T any](v T) *T { return &v }

func validReport() domain.CreateReportRequest {
	return domain.CreateReportRequest{
		Title:       "Smoke over the ridge",
		Description: "Thick smoke visible from the road",
		Category:    domain.ForestFire,
		UserID:      7,
		Lat:         ptr(41.15),
		Lng:         ptr(-8.61),
	}
}

func TestValidateStruct_Report(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(r *domain.CreateReportRequest)
		wantErr error
	}{
		{"valid", func(r *domain.CreateReportRequest) {}, nil},
		{"lat_too_high", func(r *domain.CreateReportRequest) { r.Lat = ptr(91.0) }, e.ErrOutOfRange},
		{"lng_too_low", func(r *domain.CreateReportRequest) { r.Lng = ptr(-181.0) }, e.ErrOutOfRange},
		{"both_coords_out", func(r *domain.CreateReportRequest) { r.Lat, r.Lng = ptr(-90.5), ptr(180.5) }, e.ErrOutOfRange},
		{"zero_coords_ok", func(r *domain.CreateReportRequest) { r.Lat, r.Lng = ptr(0.0), ptr(0.0) }, nil},
		{"missing_lat", func(r *domain.CreateReportRequest) { r.Lat = nil }, e.ErrValidation},
		{"blank_title", func(r *domain.CreateReportRequest) { r.Title = "   " }, e.ErrValidation},
		{"blank_title_and_bad_lat", func(r *domain.CreateReportRequest) { r.Title, r.Lat = "", ptr(91.0) }, e.ErrValidation},
		{"unknown_category", func(r *domain.CreateReportRequest) { r.Category = "VOLCANO" }, e.ErrValidation},
		{"no_user", func(r *domain.CreateReportRequest) { r.UserID = 0 }, e.ErrValidation},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			r := validReport()
			c.mutate(&r)
			err := validator.ValidateStruct(r)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("expected %v, got %v", c.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct_ChangeStatus(t *testing.T) {
	t.Parallel()

	if err := validator.ValidateStruct(domain.ChangeStatusRequest{Status: domain.StatusInProgress}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validator.ValidateStruct(domain.ChangeStatusRequest{Status: domain.StatusWaiting}); !errors.Is(err, e.ErrValidation) {
		t.Fatalf("WAITING must not be settable, got %v", err)
	}
}
