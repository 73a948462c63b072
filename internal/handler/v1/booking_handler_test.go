package v1

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careqhq/careq/internal/booking"
	"github.com/careqhq/careq/internal/config"
	"github.com/careqhq/careq/internal/domain/patient"
)

func testTriageConfig() config.TriageConfig {
	return config.TriageConfig{
		SymptomMinLength: 50,
		BookingHorizon:   7 * 24 * time.Hour,
	}
}

func testHandler() *BookingHandler {
	return NewBookingHandler(nil, testTriageConfig(), zap.NewNop())
}

func intakeRequest() *bookingRequest {
	return &bookingRequest{
		FirstName:               "Ravi",
		Age:                     54,
		Gender:                  "Male",
		Phone:                   "9876543210",
		SymptomText:             strings.Repeat("crushing chest pain radiating to the left arm ", 2),
		PreferredSpecialization: "Cardiology",
		Date:                    time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
	}
}

func TestValidateIntake(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name    string
		mutate  func(*bookingRequest)
		wantHit string
	}{
		{"valid request", func(r *bookingRequest) {}, ""},
		{"symptom below minimum", func(r *bookingRequest) { r.SymptomText = "fever and cough" }, "symptom_text"},
		{"phone too short", func(r *bookingRequest) { r.Phone = "12345" }, "phone"},
		{"phone with letters", func(r *bookingRequest) { r.Phone = "98765abc10" }, "phone"},
		{"date in the past", func(r *bookingRequest) {
			r.Date = time.Now().AddDate(0, 0, -2).Format("2006-01-02")
		}, "date"},
		{"date beyond horizon", func(r *bookingRequest) {
			r.Date = time.Now().AddDate(0, 0, 30).Format("2006-01-02")
		}, "date"},
		{"malformed date", func(r *bookingRequest) { r.Date = "10-03-2026" }, "date"},
		{"invalid mode", func(r *bookingRequest) { r.Mode = "Phone" }, "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := intakeRequest()
			tt.mutate(req)

			fields := h.validateIntake(req)
			if tt.wantHit == "" {
				assert.Empty(t, fields)
				return
			}

			require.NotEmpty(t, fields)
			found := false
			for _, f := range fields {
				if strings.Contains(f, tt.wantHit) {
					found = true
				}
			}
			assert.True(t, found, "expected a %q violation in %v", tt.wantHit, fields)
		})
	}
}

func TestCheckBookingDateCalendarDays(t *testing.T) {
	horizon := 7 * 24 * time.Hour
	parse := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	t.Run("today accepted late evening west of UTC", func(t *testing.T) {
		// 23:00 in UTC-8 is 07:00 the next day in UTC; a 24h truncation
		// of that instant lands past local midnight and would call the
		// caller's own day "the past".
		now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.FixedZone("PST", -8*3600))
		assert.Empty(t, checkBookingDate(parse("2026-03-10"), now, horizon))
	})

	t.Run("yesterday rejected", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		fields := checkBookingDate(parse("2026-03-09"), now, horizon)
		require.Len(t, fields, 1)
		assert.Contains(t, fields[0], "past")
	})

	t.Run("horizon edge accepted", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		assert.Empty(t, checkBookingDate(parse("2026-03-17"), now, horizon))
	})

	t.Run("beyond horizon rejected", func(t *testing.T) {
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		fields := checkBookingDate(parse("2026-03-18"), now, horizon)
		require.Len(t, fields, 1)
		assert.Contains(t, fields[0], "within 7 days")
	})
}

func TestIsTenDigits(t *testing.T) {
	assert.True(t, isTenDigits("9876543210"))
	assert.False(t, isTenDigits("987654321"))
	assert.False(t, isTenDigits("98765432101"))
	assert.False(t, isTenDigits("98765 4321"))
	assert.False(t, isTenDigits(""))
}

func TestRespondServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", patient.ErrPatientNotFound, http.StatusNotFound},
		{"conflict", patient.ErrPhoneAlreadyExists, http.StatusConflict},
		{"unauthorized", patient.ErrInvalidCredentials, http.StatusUnauthorized},
		{"no capacity step", &booking.StepError{Step: "assign doctor", Err: booking.ErrNoCapacity}, http.StatusConflict},
		{"duplicate phone step", &booking.StepError{Step: "create patient", Err: patient.ErrPhoneAlreadyExists}, http.StatusConflict},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
