package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardenlx/book-go/internal/domain"
)

func TestValidate_NormalizesInput(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	req := CreateRequest{
		ClientName:  "  Jamie Rivera  ",
		ClientEmail: " jamie@example.com ",
		ClientPhone: " +1-555-0100 ",
		EventDate:   "2026-05-10",
		EventType:   " Birthday Party ",
		Services:    []string{" Magic Show ", "", "Balloon Art"},
	}

	b, err := validate(req, now)

	require.NoError(t, err)
	assert.Equal(t, "Jamie Rivera", b.ClientName)
	assert.Equal(t, "jamie@example.com", b.ClientEmail)
	assert.Equal(t, "Birthday Party", b.EventType)
	assert.Equal(t, []string{"Magic Show", "Balloon Art"}, b.Services)
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Equal(t, domain.PaymentUnpaid, b.PaymentStatus)
}

func TestValidate_AggregatesViolations(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := validate(CreateRequest{}, now)

	require.ErrorIs(t, err, ErrValidation)
	msg := err.Error()
	for _, want := range []string{
		"client name is required",
		"client email is required",
		"client phone is required",
		"event date is required",
		"event type is required",
		"at least one service is required",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestValidate_MoneyMustBePositive(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	zero := int64(0)
	req := CreateRequest{
		ClientName:  "Jamie Rivera",
		ClientEmail: "jamie@example.com",
		ClientPhone: "+1-555-0100",
		EventDate:   "2026-05-10",
		EventType:   "Wedding",
		Services:    []string{"DJ"},
		TotalCents:  &zero,
	}

	_, err := validate(req, now)

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "total amount must be positive")
}

func TestValidate_LengthLimits(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	long := strings.Repeat("x", maxRequestLen+1)
	req := CreateRequest{
		ClientName:      "Jamie Rivera",
		ClientEmail:     "jamie@example.com",
		ClientPhone:     "+1-555-0100",
		EventDate:       "2026-05-10",
		EventType:       "Wedding",
		Services:        []string{"DJ"},
		SpecialRequests: &long,
	}

	_, err := validate(req, now)

	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "special requests exceed")
}
