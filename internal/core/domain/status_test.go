package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValidity(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusUnderReview, StatusVerified, StatusApproved, StatusRejected, StatusDisbursed} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, Status("cancelled").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusUnderReview, true},
		{StatusPending, StatusVerified, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusApproved, false},
		{StatusPending, StatusDisbursed, false},
		{StatusUnderReview, StatusVerified, true},
		{StatusUnderReview, StatusRejected, true},
		{StatusUnderReview, StatusApproved, false},
		{StatusVerified, StatusApproved, true},
		{StatusVerified, StatusRejected, true},
		{StatusVerified, StatusDisbursed, false},
		{StatusApproved, StatusDisbursed, true},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusPending, false},
		{StatusRejected, StatusUnderReview, false},
		{StatusDisbursed, StatusApproved, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestTerminalAndInFlight(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusDisbursed.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())

	inFlight := InFlightStatuses()
	assert.ElementsMatch(t, []Status{StatusPending, StatusUnderReview, StatusVerified, StatusApproved}, inFlight)
	for _, s := range inFlight {
		assert.True(t, s.IsInFlight(), string(s))
	}
	assert.False(t, StatusRejected.IsInFlight())
}

func TestAllowedNext(t *testing.T) {
	assert.ElementsMatch(t, []Status{StatusUnderReview, StatusVerified, StatusRejected}, AllowedNext(StatusPending))
	assert.Empty(t, AllowedNext(StatusDisbursed))
	assert.Empty(t, AllowedNext(StatusRejected))
}

func TestAmountsAndPrefixes(t *testing.T) {
	assert.EqualValues(t, 50000, AmountFor(TypeVictim))
	assert.EqualValues(t, 250000, AmountFor(TypeMarriage))
	assert.Equal(t, "VIC", TrackingPrefixFor(TypeVictim))
	assert.Equal(t, "MAR", TrackingPrefixFor(TypeMarriage))
}

func TestCasteAndIncidentCatalogs(t *testing.T) {
	assert.True(t, IsValidCasteCategory("SC"))
	assert.True(t, IsValidCasteCategory("General"))
	assert.False(t, IsValidCasteCategory("sc"))
	assert.False(t, IsValidCasteCategory("unknown"))

	assert.True(t, IsValidIncidentType("atrocity"))
	assert.True(t, IsValidIncidentType("land_rights"))
	assert.False(t, IsValidIncidentType("Atrocity"))
}
