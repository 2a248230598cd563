package domain

// Status represents the lifecycle state of an application
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusVerified    Status = "verified"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusDisbursed   Status = "disbursed"
)

// AllStatuses lists every valid status value
var AllStatuses = []Status{
	StatusPending,
	StatusUnderReview,
	StatusVerified,
	StatusApproved,
	StatusRejected,
	StatusDisbursed,
}

// transitions is the fixed edge set of the application state machine.
// rejected is reachable from any pre-approval state; disbursed only from
// approved. rejected and disbursed are terminal.
var transitions = map[Status][]Status{
	StatusPending:     {StatusUnderReview, StatusVerified, StatusRejected},
	StatusUnderReview: {StatusVerified, StatusRejected},
	StatusVerified:    {StatusApproved, StatusRejected},
	StatusApproved:    {StatusDisbursed},
	StatusRejected:    {},
	StatusDisbursed:   {},
}

// IsValid reports whether s is a known status value
func (s Status) IsValid() bool {
	for _, status := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition is defined from s
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusDisbursed
}

// IsInFlight reports whether s counts against the one-application-per-identity
// rule. Every non-terminal status blocks a new submission, including approved
// applications awaiting disbursal.
func (s Status) IsInFlight() bool {
	return !s.IsTerminal() && s.IsValid()
}

// CanTransition reports whether from -> to is a legal edge
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedNext returns the legal target statuses from the given status
func AllowedNext(from Status) []Status {
	next := transitions[from]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// InFlightStatuses returns the statuses that block a new submission
func InFlightStatuses() []Status {
	return []Status{StatusPending, StatusUnderReview, StatusVerified, StatusApproved}
}

// ApplicationType discriminates the two application variants
type ApplicationType string

const (
	TypeVictim   ApplicationType = "victim"
	TypeMarriage ApplicationType = "marriage"
)

// Fixed benefit amounts per application type (rupees, whole units)
const (
	VictimCompensationAmount     int64 = 50000
	MarriageIncentiveAmount      int64 = 250000
	TrackingPrefixVictim               = "VIC"
	TrackingPrefixMarriage             = "MAR"
	TrackingPrefixGrievance            = "GRV"
)

// AmountFor returns the fixed benefit amount for an application type
func AmountFor(t ApplicationType) int64 {
	if t == TypeMarriage {
		return MarriageIncentiveAmount
	}
	return VictimCompensationAmount
}

// TrackingPrefixFor returns the tracking-code prefix for an application type
func TrackingPrefixFor(t ApplicationType) string {
	if t == TypeMarriage {
		return TrackingPrefixMarriage
	}
	return TrackingPrefixVictim
}

// CasteCategory values accepted on identity records
var CasteCategories = []string{"SC", "ST", "OBC", "General", "Other"}

// IsValidCasteCategory reports whether c is an accepted caste category
func IsValidCasteCategory(c string) bool {
	for _, cat := range CasteCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// IncidentTypes accepted on victim applications
var IncidentTypes = []string{"discrimination", "atrocity", "land_rights", "employment", "education", "other"}

// IsValidIncidentType reports whether t is an accepted incident type
func IsValidIncidentType(t string) bool {
	for _, it := range IncidentTypes {
		if t == it {
			return true
		}
	}
	return false
}
