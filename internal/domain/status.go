package domain

import "strings"

// StockStatus buckets an item by how close it is to running out
type StockStatus string

const (
	StockHealthy  StockStatus = "healthy"
	StockMedium   StockStatus = "medium"
	StockLow      StockStatus = "low"
	StockCritical StockStatus = "critical"
)

// StockStatuses lists every status bucket from healthiest to most severe.
var StockStatuses = []StockStatus{StockHealthy, StockMedium, StockLow, StockCritical}

// Action is what the recommendation asks the operator to do
type Action string

const (
	ActionMaintain         Action = "maintain"
	ActionReorder          Action = "reorder"
	ActionEmergencyReorder Action = "emergency_reorder"
	ActionReduce           Action = "reduce"
)

// NeedsOrder reports whether the action places a purchase order.
func (a Action) NeedsOrder() bool {
	return a == ActionReorder || a == ActionEmergencyReorder
}

// Urgency of a recommendation
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

var urgencyRanks = map[Urgency]int{
	UrgencyLow:      0,
	UrgencyMedium:   1,
	UrgencyHigh:     2,
	UrgencyCritical: 3,
}

// Rank returns a sortable severity for the urgency; unknown values rank below low.
func (u Urgency) Rank() int {
	if rank, ok := urgencyRanks[u]; ok {
		return rank
	}

	return -1
}

// ParseUrgency returns the urgency for a given label (case-insensitive).
func ParseUrgency(label string) (Urgency, bool) {
	u := Urgency(strings.ToLower(strings.TrimSpace(label)))
	_, ok := urgencyRanks[u]

	return u, ok
}
