package repository

import (
	"sort"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// SortApplications orders by priority (urgent first), then newest submission first.
// Ties fall back to id so the order is deterministic.
func SortApplications(apps []domain.VettingApplication) {
	sort.SliceStable(apps, func(i, j int) bool {
		ri, rj := apps[i].PriorityLevel.Rank(), apps[j].PriorityLevel.Rank()
		if ri != rj {
			return ri > rj
		}
		if !apps[i].SubmittedAt.Equal(apps[j].SubmittedAt) {
			return apps[i].SubmittedAt.After(apps[j].SubmittedAt)
		}
		return apps[i].ID < apps[j].ID
	})
}

// MatchesApplication applies scope, then the user filters, to a single application.
func MatchesApplication(app *domain.VettingApplication, filter ApplicationFilter) bool {
	if filter.Scope.CompanyID != nil && app.CompanyID() != *filter.Scope.CompanyID {
		return false
	}
	if filter.Scope.OfficerID != nil && !app.IsAssignedTo(*filter.Scope.OfficerID) {
		return false
	}
	if len(filter.Statuses) > 0 && !contains(filter.Statuses, app.CurrentStatus) {
		return false
	}
	if len(filter.UserTypes) > 0 && !contains(filter.UserTypes, app.UserType) {
		return false
	}
	if len(filter.Priorities) > 0 && !contains(filter.Priorities, app.PriorityLevel) {
		return false
	}
	if len(filter.Tiers) > 0 && !contains(filter.Tiers, app.VettingTier) {
		return false
	}
	if filter.CompanyID != nil && app.CompanyID() != *filter.CompanyID {
		return false
	}
	if filter.OfficerID != nil && !app.IsAssignedTo(*filter.OfficerID) {
		return false
	}
	return true
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
