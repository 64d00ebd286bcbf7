package service

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// OverviewService aggregates the admin vetting dashboard. It never writes.
type OverviewService struct {
	applications repository.ApplicationRepository
	tasks        repository.TaskRepository
	companies    repository.CompanyRepository
	officers     repository.OfficerRepository
}

// NewOverviewService constructs the service.
func NewOverviewService(repos repository.Repositories) *OverviewService {
	return &OverviewService{
		applications: repos.Applications,
		tasks:        repos.Tasks,
		companies:    repos.Companies,
		officers:     repos.Officers,
	}
}

type overviewData struct {
	applications []domain.VettingApplication
	tasks        []domain.VerificationTask
	companies    []domain.VettingCompany
	officers     []domain.VettingOfficer
}

// ComputeOverview loads both stores and the directory concurrently and aggregates them.
func (s *OverviewService) ComputeOverview(ctx context.Context) (*domain.VettingOverview, error) {
	var data overviewData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		apps, err := s.applications.List(ctx, repository.ApplicationFilter{})
		data.applications = apps
		return err
	})
	g.Go(func() error {
		tasks, err := s.tasks.List(ctx, repository.TaskFilter{})
		data.tasks = tasks
		return err
	})
	g.Go(func() error {
		companies, err := s.companies.List(ctx, false)
		data.companies = companies
		return err
	})
	g.Go(func() error {
		officers, err := s.officers.List(ctx, repository.OfficerFilter{})
		data.officers = officers
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.MapError(err)
	}
	overview := aggregateOverview(data)
	return &overview, nil
}

func aggregateOverview(data overviewData) domain.VettingOverview {
	overview := domain.VettingOverview{
		Applications: domain.ApplicationCounts{
			Total:      len(data.applications),
			ByStatus:   map[string]int{},
			ByUserType: map[string]int{},
			ByPriority: map[string]int{},
			ByTier:     map[string]int{},
		},
		Tasks: domain.TaskCounts{
			Total:    len(data.tasks),
			ByStatus: map[string]int{},
			ByType:   map[string]int{},
		},
		Companies: domain.CompanyCounts{Total: len(data.companies)},
		Officers: domain.OfficerCounts{
			Total:            len(data.officers),
			ByAccessLevel:    map[string]int{},
			ByClearanceLevel: map[string]int{},
		},
	}

	for _, app := range data.applications {
		overview.Applications.ByStatus[string(app.CurrentStatus)]++
		overview.Applications.ByUserType[string(app.UserType)]++
		overview.Applications.ByPriority[string(app.PriorityLevel)]++
		overview.Applications.ByTier[string(app.VettingTier)]++
	}
	for _, task := range data.tasks {
		overview.Tasks.ByStatus[string(task.Status)]++
		overview.Tasks.ByType[string(task.TaskType)]++
	}
	for _, company := range data.companies {
		if company.IsActive {
			overview.Companies.Active++
		}
	}
	for _, officer := range data.officers {
		if officer.IsActive {
			overview.Officers.Active++
		}
		overview.Officers.ByAccessLevel[string(officer.AccessLevel)]++
		overview.Officers.ByClearanceLevel[string(officer.ClearanceLevel)]++
	}

	overview.Performance = performanceMetrics(data)
	return overview
}

// performanceMetrics derives dashboard rates from stored data:
// approval rate over decided applications, escalation rate over all applications,
// quality as the mean findings score of finished tasks, and mean days to a terminal status.
func performanceMetrics(data overviewData) domain.PerformanceMetrics {
	var metrics domain.PerformanceMetrics

	var approved, rejected, escalated, completed int
	var processingDays float64
	for _, app := range data.applications {
		switch app.CurrentStatus {
		case domain.StatusApproved:
			approved++
		case domain.StatusRejected:
			rejected++
		case domain.StatusAdditionalInfoRequired, domain.StatusSuspended:
			escalated++
		}
		if app.ActualCompletionDate != nil {
			completed++
			processingDays += app.ActualCompletionDate.Sub(app.SubmittedAt).Hours() / 24
		}
	}
	if decided := approved + rejected; decided > 0 {
		metrics.ApprovalRate = round2(float64(approved) / float64(decided) * 100)
	}
	if total := len(data.applications); total > 0 {
		metrics.EscalationRate = round2(float64(escalated) / float64(total) * 100)
	}
	if completed > 0 {
		metrics.AverageProcessingDays = round2(processingDays / float64(completed))
	}

	var scored int
	var scoreSum float64
	for _, task := range data.tasks {
		if task.Status.Finished() && task.Findings != nil {
			scored++
			scoreSum += task.Findings.Score
		}
	}
	if scored > 0 {
		metrics.QualityScore = round2(scoreSum / float64(scored))
	}
	return metrics
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
