package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/mocks"
	"github.com/kingrain94/tenant-guard/pkg/logger"
)

type AuditServiceTestSuite struct {
	suite.Suite
	mockRepo       *mocks.Repository
	mockAudit      *mocks.AuditEntryRepository
	mockOpenSearch *mocks.OpenSearchRepository
	mockSQS        *mocks.SQSService
	mockPublisher  *mocks.EventPublisher
	service        *AuditService
}

func (s *AuditServiceTestSuite) SetupTest() {
	s.mockRepo = new(mocks.Repository)
	s.mockAudit = new(mocks.AuditEntryRepository)
	s.mockOpenSearch = new(mocks.OpenSearchRepository)
	s.mockSQS = new(mocks.SQSService)
	s.mockPublisher = new(mocks.EventPublisher)

	s.mockRepo.On("AuditEntry").Return(s.mockAudit)
	s.mockRepo.On("OpenSearch").Return(s.mockOpenSearch)

	s.service = NewAuditService(s.mockRepo, s.mockSQS, logger.NewNop())
	s.service.SetPublisher(s.mockPublisher)
}

func TestAuditService(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}

func (s *AuditServiceTestSuite) TestRecord_Success() {
	ctx := context.Background()
	entry := &domain.AuditEntry{
		TenantID: "acme",
		Action:   domain.ActionTenantBlock,
		Code:     domain.CodeModuleDisabled,
		Severity: domain.SeverityWarn,
	}

	s.mockAudit.On("Create", ctx, entry).Return(nil)
	s.mockSQS.On("SendIndexMessage", ctx, entry).Return(nil)
	s.mockPublisher.On("Publish", ctx, mock.AnythingOfType("*dto.AuditEntryResponse")).Return(nil)

	err := s.service.Record(ctx, entry)

	s.NoError(err)
	s.NotEmpty(entry.ID)
	s.False(entry.CreatedAt.IsZero())
	s.Equal(domain.UnknownActorRole, entry.ActorRole)
	s.mockAudit.AssertExpectations(s.T())
	s.mockSQS.AssertExpectations(s.T())
	s.mockPublisher.AssertExpectations(s.T())
}

func (s *AuditServiceTestSuite) TestRecord_StoreFailureIsReturned() {
	ctx := context.Background()
	entry := &domain.AuditEntry{TenantID: "acme", Action: domain.ActionTenantBlock}

	s.mockAudit.On("Create", ctx, entry).Return(errors.New("db down"))

	err := s.service.Record(ctx, entry)

	s.Error(err)
	s.mockSQS.AssertNotCalled(s.T(), "SendIndexMessage", mock.Anything, mock.Anything)
	s.mockPublisher.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything)
}

func (s *AuditServiceTestSuite) TestRecord_DownstreamFailuresAreSwallowed() {
	ctx := context.Background()
	entry := &domain.AuditEntry{TenantID: "acme", Action: domain.ActionTenantBlock}

	s.mockAudit.On("Create", ctx, entry).Return(nil)
	s.mockSQS.On("SendIndexMessage", ctx, entry).Return(errors.New("queue down"))
	s.mockPublisher.On("Publish", ctx, mock.Anything).Return(errors.New("redis down"))

	s.NoError(s.service.Record(ctx, entry))
}

func (s *AuditServiceTestSuite) TestList_DefaultsAndPostgres() {
	ctx := context.Background()
	filter := &domain.AuditEntryFilter{TenantID: "acme"}

	s.mockAudit.On("List", ctx, mock.MatchedBy(func(f domain.AuditEntryFilter) bool {
		return f.Page == 1 && f.PageSize == DefaultPageSize && f.Limit == DefaultPageSize && f.Offset == 0
	})).Return([]domain.AuditEntry{{ID: "1", TenantID: "acme"}}, int64(1), nil)

	resp, err := s.service.List(ctx, filter)

	s.NoError(err)
	s.Len(resp.Entries, 1)
	s.Equal(int64(1), resp.Total)
	s.Equal(1, resp.Page)
	s.mockOpenSearch.AssertNotCalled(s.T(), "Search", mock.Anything, mock.Anything)
}

func (s *AuditServiceTestSuite) TestList_PageSizeCapped() {
	ctx := context.Background()
	filter := &domain.AuditEntryFilter{Page: 3, PageSize: 5000}

	s.mockAudit.On("List", ctx, mock.MatchedBy(func(f domain.AuditEntryFilter) bool {
		return f.PageSize == MaxPageSize && f.Offset == 2*MaxPageSize
	})).Return([]domain.AuditEntry{}, int64(0), nil)

	resp, err := s.service.List(ctx, filter)

	s.NoError(err)
	s.Equal(MaxPageSize, resp.PageSize)
}

func (s *AuditServiceTestSuite) TestList_QueryUsesOpenSearch() {
	ctx := context.Background()
	filter := &domain.AuditEntryFilter{TenantID: "acme", Query: "email limit"}

	s.mockOpenSearch.On("Search", ctx, filter).Return([]domain.AuditEntry{{ID: "1"}, {ID: "2"}}, int64(2), nil)

	resp, err := s.service.List(ctx, filter)

	s.NoError(err)
	s.Len(resp.Entries, 2)
	s.mockAudit.AssertNotCalled(s.T(), "List", mock.Anything, mock.Anything)
}

func (s *AuditServiceTestSuite) TestList_OpenSearchFailureFallsBackToPostgres() {
	ctx := context.Background()
	filter := &domain.AuditEntryFilter{TenantID: "acme", Query: "email"}

	s.mockOpenSearch.On("Search", ctx, filter).Return(nil, int64(0), errors.New("cluster red"))
	s.mockAudit.On("List", ctx, mock.AnythingOfType("domain.AuditEntryFilter")).
		Return([]domain.AuditEntry{{ID: "1"}}, int64(1), nil)

	resp, err := s.service.List(ctx, filter)

	s.NoError(err)
	s.Len(resp.Entries, 1)
}

func (s *AuditServiceTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	s.mockAudit.On("GetByID", ctx, "acme", "missing").Return(nil, domain.ErrAuditEntryNotFound)

	resp, err := s.service.GetByID(ctx, "acme", "missing")

	s.Nil(resp)
	s.True(IsNotFound(err))
}

func (s *AuditServiceTestSuite) TestGetStats() {
	ctx := context.Background()
	filter := &domain.AuditEntryFilter{TenantID: "acme"}
	s.mockAudit.On("GetStats", ctx, *filter).Return(&domain.AuditEntryStats{
		TotalEntries:   3,
		CodeCounts:     map[string]int64{domain.CodeLimitExceeded: 2, domain.CodeRateLimit: 1},
		ActionCounts:   map[domain.AuditAction]int64{domain.ActionTenantBlock: 3},
		SeverityCounts: map[domain.Severity]int64{domain.SeverityWarn: 3},
	}, nil)

	stats, err := s.service.GetStats(ctx, filter)

	s.NoError(err)
	s.Equal(int64(3), stats.TotalEntries)
	s.Equal(int64(2), stats.CodeCounts[domain.CodeLimitExceeded])
	s.Equal(int64(3), stats.ActionCounts["TENANT_BLOCK"])
	s.Equal(int64(3), stats.SeverityCounts["warn"])
}

func (s *AuditServiceTestSuite) TestExport_UsesExportLimit() {
	ctx := context.Background()
	filter := &domain.AuditEntryFilter{TenantID: "acme", Page: 4, PageSize: 10}

	s.mockAudit.On("List", ctx, mock.MatchedBy(func(f domain.AuditEntryFilter) bool {
		return f.Limit == MaxExportEntries && f.Offset == 0
	})).Return([]domain.AuditEntry{{ID: "1"}}, int64(1), nil)

	entries, err := s.service.Export(ctx, filter)

	s.NoError(err)
	s.Len(entries, 1)
	s.Equal(4, filter.Page, "caller's filter must not be modified")
}

func (s *AuditServiceTestSuite) TestScheduleArchive() {
	ctx := context.Background()
	before := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.mockSQS.On("SendArchiveMessage", ctx, "acme", before).Return(nil)

	s.NoError(s.service.ScheduleArchive(ctx, "acme", before))
	s.mockSQS.AssertExpectations(s.T())
}
