package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/kingrain94/tenant-guard/internal/api/dto"
	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/mocks"
	"github.com/kingrain94/tenant-guard/internal/utils"
)

type TenantHandlerTestSuite struct {
	suite.Suite
	mockService *mocks.TenantService
	handler     *TenantHandler
	super       *domain.Principal
}

func TestTenantHandler(t *testing.T) {
	suite.Run(t, new(TenantHandlerTestSuite))
}

func (s *TenantHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.mockService = mocks.NewTenantService(s.T())
	s.handler = NewTenantHandler(s.mockService)
	s.super = &domain.Principal{UserID: "root", IsSuperAdmin: true}
}

func (s *TenantHandlerTestSuite) context(method, target string, body any, principal *domain.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if principal != nil {
		c.Set(string(utils.PrincipalKey), principal)
	}
	return c, w
}

func (s *TenantHandlerTestSuite) TestCreateTenant_Success() {
	req := dto.CreateTenantRequest{ID: "acme", Name: "Acme Corp", Plan: "starter"}
	s.mockService.On("Provision", mock.Anything, s.super, req).
		Return(&dto.TenantResponse{ID: "acme", Name: "Acme Corp", Plan: "starter", IsActive: true}, nil)

	c, w := s.context(http.MethodPost, "/super/tenants", req, s.super)
	s.handler.CreateTenant(c)

	s.Equal(http.StatusCreated, w.Code)
	var got dto.TenantResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Equal("acme", got.ID)
	s.True(got.IsActive)
}

func (s *TenantHandlerTestSuite) TestCreateTenant_MissingName() {
	c, w := s.context(http.MethodPost, "/super/tenants", `{"id":"acme"}`, s.super)
	s.handler.CreateTenant(c)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TenantHandlerTestSuite) TestCreateTenant_ErrorMapping() {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate", errors.Wrap(domain.ErrTenantExists, "create tenant acme"), http.StatusConflict},
		{"bad plan", errors.Wrapf(domain.ErrInvalidPlan, "%q", "platinum"), http.StatusBadRequest},
		{"store down", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			s.mockService.On("Provision", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			c, w := s.context(http.MethodPost, "/super/tenants", `{"name":"Acme"}`, s.super)
			s.handler.CreateTenant(c)

			s.Equal(tt.want, w.Code)
		})
	}
}

func (s *TenantHandlerTestSuite) TestListTenants() {
	s.mockService.On("List", mock.Anything).
		Return([]dto.TenantResponse{{ID: "a"}, {ID: "b"}}, nil)

	c, w := s.context(http.MethodGet, "/super/tenants", nil, s.super)
	s.handler.ListTenants(c)

	s.Equal(http.StatusOK, w.Code)
	var got []dto.TenantResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	s.Len(got, 2)
}

func (s *TenantHandlerTestSuite) TestGetTenant_NotFound() {
	s.mockService.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrTenantNotFound)

	c, w := s.context(http.MethodGet, "/super/tenants/ghost", nil, s.super)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}
	s.handler.GetTenant(c)

	s.Equal(http.StatusNotFound, w.Code)
}

func (s *TenantHandlerTestSuite) TestUpdateFeatures() {
	body := `{"modules":{"reports":false},"limits":{"emailsPerDay":250},"policy_rules":{"grace_percent":20}}`
	s.mockService.On("UpdateFeatures", mock.Anything, s.super, "acme", mock.MatchedBy(func(r dto.UpdateFeaturesRequest) bool {
		return r.Modules["reports"] == false &&
			r.Limits["emailsPerDay"] == 250 &&
			r.PolicyRules != nil && *r.PolicyRules.GracePercent == 20 &&
			r.IsActive == nil && r.Plan == nil
	})).Return(&dto.TenantResponse{ID: "acme"}, nil)

	c, w := s.context(http.MethodPut, "/super/tenants/acme/features", body, s.super)
	c.Params = gin.Params{{Key: "id", Value: "acme"}}
	s.handler.UpdateFeatures(c)

	s.Equal(http.StatusOK, w.Code)
}

func (s *TenantHandlerTestSuite) TestUpdateFeatures_UnknownModule() {
	s.mockService.On("UpdateFeatures", mock.Anything, mock.Anything, "acme", mock.Anything).
		Return(nil, errors.Wrapf(domain.ErrInvalidModule, "%q", "payroll"))

	c, w := s.context(http.MethodPut, "/super/tenants/acme/features", `{"modules":{"payroll":true}}`, s.super)
	c.Params = gin.Params{{Key: "id", Value: "acme"}}
	s.handler.UpdateFeatures(c)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "payroll")
}

func (s *TenantHandlerTestSuite) TestUpdateFeatures_MalformedBody() {
	c, w := s.context(http.MethodPut, "/super/tenants/acme/features", `{"limits":{"emailsPerDay":"lots"}}`, s.super)
	c.Params = gin.Params{{Key: "id", Value: "acme"}}
	s.handler.UpdateFeatures(c)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TenantHandlerTestSuite) TestResetUsage_PassesScope() {
	s.mockService.On("ResetUsage", mock.Anything, s.super, "acme", domain.UsageScopeDaily).
		Return(&dto.TenantResponse{ID: "acme"}, nil)

	c, w := s.context(http.MethodPost, "/super/tenants/acme/usage/reset?scope=daily", nil, s.super)
	c.Params = gin.Params{{Key: "id", Value: "acme"}}
	s.handler.ResetUsage(c)

	s.Equal(http.StatusOK, w.Code)
}

func (s *TenantHandlerTestSuite) TestResetUsage_InvalidScope() {
	s.mockService.On("ResetUsage", mock.Anything, s.super, "acme", domain.UsageScope("weekly")).
		Return(nil, errors.Wrapf(domain.ErrInvalidScope, "%q", "weekly"))

	c, w := s.context(http.MethodPost, "/super/tenants/acme/usage/reset?scope=weekly", nil, s.super)
	c.Params = gin.Params{{Key: "id", Value: "acme"}}
	s.handler.ResetUsage(c)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *TenantHandlerTestSuite) TestDeleteTenant() {
	s.mockService.On("Delete", mock.Anything, s.super, "acme").Return(nil)

	c, w := s.context(http.MethodDelete, "/super/tenants/acme", nil, s.super)
	c.Params = gin.Params{{Key: "id", Value: "acme"}}
	s.handler.DeleteTenant(c)
	c.Writer.WriteHeaderNow()

	s.Equal(http.StatusNoContent, w.Code)
	s.Empty(w.Body.String())
}

func (s *TenantHandlerTestSuite) TestGetUsage() {
	usage := &dto.UsageResponse{
		TenantID: "acme",
		Plan:     "starter",
		Timezone: "UTC",
		Grace:    10,
		Limits:   []dto.LimitUsage{{Key: "emailsPerDay", Used: 120, Max: 100, Pct: 120, Enforced: true, Exceeded: true}},
	}
	s.mockService.On("Usage", mock.Anything, "acme").Return(usage, nil)

	c, w := s.context(http.MethodGet, "/tenant/usage", nil, &domain.Principal{TenantID: "acme", UserID: "u-1"})
	s.handler.GetUsage(c)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"exceeded":true`)
}

func (s *TenantHandlerTestSuite) TestGetUsage_NoTenant() {
	c, w := s.context(http.MethodGet, "/tenant/usage", nil, nil)
	s.handler.GetUsage(c)

	s.Equal(http.StatusUnauthorized, w.Code)
}
