package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"immat/internal/registration/handler"
	"immat/internal/registration/models"
	"immat/internal/registration/service"
	"immat/internal/registration/store/memory"
	"immat/internal/workflow"
	"immat/pkg/domain"
	"immat/pkg/platform/audit/publisher"
	auditmemory "immat/pkg/platform/audit/store/memory"
	"immat/pkg/platform/httputil"
	"immat/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
	store  *memory.Store

	agent    domain.Actor
	admin    domain.Actor
	director domain.Actor
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = memory.New(models.DefaultDepartments...)
	svc, err := service.New(s.store,
		service.WithLogger(logger),
		service.WithOutbox(publisher.NewPublisher(auditmemory.NewInMemoryStore())),
	)
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	handler.New(svc, logger).Register(s.router)

	s.agent = testutil.NewActor(domain.RoleAgent, 4)
	s.admin = testutil.NewActor(domain.RoleAdmin, 1)
	s.director = testutil.NewActor(domain.RoleDirecteurDepartemental, 4)
}

func (s *HandlerSuite) do(actor domain.Actor, method, path string, body any) *httptest.ResponseRecorder {
	req := testutil.WithActor(testutil.NewJSONRequest(s.T(), method, path, body), actor)
	return testutil.DoRequest(s.router, req)
}

func (s *HandlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *HandlerSuite) errorCode(w *httptest.ResponseRecorder) string {
	return testutil.DecodeResponse[httputil.ErrorResponse](s.T(), w).Error
}

func (s *HandlerSuite) submitted(chassis string) (handler.VehicleResponse, handler.DossierResponse) {
	w := s.do(s.agent, http.MethodPost, "/vehicles", map[string]any{"chassis": chassis})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var v handler.VehicleResponse
	s.decode(w, &v)

	w = s.do(s.agent, http.MethodPost, "/dossiers", map[string]any{
		"vehicle_id": v.ID.String(),
		"owner_id":   uuid.NewString(),
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var d handler.DossierResponse
	s.decode(w, &d)
	return v, d
}

func (s *HandlerSuite) TestFullWorkflow() {
	v, d := s.submitted("vf1abc123")
	s.Equal("VF1ABC123", v.Chassis)
	s.Equal(models.DefaultVehicleClass, v.Class)
	s.Equal("REF-4-", d.Reference[:6])
	s.Equal("en_attente", d.Status)
	s.Equal(models.PrincipalOwner, d.Principal.Kind)

	w := s.do(s.admin, http.MethodPost, "/vehicles/"+v.ID.String()+"/mark", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var att handler.AttributionResponse
	s.decode(w, &att)
	s.Equal(models.Mark("TAXI 001 A4"), att.Mark)
	s.Equal(d.Reference, att.Reference)
	s.Equal("en_attente_officialisation", att.Status)

	w = s.do(s.director, http.MethodPost, "/dossiers/"+d.Reference+"/validate", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var val handler.ValidationResponse
	s.decode(w, &val)
	s.Equal(att.Mark, val.Mark)
	s.Equal(string(workflow.StageValide), val.Status)

	w = s.do(s.director, http.MethodGet, "/dossiers/"+d.Reference, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var view handler.CaseResponse
	s.decode(w, &view)
	s.False(view.Drift)
	s.Equal("validé", view.Dossier.Status)
	s.Equal(att.Mark, view.Dossier.DefinitiveMark)
	s.Require().NotNil(view.Admin)
	s.Equal(models.AdminStatusValidated, view.Admin.Status)

	w = s.do(s.agent, http.MethodGet, "/sequences/4/taxi", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var seq handler.SequenceResponse
	s.decode(w, &seq)
	s.Equal(1, seq.Cursor)
	s.Equal("A", seq.Suffix)
	s.Equal(att.Mark, seq.LastMark)
}

func (s *HandlerSuite) TestAllocateTwiceIsAConflict() {
	v, _ := s.submitted("VF1ABC124")
	w := s.do(s.admin, http.MethodPost, "/vehicles/"+v.ID.String()+"/mark", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(s.admin, http.MethodPost, "/vehicles/"+v.ID.String()+"/mark", nil)
	testutil.AssertStatusAndError(s.T(), w, http.StatusConflict, "already_allocated")
}

func (s *HandlerSuite) TestValidateWithoutMark() {
	_, d := s.submitted("VF1ABC125")
	w := s.do(s.director, http.MethodPost, "/dossiers/"+d.Reference+"/validate", nil)
	testutil.AssertStatusAndError(s.T(), w, http.StatusConflict, "no_provisional_mark")
}

func (s *HandlerSuite) TestStatusMapping() {
	v, d := s.submitted("VF1ABC126")

	s.Run("agent may not allocate", func() {
		w := s.do(s.agent, http.MethodPost, "/vehicles/"+v.ID.String()+"/mark", nil)
		s.Equal(http.StatusForbidden, w.Code)
		s.Equal("forbidden", s.errorCode(w))
	})

	s.Run("malformed vehicle id", func() {
		w := s.do(s.admin, http.MethodPost, "/vehicles/not-a-uuid/mark", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("unknown vehicle", func() {
		w := s.do(s.admin, http.MethodPost, "/vehicles/"+uuid.NewString()+"/mark", nil)
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("unknown department", func() {
		w := s.do(s.admin, http.MethodGet, "/sequences/99/TAXI", nil)
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("invalid_department", s.errorCode(w))
	})

	s.Run("non numeric department", func() {
		w := s.do(s.admin, http.MethodGet, "/sequences/north/TAXI", nil)
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("invalid_department", s.errorCode(w))
	})

	s.Run("director of another department cannot read", func() {
		other := testutil.NewActor(domain.RoleDirecteurDepartemental, 7)
		w := s.do(other, http.MethodGet, "/dossiers/"+d.Reference, nil)
		s.Equal(http.StatusForbidden, w.Code)
	})

	s.Run("submit needs a principal", func() {
		w := s.do(s.agent, http.MethodPost, "/dossiers", map[string]any{"vehicle_id": v.ID.String()})
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("validation_error", s.errorCode(w))
	})

	s.Run("unknown fields are rejected", func() {
		w := s.do(s.agent, http.MethodPost, "/vehicles", map[string]any{"chassis": "VF1ABC127", "color": "red"})
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("bad_request", s.errorCode(w))
	})

	s.Run("duplicate chassis", func() {
		w := s.do(s.agent, http.MethodPost, "/vehicles", map[string]any{"chassis": "vf1abc126"})
		s.Equal(http.StatusConflict, w.Code)
		s.Equal("conflict", s.errorCode(w))
	})
}

func (s *HandlerSuite) TestListAdmin() {
	v, d := s.submitted("VF1ABC130")
	s.Require().Equal(http.StatusOK, s.do(s.admin, http.MethodPost, "/vehicles/"+v.ID.String()+"/mark", nil).Code)

	w := s.do(s.director, http.MethodGet, "/admin/dossiers?status=en_attente_validation_officielle&search=abc130", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var list handler.AdminListResponse
	s.decode(w, &list)
	s.Require().Equal(1, list.Count)
	s.Equal(d.Reference, list.Records[0].Reference)
	s.Equal("VF1ABC130", list.Records[0].Chassis)

	other := testutil.NewActor(domain.RoleDirecteurDepartemental, 7)
	w = s.do(other, http.MethodGet, "/admin/dossiers", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &list)
	s.Zero(list.Count)

	w = s.do(s.admin, http.MethodGet, "/admin/dossiers?status=rejected", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(s.admin, http.MethodGet, "/admin/dossiers?limit=-1", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(s.agent, http.MethodGet, "/admin/dossiers", nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("role not allowed", testutil.DecodeResponse[httputil.ErrorResponse](s.T(), w).ErrorDescription)
}

func (s *HandlerSuite) TestAdminSurfaceRejectsCounterRoles() {
	for _, role := range []domain.Role{domain.RoleAgent, domain.RoleAgentSaisie} {
		actor := testutil.NewActor(role, 4)
		for _, path := range []string{"/admin/dossiers", "/admin/reconcile"} {
			method := http.MethodGet
			if path == "/admin/reconcile" {
				method = http.MethodPost
			}
			w := s.do(actor, method, path, nil)
			s.Equal(http.StatusForbidden, w.Code, "%s %s", role, path)
			s.Equal("forbidden", s.errorCode(w))
		}
	}

	w := s.do(s.director, http.MethodPost, "/admin/reconcile?department=4", nil)
	s.Equal(http.StatusForbidden, w.Code, "directors pass the gate but may not repair")
	s.NotEqual("role not allowed", testutil.DecodeResponse[httputil.ErrorResponse](s.T(), w).ErrorDescription)
}

func (s *HandlerSuite) TestReconcile() {
	v, d := s.submitted("VF1ABC140")
	s.Require().Equal(http.StatusOK, s.do(s.admin, http.MethodPost, "/vehicles/"+v.ID.String()+"/mark", nil).Code)
	s.store.Tamper(d.Reference, func(*models.Dossier, *models.AdminRecord) bool { return false })

	w := s.do(s.admin, http.MethodGet, "/dossiers/"+d.Reference, nil)
	var view handler.CaseResponse
	s.decode(w, &view)
	s.True(view.Drift)

	w = s.do(s.director, http.MethodPost, "/dossiers/"+d.Reference+"/reconcile", nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(s.admin, http.MethodPost, "/admin/reconcile?department=4", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var report handler.ReconcileReportResponse
	s.decode(w, &report)
	s.Equal(1, report.Scanned)
	s.Require().Len(report.Repaired, 1)
	s.Equal(models.RepairRecreatedProjection, report.Repaired[0].Repair)

	w = s.do(s.admin, http.MethodPost, "/dossiers/"+d.Reference+"/reconcile", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var res handler.ReconcileResponse
	s.decode(w, &res)
	s.False(res.Repaired)
	s.Equal(models.RepairNone, res.Repair)
}
