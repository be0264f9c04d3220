package eat_test

import (
	"ertrack/bizerror"
	"ertrack/domain"
	"ertrack/domain/eat"
	"ertrack/session"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ertrack/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestEatsRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	eat.RegisterEatsRestAPI(router)

	t.Run("detail requires a valid workId", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, eat.PathEats, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param", "message":"invalid workId ''", "data":null}`))
	})

	t.Run("detail passes the workId through", func(t *testing.T) {
		var receivedWorkId types.ID
		eat.DetailEatOfWorkFunc = func(workId types.ID, s *session.Session) (*domain.EatDetail, error) {
			receivedWorkId = workId
			return &domain.EatDetail{Eat: domain.Eat{ID: 10, WorkID: workId, Status: domain.EatDraft}}, nil
		}
		defer func() { eat.DetailEatOfWorkFunc = eat.DetailEatOfWork }()

		req := httptest.NewRequest(http.MethodGet, eat.PathEats+"?workId=123", nil)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(receivedWorkId).To(Equal(types.ID(123)))
	})

	t.Run("create validates nested activities", func(t *testing.T) {
		reqBody := `{"workId":"5","startDate":"2021-04-01T00:00:00Z","endDate":"2021-06-30T00:00:00Z",
			"activities":[{"disciplineId":"1","name":"civil survey",
			"startDate":"2021-04-01T00:00:00Z","endDate":"2021-04-30T00:00:00Z","picIds":[]}]}`
		req := httptest.NewRequest(http.MethodPost, eat.PathEats, strings.NewReader(reqBody))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(strings.Contains(body, "PicIDs")).To(BeTrue())
	})

	t.Run("create passes the parsed creation through", func(t *testing.T) {
		var payload *domain.EatCreation
		eat.CreateEatFunc = func(c *domain.EatCreation, s *session.Session) (*domain.Eat, error) {
			payload = c
			return &domain.Eat{ID: 10, WorkID: c.WorkID, Status: domain.EatSubmitted}, nil
		}
		defer func() { eat.CreateEatFunc = eat.CreateEat }()

		reqBody := `{"workId":"5","startDate":"2021-04-01T00:00:00Z","endDate":"2021-06-30T00:00:00Z",
			"activities":[{"disciplineId":"1","name":"civil survey",
			"startDate":"2021-04-01T00:00:00Z","endDate":"2021-04-30T00:00:00Z","picIds":["300"]}],
			"approverIds":["400"]}`
		req := httptest.NewRequest(http.MethodPost, eat.PathEats, strings.NewReader(reqBody))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(payload.WorkID).To(Equal(types.ID(5)))
		Expect(len(payload.Activities)).To(Equal(1))
		Expect(payload.Activities[0].PicIDs).To(Equal([]types.ID{300}))
		Expect(payload.ApproverIDs).To(Equal([]types.ID{400}))
		Expect(payload.Draft).To(BeFalse())
	})

	t.Run("approval decision maps conflicts", func(t *testing.T) {
		eat.RecordDecisionFunc = func(eatId types.ID, d *domain.ApprovalDecision, s *session.Session) (*domain.Eat, error) {
			return nil, bizerror.ErrApprovalProcessed
		}
		defer func() { eat.RecordDecisionFunc = eat.RecordDecision }()

		req := httptest.NewRequest(http.MethodPost, eat.PathEats+"/10/approval",
			strings.NewReader(`{"status":"approved"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusConflict))
		Expect(body).To(MatchJSON(`{"code":"eat.approval_already_processed",
			"message":"approval already processed", "data":null}`))
	})

	t.Run("progress report maps authorization failures", func(t *testing.T) {
		eat.AddProgressFunc = func(activityId types.ID, c *domain.ProgressCreation, s *session.Session) (*domain.ActivityProgress, error) {
			return nil, bizerror.ErrNotAPic
		}
		defer func() { eat.AddProgressFunc = eat.AddProgress }()

		req := httptest.NewRequest(http.MethodPost, eat.PathActivities+"/10/progress",
			strings.NewReader(`{"description":"halfway","percentage":50}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(MatchJSON(`{"code":"eat.not_a_pic",
			"message":"not a registered PIC of this activity", "data":null}`))
	})

	t.Run("progress report passes percentage through, zero included", func(t *testing.T) {
		var payload *domain.ProgressCreation
		eat.AddProgressFunc = func(activityId types.ID, c *domain.ProgressCreation, s *session.Session) (*domain.ActivityProgress, error) {
			payload = c
			return &domain.ActivityProgress{ID: 1, ActivityID: activityId, Percentage: *c.Percentage}, nil
		}
		defer func() { eat.AddProgressFunc = eat.AddProgress }()

		req := httptest.NewRequest(http.MethodPost, eat.PathActivities+"/10/progress",
			strings.NewReader(`{"description":"not started yet","percentage":0}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(payload.Percentage).ToNot(BeNil())
		Expect(*payload.Percentage).To(Equal(0))
	})

	t.Run("delete answers no content", func(t *testing.T) {
		eat.DeleteEatFunc = func(id types.ID, s *session.Session) error {
			return nil
		}
		defer func() { eat.DeleteEatFunc = eat.DeleteEat }()

		req := httptest.NewRequest(http.MethodDelete, eat.PathEats+"/10", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
		Expect(body).To(BeZero())
	})
}
