package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cart-recovery-service/controllers"
	"cart-recovery-service/dispatch"
	"cart-recovery-service/models"
	"cart-recovery-service/source"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// ---- mock recovery service ----

type mockRecoveryService struct {
	candidates []models.CorrelatedCheckout
	listErr    error
	gotOpts    models.ListOptions

	result    models.DispatchResult
	notifyErr error
	gotBody   string
	gotPhone  string
	gotCtx    models.SendContext
}

func (m *mockRecoveryService) ListCandidates(_ context.Context, opts models.ListOptions) ([]models.CorrelatedCheckout, error) {
	m.gotOpts = opts
	return m.candidates, m.listErr
}

func (m *mockRecoveryService) Notify(_ context.Context, messageBody, recipientPhone string, sendCtx models.SendContext) (models.DispatchResult, error) {
	m.gotBody = messageBody
	m.gotPhone = recipientPhone
	m.gotCtx = sendCtx
	return m.result, m.notifyErr
}

// ---- helpers ----

func setupRouter(svc *mockRecoveryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger, _ := zap.NewDevelopment()
	c := controllers.NewRecoveryController(svc, logger)

	r := gin.New()
	r.GET("/checkouts/abandoned", c.ListAbandonedCheckouts)
	r.POST("/notifications/sms", c.SendRecoverySMS)
	return r
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---- listing tests ----

func TestListAbandonedCheckouts_Success(t *testing.T) {
	svc := &mockRecoveryService{candidates: []models.CorrelatedCheckout{
		{Checkout: models.Checkout{ID: "K1"}, SentCount: 2},
	}}
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/checkouts/abandoned?days=7&query=mug", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ListOptions{Days: 7, Query: "mug"}, svc.gotOpts)

	var body struct {
		Data  []models.CorrelatedCheckout `json:"data"`
		Count int                         `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, int64(2), body.Data[0].SentCount)
}

func TestListAbandonedCheckouts_InvalidDays(t *testing.T) {
	r := setupRouter(&mockRecoveryService{})

	for _, days := range []string{"abc", "-1", "7.5"} {
		req := httptest.NewRequest(http.MethodGet, "/checkouts/abandoned?days="+days, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "days=%s", days)
	}
}

func TestListAbandonedCheckouts_SourceUnavailable(t *testing.T) {
	svc := &mockRecoveryService{listErr: fmt.Errorf("%w: status 500", source.ErrSourceUnavailable)}
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/checkouts/abandoned", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

// ---- notify tests ----

func notifyFormValues() url.Values {
	return url.Values{
		"messageContent": {"Hi Jane, your cart misses you"},
		"phone":          {"+15551234567"},
		"customerId":     {"C1"},
		"checkoutId":     {"K1"},
	}
}

func TestSendRecoverySMS_Queued(t *testing.T) {
	svc := &mockRecoveryService{result: models.DispatchResult{
		Accepted:    true,
		Status:      models.StatusQueued,
		ProviderRef: "SM123",
	}}
	r := setupRouter(svc)

	w := postForm(r, "/notifications/sms", notifyFormValues())

	assert.Equal(t, http.StatusOK, w.Code)

	var result models.DispatchResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Accepted)
	assert.Equal(t, "queued", result.Status)
	assert.Equal(t, "SM123", result.ProviderRef)

	assert.Equal(t, models.SendContext{CustomerID: "C1", CheckoutID: "K1"}, svc.gotCtx)
	assert.Equal(t, "+15551234567", svc.gotPhone)
}

func TestSendRecoverySMS_ProviderRejectionIsStill200(t *testing.T) {
	svc := &mockRecoveryService{result: models.DispatchResult{
		Accepted:    false,
		Status:      models.StatusFailed,
		ErrorDetail: "invalid number",
	}}
	r := setupRouter(svc)

	w := postForm(r, "/notifications/sms", notifyFormValues())

	assert.Equal(t, http.StatusOK, w.Code)

	var result models.DispatchResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Accepted)
	assert.Equal(t, "failed", result.Status)
}

func TestSendRecoverySMS_MissingContextIsBadRequest(t *testing.T) {
	svc := &mockRecoveryService{notifyErr: dispatch.ErrMissingContext}
	r := setupRouter(svc)

	form := notifyFormValues()
	form.Del("checkoutId")
	w := postForm(r, "/notifications/sms", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendRecoverySMS_MissingRequiredFields(t *testing.T) {
	r := setupRouter(&mockRecoveryService{})

	form := notifyFormValues()
	form.Del("messageContent")
	w := postForm(r, "/notifications/sms", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	form = notifyFormValues()
	form.Del("phone")
	w = postForm(r, "/notifications/sms", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendRecoverySMS_InvalidPhone(t *testing.T) {
	svc := &mockRecoveryService{}
	r := setupRouter(svc)

	form := notifyFormValues()
	form.Set("phone", "55512345")
	w := postForm(r, "/notifications/sms", form)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.gotPhone)
}
