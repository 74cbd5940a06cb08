package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chweb/internal/handler"
	"chweb/internal/model"
	"chweb/internal/service"
	"chweb/internal/service/mock"
)

func TestRuleHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockRuleService(ctrl)
	h := handler.NewRuleHandler(mockService)

	mockService.EXPECT().List(gomock.Any()).Return([]model.Rule{
		{ID: 1, Type: "domain", Action: "REJECT", Host: "ads.example"},
	}, nil)

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/rules", nil))

	require.NoError(t, h.List(c))

	var resp envelope[[]handler.RuleResponse]
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Equal(t, []handler.RuleResponse{{ID: "1", Type: "domain", Action: "REJECT", Host: "ads.example"}}, resp.Data)
}

func TestRuleHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockRuleService(ctrl)
	h := handler.NewRuleHandler(mockService)

	mockService.EXPECT().Get(gomock.Any(), int64(3)).Return(&model.Rule{ID: 3, Type: "domain", Action: "ACCEPT", Host: "a.com"}, nil)
	mockService.EXPECT().Get(gomock.Any(), int64(4)).Return(nil, service.ErrNotFound)

	e := newTestEcho()

	c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/rules/3", nil))
	setPathParams(c, map[string]string{"id": "3"})
	require.NoError(t, h.Get(c))
	var resp envelope[handler.RuleResponse]
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Equal(t, "a.com", resp.Data.Host)

	c, rec = newTestContext(e, newJSONRequest(http.MethodGet, "/rules/4", nil))
	setPathParams(c, map[string]string{"id": "4"})
	require.NoError(t, h.Get(c))
	assertFailure(t, rec, http.StatusNotFound)

	c, rec = newTestContext(e, newJSONRequest(http.MethodGet, "/rules/zz", nil))
	setPathParams(c, map[string]string{"id": "zz"})
	require.NoError(t, h.Get(c))
	assertFailure(t, rec, http.StatusBadRequest)
}

func TestRuleHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockRuleService(ctrl)
	h := handler.NewRuleHandler(mockService)

	mockService.EXPECT().
		Create(gomock.Any(), model.Rule{Type: "domain", Action: "REJECT", Host: "ads.example"}).
		Return(&model.Rule{ID: 8, Type: "domain", Action: "REJECT", Host: "ads.example"}, nil)

	e := newTestEcho()
	body := map[string]string{"type": "domain", "action": "REJECT", "host": "ads.example"}
	c, rec := newTestContext(e, newJSONRequest(http.MethodPut, "/rules", body))

	require.NoError(t, h.Create(c))

	var resp envelope[handler.RuleResponse]
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Equal(t, "8", resp.Data.ID)
}

func TestRuleHandler_Create_MissingField(t *testing.T) {
	bodies := []map[string]string{
		{"action": "REJECT", "host": "a.com"},
		{"type": "domain", "host": "a.com"},
		{"type": "domain", "action": "REJECT"},
	}

	for _, body := range bodies {
		ctrl := gomock.NewController(t)
		h := handler.NewRuleHandler(mock.NewMockRuleService(ctrl))

		e := newTestEcho()
		c, rec := newTestContext(e, newJSONRequest(http.MethodPut, "/rules", body))

		require.NoError(t, h.Create(c))
		assertFailure(t, rec, http.StatusBadRequest)
	}
}

func TestRuleHandler_Update_SingleObject(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockRuleService(ctrl)
	h := handler.NewRuleHandler(mockService)

	want := []model.Rule{{ID: 2, Type: "domain", Action: "ACCEPT", Host: "a.com"}}
	mockService.EXPECT().UpdateBatch(gomock.Any(), want).Return(want, nil)

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequestRaw(http.MethodPost, "/rules",
		`{"id":"2","type":"domain","action":"ACCEPT","host":"a.com"}`))

	require.NoError(t, h.Update(c))

	var resp envelope[[]handler.RuleResponse]
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Len(t, resp.Data, 1)
}

func TestRuleHandler_Update_Batch(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockRuleService(ctrl)
	h := handler.NewRuleHandler(mockService)

	want := []model.Rule{
		{ID: 2, Type: "domain", Action: "ACCEPT", Host: "a.com"},
		{ID: 3, Type: "domain", Action: "REJECT", Host: "b.com"},
	}
	mockService.EXPECT().UpdateBatch(gomock.Any(), want).Return(want, nil)

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequestRaw(http.MethodPost, "/rules", `[
		{"id":"2","type":"domain","action":"ACCEPT","host":"a.com"},
		{"id":3,"type":"domain","action":"REJECT","host":"b.com"}
	]`))

	require.NoError(t, h.Update(c))

	var resp envelope[[]handler.RuleResponse]
	assertJSONResponse(t, rec, http.StatusOK, &resp)
	require.Len(t, resp.Data, 2)
	require.Equal(t, "3", resp.Data[1].ID)
}

func TestRuleHandler_Update_InvalidItemRejectsBatch(t *testing.T) {
	bodies := []string{
		`[{"id":"2","type":"domain","action":"ACCEPT","host":"a.com"},{"id":"3","type":"domain","host":"b.com"}]`,
		`[{"id":"2","type":"domain","action":"ACCEPT","host":"a.com"},{"type":"domain","action":"ACCEPT","host":"b.com"}]`,
		`[{"id":"nope","type":"domain","action":"ACCEPT","host":"a.com"}]`,
		`[]`,
		``,
		`"rule"`,
		`{"id":`,
	}

	for _, body := range bodies {
		ctrl := gomock.NewController(t)
		h := handler.NewRuleHandler(mock.NewMockRuleService(ctrl))

		e := newTestEcho()
		c, rec := newTestContext(e, newJSONRequestRaw(http.MethodPost, "/rules", body))

		require.NoError(t, h.Update(c), body)
		assertFailure(t, rec, http.StatusBadRequest)
	}
}

func TestRuleHandler_Update_UnknownRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockRuleService(ctrl)
	h := handler.NewRuleHandler(mockService)

	mockService.EXPECT().UpdateBatch(gomock.Any(), gomock.Any()).Return(nil, service.ErrNotFound)

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequestRaw(http.MethodPost, "/rules",
		`{"id":"2","type":"domain","action":"ACCEPT","host":"a.com"}`))

	require.NoError(t, h.Update(c))
	assertFailure(t, rec, http.StatusNotFound)
}

func TestRuleHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := mock.NewMockRuleService(ctrl)
	h := handler.NewRuleHandler(mockService)

	mockService.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil)

	e := newTestEcho()
	c, rec := newTestContext(e, newJSONRequest(http.MethodDelete, "/rules/5", nil))
	setPathParams(c, map[string]string{"id": "5"})

	require.NoError(t, h.Delete(c))
	require.JSONEq(t, `{"success":true}`, rec.Body.String())

	c, rec = newTestContext(e, newJSONRequest(http.MethodDelete, "/rules/bad", nil))
	setPathParams(c, map[string]string{"id": "bad"})
	require.NoError(t, h.Delete(c))
	assertFailure(t, rec, http.StatusBadRequest)
}
