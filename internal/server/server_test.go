package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/timetable_builder/internal/dto"
	"github.com/Freeeeeet/timetable_builder/internal/gateway"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/Freeeeeet/timetable_builder/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testEnv struct {
	server *httptest.Server
	repo   *memoryRepo
	tokens *Tokens
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newMemoryRepo()
	tokens := NewTokens("test-secret", time.Hour)
	srv := New(repo, timetableRepo{repo}, tokens, zaptest.NewLogger(t))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{server: ts, repo: repo, tokens: tokens}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, e.server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// registerWithTable регистрирует пользователя и создаёт ему расписание
func (e *testEnv) registerWithTable(t *testing.T, login string) (token, tableID string) {
	t.Helper()
	resp := e.request(t, http.MethodPost, "/v1/auth/register_local", "", dto.LoginRequest{ID: login, Password: "secret123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))

	resp = e.request(t, http.MethodPost, "/v1/tables", session.Token, dto.CreateTableRequest{Title: "Весна", Year: 2026, Semester: "1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var table dto.Table
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&table))
	return session.Token, table.ID
}

func TestTokens(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	raw, err := tokens.Issue(42)
	require.NoError(t, err)

	id, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = NewTokens("other", time.Minute).Parse(raw)
	assert.Error(t, err)

	expired := NewTokens("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, err = expired.Issue(42)
	require.NoError(t, err)
	_, err = tokens.Parse(raw)
	assert.Error(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/v1/auth/register_local", "", dto.LoginRequest{ID: "kim", Password: "short"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/v1/auth/register_local", "", dto.LoginRequest{ID: "kim", Password: "secret123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/v1/auth/register_local", "", dto.LoginRequest{ID: "kim", Password: "secret123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/v1/auth/login_local", "", dto.LoginRequest{ID: "kim", Password: "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var errBody dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Equal(t, "wrong login or password", errBody.Message)

	resp = env.request(t, http.MethodPost, "/v1/auth/login_local", "", dto.LoginRequest{ID: "kim", Password: "secret123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Token)

	assert.NotEqual(t, "secret123", env.repo.users["kim"].PasswordHash)
}

func TestTablesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	_, tableID := env.registerWithTable(t, "kim")

	resp := env.request(t, http.MethodGet, "/v1/tables/"+tableID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/v1/tables/"+tableID, "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// чужое расписание не видно
	other, _ := env.registerWithTable(t, "lee")
	resp = env.request(t, http.MethodGet, "/v1/tables/"+tableID, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/v1/tables/not-a-uuid", other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLectureValidation(t *testing.T) {
	env := newTestEnv(t)
	token, tableID := env.registerWithTable(t, "kim")
	path := "/v1/tables/" + tableID + "/lecture"

	bad := map[string]dto.Lecture{
		"reversed": {CourseTitle: "x", ClassTimeJSON: []dto.ClassTime{{Day: 1, StartMinute: 600, EndMinute: 540}}},
		"weekend":  {CourseTitle: "x", ClassTimeJSON: []dto.ClassTime{{Day: 5, StartMinute: 540, EndMinute: 600}}},
		"no slots": {CourseTitle: "x"},
	}
	for name, body := range bad {
		resp := env.request(t, http.MethodPost, path, token, body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, name)
	}

	resp := env.request(t, http.MethodPut, path+"/00000000-0000-0000-0000-000000000000", token,
		dto.Lecture{CourseTitle: "x", ClassTimeJSON: []dto.ClassTime{{Day: 1, StartMinute: 540, EndMinute: 600}}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, path+"/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// Клиентский стор против настоящего сервера: шлюз, коды ответов и перезапись
func TestStoreAgainstServer(t *testing.T) {
	env := newTestEnv(t)
	_, tableID := env.registerWithTable(t, "kim")
	logger := zaptest.NewLogger(t)

	anonymous := gateway.NewClient(env.server.URL, nil, gateway.StaticCredentials(""), logger)
	token, err := anonymous.SignIn(context.Background(), "kim", "secret123")
	require.NoError(t, err)

	_, err = anonymous.SignIn(context.Background(), "kim", "nope-nope")
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)

	client := anonymous.WithCredentials(gateway.StaticCredentials(token))
	st := store.New(client, logger, store.WithFetchTimeout(5*time.Second))
	require.NoError(t, st.SelectTimetable(context.Background(), tableID))
	assert.Equal(t, model.StatusReady, st.Snapshot().Status)

	wed := func(start, end int) []model.TimeSlot {
		return []model.TimeSlot{{Day: model.Wednesday, StartMinute: start, EndMinute: end, Place: "301"}}
	}

	res, err := st.AddLecture(context.Background(), model.LectureDraft{Title: "Физика", Credit: 3, TimeSlots: wed(540, 600)})
	require.NoError(t, err)
	require.Equal(t, store.OutcomeCommitted, res.Outcome)

	draft := model.LectureDraft{Title: "Химия", Credit: 2, TimeSlots: wed(570, 630)}
	res, err = st.AddLecture(context.Background(), draft)
	require.NoError(t, err)
	require.Equal(t, store.OutcomeConflict, res.Outcome)

	res, err = st.ReplaceLecture(context.Background(), draft.WithID(res.Conflicts[0].ID))
	require.NoError(t, err)
	require.Equal(t, store.OutcomeCommitted, res.Outcome)

	snap := st.Snapshot()
	require.Len(t, snap.Lectures, 1)
	assert.Equal(t, "Химия", snap.Lectures[0].Title)
	assert.Equal(t, wed(570, 630), snap.Lectures[0].TimeSlots)
	assert.Equal(t, 2, snap.TotalCredits())

	res, err = st.RemoveLecture(context.Background(), snap.Lectures[0].ID)
	require.NoError(t, err)
	assert.Equal(t, store.OutcomeCommitted, res.Outcome)
	assert.Empty(t, st.Snapshot().Lectures)

	// чужой токен: загрузка падает, снимок помечен Failed
	stranger, _ := env.registerWithTable(t, "lee")
	other := store.New(client.WithCredentials(gateway.StaticCredentials(stranger)), logger)
	err = other.SelectTimetable(context.Background(), tableID)
	assert.ErrorIs(t, err, gateway.ErrNotFound)
	assert.Equal(t, model.StatusFailed, other.Snapshot().Status)
}
