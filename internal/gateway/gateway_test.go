package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/timetable_builder/internal/dto"
	"github.com/Freeeeeet/timetable_builder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", srv.Client(), StaticCredentials(token), zap.NewNop()), &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestFetchLectures(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/tables/t1", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get(TokenHeader))
		_, _ = io.WriteString(w, `{"_id":"t1","lecture_list":[
			{"_id":"a","course_title":"Algorithms","instructor":"Kim","credit":3,
			 "class_time_json":[{"day":"2","place":"301-101","startMinute":540,"endMinute":600},
			                    {"day":5,"place":"","startMinute":540,"endMinute":600}]}]}`)
	}, "secret")

	lectures, err := client.FetchLectures(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, lectures, 1)
	assert.Equal(t, "a", lectures[0].ID)
	assert.Equal(t, "Algorithms", lectures[0].Title)
	assert.Equal(t, []model.TimeSlot{{Day: model.Wednesday, StartMinute: 540, EndMinute: 600, Place: "301-101"}}, lectures[0].TimeSlots)
}

func TestMissingCredentialSkipsRequest(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, "")

	_, err := client.FetchLectures(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = client.DeleteLecture(context.Background(), "t1", "a")
	assert.ErrorIs(t, err, ErrUnauthorized)

	failing := client.WithCredentials(CredentialFunc(func(context.Context) (string, error) {
		return "", errors.New("storage unavailable")
	}))
	_, err = failing.FetchLectures(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusUnprocessableEntity, model.ErrValidation},
		{http.StatusBadRequest, model.ErrValidation},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
		{http.StatusTeapot, ErrServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, dto.ErrorResponse{Message: "boom"})
			}, "secret")

			_, err := client.FetchLectures(context.Background(), "t1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestCreateLecture(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/tables/t1/lecture", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body dto.Lecture
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Empty(t, body.ID)
		assert.Equal(t, "Compilers", body.CourseTitle)
		if assert.Len(t, body.ClassTimeJSON, 1) {
			assert.Equal(t, dto.WireDay(model.Thursday), body.ClassTimeJSON[0].Day)
		}

		body.ID = "server-id"
		writeJSON(w, http.StatusCreated, body)
	}, "secret")

	created, err := client.CreateLecture(context.Background(), "t1", model.LectureDraft{
		Title:     "Compilers",
		Credit:    3,
		TimeSlots: []model.TimeSlot{{Day: model.Thursday, StartMinute: 600, EndMinute: 690}},
	})
	require.NoError(t, err)
	assert.Equal(t, "server-id", created.ID)
	assert.Equal(t, "Compilers", created.Title)
}

func TestCreateLectureWithoutIDIsServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.Lecture{CourseTitle: "x"})
	}, "secret")

	_, err := client.CreateLecture(context.Background(), "t1", model.LectureDraft{})
	assert.ErrorIs(t, err, ErrServer)
}

func TestReplaceAndDeleteAddressByID(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			var body dto.Lecture
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "lec-1", body.ID)
			writeJSON(w, http.StatusOK, body)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	}, "secret")

	updated, err := client.ReplaceLecture(context.Background(), "t1", model.Lecture{ID: "lec-1", Title: "DB"})
	require.NoError(t, err)
	assert.Equal(t, "lec-1", updated.ID)

	require.NoError(t, client.DeleteLecture(context.Background(), "t1", "lec-1"))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"PUT /v1/tables/t1/lecture/lec-1", "DELETE /v1/tables/t1/lecture/lec-1"}, seen)
}

func TestNetworkAndTimeoutErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, DefaultHTTPClient(50*time.Millisecond), StaticCredentials("secret"), nil)
	_, err := client.FetchLectures(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, Retryable(err))

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()
	client = NewClient(closed.URL, nil, StaticCredentials("secret"), nil)
	_, err = client.FetchLectures(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrNetwork)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestSignIn(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/auth/login_local", r.URL.Path)
		assert.Empty(t, r.Header.Get(TokenHeader))
		var req dto.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.ID == "student" && req.Password == "pass" {
			writeJSON(w, http.StatusOK, dto.LoginResponse{Token: "tok"})
			return
		}
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Message: "wrong password"})
	}, "")

	token, err := client.SignIn(context.Background(), "student", "pass")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	_, err = client.SignIn(context.Background(), "student", "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
