package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"focus-tracker/internal/auth"
	"focus-tracker/internal/models"
	"focus-tracker/internal/storage"
	"focus-tracker/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// HandlersTestSuite drives the handlers against an in-memory database.
type HandlersTestSuite struct {
	suite.Suite
	db    *storage.DB
	h     *Handlers
	user  *models.User
	token string
}

func (suite *HandlersTestSuite) SetupTest() {
	db, err := storage.NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db

	hash, err := auth.HashPassword("secret")
	require.NoError(suite.T(), err)
	suite.user, err = db.CreateUser("focus", hash)
	require.NoError(suite.T(), err)

	clock := time.Date(2025, 10, 15, 14, 0, 0, 0, time.UTC)
	svc := tracker.NewService(db, time.UTC, tracker.WithClock(func() time.Time { return clock }))
	suite.h = NewHandlers(db, svc, false, 0)

	suite.token = "test-token"
	require.NoError(suite.T(), db.CreateLoginSession(suite.token, suite.user.ID, time.Now().Add(DefaultSessionTTL)))
}

func (suite *HandlersTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// serve runs handler behind AuthMiddleware with the suite's login cookie.
func (suite *HandlersTestSuite) serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: suite.token})
	w := httptest.NewRecorder()
	suite.h.AuthMiddleware(handler).ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}

func (suite *HandlersTestSuite) TestLogin() {
	w := httptest.NewRecorder()
	suite.h.Login(w, formRequest(http.MethodPost, "/login", url.Values{
		"username": {"focus"},
		"password": {"secret"},
	}))

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var body struct {
		User models.User `json:"user"`
	}
	decode(suite.T(), w, &body)
	assert.Equal(suite.T(), "focus", body.User.Username)
	assert.NotContains(suite.T(), w.Body.String(), "secret")

	cookies := w.Result().Cookies()
	require.Len(suite.T(), cookies, 1)
	assert.Equal(suite.T(), SessionCookieName, cookies[0].Name)
	assert.True(suite.T(), cookies[0].HttpOnly)

	user, err := suite.db.ValidateLoginSession(cookies[0].Value)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.user.ID, user.ID)
}

func (suite *HandlersTestSuite) TestLoginRejectsBadCredentials() {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "focus", "nope"},
		{"unknown user", "ghost", "secret"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := httptest.NewRecorder()
			suite.h.Login(w, formRequest(http.MethodPost, "/login", url.Values{
				"username": {tt.username},
				"password": {tt.password},
			}))
			assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
			assert.Empty(suite.T(), w.Result().Cookies())
		})
	}
}

func (suite *HandlersTestSuite) TestLoginRequiresFields() {
	w := httptest.NewRecorder()
	suite.h.Login(w, formRequest(http.MethodPost, "/login", url.Values{}))

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
	var body validationResponse
	decode(suite.T(), w, &body)
	assert.Contains(suite.T(), body.Errors, "username")
	assert.Contains(suite.T(), body.Errors, "password")
	assert.Equal(suite.T(), "The username field is required.", body.Message)
}

func (suite *HandlersTestSuite) TestLogout() {
	req := httptest.NewRequest(http.MethodPost, "/logout", http.NoBody)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: suite.token})
	w := httptest.NewRecorder()
	suite.h.Logout(w, req)

	assert.Equal(suite.T(), http.StatusNoContent, w.Code)
	_, err := suite.db.ValidateLoginSession(suite.token)
	assert.Error(suite.T(), err, "login session should be gone")
}

func (suite *HandlersTestSuite) TestAuthMiddleware() {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(suite.T(), suite.user.ID, GetUserFromContext(r).ID)
	})

	suite.Run("no cookie", func() {
		w := httptest.NewRecorder()
		suite.h.AuthMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", http.NoBody))
		assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	})

	suite.Run("unknown token clears cookie", func() {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", http.NoBody)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
		w := httptest.NewRecorder()
		suite.h.AuthMiddleware(next).ServeHTTP(w, req)

		assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
		cookies := w.Result().Cookies()
		require.Len(suite.T(), cookies, 1)
		assert.Equal(suite.T(), -1, cookies[0].MaxAge)
	})

	assert.False(suite.T(), called)

	w := suite.serve(next, httptest.NewRequest(http.MethodGet, "/dashboard", http.NoBody))
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.True(suite.T(), called)
	assert.Empty(suite.T(), w.Result().Cookies(), "a fresh session is not renewed")
}

func (suite *HandlersTestSuite) TestAuthMiddlewareRenewsAgingSession() {
	require.NoError(suite.T(), suite.db.CreateLoginSession("aging", suite.user.ID, time.Now().Add(time.Hour)))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", http.NoBody)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "aging"})
	w := httptest.NewRecorder()
	suite.h.AuthMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	require.Len(suite.T(), cookies, 1)
	assert.Equal(suite.T(), "aging", cookies[0].Value)

	info, err := suite.db.ValidateLoginSessionWithInfo("aging")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), info.ExpiresAt.After(time.Now().Add(DefaultSessionTTL/2)))
}

func (suite *HandlersTestSuite) TestCreateSession() {
	w := suite.serve(suite.h.CreateSession, formRequest(http.MethodPost, "/sessions", url.Values{
		"task_description": {"Write tests"},
		"duration":         {"25"},
	}))

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	var body struct {
		Message string              `json:"message"`
		Session models.FocusSession `json:"session"`
	}
	decode(suite.T(), w, &body)
	assert.Equal(suite.T(), "Session completed successfully!", body.Message)
	assert.Equal(suite.T(), "Write tests", body.Session.TaskDescription)
	assert.Equal(suite.T(), 25, body.Session.Duration)
	assert.NotEmpty(suite.T(), body.Session.ID)
}

func (suite *HandlersTestSuite) TestCreateSessionValidation() {
	tests := []struct {
		name  string
		form  url.Values
		field string
	}{
		{"missing duration", url.Values{"task_description": {"Task"}}, "duration"},
		{"non-numeric duration", url.Values{"task_description": {"Task"}, "duration": {"ten"}}, "duration"},
		{"zero duration", url.Values{"task_description": {"Task"}, "duration": {"0"}}, "duration"},
		{"missing description", url.Values{"duration": {"25"}}, "task_description"},
		{"long description", url.Values{"task_description": {strings.Repeat("x", 256)}, "duration": {"25"}}, "task_description"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.serve(suite.h.CreateSession, formRequest(http.MethodPost, "/sessions", tt.form))
			assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)

			var body validationResponse
			decode(suite.T(), w, &body)
			assert.Contains(suite.T(), body.Errors, tt.field)
			assert.NotEmpty(suite.T(), body.Message)
		})
	}

	sessions, err := suite.db.ListFocusSessions(suite.user.ID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), sessions)
}

func (suite *HandlersTestSuite) TestListSessions() {
	for i := 0; i < 3; i++ {
		_, err := suite.db.CreateFocusSession(suite.user.ID, "Task", 10+i, time.Date(2025, 10, 14, 9+i, 0, 0, 0, time.UTC))
		require.NoError(suite.T(), err)
	}

	w := suite.serve(suite.h.ListSessions, httptest.NewRequest(http.MethodGet, "/sessions?page=1&per_page=2", http.NoBody))
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var page tracker.SessionPage
	decode(suite.T(), w, &page)
	assert.Equal(suite.T(), 3, page.Total)
	assert.Equal(suite.T(), 2, page.PerPage)
	assert.Equal(suite.T(), 2, page.LastPage)
	require.Len(suite.T(), page.Data, 2)
	assert.Equal(suite.T(), 12, page.Data[0].Duration, "newest first")
}

func (suite *HandlersTestSuite) TestPreferences() {
	w := suite.serve(suite.h.GetPreferences, httptest.NewRequest(http.MethodGet, "/settings/preferences", http.NoBody))
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var got struct {
		Settings models.Preferences `json:"settings"`
	}
	decode(suite.T(), w, &got)
	assert.Equal(suite.T(), tracker.DefaultTimerDuration, got.Settings.TimerDuration)

	w = suite.serve(suite.h.UpdatePreferences, formRequest(http.MethodPut, "/settings/preferences", url.Values{
		"timer_duration": {"30"},
	}))
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var updated struct {
		Success  bool               `json:"success"`
		Message  string             `json:"message"`
		Settings models.Preferences `json:"settings"`
	}
	decode(suite.T(), w, &updated)
	assert.True(suite.T(), updated.Success)
	assert.Equal(suite.T(), 30, updated.Settings.TimerDuration)
}

func (suite *HandlersTestSuite) TestUpdatePreferencesOutOfRange() {
	_, err := suite.db.SetTimerDuration(suite.user.ID, 45)
	require.NoError(suite.T(), err)

	w := suite.serve(suite.h.UpdatePreferences, formRequest(http.MethodPut, "/settings/preferences", url.Values{
		"timer_duration": {"150"},
	}))
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)
	var body validationResponse
	decode(suite.T(), w, &body)
	assert.Contains(suite.T(), body.Errors, "timer_duration")

	prefs, err := suite.db.GetPreferences(suite.user.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 45, prefs.TimerDuration)
}

func (suite *HandlersTestSuite) TestDashboard() {
	for _, minutes := range []string{"25", "30"} {
		w := suite.serve(suite.h.CreateSession, formRequest(http.MethodPost, "/sessions", url.Values{
			"task_description": {"Focus"},
			"duration":         {minutes},
		}))
		require.Equal(suite.T(), http.StatusCreated, w.Code)
	}

	w := suite.serve(suite.h.Dashboard, httptest.NewRequest(http.MethodGet, "/dashboard", http.NoBody))
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var view tracker.DashboardView
	decode(suite.T(), w, &view)
	assert.Equal(suite.T(), 2, view.TodayData.Completed)
	assert.Equal(suite.T(), 55, view.TodayData.TotalMinutes)
	assert.Len(suite.T(), view.WeekData, 7)
	assert.Len(suite.T(), view.RecentSessions, 2)
	assert.Equal(suite.T(), tracker.DefaultTimerDuration, view.TimerDuration)
}

func (suite *HandlersTestSuite) TestStatistics() {
	w := suite.serve(suite.h.Statistics, httptest.NewRequest(http.MethodGet, "/stats", http.NoBody))
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var raw map[string]any
	decode(suite.T(), w, &raw)
	assert.Contains(suite.T(), raw, "allTimeStats")
	assert.Nil(suite.T(), raw["mostProductiveDay"])
	assert.Equal(suite.T(), []any{}, raw["milestones"])
}

func (suite *HandlersTestSuite) TestMarketingIsPublic() {
	_, err := suite.db.CreateFocusSession(suite.user.ID, "Task", 1234, time.Now())
	require.NoError(suite.T(), err)

	w := httptest.NewRecorder()
	suite.h.Marketing(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var view tracker.MarketingView
	decode(suite.T(), w, &view)
	assert.Equal(suite.T(), "1,234", view.Stats.TotalMinutes)
	assert.Equal(suite.T(), "1", view.Stats.ActiveUsers)
}

func (suite *HandlersTestSuite) TestDatastoreFailureIs500() {
	require.NoError(suite.T(), suite.db.Close())

	w := httptest.NewRecorder()
	suite.h.Marketing(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
	suite.db = nil
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
