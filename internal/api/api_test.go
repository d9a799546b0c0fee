package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/activity"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/auth"
	"github.com/lalith-99/communityhub/internal/chat"
	"github.com/lalith-99/communityhub/internal/filestore"
	"github.com/lalith-99/communityhub/internal/middleware"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/notify"
	"github.com/lalith-99/communityhub/internal/portal"
	"github.com/lalith-99/communityhub/internal/repository"
	"github.com/lalith-99/communityhub/internal/repository/repomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	router     *gin.Engine
	users      *repomock.MockUserRepository
	profiles   *repomock.MockProfileRepository
	channels   *repomock.MockChannelRepository
	members    *repomock.MockMembershipRepository
	jobs       *repomock.MockJobRepository
	audit      *repomock.MockActivityRepository
	matrimony  *repomock.MockMatrimonyRepository
	businesses *repomock.MockBusinessRepository
	reports    *repomock.MockReportRepository
	events     *repomock.MockEventRepository
	articles   *repomock.MockArticleRepository
	logs       *observer.ObservedLogs
}

func newServer(t *testing.T) *server {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	s := &server{
		users:      &repomock.MockUserRepository{},
		profiles:   &repomock.MockProfileRepository{},
		channels:   &repomock.MockChannelRepository{},
		members:    &repomock.MockMembershipRepository{},
		jobs:       &repomock.MockJobRepository{},
		audit:      &repomock.MockActivityRepository{},
		matrimony:  &repomock.MockMatrimonyRepository{},
		businesses: &repomock.MockBusinessRepository{},
		reports:    &repomock.MockReportRepository{},
		events:     &repomock.MockEventRepository{},
		articles:   &repomock.MockArticleRepository{},
		logs:       logs,
	}

	files, err := filestore.NewLocal(t.TempDir(), "http://files.test/files", zaptest.NewLogger(t))
	require.NoError(t, err)
	recorder := activity.NewRecorder(s.audit, logger)
	notes := notify.NewService(&repomock.MockNotificationRepository{}, nil, logger)
	chatSvc := chat.NewService(chat.Deps{
		Profiles:       s.profiles,
		Channels:       s.channels,
		Members:        s.members,
		Messages:       &repomock.MockMessageRepository{},
		DirectMessages: &repomock.MockDirectMessageRepository{},
		Activity:       recorder,
		Logger:         logger,
	})

	s.router = gin.New()
	s.router.Use(middleware.RequestLogger(zap.NewNop()))
	Register(s.router.Group("/v1"), testSecret, Handlers{
		Auth:          NewAuthHandler(s.users, testSecret, time.Hour, logger),
		Channels:      NewChannelHandler(chatSvc, logger),
		DMs:           NewDMHandler(chatSvc, logger),
		Notifications: NewNotificationHandler(notes, recorder, logger),
		Jobs:          NewJobHandler(portal.NewJobs(s.jobs, files, recorder, notes, logger), logger),
		Matrimony:     NewMatrimonyHandler(portal.NewMatrimony(s.matrimony, s.profiles, files, recorder, logger), logger),
		Directory:     NewDirectoryHandler(portal.NewDirectory(s.businesses, s.profiles), logger),
		Events:        NewEventHandler(portal.NewEvents(s.events, nil, logger), logger),
		News:          NewNewsHandler(portal.NewNews(s.articles, logger), logger),
		Reports:       NewReportHandler(portal.NewModeration(s.reports, recorder), logger),
		Uploads:       NewUploadHandler(files, logger),
	})
	return s
}

func token(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, "someone@example.com", role, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func (s *server) do(req *http.Request, tok string) *httptest.ResponseRecorder {
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", apperr.Validation("name is required"), http.StatusBadRequest, "name is required"},
		{"not found", apperr.NotFound("job"), http.StatusNotFound, "job: not found"},
		{"forbidden", apperr.Forbidden("not a member"), http.StatusForbidden, "not a member"},
		{"conflict", fmt.Errorf("insert: %w", apperr.ErrConflict), http.StatusConflict, "already exists"},
		{"backend", errors.New("connection reset"), http.StatusInternalServerError, "failed to do thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			r := gin.New()
			r.Use(middleware.RequestLogger(zap.NewNop()))
			r.GET("/", func(c *gin.Context) { respondError(c, zap.New(core), "do thing", tt.err) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["error"])

			if tt.wantCode == http.StatusInternalServerError {
				entries := logs.FilterMessage("failed to do thing").All()
				require.Len(t, entries, 1)
				assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
				assert.NotContains(t, w.Body.String(), "connection reset")
			} else {
				assert.Zero(t, logs.Len())
			}
		})
	}
}

func TestSignup(t *testing.T) {
	s := newServer(t)
	defer s.users.AssertExpectations(t)
	defer s.profiles.AssertExpectations(t)
	userID := uuid.New()

	s.users.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil).Once()
	s.users.On("Create", mock.Anything, "new@example.com", mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2hunter2")) == nil
	}), "Asha Rao").Return(&models.User{ID: userID, Email: "new@example.com", Role: models.RoleUser}, nil).Once()

	w := s.do(jsonRequest(http.MethodPost, "/v1/auth/signup", gin.H{
		"email": "new@example.com", "password": "hunter2hunter2", "full_name": " Asha Rao ",
	}), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp authResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	claims, err := auth.ParseToken(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestSignupEmailTaken(t *testing.T) {
	s := newServer(t)
	s.users.On("GetByEmail", mock.Anything, "taken@example.com").Return(&models.User{ID: uuid.New()}, nil).Once()

	w := s.do(jsonRequest(http.MethodPost, "/v1/auth/signup", gin.H{
		"email": "taken@example.com", "password": "longenough", "full_name": "X",
	}), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	s.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignupFailureLeavesNoPartialAccount(t *testing.T) {
	s := newServer(t)
	s.users.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil).Once()
	s.users.On("Create", mock.Anything, "new@example.com", mock.Anything, "Asha").
		Return(nil, errors.New("insert profile: connection reset")).Once()

	w := s.do(jsonRequest(http.MethodPost, "/v1/auth/signup", gin.H{
		"email": "new@example.com", "password": "hunter2hunter2", "full_name": "Asha",
	}), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
	s.users.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	s := newServer(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "a@example.com", PasswordHash: string(hash), Role: models.RoleUser}
	s.users.On("GetByEmail", mock.Anything, "a@example.com").Return(user, nil)
	s.users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	w := s.do(jsonRequest(http.MethodPost, "/v1/auth/login", gin.H{"email": "a@example.com", "password": "correct horse"}), "")
	assert.Equal(t, http.StatusOK, w.Code)

	wrong := s.do(jsonRequest(http.MethodPost, "/v1/auth/login", gin.H{"email": "a@example.com", "password": "nope"}), "")
	unknown := s.do(jsonRequest(http.MethodPost, "/v1/auth/login", gin.H{"email": "nobody@example.com", "password": "nope"}), "")
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestRouteGuards(t *testing.T) {
	s := newServer(t)
	userTok := token(t, uuid.New(), models.RoleUser)

	w := s.do(jsonRequest(http.MethodPost, "/v1/jobs", gin.H{"title": "x"}), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(jsonRequest(http.MethodPost, "/v1/channels", gin.H{"name": "general"}), userTok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(jsonRequest(http.MethodGet, "/v1/admin/reports", nil), userTok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(jsonRequest(http.MethodGet, "/v1/jobs/not-a-uuid", nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid id")
}

func TestAnonymousChannelList(t *testing.T) {
	s := newServer(t)
	defer s.channels.AssertExpectations(t)
	s.channels.On("ListVisible", mock.Anything, (*uuid.UUID)(nil)).
		Return([]models.Channel{{ID: uuid.New(), Name: "general"}}, nil).Once()

	w := s.do(jsonRequest(http.MethodGet, "/v1/channels", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"general"`)
}

func TestGetOrCreateDMIsIdempotent(t *testing.T) {
	s := newServer(t)
	a, b := uuid.New(), uuid.New()
	channelID := uuid.New()
	s.channels.On("GetOrCreateDM", mock.Anything, a, b).Return(channelID, true, nil).Once()
	s.channels.On("GetOrCreateDM", mock.Anything, b, a).Return(channelID, false, nil).Once()

	first := s.do(jsonRequest(http.MethodPost, "/v1/dm/"+b.String(), nil), token(t, a, models.RoleUser))
	second := s.do(jsonRequest(http.MethodPost, "/v1/dm/"+a.String(), nil), token(t, b, models.RoleUser))

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Contains(t, first.Body.String(), channelID.String())

	self := s.do(jsonRequest(http.MethodPost, "/v1/dm/"+a.String(), nil), token(t, a, models.RoleUser))
	assert.Equal(t, http.StatusBadRequest, self.Code)
}

func TestBusinessContactColumns(t *testing.T) {
	s := newServer(t)
	owner := uuid.New()
	id := uuid.New()
	s.businesses.On("GetByID", mock.Anything, id).Return(&models.Business{
		ID: id, Name: "Spice Corner", Phone: "555-0100", Email: "hi@spice.test",
		OwnerID: &owner, Status: models.StatusApproved,
	}, nil)

	anon := s.do(jsonRequest(http.MethodGet, "/v1/businesses/"+id.String(), nil), "")
	require.Equal(t, http.StatusOK, anon.Code)
	assert.Contains(t, anon.Body.String(), "Spice Corner")
	assert.NotContains(t, anon.Body.String(), "555-0100")
	assert.NotContains(t, anon.Body.String(), "owner_id")

	mine := s.do(jsonRequest(http.MethodGet, "/v1/businesses/"+id.String(), nil), token(t, owner, models.RoleUser))
	require.Equal(t, http.StatusOK, mine.Code)
	assert.Contains(t, mine.Body.String(), "555-0100")
}

func TestApplyWithResume(t *testing.T) {
	s := newServer(t)
	defer s.jobs.AssertExpectations(t)
	defer s.audit.AssertExpectations(t)
	applicant, poster := uuid.New(), uuid.New()
	jobID := uuid.New()

	s.jobs.On("GetByID", mock.Anything, jobID).Return(&models.Job{ID: jobID, Title: "Cook", PostedBy: &poster}, nil).Once()
	s.jobs.On("CreateApplication", mock.Anything, mock.MatchedBy(func(app models.JobApplication) bool {
		return app.ApplicantName == "Ravi" && strings.HasPrefix(app.ResumeURL, "http://files.test/files/resumes/"+applicant.String()+"/")
	})).Return(&models.JobApplication{ID: uuid.New(), ApplicantName: "Ravi", ApplicantEmail: "ravi@example.com"}, nil).Once()
	s.audit.On("Insert", mock.Anything, mock.MatchedBy(func(e models.ActivityLog) bool {
		return e.UserID != nil && *e.UserID == poster
	})).Return(&models.ActivityLog{}, nil).Once()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Ravi"))
	require.NoError(t, mw.WriteField("email", "ravi@example.com"))
	fw, err := mw.CreateFormFile("resume", "cv.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/jobs/"+jobID.String()+"/apply", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req, token(t, applicant, models.RoleUser))
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestOwnMatrimonyProfileMissingIsNull(t *testing.T) {
	s := newServer(t)
	userID := uuid.New()
	s.matrimony.On("GetByUserID", mock.Anything, userID).Return(nil, nil).Once()

	w := s.do(jsonRequest(http.MethodGet, "/v1/me/matrimony", nil), token(t, userID, models.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestResolveReportAdminOnly(t *testing.T) {
	s := newServer(t)
	admin, reporter := uuid.New(), uuid.New()
	reportID := uuid.New()
	s.reports.On("Resolve", mock.Anything, reportID, "handled", admin).Return(&models.Report{
		ID: reportID, ReporterID: &reporter, Reason: "spam", Status: models.StatusResolved,
	}, nil).Once()
	s.audit.On("Insert", mock.Anything, mock.Anything).Return(&models.ActivityLog{}, nil).Once()

	path := "/v1/admin/reports/" + reportID.String() + "/resolve"
	w := s.do(jsonRequest(http.MethodPost, path, gin.H{"resolution_note": "handled"}), token(t, admin, models.RoleModerationAdmin))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"resolved"`)
}

func TestEventRoutes(t *testing.T) {
	s := newServer(t)
	defer s.events.AssertExpectations(t)
	user := uuid.New()
	userTok := token(t, user, models.RoleUser)
	eventID := uuid.New()

	s.events.On("List", mock.Anything, mock.MatchedBy(func(f repository.EventFilter) bool {
		return f.Status == models.StatusApproved && f.When == portal.EventsUpcoming
	})).Return([]models.Event{{ID: eventID, Title: "Picnic"}}, nil).Once()
	s.events.On("GetRegistration", mock.Anything, eventID, user).Return(nil, nil).Once()

	w := s.do(jsonRequest(http.MethodGet, "/v1/events?filter=upcoming", nil), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"title":"Picnic"`)

	w = s.do(jsonRequest(http.MethodGet, "/v1/events?filter=someday", nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(jsonRequest(http.MethodGet, "/v1/events/"+eventID.String()+"/registration", nil), userTok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"registered": false, "registration": null}`, w.Body.String())

	w = s.do(jsonRequest(http.MethodPost, "/v1/events/"+eventID.String()+"/register", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(jsonRequest(http.MethodDelete, "/v1/admin/events/"+eventID.String(), nil), userTok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterForFullEvent(t *testing.T) {
	s := newServer(t)
	user, eventID := uuid.New(), uuid.New()
	s.events.On("GetByID", mock.Anything, eventID).Return(&models.Event{
		ID: eventID, Status: models.StatusApproved, EventDate: time.Now().Add(24 * time.Hour),
	}, nil).Twice()
	s.events.On("Register", mock.Anything, eventID, user).Return(nil, apperr.Validation("event is full")).Once()
	s.events.On("Register", mock.Anything, eventID, user).Return(nil, fmt.Errorf("register: %w", apperr.ErrConflict)).Once()

	path := "/v1/events/" + eventID.String() + "/register"
	w := s.do(jsonRequest(http.MethodPost, path, nil), token(t, user, models.RoleUser))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "event is full")

	w = s.do(jsonRequest(http.MethodPost, path, nil), token(t, user, models.RoleUser))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestArticleRoutes(t *testing.T) {
	s := newServer(t)
	defer s.articles.AssertExpectations(t)
	admin := uuid.New()
	articleID := uuid.New()

	s.articles.On("List", mock.Anything, repository.ArticleFilter{Status: models.ArticlePublished, Category: "Culture"}).
		Return([]models.Article{{ID: articleID, Title: "Fair"}}, nil).Once()
	s.articles.On("Create", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
		return a.Slug == "temple-fair" && a.AuthorID != nil && *a.AuthorID == admin
	})).Return(&models.Article{ID: articleID, Slug: "temple-fair"}, nil).Once()

	w := s.do(jsonRequest(http.MethodGet, "/v1/articles?category=Culture", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Fair"`)

	body := gin.H{"title": "Temple Fair", "content": "c", "category": "Culture"}
	w = s.do(jsonRequest(http.MethodPost, "/v1/admin/articles", body), token(t, uuid.New(), models.RoleUser))
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(jsonRequest(http.MethodPost, "/v1/admin/articles", body), token(t, admin, models.RoleContentAdmin))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"slug":"temple-fair"`)

	body["status"] = "archived"
	w = s.do(jsonRequest(http.MethodPost, "/v1/admin/articles", body), token(t, admin, models.RoleContentAdmin))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
