package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/apperr"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/realtime"
	"github.com/lalith-99/communityhub/internal/repository/repomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestCreatePublishesInsert(t *testing.T) {
	repo := &repomock.MockNotificationRepository{}
	defer repo.AssertExpectations(t)
	hub := realtime.NewHub(zaptest.NewLogger(t))
	svc := NewService(repo, realtime.NewAnnouncer(nil, hub, zaptest.NewLogger(t)), zaptest.NewLogger(t))

	userID := uuid.New()
	var got []realtime.Event
	hub.Subscribe(realtime.Filter{
		Table: TableNotifications, Event: realtime.EventInsert,
		Column: "user_id", Value: userID.String(),
	}, func(ev realtime.Event) { got = append(got, ev) })

	n := models.Notification{UserID: userID, Title: "Hello", Type: "info"}
	repo.On("Create", mock.Anything, n).Return(&models.Notification{ID: uuid.New(), UserID: userID, Title: "Hello"}, nil).Once()

	out, err := svc.Create(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, "Hello", out.Title)
	assert.Len(t, got, 1)
}

func TestCreateValidation(t *testing.T) {
	repo := &repomock.MockNotificationRepository{}
	svc := NewService(repo, nil, zaptest.NewLogger(t))

	_, err := svc.Create(context.Background(), models.Notification{Title: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Create(context.Background(), models.Notification{UserID: uuid.New(), Title: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBestEffortLogs(t *testing.T) {
	repo := &repomock.MockNotificationRepository{}
	core, logs := observer.New(zap.WarnLevel)
	svc := NewService(repo, nil, zap.New(core))

	repo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()
	svc.CreateBestEffort(context.Background(), models.Notification{UserID: uuid.New(), Title: "x", Type: "job_status_update"})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "job_status_update", logs.All()[0].ContextMap()["type"])
}

func TestMarkReadOwnerOnly(t *testing.T) {
	repo := &repomock.MockNotificationRepository{}
	defer repo.AssertExpectations(t)
	svc := NewService(repo, nil, zaptest.NewLogger(t))

	owner, stranger, id := uuid.New(), uuid.New(), uuid.New()
	repo.On("MarkRead", mock.Anything, id, owner).Return(true, nil).Once()
	repo.On("MarkRead", mock.Anything, id, stranger).Return(false, nil).Once()

	require.NoError(t, svc.MarkRead(context.Background(), owner, id))
	assert.ErrorIs(t, svc.MarkRead(context.Background(), stranger, id), apperr.ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	repo := &repomock.MockNotificationRepository{}
	defer repo.AssertExpectations(t)
	svc := NewService(repo, nil, zaptest.NewLogger(t))

	userID := uuid.New()
	repo.On("MarkAllRead", mock.Anything, userID).Return(int64(3), nil).Once()
	repo.On("CountUnread", mock.Anything, userID).Return(0, nil).Once()

	n, err := svc.MarkAllRead(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	unread, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
