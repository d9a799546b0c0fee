// Package repomock holds testify mocks for the repository interfaces.
package repomock

import (
	"context"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, email, passwordHash, fullName string) (*models.User, error) {
	args := m.Called(ctx, email, passwordHash, fullName)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) GrantRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if out, ok := args.Get(0).(*models.Profile); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockProfileRepository) GetPublic(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error) {
	args := m.Called(ctx, userID)
	if out, ok := args.Get(0).(*models.PublicProfile); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockProfileRepository) Snippets(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.ProfileSnippet, error) {
	args := m.Called(ctx, userIDs)
	if out, ok := args.Get(0).(map[uuid.UUID]models.ProfileSnippet); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockProfileRepository) Update(ctx context.Context, userID uuid.UUID, upd repository.ProfileUpdate) (*models.Profile, error) {
	args := m.Called(ctx, userID, upd)
	if out, ok := args.Get(0).(*models.Profile); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockChannelRepository struct {
	mock.Mock
}

func (m *MockChannelRepository) Create(ctx context.Context, ch models.Channel) (*models.Channel, error) {
	args := m.Called(ctx, ch)
	if out, ok := args.Get(0).(*models.Channel); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockChannelRepository) Update(ctx context.Context, channelID uuid.UUID, name, description string) (*models.Channel, error) {
	args := m.Called(ctx, channelID, name, description)
	if out, ok := args.Get(0).(*models.Channel); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockChannelRepository) Delete(ctx context.Context, channelID uuid.UUID) (bool, error) {
	args := m.Called(ctx, channelID)
	return args.Bool(0), args.Error(1)
}
func (m *MockChannelRepository) GetByID(ctx context.Context, channelID uuid.UUID) (*models.Channel, error) {
	args := m.Called(ctx, channelID)
	if out, ok := args.Get(0).(*models.Channel); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockChannelRepository) ListVisible(ctx context.Context, viewer *uuid.UUID) ([]models.Channel, error) {
	args := m.Called(ctx, viewer)
	return args.Get(0).([]models.Channel), args.Error(1)
}
func (m *MockChannelRepository) GetOrCreateDM(ctx context.Context, a, b uuid.UUID) (uuid.UUID, bool, error) {
	args := m.Called(ctx, a, b)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) AddMember(ctx context.Context, channelID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, channelID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockMembershipRepository) RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error {
	args := m.Called(ctx, channelID, userID)
	return args.Error(0)
}
func (m *MockMembershipRepository) ListMembers(ctx context.Context, channelID uuid.UUID) ([]models.ChannelMember, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).([]models.ChannelMember), args.Error(1)
}
func (m *MockMembershipRepository) IsMember(ctx context.Context, channelID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, channelID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockMembershipRepository) Counterparts(ctx context.Context, channelIDs []uuid.UUID, exclude uuid.UUID) ([]models.ChannelMember, error) {
	args := m.Called(ctx, channelIDs, exclude)
	return args.Get(0).([]models.ChannelMember), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg models.ChannelMessage) (*models.ChannelMessage, error) {
	args := m.Called(ctx, msg)
	if out, ok := args.Get(0).(*models.ChannelMessage); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMessageRepository) GetByID(ctx context.Context, messageID uuid.UUID) (*models.ChannelMessage, error) {
	args := m.Called(ctx, messageID)
	if out, ok := args.Get(0).(*models.ChannelMessage); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMessageRepository) ListRecent(ctx context.Context, channelID uuid.UUID, limit int) ([]models.ChannelMessage, error) {
	args := m.Called(ctx, channelID, limit)
	return args.Get(0).([]models.ChannelMessage), args.Error(1)
}
func (m *MockMessageRepository) Delete(ctx context.Context, messageID, authorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, messageID, authorID)
	return args.Bool(0), args.Error(1)
}
func (m *MockMessageRepository) CountByChannel(ctx context.Context, channelID uuid.UUID) (int64, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(int64), args.Error(1)
}

type MockDirectMessageRepository struct {
	mock.Mock
}

func (m *MockDirectMessageRepository) Create(ctx context.Context, from, to uuid.UUID, content string) (*models.DirectMessage, error) {
	args := m.Called(ctx, from, to, content)
	if out, ok := args.Get(0).(*models.DirectMessage); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockDirectMessageRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.DirectMessage, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.DirectMessage), args.Error(1)
}
func (m *MockDirectMessageRepository) ListConversation(ctx context.Context, a, b uuid.UUID) ([]models.DirectMessage, error) {
	args := m.Called(ctx, a, b)
	return args.Get(0).([]models.DirectMessage), args.Error(1)
}
func (m *MockDirectMessageRepository) MarkRead(ctx context.Context, viewer, counterpart uuid.UUID) (int64, error) {
	args := m.Called(ctx, viewer, counterpart)
	return args.Get(0).(int64), args.Error(1)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Insert(ctx context.Context, entry models.ActivityLog) (*models.ActivityLog, error) {
	args := m.Called(ctx, entry)
	if out, ok := args.Get(0).(*models.ActivityLog); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockActivityRepository) List(ctx context.Context, entityType string, limit int) ([]models.ActivityLog, error) {
	args := m.Called(ctx, entityType, limit)
	return args.Get(0).([]models.ActivityLog), args.Error(1)
}
func (m *MockActivityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ActivityLog, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]models.ActivityLog), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n models.Notification) (*models.Notification, error) {
	args := m.Called(ctx, n)
	if out, ok := args.Get(0).(*models.Notification); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Notification), args.Error(1)
}
func (m *MockNotificationRepository) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, notificationID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job models.Job) (*models.Job, error) {
	args := m.Called(ctx, job)
	if out, ok := args.Get(0).(*models.Job); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockJobRepository) GetByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, jobID)
	if out, ok := args.Get(0).(*models.Job); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockJobRepository) List(ctx context.Context, status string) ([]models.Job, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Job), args.Error(1)
}
func (m *MockJobRepository) UpdateStatus(ctx context.Context, jobID uuid.UUID, status string) (bool, error) {
	args := m.Called(ctx, jobID, status)
	return args.Bool(0), args.Error(1)
}
func (m *MockJobRepository) Delete(ctx context.Context, jobID uuid.UUID) (bool, error) {
	args := m.Called(ctx, jobID)
	return args.Bool(0), args.Error(1)
}
func (m *MockJobRepository) Save(ctx context.Context, jobID, userID uuid.UUID) error {
	args := m.Called(ctx, jobID, userID)
	return args.Error(0)
}
func (m *MockJobRepository) Unsave(ctx context.Context, jobID, userID uuid.UUID) error {
	args := m.Called(ctx, jobID, userID)
	return args.Error(0)
}
func (m *MockJobRepository) SavedJobIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
func (m *MockJobRepository) CreateApplication(ctx context.Context, app models.JobApplication) (*models.JobApplication, error) {
	args := m.Called(ctx, app)
	if out, ok := args.Get(0).(*models.JobApplication); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockJobRepository) GetApplication(ctx context.Context, applicationID uuid.UUID) (*models.JobApplication, error) {
	args := m.Called(ctx, applicationID)
	if out, ok := args.Get(0).(*models.JobApplication); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockJobRepository) ListApplications(ctx context.Context, jobID uuid.UUID) ([]models.JobApplication, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).([]models.JobApplication), args.Error(1)
}
func (m *MockJobRepository) UpdateApplicationStatus(ctx context.Context, applicationID uuid.UUID, status string) (bool, error) {
	args := m.Called(ctx, applicationID, status)
	return args.Bool(0), args.Error(1)
}

type MockMatrimonyRepository struct {
	mock.Mock
}

func (m *MockMatrimonyRepository) Create(ctx context.Context, p models.MatrimonyProfile) (*models.MatrimonyProfile, error) {
	args := m.Called(ctx, p)
	if out, ok := args.Get(0).(*models.MatrimonyProfile); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMatrimonyRepository) GetByID(ctx context.Context, profileID uuid.UUID) (*models.MatrimonyProfile, error) {
	args := m.Called(ctx, profileID)
	if out, ok := args.Get(0).(*models.MatrimonyProfile); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMatrimonyRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.MatrimonyProfile, error) {
	args := m.Called(ctx, userID)
	if out, ok := args.Get(0).(*models.MatrimonyProfile); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMatrimonyRepository) List(ctx context.Context, status string) ([]models.MatrimonyProfile, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.MatrimonyProfile), args.Error(1)
}
func (m *MockMatrimonyRepository) UpdateStatus(ctx context.Context, profileID uuid.UUID, status string) (bool, error) {
	args := m.Called(ctx, profileID, status)
	return args.Bool(0), args.Error(1)
}
func (m *MockMatrimonyRepository) CreateInterest(ctx context.Context, i models.MatrimonyInterest) (*models.MatrimonyInterest, error) {
	args := m.Called(ctx, i)
	if out, ok := args.Get(0).(*models.MatrimonyInterest); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMatrimonyRepository) SentInterests(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) Create(ctx context.Context, b models.Business) (*models.Business, error) {
	args := m.Called(ctx, b)
	if out, ok := args.Get(0).(*models.Business); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBusinessRepository) GetByID(ctx context.Context, businessID uuid.UUID) (*models.Business, error) {
	args := m.Called(ctx, businessID)
	if out, ok := args.Get(0).(*models.Business); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBusinessRepository) ListPublic(ctx context.Context, f repository.BusinessFilter) ([]models.PublicBusiness, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.PublicBusiness), args.Error(1)
}
func (m *MockBusinessRepository) UpdateStatus(ctx context.Context, businessID uuid.UUID, status string) (bool, error) {
	args := m.Called(ctx, businessID, status)
	return args.Bool(0), args.Error(1)
}

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, r models.Report) (*models.Report, error) {
	args := m.Called(ctx, r)
	if out, ok := args.Get(0).(*models.Report); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockReportRepository) List(ctx context.Context, status string) ([]models.Report, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Report), args.Error(1)
}
func (m *MockReportRepository) Resolve(ctx context.Context, reportID uuid.UUID, note string, resolvedBy uuid.UUID) (*models.Report, error) {
	args := m.Called(ctx, reportID, note, resolvedBy)
	if out, ok := args.Get(0).(*models.Report); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e models.Event) (*models.Event, error) {
	args := m.Called(ctx, e)
	if out, ok := args.Get(0).(*models.Event); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockEventRepository) GetByID(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, eventID)
	if out, ok := args.Get(0).(*models.Event); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockEventRepository) List(ctx context.Context, f repository.EventFilter) ([]models.Event, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Event), args.Error(1)
}
func (m *MockEventRepository) Update(ctx context.Context, e models.Event) (*models.Event, error) {
	args := m.Called(ctx, e)
	if out, ok := args.Get(0).(*models.Event); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockEventRepository) UpdateStatus(ctx context.Context, eventID uuid.UUID, status string) (bool, error) {
	args := m.Called(ctx, eventID, status)
	return args.Bool(0), args.Error(1)
}
func (m *MockEventRepository) Delete(ctx context.Context, eventID uuid.UUID) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}
func (m *MockEventRepository) GetRegistration(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRegistration, error) {
	args := m.Called(ctx, eventID, userID)
	if out, ok := args.Get(0).(*models.EventRegistration); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockEventRepository) Register(ctx context.Context, eventID, userID uuid.UUID) (*models.EventRegistration, error) {
	args := m.Called(ctx, eventID, userID)
	if out, ok := args.Get(0).(*models.EventRegistration); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, a models.Article) (*models.Article, error) {
	args := m.Called(ctx, a)
	if out, ok := args.Get(0).(*models.Article); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockArticleRepository) GetByID(ctx context.Context, articleID uuid.UUID) (*models.Article, error) {
	args := m.Called(ctx, articleID)
	if out, ok := args.Get(0).(*models.Article); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockArticleRepository) List(ctx context.Context, f repository.ArticleFilter) ([]models.Article, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Article), args.Error(1)
}
func (m *MockArticleRepository) Update(ctx context.Context, a models.Article) (*models.Article, error) {
	args := m.Called(ctx, a)
	if out, ok := args.Get(0).(*models.Article); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockArticleRepository) Delete(ctx context.Context, articleID uuid.UUID) (bool, error) {
	args := m.Called(ctx, articleID)
	return args.Bool(0), args.Error(1)
}
func (m *MockArticleRepository) Bookmark(ctx context.Context, articleID, userID uuid.UUID) error {
	args := m.Called(ctx, articleID, userID)
	return args.Error(0)
}
func (m *MockArticleRepository) Unbookmark(ctx context.Context, articleID, userID uuid.UUID) error {
	args := m.Called(ctx, articleID, userID)
	return args.Error(0)
}
func (m *MockArticleRepository) BookmarkedIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

var (
	_ repository.UserRepository          = (*MockUserRepository)(nil)
	_ repository.ProfileRepository       = (*MockProfileRepository)(nil)
	_ repository.ChannelRepository       = (*MockChannelRepository)(nil)
	_ repository.MembershipRepository    = (*MockMembershipRepository)(nil)
	_ repository.MessageRepository       = (*MockMessageRepository)(nil)
	_ repository.DirectMessageRepository = (*MockDirectMessageRepository)(nil)
	_ repository.ActivityRepository      = (*MockActivityRepository)(nil)
	_ repository.NotificationRepository  = (*MockNotificationRepository)(nil)
	_ repository.JobRepository           = (*MockJobRepository)(nil)
	_ repository.MatrimonyRepository     = (*MockMatrimonyRepository)(nil)
	_ repository.BusinessRepository      = (*MockBusinessRepository)(nil)
	_ repository.ReportRepository        = (*MockReportRepository)(nil)
	_ repository.EventRepository         = (*MockEventRepository)(nil)
	_ repository.ArticleRepository       = (*MockArticleRepository)(nil)
)
