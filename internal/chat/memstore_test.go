package chat

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/communityhub/internal/models"
	"github.com/lalith-99/communityhub/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres stores, following
// the same contracts (nil, nil on not found, idempotent joins, dm_key
// uniqueness).
type memStore struct {
	mu       sync.Mutex
	seq      int64
	profiles map[uuid.UUID]models.ProfileSnippet
	channels map[uuid.UUID]models.Channel
	members  []models.ChannelMember
	messages []models.ChannelMessage
	dms      []models.DirectMessage
	dmKeys   map[string]uuid.UUID

	snippetCalls int
}

func newMemStore() *memStore {
	return &memStore{
		profiles: make(map[uuid.UUID]models.ProfileSnippet),
		channels: make(map[uuid.UUID]models.Channel),
		dmKeys:   make(map[string]uuid.UUID),
	}
}

func (s *memStore) nextSeq() int64 {
	s.seq++
	return s.seq
}

// profiles

func (s *memStore) Create(context.Context, models.Profile) (*models.Profile, error) {
	panic("unused")
}
func (s *memStore) GetByUserID(context.Context, uuid.UUID) (*models.Profile, error) {
	panic("unused")
}
func (s *memStore) GetPublic(context.Context, uuid.UUID) (*models.PublicProfile, error) {
	panic("unused")
}
func (s *memStore) Update(context.Context, uuid.UUID, repository.ProfileUpdate) (*models.Profile, error) {
	panic("unused")
}
func (s *memStore) Snippets(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.ProfileSnippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snippetCalls++
	out := make(map[uuid.UUID]models.ProfileSnippet)
	for _, id := range ids {
		if p, ok := s.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type memChannels struct{ *memStore }

func (s memChannels) Create(_ context.Context, ch models.Channel) (*models.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch.ID = uuid.New()
	ch.CreatedAt = time.Now()
	s.channels[ch.ID] = ch
	return &ch, nil
}
func (s memChannels) Update(_ context.Context, id uuid.UUID, name, description string) (*models.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[id]
	if !ok {
		return nil, nil
	}
	ch.Name, ch.Description = name, description
	s.channels[id] = ch
	return &ch, nil
}
func (s memChannels) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.channels[id]; !ok {
		return false, nil
	}
	delete(s.channels, id)
	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.ChannelID != id {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return true, nil
}
func (s memChannels) GetByID(_ context.Context, id uuid.UUID) (*models.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[id]
	if !ok {
		return nil, nil
	}
	return &ch, nil
}
func (s memChannels) ListVisible(_ context.Context, viewer *uuid.UUID) ([]models.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Channel, 0)
	for _, ch := range s.channels {
		if !ch.IsPrivate || (viewer != nil && s.isMember(ch.ID, *viewer)) {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
func (s memChannels) GetOrCreateDM(_ context.Context, a, b uuid.UUID) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{a.String(), b.String()}
	sort.Strings(ids)
	key := strings.Join(ids, ":")

	id, ok := s.dmKeys[key]
	created := !ok
	if !ok {
		id = uuid.New()
		s.dmKeys[key] = id
		s.channels[id] = models.Channel{ID: id, Name: "dm-" + key, IsPrivate: true, DMKey: &key}
	}
	for _, u := range []uuid.UUID{a, b} {
		if !s.isMember(id, u) {
			s.members = append(s.members, models.ChannelMember{ID: uuid.New(), ChannelID: id, UserID: u})
		}
	}
	return id, created, nil
}

type memMembers struct{ *memStore }

func (s *memStore) isMember(channelID, userID uuid.UUID) bool {
	for _, m := range s.members {
		if m.ChannelID == channelID && m.UserID == userID {
			return true
		}
	}
	return false
}

func (s memMembers) AddMember(_ context.Context, channelID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isMember(channelID, userID) {
		return false, nil
	}
	s.members = append(s.members, models.ChannelMember{ID: uuid.New(), ChannelID: channelID, UserID: userID})
	return true, nil
}
func (s memMembers) RemoveMember(_ context.Context, channelID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.members[:0]
	for _, m := range s.members {
		if !(m.ChannelID == channelID && m.UserID == userID) {
			kept = append(kept, m)
		}
	}
	s.members = kept
	return nil
}
func (s memMembers) ListMembers(_ context.Context, channelID uuid.UUID) ([]models.ChannelMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChannelMember, 0)
	for _, m := range s.members {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (s memMembers) IsMember(_ context.Context, channelID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isMember(channelID, userID), nil
}
func (s memMembers) Counterparts(_ context.Context, channelIDs []uuid.UUID, exclude uuid.UUID) ([]models.ChannelMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[uuid.UUID]bool)
	for _, id := range channelIDs {
		want[id] = true
	}
	out := make([]models.ChannelMember, 0)
	for _, m := range s.members {
		if want[m.ChannelID] && m.UserID != exclude {
			out = append(out, m)
		}
	}
	return out, nil
}

type memMessages struct{ *memStore }

func (s memMessages) Create(_ context.Context, msg models.ChannelMessage) (*models.ChannelMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = uuid.New()
	msg.Seq = s.nextSeq()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages = append(s.messages, msg)
	return &msg, nil
}
func (s memMessages) GetByID(_ context.Context, id uuid.UUID) (*models.ChannelMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, nil
}
func (s memMessages) ListRecent(_ context.Context, channelID uuid.UUID, limit int) ([]models.ChannelMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChannelMessage, 0)
	for _, m := range s.messages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
func (s memMessages) Delete(_ context.Context, id, author uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.messages {
		if m.ID == id && m.UserID == author {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
func (s memMessages) CountByChannel(_ context.Context, channelID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, m := range s.messages {
		if m.ChannelID == channelID {
			n++
		}
	}
	return n, nil
}

type memDMs struct{ *memStore }

func (s memDMs) Create(_ context.Context, from, to uuid.UUID, content string) (*models.DirectMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := models.DirectMessage{ID: uuid.New(), Seq: s.nextSeq(), FromUserID: from, ToUserID: to, Content: content, CreatedAt: time.Now()}
	s.dms = append(s.dms, m)
	return &m, nil
}
func (s memDMs) ListForUser(_ context.Context, userID uuid.UUID) ([]models.DirectMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DirectMessage, 0)
	for _, m := range s.dms {
		if m.FromUserID == userID || m.ToUserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out, nil
}
func (s memDMs) ListConversation(_ context.Context, a, b uuid.UUID) ([]models.DirectMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DirectMessage, 0)
	for _, m := range s.dms {
		if (m.FromUserID == a && m.ToUserID == b) || (m.FromUserID == b && m.ToUserID == a) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}
func (s memDMs) MarkRead(_ context.Context, viewer, counterpart uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for i := range s.dms {
		if s.dms[i].ToUserID == viewer && s.dms[i].FromUserID == counterpart && !s.dms[i].Read {
			s.dms[i].Read = true
			n++
		}
	}
	return n, nil
}
