package memory

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/fish11112222/naha2/internal/domain"
)

// Store is the in-process storage backend. All state lives in maps guarded
// by a single RWMutex; after every mutation the maps are written through to
// a JSON snapshot file so a restart picks up where the process left off.
//
// Snapshot write failures are logged and swallowed: the in-memory state
// stays authoritative for the running process.
type Store struct {
	mu sync.RWMutex

	users    map[int64]*domain.User
	messages map[int64]*domain.Message
	themes   map[int64]*domain.ChatTheme

	activeThemeID int64
	nextUserID    int64
	nextMessageID int64

	dataFile       string
	maxAvatarBytes int
}

var _ domain.Storage = (*Store)(nil)

// New creates a Store persisting to dataFile. If the file exists its
// contents are loaded; a corrupt or unreadable file is logged and ignored
// so the server still comes up.
func New(dataFile string, maxAvatarBytes int) *Store {
	s := &Store{
		users:          make(map[int64]*domain.User),
		messages:       make(map[int64]*domain.Message),
		themes:         make(map[int64]*domain.ChatTheme),
		activeThemeID:  1,
		nextUserID:     1,
		nextMessageID:  1,
		dataFile:       dataFile,
		maxAvatarBytes: maxAvatarBytes,
	}
	for _, t := range domain.DefaultThemes() {
		s.themes[t.ID] = t
	}
	s.load()
	return s
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.users[id]), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.findByEmailLocked(email)), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.findByUsernameLocked(username)), nil
}

func (s *Store) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (s *Store) CreateUser(ctx context.Context, in domain.SignUpInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmailLocked(in.Email) != nil {
		return nil, domain.ErrDuplicateEmail
	}
	if s.findByUsernameLocked(in.Username) != nil {
		return nil, domain.ErrDuplicateUsername
	}

	id := s.generateUserIDLocked()
	user := &domain.User{
		ID:        id,
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		CreatedAt: time.Now(),
	}
	s.users[id] = user
	if id+1 > s.nextUserID {
		s.nextUserID = id + 1
	}
	s.persistLocked()
	log.Printf("user created: id=%d username=%s", user.ID, user.Username)
	return cloneUser(user), nil
}

// generateUserIDLocked derives an id from the current timestamp plus a
// random suffix, keeping the last 8 digits, then probes forward past any
// collision. Ids are therefore unique but intentionally not sequential.
func (s *Store) generateUserIDLocked() int64 {
	raw := fmt.Sprintf("%d%d", time.Now().UnixMilli(), rand.IntN(1000))
	if len(raw) > 8 {
		raw = raw[len(raw)-8:]
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		id = s.nextUserID
	}
	for {
		if _, taken := s.users[id]; !taken {
			return id
		}
		id++
	}
}

// AuthenticateUser compares the password by exact string equality. Unknown
// email and wrong password both return (nil, nil); the distinction exists
// only in the log.
func (s *Store) AuthenticateUser(ctx context.Context, in domain.SignInInput) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user := s.findByEmailLocked(in.Email)
	if user == nil {
		log.Printf("authentication failed: no user for email %s", in.Email)
		return nil, nil
	}
	if user.Password != in.Password {
		log.Printf("authentication failed: password mismatch for %s", in.Email)
		return nil, nil
	}
	return cloneUser(user), nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, userID int64, updates domain.ProfileUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}

	if updates.Avatar != nil && len(*updates.Avatar) > s.maxAvatarBytes {
		return nil, domain.ErrAvatarTooLarge
	}

	if updates.FirstName != nil && *updates.FirstName != "" {
		user.FirstName = *updates.FirstName
	}
	if updates.LastName != nil && *updates.LastName != "" {
		user.LastName = *updates.LastName
	}
	if updates.Bio != nil {
		user.Bio = updates.Bio
	}
	if updates.Location != nil {
		user.Location = updates.Location
	}
	if updates.Website != nil {
		user.Website = updates.Website
	}
	if updates.Avatar != nil {
		user.Avatar = updates.Avatar
	}
	if updates.DateOfBirth != nil {
		user.DateOfBirth = updates.DateOfBirth
	}
	now := time.Now()
	user.LastActivity = &now

	s.persistLocked()
	return cloneUser(user), nil
}

func (s *Store) UpdateUserActivity(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil
	}
	now := time.Now()
	user.LastActivity = &now
	user.IsOnline = true
	s.persistLocked()
	return nil
}

func (s *Store) GetUsersCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	count := 0
	for _, u := range s.users {
		if domain.UserIsActive(u.LastActivity, now) {
			count++
		}
	}
	return count, nil
}

func (s *Store) GetTotalUsersCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *Store) GetOnlineUsers(ctx context.Context) ([]*domain.User, error) {
	return s.GetAllUsers(ctx)
}

func (s *Store) GetUserMessageCount(ctx context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, m := range s.messages {
		if m.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *Store) GetMessages(ctx context.Context) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]*domain.Message, 0, len(s.messages))
	for _, m := range s.messages {
		msgs = append(msgs, cloneMessage(m))
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (s *Store) GetMessageByID(ctx context.Context, id int64) (*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMessage(s.messages[id]), nil
}

func (s *Store) CreateMessage(ctx context.Context, in domain.MessageInput) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := &domain.Message{
		ID:             s.nextMessageID,
		Content:        in.Content,
		Username:       in.Username,
		UserID:         in.UserID,
		AttachmentURL:  in.AttachmentURL,
		AttachmentType: in.AttachmentType,
		AttachmentName: in.AttachmentName,
		CreatedAt:      time.Now(),
	}
	s.nextMessageID++
	s.messages[msg.ID] = msg
	s.persistLocked()
	return cloneMessage(msg), nil
}

func (s *Store) UpdateMessage(ctx context.Context, id, userID int64, content string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[id]
	if !ok || msg.UserID != userID {
		return nil, nil
	}
	now := time.Now()
	msg.Content = content
	msg.UpdatedAt = &now
	s.persistLocked()
	return cloneMessage(msg), nil
}

// DeleteMessage removes a message after a strict ownership check: the ids
// must match, both the acting user and the stored owner must exist, and
// their email and username must be identical. User ids are derived from
// timestamps with a random suffix and could in principle collide across
// rapid signups, so identity is reconfirmed by content, not just by id.
func (s *Store) DeleteMessage(ctx context.Context, id, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[id]
	if !ok {
		return false, nil
	}

	user := s.users[userID]
	owner := s.users[msg.UserID]

	if msg.UserID != userID || user == nil || owner == nil {
		log.Printf("ownership violation: user %d attempted to delete message %d owned by user %d", userID, id, msg.UserID)
		return false, nil
	}
	if user.Email != owner.Email || user.Username != owner.Username {
		log.Printf("ownership violation: id match but identity mismatch deleting message %d (caller %s/%s, owner %s/%s)",
			id, user.Email, user.Username, owner.Email, owner.Username)
		return false, nil
	}

	delete(s.messages, id)
	s.persistLocked()
	return true, nil
}

func (s *Store) GetActiveTheme(ctx context.Context) (*domain.ChatTheme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTheme(s.themes[s.activeThemeID]), nil
}

func (s *Store) GetAvailableThemes(ctx context.Context) ([]*domain.ChatTheme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	themes := make([]*domain.ChatTheme, 0, len(s.themes))
	for _, t := range s.themes {
		themes = append(themes, cloneTheme(t))
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i].ID < themes[j].ID })
	return themes, nil
}

func (s *Store) SetActiveTheme(ctx context.Context, themeID int64) (*domain.ChatTheme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	theme, ok := s.themes[themeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if prev, ok := s.themes[s.activeThemeID]; ok {
		prev.IsActive = false
	}
	theme.IsActive = true
	s.activeThemeID = themeID
	s.persistLocked()
	return cloneTheme(theme), nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked()
	return nil
}

func (s *Store) findByEmailLocked(email string) *domain.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *Store) findByUsernameLocked(username string) *domain.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func cloneMessage(m *domain.Message) *domain.Message {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func cloneTheme(t *domain.ChatTheme) *domain.ChatTheme {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
