package forum

import (
	"context"
	"sort"
	"sync"
)

// fakeStore is an in-memory Store used by the handler and credential tests.
// It mirrors the Database semantics: store-assigned ids, ErrNotFound on
// misses, and an atomic username check inside CreateUser.
type fakeStore struct {
	mu       sync.Mutex
	forums   map[int64]Forum
	messages map[int64]Message
	users    map[string]User
	nextID   int64
	nextUser int64
}

var _ Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		forums:   make(map[int64]Forum),
		messages: make(map[int64]Message),
		users:    make(map[string]User),
	}
}

func (s *fakeStore) addForum(id int64, name string) Forum {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := Forum{ID: id, Name: name}
	s.forums[id] = f
	return f
}

func (s *fakeStore) messageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *fakeStore) GetForum(_ context.Context, id int64) (Forum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forums[id]
	if !ok {
		return Forum{}, ErrNotFound
	}
	return f, nil
}

func (s *fakeStore) ListForums(_ context.Context) ([]Forum, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var forums []Forum
	for _, f := range s.forums {
		forums = append(forums, f)
	}
	sort.Slice(forums, func(i, j int) bool { return forums[i].ID < forums[j].ID })
	return forums, nil
}

func (s *fakeStore) GetMessage(_ context.Context, id int64) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return Message{}, ErrNotFound
	}
	return m, nil
}

func (s *fakeStore) ListRoots(_ context.Context, forumID int64) ([]Message, error) {
	return s.filter(func(m Message) bool { return m.ForumID == forumID && m.Parent == 0 }), nil
}

func (s *fakeStore) ListReplies(_ context.Context, parentID int64) ([]Message, error) {
	return s.filter(func(m Message) bool { return m.Parent == parentID }), nil
}

func (s *fakeStore) filter(keep func(Message) bool) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var messages []Message
	for _, m := range s.messages {
		if keep(m) {
			messages = append(messages, m)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	return messages
}

func (s *fakeStore) CreateMessage(_ context.Context, m Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m.ID = s.nextID
	s.messages[m.ID] = m
	return m, nil
}

func (s *fakeStore) GetUserByUsername(_ context.Context, username string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) CreateUser(_ context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return User{}, ErrUsernameTaken
	}
	s.nextUser++
	u.ID = s.nextUser
	s.users[u.Username] = u
	return u, nil
}
