package net

// SessionStore tracks accepted sessions by id. Game loop goroutine only;
// the accept loop hands sessions over through Server.NewSessions.
type SessionStore struct {
	sessions map[uint64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uint64]*Session)}
}

func (s *SessionStore) Add(sess *Session) {
	s.sessions[sess.ID] = sess
}

func (s *SessionStore) Remove(id uint64) {
	delete(s.sessions, id)
}

func (s *SessionStore) Get(id uint64) *Session {
	return s.sessions[id]
}

func (s *SessionStore) Count() int {
	return len(s.sessions)
}

// Raw exposes the underlying map for iteration. Do not mutate while ranging
// elsewhere.
func (s *SessionStore) Raw() map[uint64]*Session {
	return s.sessions
}

func (s *SessionStore) ForEach(fn func(sess *Session)) {
	for _, sess := range s.sessions {
		fn(sess)
	}
}
