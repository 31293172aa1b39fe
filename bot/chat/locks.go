package chat

import "sync"

// ChatLocks serialises work per chat: events of one chat run one at a time
// while different chats proceed in parallel.
type ChatLocks struct {
	mu    sync.Mutex
	locks map[ChatKey]*chatLock
}

type chatLock struct {
	mu   sync.Mutex
	refs int
}

func NewChatLocks() *ChatLocks {
	return &ChatLocks{locks: make(map[ChatKey]*chatLock)}
}

// Lock blocks until the chat is free and returns the matching unlock.
func (l *ChatLocks) Lock(key ChatKey) (unlock func()) {
	l.mu.Lock()
	cl, ok := l.locks[key]
	if !ok {
		cl = &chatLock{}
		l.locks[key] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.mu.Lock()
	return func() {
		cl.mu.Unlock()
		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of chats currently holding or waiting for a lock.
func (l *ChatLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
