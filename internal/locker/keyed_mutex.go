package locker

import (
	"context"
	"sync"
)

// KeyedMutex — взаимное исключение в пределах процесса, отдельное на каждый ключ.
// Ожидание прерывается отменой контекста.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[string]*keyedSlot
}

type keyedSlot struct {
	ch   chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{slots: make(map[string]*keyedSlot)}
}

func (k *KeyedMutex) acquireSlot(key string) *keyedSlot {
	k.mu.Lock()
	defer k.mu.Unlock()
	s, ok := k.slots[key]
	if !ok {
		s = &keyedSlot{ch: make(chan struct{}, 1)}
		k.slots[key] = s
	}
	s.refs++
	return s
}

func (k *KeyedMutex) releaseSlot(key string, s *keyedSlot) {
	k.mu.Lock()
	defer k.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(k.slots, key)
	}
}

// Lock блокирует ключ и возвращает функцию разблокировки.
func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	s := k.acquireSlot(key)
	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		k.releaseSlot(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-s.ch
			k.releaseSlot(key, s)
		})
		return nil
	}, nil
}

// Len — число ключей, которые сейчас удерживаются или ожидаются.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.slots)
}
