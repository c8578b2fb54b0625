package controllers

import (
	"encoding/json"
	"io"
	"net"
	"sort"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"
)

// User is one websocket subscriber of the batch progress feed.
type User struct {
	io   sync.Mutex
	conn io.ReadWriteCloser

	id  uint
	hub *Hub
}

func (u *User) write(x interface{}) error {
	w := wsutil.NewWriter(u.conn, ws.StateServerSide, ws.OpText)
	encoder := json.NewEncoder(w)

	u.io.Lock()
	defer u.io.Unlock()

	if err := encoder.Encode(x); err != nil {
		return err
	}

	return w.Flush()
}

// Hub fans batch progress events out to every connected websocket client.
// The feed is write-only: clients connect and listen, they never send.
type Hub struct {
	mu  sync.RWMutex
	seq uint
	us  []*User
	ns  map[uint]*User

	log *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		ns:  make(map[uint]*User),
		us:  make([]*User, 0),
		log: log,
	}
}

func (h *Hub) Register(conn net.Conn) *User {
	user := &User{
		hub:  h,
		conn: conn,
	}

	h.mu.Lock()
	user.id = h.seq
	h.ns[user.id] = user
	h.us = append(h.us, user)

	h.seq++
	h.mu.Unlock()

	return user
}

func (h *Hub) Remove(user *User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(user)
}

func (h *Hub) removeLocked(user *User) {
	if _, ok := h.ns[user.id]; !ok {
		return
	}
	delete(h.ns, user.id)

	i := sort.Search(len(h.us), func(i int) bool {
		return h.us[i].id >= user.id
	})

	newUs := make([]*User, len(h.us)-1)
	copy(newUs[:i], h.us[:i])
	copy(newUs[i:], h.us[i+1:])
	h.us = newUs
}

func (h *Hub) RemoveAllUsers() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, user := range h.us {
		user.conn.Close()
		delete(h.ns, user.id)
	}
	h.us = h.us[:0]
}

// BroadcastProgress pushes one progress event to every subscriber. Clients
// whose connection errors out are dropped on the spot.
func (h *Hub) BroadcastProgress(completed, total int) {
	event := envelope{"data": progressEvent{Completed: completed, Total: total}}

	h.mu.RLock()
	subscribers := make([]*User, len(h.us))
	copy(subscribers, h.us)
	h.mu.RUnlock()

	for _, user := range subscribers {
		if err := user.write(event); err != nil {
			h.log.Info("dropping websocket subscriber", zap.Uint("id", user.id), zap.Error(err))
			user.conn.Close()
			h.Remove(user)
		}
	}
}
