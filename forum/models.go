// forum/models.go
package forum

import (
	"time"
)

// Forum is a named category. Rows come from the seed process; the core never
// writes them.
type Forum struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Message is either a thread root (Parent == 0) or a direct reply holding its
// root's id in Parent. Threads are exactly two levels deep.
type Message struct {
	ID       int64     `json:"id" db:"id"`
	ForumID  int64     `json:"forum_id" db:"forum_id"`
	Title    string    `json:"title" db:"title"`
	Body     string    `json:"body" db:"body"`
	Parent   int64     `json:"parent" db:"parent"`
	Username string    `json:"username" db:"username"`
	PostedAt time.Time `json:"posted_at" db:"posted_at"`
}

// IsRoot reports whether the message heads its own thread.
func (m Message) IsRoot() bool {
	return m.Parent == 0
}
