// forum/db.go
package forum

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rexlx/parlance/database"
)

// Database implements Store on top of a pgx connection pool. The schema is
// managed by goose migrations run at connect time.
type Database struct {
	pool *pgxpool.Pool
}

var _ Store = (*Database)(nil)

func NewDatabase(ctx context.Context, dsn string) (*Database, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := database.Migrate(dsn); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Database{pool: pool}, nil
}

func (d *Database) Close() {
	d.pool.Close()
}

// --- Forum functions ---

func (d *Database) GetForum(ctx context.Context, id int64) (Forum, error) {
	var f Forum
	query := `SELECT id, name FROM forums WHERE id = $1`
	err := d.pool.QueryRow(ctx, query, id).Scan(&f.ID, &f.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Forum{}, ErrNotFound
		}
		return Forum{}, fmt.Errorf("failed to get forum: %w", err)
	}
	return f, nil
}

func (d *Database) ListForums(ctx context.Context) ([]Forum, error) {
	query := `SELECT id, name FROM forums ORDER BY id ASC`
	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list forums: %w", err)
	}
	defer rows.Close()

	var forums []Forum
	for rows.Next() {
		var f Forum
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, fmt.Errorf("failed to scan forum: %w", err)
		}
		forums = append(forums, f)
	}
	return forums, rows.Err()
}

// SeedForums inserts the demo catalog, but only into an empty table. Forums
// have no write path in the core, so this is the lone producer.
func (d *Database) SeedForums(ctx context.Context) error {
	var count int
	if err := d.pool.QueryRow(ctx, `SELECT COUNT(*) FROM forums`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count forums: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, name := range []string{"Songs", "Albums", "Concerts"} {
		if _, err := d.pool.Exec(ctx, `INSERT INTO forums (name) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("failed to seed forum %q: %w", name, err)
		}
	}
	return nil
}

// --- Message functions ---

func (d *Database) GetMessage(ctx context.Context, id int64) (Message, error) {
	var m Message
	query := `SELECT id, forum_id, title, body, parent, username, posted_at FROM messages WHERE id = $1`
	err := d.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.ForumID, &m.Title, &m.Body, &m.Parent, &m.Username, &m.PostedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, ErrNotFound
		}
		return Message{}, fmt.Errorf("failed to get message: %w", err)
	}
	return m, nil
}

func (d *Database) ListRoots(ctx context.Context, forumID int64) ([]Message, error) {
	query := `SELECT id, forum_id, title, body, parent, username, posted_at FROM messages
	          WHERE forum_id = $1 AND parent = 0
	          ORDER BY posted_at ASC, id ASC`
	return d.listMessages(ctx, query, forumID)
}

func (d *Database) ListReplies(ctx context.Context, parentID int64) ([]Message, error) {
	query := `SELECT id, forum_id, title, body, parent, username, posted_at FROM messages
	          WHERE parent = $1
	          ORDER BY posted_at ASC, id ASC`
	return d.listMessages(ctx, query, parentID)
}

func (d *Database) listMessages(ctx context.Context, query string, arg int64) ([]Message, error) {
	rows, err := d.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ForumID, &m.Title, &m.Body, &m.Parent, &m.Username, &m.PostedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (d *Database) CreateMessage(ctx context.Context, m Message) (Message, error) {
	query := `INSERT INTO messages (forum_id, title, body, parent, username, posted_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	err := d.pool.QueryRow(ctx, query, m.ForumID, m.Title, m.Body, m.Parent, m.Username, m.PostedAt).Scan(&m.ID)
	if err != nil {
		return Message{}, fmt.Errorf("failed to create message: %w", err)
	}
	return m, nil
}

// --- User functions ---

func (d *Database) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	query := `SELECT id, username, password_hash FROM users WHERE username = $1`
	err := d.pool.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("failed to get user by username: %w", err)
	}
	return u, nil
}

// CreateUser inserts the user and enforces username uniqueness in the same
// statement. The UNIQUE constraint plus ON CONFLICT makes the check-and-insert
// atomic; a conflicting insert returns no row.
func (d *Database) CreateUser(ctx context.Context, u User) (User, error) {
	query := `INSERT INTO users (username, password_hash)
	          VALUES ($1, $2)
	          ON CONFLICT (username) DO NOTHING
	          RETURNING id`
	err := d.pool.QueryRow(ctx, query, u.Username, u.PasswordHash).Scan(&u.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUsernameTaken
		}
		return User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}
