package forum

import "context"

// Store is the persistence surface the handlers and the credential service
// run against. Database is the production implementation.
type Store interface {
	GetForum(ctx context.Context, id int64) (Forum, error)
	ListForums(ctx context.Context) ([]Forum, error)

	GetMessage(ctx context.Context, id int64) (Message, error)
	ListRoots(ctx context.Context, forumID int64) ([]Message, error)
	ListReplies(ctx context.Context, parentID int64) ([]Message, error)
	CreateMessage(ctx context.Context, m Message) (Message, error)

	GetUserByUsername(ctx context.Context, username string) (User, error)
	CreateUser(ctx context.Context, u User) (User, error)
}
