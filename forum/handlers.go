// forum/handlers.go
package forum

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/rexlx/parlance/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionUserKey = "username"

// HomeView is the data structure for the forum list page.
type HomeView struct {
	Username string
	Forums   []Forum
}

// ForumView is the data structure for a single forum's thread list.
type ForumView struct {
	Username string
	Forum    Forum
	Messages []Message
}

// MessageView is the data structure for one thread: the root message plus
// its direct replies.
type MessageView struct {
	Username string
	Forum    Forum
	Message  Message
	Replies  []Message
}

// FormView backs the registration and login pages. Error is a generic flag;
// the page never says which part of the submission was wrong.
type FormView struct {
	Username string
	Error    bool
}

type Handlers struct {
	store       Store
	credentials *Credentials
	Session     *scs.SessionManager
	templates   *template.Template
	logger      *logger.Logger
}

func NewHandlers(store Store, session *scs.SessionManager, log *logger.Logger) (*Handlers, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Handlers{
		store:       store,
		credentials: NewCredentials(store, log),
		Session:     session,
		templates:   tpl,
		logger:      log,
	}, nil
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.home)
	mux.HandleFunc("/forum/", h.forum)
	mux.HandleFunc("/users/create", h.usersCreate)
	mux.HandleFunc("/users/login", h.usersLogin)
}

// currentUser resolves the identity attached to the request's session. The
// empty string means anonymous; resolution happens once per request and the
// result is threaded through view data explicitly.
func (h *Handlers) currentUser(r *http.Request) string {
	return h.Session.GetString(r.Context(), sessionUserKey)
}

func (h *Handlers) render(w http.ResponseWriter, name string, data any) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("failed to execute template", "template", name, "error", err.Error())
	}
}

// home lists every forum.
func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	forums, err := h.store.ListForums(r.Context())
	if err != nil {
		h.logger.Error("failed to list forums", "error", err.Error())
		http.Error(w, "Failed to retrieve forums", http.StatusInternalServerError)
		return
	}

	h.render(w, "home.html", HomeView{Username: h.currentUser(r), Forums: forums})
}

// forum dispatches /forum/{forumID} and /forum/{forumID}/{messageID}.
func (h *Handlers) forum(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/forum/"), "/")
	parts := strings.Split(path, "/")

	forumID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var messageID int64
	switch len(parts) {
	case 1:
		// forum-level request
	case 2:
		messageID, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			http.NotFound(w, r)
			return
		}
	default:
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if messageID == 0 {
			h.showForum(w, r, forumID)
		} else {
			h.showMessage(w, r, forumID, messageID)
		}
	case http.MethodPost:
		h.createPost(w, r, forumID, messageID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// showForum renders a forum's thread roots.
func (h *Handlers) showForum(w http.ResponseWriter, r *http.Request, forumID int64) {
	f, err := h.store.GetForum(r.Context(), forumID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to get forum", "forum_id", forumID, "error", err.Error())
		http.Error(w, "Failed to retrieve forum", http.StatusInternalServerError)
		return
	}

	roots, err := h.store.ListRoots(r.Context(), forumID)
	if err != nil {
		h.logger.Error("failed to list threads", "forum_id", forumID, "error", err.Error())
		http.Error(w, "Failed to retrieve threads", http.StatusInternalServerError)
		return
	}

	h.render(w, "forum.html", ForumView{Username: h.currentUser(r), Forum: f, Messages: roots})
}

// showMessage renders one message and its flat reply list.
func (h *Handlers) showMessage(w http.ResponseWriter, r *http.Request, forumID, messageID int64) {
	f, err := h.store.GetForum(r.Context(), forumID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to get forum", "forum_id", forumID, "error", err.Error())
		http.Error(w, "Failed to retrieve forum", http.StatusInternalServerError)
		return
	}

	msg, err := h.store.GetMessage(r.Context(), messageID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to get message", "message_id", messageID, "error", err.Error())
		http.Error(w, "Failed to retrieve message", http.StatusInternalServerError)
		return
	}

	replies, err := h.store.ListReplies(r.Context(), msg.ID)
	if err != nil {
		h.logger.Error("failed to list replies", "message_id", messageID, "error", err.Error())
		http.Error(w, "Failed to retrieve replies", http.StatusInternalServerError)
		return
	}

	h.render(w, "message.html", MessageView{Username: h.currentUser(r), Forum: f, Message: msg, Replies: replies})
}

// createPost is the write path for both new threads and replies. Order
// matters: identity first, then the forum, then the reply target, and only
// then the insert.
func (h *Handlers) createPost(w http.ResponseWriter, r *http.Request, forumID, parentID int64) {
	username := h.currentUser(r)
	if username == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := h.store.GetForum(r.Context(), forumID); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("failed to get forum", "forum_id", forumID, "error", err.Error())
		http.Error(w, "Failed to retrieve forum", http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	title := r.FormValue("title")
	body := r.FormValue("body")
	if title == "" || body == "" {
		http.Error(w, "Title and body are required fields", http.StatusBadRequest)
		return
	}

	if parentID != 0 {
		parent, err := h.store.GetMessage(r.Context(), parentID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			h.logger.Error("failed to get parent message", "message_id", parentID, "error", err.Error())
			http.Error(w, "Failed to retrieve message", http.StatusInternalServerError)
			return
		}
		// Replies attach to thread roots only. A third level would be
		// invisible to every listing query, so it is rejected outright.
		if !parent.IsRoot() {
			http.Error(w, ErrInvalidParent.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	stored, err := h.store.CreateMessage(r.Context(), Message{
		ForumID:  forumID,
		Title:    title,
		Body:     body,
		Parent:   parentID,
		Username: username,
		PostedAt: time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error("failed to create message", "forum_id", forumID, "error", err.Error())
		http.Error(w, "Failed to create message", http.StatusInternalServerError)
		return
	}

	// A new root jumps forward into its own thread view; a reply jumps back
	// to the thread it extends.
	target := fmt.Sprintf("/forum/%d/%d", forumID, stored.ID)
	if parentID != 0 {
		target = fmt.Sprintf("/forum/%d/%d", forumID, parentID)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// usersCreate serves the registration form and handles submissions. A taken
// username re-renders the form with the error flag set; it is not a hard
// failure. Registration never establishes a session.
func (h *Handlers) usersCreate(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, "users-create.html", FormView{Username: h.currentUser(r)})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}
		username := r.FormValue("username")
		password := r.FormValue("password")
		if username == "" || password == "" {
			h.render(w, "users-create.html", FormView{Error: true})
			return
		}

		err := h.credentials.Register(r.Context(), username, password)
		switch {
		case err == nil:
			h.render(w, "users-welcome.html", FormView{Username: username})
		case errors.Is(err, ErrUsernameTaken):
			h.render(w, "users-create.html", FormView{Error: true})
		default:
			h.logger.Error("failed to register user", "error", err.Error())
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// usersLogin serves the login form and handles submissions. Unknown usernames
// and wrong passwords produce the same page.
func (h *Handlers) usersLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, "users-login.html", FormView{Username: h.currentUser(r)})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form", http.StatusBadRequest)
			return
		}
		username := r.FormValue("username")
		password := r.FormValue("password")

		identity, err := h.credentials.Authenticate(r.Context(), username, password)
		switch {
		case err == nil:
			// Fresh token before the identity lands in the session.
			if err := h.Session.RenewToken(r.Context()); err != nil {
				h.logger.Error("failed to renew session token", "error", err.Error())
				http.Error(w, "Failed to log in", http.StatusInternalServerError)
				return
			}
			h.Session.Put(r.Context(), sessionUserKey, identity)
			h.render(w, "users-welcome.html", FormView{Username: identity})
		case errors.Is(err, ErrInvalidCredentials):
			h.render(w, "users-login.html", FormView{Error: true})
		default:
			h.logger.Error("failed to authenticate user", "error", err.Error())
			http.Error(w, "Failed to log in", http.StatusInternalServerError)
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
