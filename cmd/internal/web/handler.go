package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"clubhouse/cmd/identity"
	"clubhouse/cmd/internal/auth"
	"clubhouse/cmd/internal/auth/session"
	"clubhouse/cmd/internal/forum"
)

const incorrectSecretMessage = "Incorrect secret passcode."

// Handler serves the forum's HTML pages. Every request resolves the session
// cookie into an auth.Context before any authorization decision is made.
type Handler struct {
	log       *slog.Logger
	templates map[string]*template.Template

	verifier  *auth.Verifier
	registrar *auth.Registrar
	club      *auth.Club
	sessions  *session.Manager
	forum     *forum.Service

	metrics Recorder
}

// NewHandler constructs the web Handler. All services are required except
// metrics, which defaults to NopRecorder.
func NewHandler(
	log *slog.Logger,
	verifier *auth.Verifier,
	registrar *auth.Registrar,
	club *auth.Club,
	sessions *session.Manager,
	forumSvc *forum.Service,
	metrics Recorder,
) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if verifier == nil || registrar == nil || club == nil || sessions == nil || forumSvc == nil {
		return nil, errors.New("web: missing service dependency")
	}
	if metrics == nil {
		metrics = NopRecorder{}
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Handler{
		log:       log,
		templates: templates,
		verifier:  verifier,
		registrar: registrar,
		club:      club,
		sessions:  sessions,
		forum:     forumSvc,
		metrics:   metrics,
	}, nil
}

// Register wires the forum routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/", h.handleHome)
	mux.HandleFunc("/sign-up", h.handleSignUp)
	mux.HandleFunc("/log-in", h.handleLogIn)
	mux.HandleFunc("/log-out", h.handleLogOut)
	mux.HandleFunc("/join-the-club", h.handleJoinClub)
	mux.HandleFunc("/new-message", h.handleNewMessage)
	mux.HandleFunc("/delete-message", h.handleDeleteMessage)
}

// actor resolves the request's session cookie into an authorization context.
// Resolution failures degrade to anonymous rather than erroring the page.
func (h *Handler) actor(r *http.Request) auth.Context {
	value, ok := session.ReadCookie(r, h.sessions.CookieName())
	if !ok {
		return auth.NewContext(nil)
	}

	u, err := h.sessions.ResolveCookieValue(r.Context(), time.Now().UTC(), value)
	if err != nil {
		h.log.Error("web.session.resolve.fail", "err", err)
		return auth.NewContext(nil)
	}
	return auth.NewContext(u)
}

// ---- handlers ----

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	actor := h.actor(r)

	msgs, err := h.forum.List(r.Context())
	if err != nil {
		h.log.Error("web.home.list.fail", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, newMessageView(m, actor))
	}

	h.render(w, http.StatusOK, "home", homePage{
		Title:    "The board",
		Viewer:   newViewerView(actor.User),
		Messages: views,
	})
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	if actor.Member() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, "sign_up", signUpPage{Title: "Sign up"})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		form := auth.RegistrationForm{
			FirstName:       r.PostFormValue("first_name"),
			LastName:        r.PostFormValue("last_name"),
			Handle:          r.PostFormValue("username"),
			Password:        r.PostFormValue("password"),
			ConfirmPassword: r.PostFormValue("confirm_password"),
		}

		now := time.Now().UTC()
		user, fieldErrs, err := h.registrar.Register(r.Context(), now, form)
		if err != nil {
			h.log.Error("web.signup.fail", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if len(fieldErrs) > 0 {
			// Re-render with every violation; submitted passwords are never
			// echoed back.
			h.render(w, http.StatusUnprocessableEntity, "sign_up", signUpPage{
				Title:  "Sign up",
				Errors: fieldErrorMessages(fieldErrs),
				Form: signUpForm{
					FirstName: form.FirstName,
					LastName:  form.LastName,
					Handle:    form.Handle,
				},
			})
			return
		}

		h.metrics.SignupCompleted()
		h.log.Info("web.signup.ok", "user_id", user.ID, "handle", user.Handle)

		// New members are signed in immediately.
		if err := h.startSession(w, r, now, user); err != nil {
			h.log.Error("web.signup.session.fail", "err", err)
			http.Redirect(w, r, "/log-in", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleLogIn(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	if actor.Member() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, "log_in", logInPage{Title: "Log in"})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		handle := r.PostFormValue("username")
		pw := r.PostFormValue("password")

		now := time.Now().UTC()
		user, err := h.verifier.Verify(r.Context(), handle, pw)
		if err != nil {
			if auth.IsCredentialFailure(err) {
				h.metrics.LoginFailed()
				h.log.Info("web.login.fail", "handle", handle)
				h.render(w, http.StatusUnauthorized, "log_in", logInPage{
					Title:  "Log in",
					Errors: []string{auth.CredentialsMessage},
					Form:   logInForm{Handle: handle},
				})
				return
			}
			h.log.Error("web.login.error", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		h.metrics.LoginSucceeded()
		h.log.Info("web.login.ok", "user_id", user.ID)

		if err := h.startSession(w, r, now, user); err != nil {
			h.log.Error("web.login.session.fail", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleLogOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if value, ok := session.ReadCookie(r, h.sessions.CookieName()); ok {
		if ref, err := h.sessions.ParseCookieValue(value); err == nil {
			if err := h.sessions.Revoke(r.Context(), time.Now().UTC(), ref); err != nil {
				h.log.Error("web.logout.revoke.fail", "err", err)
			}
		}
	}

	session.ClearCookie(w, r, h.sessions.CookieName())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleJoinClub(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	if !actor.Member() {
		http.Redirect(w, r, "/log-in", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, "join", joinPage{
			Title:  "Join the club",
			Viewer: newViewerView(actor.User),
		})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		_, err := h.club.Redeem(r.Context(), time.Now().UTC(), *actor.User, r.PostFormValue("secret"))
		if err != nil {
			if errors.Is(err, auth.ErrIncorrectSecret) {
				h.log.Info("web.join.fail", "user_id", actor.User.ID)
				h.render(w, http.StatusUnprocessableEntity, "join", joinPage{
					Title:  "Join the club",
					Viewer: newViewerView(actor.User),
					Errors: []string{incorrectSecretMessage},
				})
				return
			}
			h.log.Error("web.join.error", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		h.metrics.ClubJoined()
		h.log.Info("web.join.ok", "user_id", actor.User.ID)
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleNewMessage(w http.ResponseWriter, r *http.Request) {
	actor := h.actor(r)
	if !actor.Member() {
		http.Redirect(w, r, "/log-in", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, http.StatusOK, "new_message", newMessagePage{
			Title:  "New message",
			Viewer: newViewerView(actor.User),
		})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		title := r.PostFormValue("title")
		text := r.PostFormValue("text")

		_, err := h.forum.Post(r.Context(), time.Now().UTC(), actor, title, text)
		if err != nil {
			switch {
			case errors.Is(err, forum.ErrInvalidMessage):
				h.render(w, http.StatusUnprocessableEntity, "new_message", newMessagePage{
					Title:  "New message",
					Viewer: newViewerView(actor.User),
					Errors: []string{"Title and text are both required."},
					Form:   newMessageForm{Title: title, Text: text},
				})
			case errors.Is(err, forum.ErrNotAllowed):
				http.Redirect(w, r, "/log-in", http.StatusSeeOther)
			default:
				h.log.Error("web.post.error", "err", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	actor := h.actor(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	err := h.forum.Delete(r.Context(), actor, r.PostFormValue("message_id"))
	if err != nil {
		switch {
		case errors.Is(err, forum.ErrNotAllowed):
			// Authorization failures land on the login page, same as every
			// other gate.
			http.Redirect(w, r, "/log-in", http.StatusSeeOther)
		case errors.Is(err, forum.ErrNotFound):
			http.Redirect(w, r, "/", http.StatusSeeOther)
		default:
			h.log.Error("web.delete.error", "err", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// startSession issues a session for the member and sets the signed cookie.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, now time.Time, user identity.User) error {
	ref, err := h.sessions.Issue(r.Context(), now, user)
	if err != nil {
		return err
	}
	session.WriteCookie(w, r, h.sessions.CookieName(), h.sessions.CookieValue(ref))
	return nil
}
