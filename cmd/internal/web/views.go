package web

import (
	"time"

	"clubhouse/cmd/identity"
	"clubhouse/cmd/internal/auth"
	"clubhouse/cmd/internal/forum"
)

// viewerView is the navigation bar's picture of the signed-in member.
type viewerView struct {
	Handle     string
	Name       string
	Privileged bool
	Admin      bool
}

func newViewerView(u *identity.User) *viewerView {
	if u == nil {
		return nil
	}
	return &viewerView{
		Handle:     u.Handle,
		Name:       u.FullName(),
		Privileged: u.Privileged(),
		Admin:      u.Admin,
	}
}

// messageView is one board entry as the current viewer is allowed to see it.
// Author attribution is only revealed to club members and admins.
type messageView struct {
	ID           string
	Title        string
	Text         string
	AuthorHandle string
	AuthorName   string
	CreatedAt    time.Time
	ShowAuthor   bool
	CanDelete    bool
}

func newMessageView(m forum.Message, actor auth.Context) messageView {
	v := messageView{
		ID:        m.ID,
		Title:     m.Title,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}

	if actor.Privileged() {
		v.ShowAuthor = true
		v.AuthorHandle = m.AuthorHandle
		v.AuthorName = m.AuthorName
	}
	if actor.Member() && (actor.User.Admin || actor.User.ID == m.AuthorID) {
		v.CanDelete = true
	}
	return v
}

type homePage struct {
	Title    string
	Viewer   *viewerView
	Messages []messageView
}

type signUpForm struct {
	FirstName string
	LastName  string
	Handle    string
}

type signUpPage struct {
	Title  string
	Viewer *viewerView
	Errors []string
	Form   signUpForm
}

type logInForm struct {
	Handle string
}

type logInPage struct {
	Title  string
	Viewer *viewerView
	Errors []string
	Form   logInForm
}

type joinPage struct {
	Title  string
	Viewer *viewerView
	Errors []string
}

type newMessageForm struct {
	Title string
	Text  string
}

type newMessagePage struct {
	Title  string
	Viewer *viewerView
	Errors []string
	Form   newMessageForm
}

func fieldErrorMessages(errs []auth.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}
