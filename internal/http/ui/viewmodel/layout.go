package viewmodel

// User represents the signed-in admin exposed to templates.
type User struct {
	ID           string
	Username     string
	DisplayName  string
	Role         string
	IsSuperAdmin bool
}

// Toast is a one-shot notification rendered by the layout on the next full page load.
type Toast struct {
	Message string
	Type    string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	CanManageAdmins bool
	User            *User
	Toast           *Toast
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
