package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageLogin     = "login"
	PageDashboard = "dashboard"
	PagePending   = "pending"

	PageApplications = "applications"
	PageApplication  = "application"

	PageUsers = "users"

	PageAdmins    = "admins"
	PageAdminForm = "admin-form"

	PageProfile = "profile"

	PageNotFound = "not-found"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
)

// Toast types understood by the layout's toast container.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastWarning = "warning"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageLogin:        "login-content",
	PageDashboard:    "dashboard-content",
	PagePending:      "pending-content",
	PageApplications: "applications-content",
	PageApplication:  "application-content",
	PageUsers:        "users-content",
	PageAdmins:       "admins-content",
	PageAdminForm:    "admin-form-content",
	PageProfile:      "profile-content",
	PageNotFound:     "not-found-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
