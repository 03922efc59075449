package sidebar

// Page identifies one dashboard page.
type Page string

// Dashboard pages.
const (
	PageHome     Page = "home"
	PageChatbot  Page = "chatbot"
	PageCodebase Page = "codebase"
	PageProjects Page = "projects"
	PageActivity Page = "activity"
	PageUpload   Page = "upload"
)

// Pages lists every page in navigation order.
var Pages = []Page{PageHome, PageChatbot, PageCodebase, PageProjects, PageActivity, PageUpload}

// Entry is one navigation link.
type Entry struct {
	Section   string
	Label     string
	Icon      string
	Page      Page
	Href      string
	Badge     string
	BadgeKind string
}

// Entries is the fixed navigation menu.
var Entries = []Entry{
	{Section: "Main", Label: "Dashboard", Icon: "🏠", Page: PageHome, Href: "/static/index.html"},
	{Section: "Main", Label: "AI Chatbot", Icon: "🤖", Page: PageChatbot, Href: "/static/chatbot.html", Badge: "AI"},
	{Section: "Platform", Label: "Codebase", Icon: "📁", Page: PageCodebase, Href: "/static/codebase.html"},
	{Section: "Platform", Label: "Projects", Icon: "📦", Page: PageProjects, Href: "/static/projects.html"},
	{Section: "Platform", Label: "Activity", Icon: "📊", Page: PageActivity, Href: "/static/activity.html", Badge: "12", BadgeKind: "warning"},
	{Section: "Tools", Label: "Upload Codebase", Icon: "📤", Page: PageUpload, Href: "/static/upload.html", Badge: "NEW"},
}

// User is the identity shown in the sidebar footer.
type User struct {
	Initials string
	Name     string
	Role     string
}

// DefaultUser is the footer identity used by Render.
var DefaultUser = User{Initials: "SK", Name: "Shiva K.", Role: "Platform Engineer"}

// PageForHref returns the page whose link is href.
func PageForHref(href string) (Page, bool) {
	for _, e := range Entries {
		if e.Href == href {
			return e.Page, true
		}
	}
	return "", false
}
