package views

// NavLink is one entry of the header navigation
type NavLink struct {
	Label  string
	Path   string
	Icon   string
	Active bool
}

var routes = []NavLink{
	{Label: "Home", Path: "/", Icon: "⌂"},
	{Label: "Upload", Path: "/upload", Icon: "⇪"},
}

// Navigation returns the header links with the entry whose path equals
// active marked as active.
func Navigation(active string) []NavLink {
	links := make([]NavLink, len(routes))
	for i, r := range routes {
		r.Active = r.Path == active
		links[i] = r
	}
	return links
}
