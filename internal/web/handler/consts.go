package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// APIRootPath is the path prefix for the JSON api.
	APIRootPath = "/api"

	// ErrNilDepsFatalLogMsg is used if one of the handler dependencies is nil.
	ErrNilDepsFatalLogMsg = "app, cfg or db is nil"
)
