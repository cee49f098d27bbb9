package services

import "context"

// AccessGate centralizes authorization decisions. Admins and managers may
// read and mutate everything; contractors may only read projects they are
// assigned to. Each method returns nil when allowed, ErrForbidden when the
// role denies the action, or ErrUnauthorized when the user is unknown.
type AccessGate interface {
	// AuthorizeProjectRead checks read access to one project.
	AuthorizeProjectRead(ctx context.Context, userID string, projectID string) error

	// AuthorizeProjectWrite checks mutate access to one project.
	AuthorizeProjectWrite(ctx context.Context, userID string, projectID string) error

	// AuthorizeManager checks that the user holds a managing role, without
	// reference to any particular project. Used by cross-project surfaces
	// such as dashboards and audit history.
	AuthorizeManager(ctx context.Context, userID string) error

	// AuthorizeAdmin checks for admin-only actions such as user management
	// and project deletion.
	AuthorizeAdmin(ctx context.Context, userID string) error
}
