// Package permissions decides whether a caller may perform a request. Every
// predicate is a pure function of the caller, the HTTP method and, for
// object-level checks, the resource being touched.
package permissions

import (
	"net/http"

	"yamdb/internal/models"
)

// Request describes who is calling and how. A nil Caller is anonymous.
type Request struct {
	Caller *models.User
	Method string
}

// Authenticated reports whether the request carries a caller.
func (r Request) Authenticated() bool {
	return r.Caller != nil
}

// Owned is a resource with an author.
type Owned interface {
	OwnerID() uint
}

// Predicate grants or denies a request. obj is nil for collection-level checks.
type Predicate func(req Request, obj Owned) bool

// Policy grants a request if any of its predicates does.
type Policy []Predicate

// Allows evaluates the predicates in order and stops at the first grant.
func (p Policy) Allows(req Request, obj Owned) bool {
	for _, pred := range p {
		if pred(req, obj) {
			return true
		}
	}
	return false
}

// IsSafeMethod reports whether the method only reads.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsAuthenticated grants any authenticated caller.
func IsAuthenticated(req Request, _ Owned) bool {
	return req.Authenticated()
}

// IsAdmin grants admins, staff and superusers.
func IsAdmin(req Request, _ Owned) bool {
	return req.Authenticated() && req.Caller.IsAdmin()
}

// IsAdminOrReadOnly grants reads to everyone and writes to admins.
func IsAdminOrReadOnly(req Request, obj Owned) bool {
	return IsSafeMethod(req.Method) || IsAdmin(req, obj)
}

// IsModeratorOrReadOnly grants reads to everyone and writes to moderators.
func IsModeratorOrReadOnly(req Request, _ Owned) bool {
	return IsSafeMethod(req.Method) || (req.Authenticated() && req.Caller.IsModerator())
}

// IsAuthorOrReadOnly grants reads to everyone. At collection level it lets any
// authenticated caller write (the caller becomes the author); at object level
// only the author may write.
func IsAuthorOrReadOnly(req Request, obj Owned) bool {
	if IsSafeMethod(req.Method) {
		return true
	}
	if !req.Authenticated() {
		return false
	}
	if obj == nil {
		return true
	}
	return obj.OwnerID() == req.Caller.ID
}

// Policies per resource.
var (
	Catalog    = Policy{IsAdminOrReadOnly}
	Titles     = Policy{IsAdminOrReadOnly}
	Content    = Policy{IsModeratorOrReadOnly, IsAuthorOrReadOnly, IsAdminOrReadOnly}
	Users      = Policy{IsAdmin}
	OwnProfile = Policy{IsAuthenticated}
)
