// Package viewer carries the (possibly absent) identity of the requester.
package viewer

import (
	"NewTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
)

const contextKey = "viewer"

// Viewer is the requesting user. The zero value is an anonymous viewer.
type Viewer struct {
	UserId string
}

var Anonymous = Viewer{}

func Of(userId string) Viewer {
	return Viewer{UserId: userId}
}

func (v Viewer) Present() bool {
	return v.UserId != ""
}

// Require fails with an authorization error for anonymous viewers.
func (v Viewer) Require() error {
	if !v.Present() {
		return errno.AuthorizationFailedErr.WithMessage("sign in required")
	}
	return nil
}

func Set(c *app.RequestContext, v Viewer) {
	c.Set(contextKey, v)
}

func FromContext(c *app.RequestContext) Viewer {
	if v, ok := c.Get(contextKey); ok {
		if vv, ok := v.(Viewer); ok {
			return vv
		}
	}
	return Anonymous
}
