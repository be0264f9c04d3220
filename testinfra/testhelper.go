package testinfra

import (
	"context"
	"ertrack/authority"
	"ertrack/session"
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"github.com/fundwit/go-commons/types"
)

// BuildSession builds an authenticated session for service calls in tests.
func BuildSession(uid types.ID, perms ...string) *session.Session {
	return &session.Session{
		Identity: session.Identity{ID: uid, Name: "user" + uid.String()},
		Perms:    authority.Permissions(perms),
		Context:  context.Background(),
	}
}

// ExecuteRequest runs the request through the handler and reads the whole body out.
func ExecuteRequest(req *http.Request, handler http.Handler) (int, string, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	bodyBytes, _ := ioutil.ReadAll(w.Body)
	return w.Code, string(bodyBytes), w
}
