package common

import (
	"net/http"

	"github.com/spf13/viper"
)

// credentials guarding the operator-only endpoints
var adminUsername, adminPassword string

// SetAdminCredentials refreshes the operator credentials from configuration.
func SetAdminCredentials() {
	adminUsername = viper.GetString("admin.username")
	adminPassword = viper.GetString("admin.password")
}

// AuthenticateAdmin wraps a handler with basic-auth against the configured
// operator credentials. Anything config-dumping or otherwise not meant for
// file clients goes through this.
func AuthenticateAdmin(handler ReqRespHandlerf) ReqRespHandlerf {
	SetAdminCredentials()
	return func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("operator access only")) // nolint
			return
		}

		if username != adminUsername || password != adminPassword {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("invalid operator credentials")) // nolint
			return
		}

		handler(w, r)
	}
}
