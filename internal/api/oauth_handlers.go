package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type connectionStatus struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
	Verified  *bool  `json:"verified,omitempty"`
}

// GetConnect starts the provider consent flow, or reports an existing connection.
func GetConnect(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := app.Connection().InitiateConnect(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusConflict, "Could not start Google Fit connection")
			return
		}
		if res.Connected {
			HandleSuccess(c, app.Logger(), res, nil)
			return
		}
		c.Redirect(http.StatusFound, res.RedirectURL)
	}
}

// GetCallback exchanges the authorization code and redirects to the same URL
// without it. A request with no code just reports the status.
func GetCallback(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		handled, cleaned, err := app.Connection().HandleRedirect(c.Request.Context(), c.Request.URL)
		if !handled {
			HandleSuccess(c, app.Logger(), status(c, app, false), nil)
			return
		}
		if err != nil {
			app.Logger().Warnf("[request_id=%s] authorization callback failed: %v", c.GetString("request_id"), err)
		}
		c.Redirect(http.StatusFound, cleaned.String())
	}
}

func GetGoogleFitStatus(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleSuccess(c, app.Logger(), status(c, app, c.Query("verify") == "true"), nil)
	}
}

func PostDisconnect(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.Connection().Disconnect(c.Request.Context()); err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to clear Google Fit tokens")
			return
		}
		HandleSuccess(c, app.Logger(), status(c, app, false), nil)
	}
}

func status(c *gin.Context, app App, verify bool) connectionStatus {
	conn := app.Connection()
	st := connectionStatus{Connected: conn.IsConnected(c.Request.Context())}
	if verify && st.Connected {
		ok := conn.Verify(c.Request.Context())
		st.Verified = &ok
	}
	st.State = conn.State().String()
	return st
}
