package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"LWA-backend/internal/library"
	"LWA-backend/internal/views"
)

const (
	SessionName = "lwa_session"

	keyUser      = "currentUser"
	keyView      = "currentView"
	keyLoginType = "loginType"
	keyError     = "loginError"
	keyFlash     = "flash"
)

// NewSessionStore returns the cookie store backing the UI session.
func NewSessionStore(secret []byte, secure bool) sessions.Store {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// loadSession reads the UI state out of the cookie. A missing or unreadable user
// means signed out.
func loadSession(c *gin.Context) views.Session {
	sess := sessions.Default(c)
	s := views.Session{
		View:      getString(sess, keyView),
		LoginType: getString(sess, keyLoginType),
		Error:     getString(sess, keyError),
		Flash:     getString(sess, keyFlash),
	}
	if raw := getString(sess, keyUser); raw != "" {
		var u library.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			log.Printf("[WARN] dropping unreadable session user: %v", err)
		} else {
			s.User = &u
		}
	}
	if s.View == "" {
		s.View = views.Login
	}
	if s.LoginType == "" {
		s.LoginType = library.RoleOwner
	}
	return s
}

func saveSession(c *gin.Context, s views.Session) {
	sess := sessions.Default(c)
	if s.User != nil {
		raw, _ := json.Marshal(s.User)
		sess.Set(keyUser, string(raw))
	} else {
		sess.Delete(keyUser)
	}
	sess.Set(keyView, s.View)
	sess.Set(keyLoginType, s.LoginType)
	setOrDelete(sess, keyError, s.Error)
	setOrDelete(sess, keyFlash, s.Flash)
	if err := sess.Save(); err != nil {
		log.Printf("[ERROR] session save failed: %v", err)
	}
}

func getString(sess sessions.Session, key string) string {
	v, _ := sess.Get(key).(string)
	return v
}

func setOrDelete(sess sessions.Session, key, v string) {
	if v == "" {
		sess.Delete(key)
		return
	}
	sess.Set(key, v)
}
