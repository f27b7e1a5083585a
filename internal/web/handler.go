// Package web serves the HTML interface: a single page at / whose content follows
// the session, and form posts that run a command and redirect back.
package web

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"LWA-backend/internal/library"
	"LWA-backend/internal/views"
)

type Handler struct {
	svc  *library.Service
	cmds *Commands
}

func NewHandler(svc *library.Service) *Handler {
	return &Handler{svc: svc, cmds: NewCommands(svc)}
}

// RegisterRoutes mounts the session middleware and every UI route on r.
func RegisterRoutes(r gin.IRouter, svc *library.Service, store sessions.Store) {
	h := NewHandler(svc)
	r.Use(sessions.Sessions(SessionName, store))

	r.GET("/", h.Page)
	r.GET("/settings/qr.png", h.QRCode)

	r.POST("/tab", h.SwitchTab)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.POST("/navigate", h.Navigate)
	r.POST("/students", h.AddStudent)
	r.POST("/students/delete", h.DeleteStudent)
	r.POST("/bookings", h.AddBooking)
	r.POST("/bookings/remove", h.RemoveBooking)
	r.POST("/settings", h.UpdateSettings)
	r.POST("/payments", h.AddPayment)
	r.POST("/attendance", h.MarkAttendance)
	r.POST("/checkin", h.CheckIn)
	r.POST("/checkout", h.CheckOut)
}

// Page renders the current view. Flash and login error are shown once.
func (h *Handler) Page(c *gin.Context) {
	s := loadSession(c)
	v := views.Render(h.svc.Snapshot(), s, h.svc.Now())
	page, err := views.HTML(v)
	if err != nil {
		log.Printf("[ERROR] render %s: %v", v.Name, err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	if s.Flash != "" || s.Error != "" {
		s.Flash, s.Error = "", ""
		saveSession(c, s)
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// QRCode serves the check-in code as a PNG for the owner to print.
func (h *Handler) QRCode(c *gin.Context) {
	s := loadSession(c)
	if s.User == nil || !s.User.IsOwner() {
		c.Status(http.StatusUnauthorized)
		return
	}
	png, err := qrcode.Encode(h.svc.Settings().QRCode, qrcode.Medium, 256)
	if err != nil {
		log.Printf("[ERROR] qr encode: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// run applies one command to the session and redirects to the page.
func (h *Handler) run(c *gin.Context, cmd func(s *views.Session) Result) {
	s := loadSession(c)
	s.Flash = ""
	res := cmd(&s)
	if s.Error == "" {
		s.Flash = res.Message
	}
	saveSession(c, s)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) SwitchTab(c *gin.Context) {
	h.run(c, func(s *views.Session) Result {
		return h.cmds.SwitchTab(s, c.PostForm("type"))
	})
}

func (h *Handler) Login(c *gin.Context) {
	h.run(c, func(s *views.Session) Result {
		return h.cmds.Login(s, c.PostForm("loginType"), c.PostForm("mobile"), c.PostForm("password"))
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.run(c, h.cmds.Logout)
}

func (h *Handler) Navigate(c *gin.Context) {
	h.run(c, func(s *views.Session) Result {
		return h.cmds.Navigate(s, c.PostForm("view"))
	})
}

func (h *Handler) AddStudent(c *gin.Context) {
	in := library.NewStudent{
		FullName:      c.PostForm("fullName"),
		FatherName:    c.PostForm("fatherName"),
		Address:       c.PostForm("address"),
		MobileNumber:  c.PostForm("mobileNumber"),
		AdmissionDate: c.PostForm("admissionDate"),
	}
	if strings.TrimSpace(in.AdmissionDate) == "" {
		in.AdmissionDate = h.svc.Now().Format(library.DateLayout)
	}
	h.run(c, func(s *views.Session) Result {
		return h.cmds.AddStudent(c.Request.Context(), s, in)
	})
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	h.run(c, func(s *views.Session) Result {
		return h.cmds.DeleteStudent(c.Request.Context(), s, c.PostForm("id"))
	})
}

func (h *Handler) AddBooking(c *gin.Context) {
	seat, shift := formInt(c, "seat"), formInt(c, "shift")
	h.run(c, func(s *views.Session) Result {
		return h.cmds.AddBooking(c.Request.Context(), s, c.PostForm("mobile"), seat, shift)
	})
}

func (h *Handler) RemoveBooking(c *gin.Context) {
	seat, shift := formInt(c, "seat"), formInt(c, "shift")
	h.run(c, func(s *views.Session) Result {
		return h.cmds.RemoveBooking(c.Request.Context(), s, seat, shift)
	})
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	h.run(c, func(s *views.Session) Result {
		p, err := settingsPatch(c)
		if err != nil {
			return fail(err)
		}
		return h.cmds.UpdateSettings(c.Request.Context(), s, p)
	})
}

func (h *Handler) AddPayment(c *gin.Context) {
	h.run(c, func(s *views.Session) Result {
		amount, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("amount")))
		if err != nil {
			return fail(library.ErrInvalid("amount must be a number"))
		}
		return h.cmds.AddPayment(c.Request.Context(), s, c.PostForm("studentId"), formInt(c, "year"), formInt(c, "month"), amount)
	})
}

func (h *Handler) MarkAttendance(c *gin.Context) {
	h.run(c, func(s *views.Session) Result {
		return h.cmds.MarkAttendance(c.Request.Context(), s, c.PostForm("mobile"), c.PostForm("in"), c.PostForm("out"))
	})
}

func (h *Handler) CheckIn(c *gin.Context) {
	var pos *library.Position
	lat, errLat := strconv.ParseFloat(c.PostForm("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.PostForm("lng"), 64)
	if errLat == nil && errLng == nil {
		pos = &library.Position{Lat: lat, Lng: lng}
	}
	h.run(c, func(s *views.Session) Result {
		return h.cmds.CheckIn(c.Request.Context(), s, c.PostForm("code"), pos)
	})
}

func (h *Handler) CheckOut(c *gin.Context) {
	h.run(c, func(s *views.Session) Result {
		return h.cmds.CheckOut(c.Request.Context(), s)
	})
}

// formInt reads an integer field; anything unparsable is 0, which every range check rejects.
func formInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.PostForm(key)))
	if err != nil {
		return 0
	}
	return n
}

func settingsPatch(c *gin.Context) (library.SettingsPatch, error) {
	var p library.SettingsPatch
	var err error
	if p.TotalSeats, err = optInt(c, "totalSeats"); err != nil {
		return p, err
	}
	if p.RatePerShift, err = optInt(c, "ratePerShift"); err != nil {
		return p, err
	}
	if p.Lat, err = optFloat(c, "lat"); err != nil {
		return p, err
	}
	if p.Lng, err = optFloat(c, "lng"); err != nil {
		return p, err
	}
	if p.Range, err = optFloat(c, "range"); err != nil {
		return p, err
	}
	return p, nil
}

func optInt(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, library.ErrInvalid(key + " must be a whole number")
	}
	return &n, nil
}

func optFloat(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, library.ErrInvalid(key + " must be a number")
	}
	return &f, nil
}
