package security

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/appfactory/internal/app"
	"github.com/GriffinCanCode/AgentOS/appfactory/internal/session"
)

// Session keys written on login.
const (
	SessionUserID   = "user_id"
	SessionUsername = "username"
)

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
}

func (s *service) routes(r gin.IRoutes) {
	r.POST("/register", s.handleRegister)
	r.POST("/login", s.handleLogin)
	r.POST("/logout", s.handleLogout)
	r.GET("/check", s.handleCheck)
	r.GET("/me", s.handleMe)
}

func (s *service) storeFor(c *gin.Context) UserStore {
	a, _ := app.FromGin(c)
	store, _ := s.lookup(a)
	return store
}

func (s *service) handleRegister(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := s.register(c.Request.Context(), s.storeFor(c), req.Username, req.Password, req.Email)
	switch {
	case errors.Is(err, ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	s.renderUser(c, http.StatusCreated, u)
}

func (s *service) handleLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := s.authenticate(c.Request.Context(), s.storeFor(c), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	if sess := session.FromGin(c); sess != nil {
		sess.Set(SessionUserID, u.ID)
		sess.Set(SessionUsername, u.Username)
	}
	c.JSON(http.StatusOK, gin.H{"user_id": u.ID, "username": u.Username})
}

func (s *service) handleLogout(c *gin.Context) {
	if sess := session.FromGin(c); sess != nil {
		sess.Clear()
	}
	c.JSON(http.StatusOK, gin.H{"logged_out": true})
}

func (s *service) handleCheck(c *gin.Context) {
	username := ""
	if sess := session.FromGin(c); sess != nil {
		username = sess.GetString(SessionUsername)
	}
	if username == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "username": username})
}

func (s *service) handleMe(c *gin.Context) {
	sess := session.FromGin(c)
	if sess == nil || sess.GetString(SessionUsername) == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	u, err := s.storeFor(c).FindByUsername(c.Request.Context(), sess.GetString(SessionUsername))
	if errors.Is(err, ErrUserNotFound) {
		sess.Clear()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	s.renderUser(c, http.StatusOK, u)
}

func (s *service) renderUser(c *gin.Context, status int, u *User) {
	data, err := UserSerializer{}.Dump(u)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}

func (s *service) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		if a, ok := app.FromGin(c); ok {
			a.Logger.Error("Account request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
