package httpapi

import (
	"net/http"

	"storemart-be/internal/auth"
	"storemart-be/internal/middleware"
	"storemart-be/internal/user"

	"github.com/gin-gonic/gin"
)

const cookieMaxAge = 24 * 60 * 60

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Token   string `json:"token,omitempty"`
}

func (s *Server) issueToken(c *gin.Context, u *user.User) (string, error) {
	token, err := auth.GenerateToken(s.jwtSecret, u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return "", err
	}
	c.SetCookie("access_token", token, cookieMaxAge, "/", "", false, true)
	return token, nil
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := s.users.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := s.issueToken(c, u)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userResponse{
		ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, Token: token,
	})
}

func (s *Server) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := s.users.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := s.issueToken(c, u)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, Token: token,
	})
}

func (s *Server) signout(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (s *Server) updateProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var params user.UpdateProfileParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	u, err := s.users.UpdateProfile(c.Request.Context(), userID, params)
	if err != nil {
		writeError(c, err)
		return
	}

	// Re-issue so the token reflects an updated email.
	token, err := s.issueToken(c, u)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin, Token: token,
	})
}

func (s *Server) listUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, userResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// An admin removing their own account would orphan the session.
	if callerID, _ := middleware.UserID(c); callerID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	if err := s.users.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
