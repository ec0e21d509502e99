package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"campusvoice.com/backend/internal/model"
	"campusvoice.com/backend/internal/repository"
	"campusvoice.com/backend/internal/service"
	"campusvoice.com/backend/pkg/apperror"
	"campusvoice.com/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextStudent = "student"
	ContextStaff   = "staff"
)

type AuthMiddleware struct {
	studentRepo repository.StudentRepository
	staffRepo   repository.StaffRepository
	secret      string
}

func NewAuthMiddleware(studentRepo repository.StudentRepository, staffRepo repository.StaffRepository, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		studentRepo: studentRepo,
		staffRepo:   staffRepo,
		secret:      secret,
	}
}

// principal parses the token subject "kind:id" out of the Authorization header
// or, for websocket upgrades, the token query parameter.
func (m *AuthMiddleware) principal(c *gin.Context) (string, uint, error) {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		tokenString = c.Query("token")
	}

	if tokenString == "" {
		return "", 0, apperror.New(0, "authorization required", apperror.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil || !token.Valid {
		return "", 0, apperror.New(0, "invalid or expired token", apperror.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", 0, apperror.New(0, "invalid token claims", apperror.ErrUnauthorized)
	}

	kind, idStr, found := strings.Cut(claims.Subject, ":")
	if !found {
		return "", 0, apperror.New(0, "invalid token subject", apperror.ErrUnauthorized)
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return "", 0, apperror.New(0, "invalid token subject", apperror.ErrUnauthorized)
	}

	return kind, uint(id), nil
}

func (m *AuthMiddleware) RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, id, err := m.principal(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if kind != service.PrincipalStudent {
			response.Error(c, apperror.New(0, "student access required", apperror.ErrForbidden))
			c.Abort()
			return
		}

		student, err := m.studentRepo.FindByID(c.Request.Context(), id)
		if err != nil {
			response.Error(c, apperror.New(0, "student not found", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		c.Set(ContextStudent, student)
		c.Next()
	}
}

func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, id, err := m.principal(c)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if kind != service.PrincipalStaff {
			response.Error(c, apperror.New(0, "staff access required", apperror.ErrForbidden))
			c.Abort()
			return
		}

		staff, err := m.staffRepo.FindByID(c.Request.Context(), id)
		if err != nil {
			response.Error(c, apperror.New(0, "staff not found", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		c.Set(ContextStaff, staff)
		c.Next()
	}
}

// RequireRoles restricts an already staff-authenticated route to the given
// role ids. Must run after RequireStaff.
func (m *AuthMiddleware) RequireRoles(roleIDs ...uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		staff := StaffFrom(c)
		if staff == nil {
			response.Error(c, apperror.New(0, "staff access required", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		for _, roleID := range roleIDs {
			if staff.RoleID == roleID {
				c.Next()
				return
			}
		}

		response.Error(c, apperror.New(0, "insufficient role for this action", apperror.ErrForbidden))
		c.Abort()
	}
}

func StudentFrom(c *gin.Context) *model.Student {
	value, exists := c.Get(ContextStudent)
	if !exists {
		return nil
	}
	student, _ := value.(*model.Student)
	return student
}

func StaffFrom(c *gin.Context) *model.Staff {
	value, exists := c.Get(ContextStaff)
	if !exists {
		return nil
	}
	staff, _ := value.(*model.Staff)
	return staff
}
