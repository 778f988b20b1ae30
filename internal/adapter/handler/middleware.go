package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/srgjo27/viewing_scheduler/internal/core/domain"
)

const actorKey = "actor"

type Claims struct {
	Sub   string `json:"sub"`
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func CreateAccessToken(secret []byte, sub uuid.UUID, role domain.Role, email string, ttl time.Duration) (string, error) {
	claims := Claims{
		Sub:              sub.String(),
		Role:             string(role),
		Email:            email,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl))},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseActor(secret []byte, tokenStr string) (domain.Actor, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return domain.Actor{}, errors.New("invalid token")
	}

	id, err := uuid.Parse(c.Sub)
	if err != nil {
		return domain.Actor{}, errors.New("invalid subject")
	}

	role := domain.Role(strings.ToLower(c.Role))
	if role != domain.RoleOwner && role != domain.RoleRequester {
		return domain.Actor{}, errors.New("unknown role")
	}

	return domain.Actor{ID: id, Role: role}, nil
}

// JWTAuth resolves the bearer token into a domain.Actor for the handlers.
func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"kind": "Unauthenticated", "message": "missing bearer token"}})
			return
		}
		actor, err := ParseActor(secret, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"kind": "Unauthenticated", "message": err.Error()}})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func actorFrom(c *gin.Context) domain.Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(domain.Actor)
	return actor
}
