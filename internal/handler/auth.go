package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sysu-ecnc-dev/setup-sheet/backend/internal/domain"
)

// AuthClaims 由门店的认证服务签发，Subject 为用户 ID
type AuthClaims struct {
	StoreID string `json:"store_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

var errNoToken = errors.New("no token")

// tokenFromRequest 优先读取 cookie，其次读取 Authorization: Bearer
func (h *Handler) tokenFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(h.config.JWT.CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	if err != nil && !errors.Is(err, http.ErrNoCookie) {
		return "", err
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token), nil
	}
	return "", errNoToken
}

func (h *Handler) parseActor(tokenString string) (domain.Actor, error) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, err
	}

	role := domain.Role(claims.Role)
	switch {
	case claims.Subject == "", claims.StoreID == "":
		return domain.Actor{}, errors.New("令牌缺少用户或门店信息")
	case role != domain.RoleTeamMember && role != domain.RoleLeader && role != domain.RoleDirector:
		return domain.Actor{}, errors.New("令牌中的角色无效")
	}

	return domain.Actor{
		UserID:  claims.Subject,
		StoreID: claims.StoreID,
		Name:    claims.Name,
		Role:    role,
	}, nil
}
