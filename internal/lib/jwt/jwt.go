package jwt

import (
	"fmt"
	"time"

	jwtGo "github.com/golang-jwt/jwt/v5"

	"github.com/freng35/simple-votings/internal/entity"
)

// Claims is the identity carried by an access token.
type Claims struct {
	UserID  int64
	Email   string
	IsAdmin bool
}

// NewAccessToken mints an HMAC-signed access token for the user.
func NewAccessToken(user entity.User, secret string, ttl time.Duration) (string, error) {
	token := jwtGo.NewWithClaims(jwtGo.SigningMethodHS256, jwtGo.MapClaims{
		"uid":   user.ID,
		"email": user.Email,
		"adm":   user.IsAdmin,
		"typ":   "access",
		"exp":   time.Now().Add(ttl).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("jwt.NewAccessToken: %w", err)
	}

	return signed, nil
}

// Parse validates an access token and returns its claims. Expired tokens,
// wrong signing methods and non-access token types are all rejected.
func Parse(accessToken, secret string) (Claims, error) {
	const op = "jwt.Parse"

	token, err := jwtGo.ParseWithClaims(accessToken, jwtGo.MapClaims{}, func(token *jwtGo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtGo.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%s: invalid token: %w", op, err)
	}

	claims, ok := token.Claims.(jwtGo.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, fmt.Errorf("%s: invalid token claims", op)
	}

	if claims["typ"] != "access" {
		return Claims{}, fmt.Errorf("%s: invalid token type: expected access, got %v", op, claims["typ"])
	}

	uid, ok := claims["uid"].(float64)
	if !ok {
		return Claims{}, fmt.Errorf("%s: uid claim is missing or invalid", op)
	}

	email, ok := claims["email"].(string)
	if !ok {
		return Claims{}, fmt.Errorf("%s: email claim is missing or invalid", op)
	}

	isAdmin, _ := claims["adm"].(bool)

	return Claims{UserID: int64(uid), Email: email, IsAdmin: isAdmin}, nil
}
