package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

// Verifier maps an opaque bearer credential to a verified subject
// email. Any provider that can do that is substitutable.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// JWTVerifier validates HMAC-signed bearer tokens carrying the subject
// email in the "email" claim.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("auth: cannot parse token: %w", errdefs.ErrAuthentication)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token: %w", errdefs.ErrAuthentication)
	}

	email, _ := claims["email"].(string)
	email = model.NormalizeEmail(email)
	if email == "" {
		return "", fmt.Errorf("auth: token carries no email: %w", errdefs.ErrAuthentication)
	}

	return email, nil
}
