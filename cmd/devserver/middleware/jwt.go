package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inkwell/models"
)

// JWTVerifier 는 HS256 단일 시크릿으로 작성자 토큰을 발급/검증한다.
// sub 클레임이 작성자 id, name 클레임이 표시 이름이다.
type JWTVerifier struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if issuer == "" {
		issuer = "inkwell"
	}
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, ttl: 24 * time.Hour}, nil
}

func (m *JWTVerifier) Sign(author models.Author) (string, error) {
	claims := jwt.MapClaims{
		"sub":  author.ID,
		"name": author.Name,
		"iss":  m.issuer,
		"exp":  time.Now().Add(m.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *JWTVerifier) Parse(tokenString string) (models.Author, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil {
		return models.Author{}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return models.Author{}, errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return models.Author{}, errors.New("token missing sub claim")
	}
	name, _ := claims["name"].(string)
	if name == "" {
		name = sub
	}
	return models.Author{ID: sub, Name: name, Username: sub}, nil
}
