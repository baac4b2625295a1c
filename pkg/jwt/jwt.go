package jwt

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Subject identidad que viaja en el token: quién vende y con qué rol.
type Subject struct {
	UserID int64
	Role   string // "director" | "cashier"
}

// Claims claims estándar más el usuario y su rol.
// Role permite que el middleware RBAC decida sin consultar la DB.
// RegisteredClaims.ID (jti) identifica el token para la lista negra de logout.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// HasRole indica si el rol del token está entre los permitidos.
func (c *Claims) HasRole(roles ...string) bool {
	return c.Role != "" && slices.Contains(roles, c.Role)
}

// Expiry vencimiento del token; cero si no lo tiene.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Issued token firmado junto con su jti y vencimiento, para la respuesta de login
// y para revocarlo en logout sin volver a parsearlo.
type Issued struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// Generate firma un token HS256 para sub con vigencia ttl y un jti aleatorio.
func Generate(secret string, sub Subject, issuer string, ttl time.Duration) (*Issued, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(sub.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: sub.UserID,
		Role:   sub.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("jwt: firmar: %w", err)
	}
	return &Issued{Token: signed, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Parse valida firma HS256 y expiración (obligatoria) y devuelve los claims.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("claims inválidos: user_id")
	}
	return claims, nil
}
