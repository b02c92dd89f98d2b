package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// SeatClaims ties a bearer to one seat of one game.
type SeatClaims struct {
	GameID string `json:"game_id"`
	Seat   int    `json:"seat"`
	jwt.RegisteredClaims
}

type SeatSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewSeatSigner(secret string, ttl time.Duration) *SeatSigner {
	return &SeatSigner{secret: []byte(secret), ttl: ttl}
}

// Issue creates the token a player presents to move in gameID.
func (s *SeatSigner) Issue(gameID string, seat int) (string, error) {
	now := time.Now()
	claims := &SeatClaims{
		GameID: gameID,
		Seat:   seat,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *SeatSigner) Parse(tokenString string) (*SeatClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SeatClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*SeatClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
