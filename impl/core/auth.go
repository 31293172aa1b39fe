package core

import (
	"crypto/subtle"
	"errors"

	"DnsBot/entity"
)

const adminUser = "admin"

var ErrInvalidToken = errors.New("invalid token")

func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if c.authKey == "" || token == "" {
		return nil, ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(c.authKey)) != 1 {
		return nil, ErrInvalidToken
	}
	return &entity.UserAuth{Username: adminUser, Token: token}, nil
}

// ValidateToken returns the user name a websocket token belongs to.
func (c *Core) ValidateToken(token string) (string, error) {
	user, err := c.AuthenticateByToken(token)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
