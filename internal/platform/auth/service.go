package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrAuthenticationFailed = errors.New("authentication failed")

// Principal is who a token speaks for.
type Principal struct {
	Subject   string `json:"sub"`
	Role      string `json:"role"`
	StudentID string `json:"sid,omitempty"`
}

// Authenticator checks a login against whatever holds the credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, loginType, mobile, password string) (Principal, error)
}

type AuthService interface {
	Login(ctx context.Context, loginType, mobile, password string) (string, Principal, error)
}

type Service struct {
	authn  Authenticator
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(authn Authenticator, secret []byte, ttl time.Duration) *Service {
	return &Service{authn: authn, secret: secret, ttl: ttl, now: time.Now}
}

func (s *Service) Secret() []byte { return s.secret }

func (s *Service) Login(ctx context.Context, loginType, mobile, password string) (string, Principal, error) {
	p, err := s.authn.Authenticate(ctx, loginType, mobile, password)
	if err != nil {
		return "", Principal{}, err
	}
	token, err := s.Issue(p)
	if err != nil {
		return "", Principal{}, err
	}
	return token, p, nil
}

// Issue signs an HS256 token carrying sub/role/sid.
func (s *Service) Issue(p Principal) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  p.Subject,
		"role": p.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	if p.StudentID != "" {
		claims["sid"] = p.StudentID
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
