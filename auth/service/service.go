package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/goserg/technotes/internal/config"
	"github.com/goserg/technotes/internal/domain"
	"github.com/goserg/technotes/internal/hasher"
	"github.com/goserg/technotes/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

var (
	ErrForbidden     = errors.New("access denied")
	ErrNotAuthorized = errors.New("unauthorized")
)

type Service struct {
	users  storage.UserStorage
	hasher hasher.Hasher
	cfg    config.Auth
}

func New(cfg config.Auth, users storage.UserStorage, hasher hasher.Hasher) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		cfg:    cfg,
	}
}

func (s *Service) Login(ctx context.Context, username string, password string) (domain.User, error) {
	hash, err := s.users.GetPasswordHash(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, ErrNotAuthorized
		}
		return domain.User{}, err
	}
	if err := s.hasher.Compare(hash, password); err != nil {
		return domain.User{}, ErrNotAuthorized
	}
	user, err := s.users.GetUserByName(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	if !user.Active {
		return domain.User{}, ErrForbidden
	}
	return user, nil
}

func (s *Service) GenerateJWTCookie(userID uuid.UUID, host string) (*fiber.Cookie, error) {
	expiresIn, err := time.ParseDuration(s.cfg.Expiration)
	if err != nil {
		return nil, err
	}
	expirationTime := time.Now().Add(expiresIn)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: expirationTime.Unix(),
		IssuedAt:  time.Now().Unix(),
		Subject:   userID.String(),
	})
	tokenString, err := token.SignedString([]byte(s.cfg.Token))
	if err != nil {
		return nil, err
	}
	return &fiber.Cookie{
		Name:     "token",
		Value:    tokenString,
		Path:     "/",
		Domain:   host,
		Expires:  expirationTime,
		Secure:   false,
		HTTPOnly: true,
	}, nil
}

// Auth resolves the user behind the token cookie and checks the
// configured access rules for the method and url. An empty cookie
// resolves to the anonymous user, which only "*" rules let through.
func (s *Service) Auth(ctx context.Context, cookie string, method string, url string) (domain.User, error) {
	user, err := s.getUserFromToken(ctx, cookie)
	if err != nil {
		return domain.User{}, ErrNotAuthorized
	}

	for _, rule := range s.cfg.Rules {
		r, err := regexp.Compile(rule.Path)
		if err != nil {
			return domain.User{}, err
		}
		if !r.MatchString(url) {
			continue
		}
		for _, ruleMethod := range rule.Method {
			if ruleMethod != "*" && ruleMethod != method {
				continue
			}
			for _, role := range rule.Allow {
				if role == "*" {
					return user, nil
				}
				for _, userRole := range user.Roles {
					if role == string(userRole) {
						return user, nil
					}
				}
			}
			return domain.User{}, ErrForbidden
		}
	}
	return domain.User{}, ErrForbidden
}

func (s *Service) getUserFromToken(ctx context.Context, cookie string) (domain.User, error) {
	if cookie == "" {
		return domain.User{}, nil
	}
	token, err := jwt.ParseWithClaims(cookie, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Token), nil
	})
	if err == nil && token.Valid {
		claims, ok := token.Claims.(*jwt.StandardClaims)
		if !ok {
			return domain.User{}, errors.New("bad token claims")
		}
		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			return domain.User{}, err
		}
		return s.users.GetUser(ctx, id)
	}
	ve := jwt.ValidationError{}
	if ok := errors.As(err, &ve); !ok {
		return domain.User{}, err
	}
	if ve.Errors&jwt.ValidationErrorMalformed != 0 {
		return domain.User{}, errors.New("malformed token")
	}
	if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
		return domain.User{}, errors.New("token expired")
	}
	return domain.User{}, err
}
