package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hectane/go-acl"

	"github.com/periflow/cli/cmd/pf/config/open"
)

// EnvHome overrides the session directory when set.
const EnvHome = "PF_HOME"

// ErrNotLoggedIn is returned when no token is stored.
var ErrNotLoggedIn = errors.New("you are not logged in")

// ErrNotSet is returned when the working organization/project is not chosen yet.
var ErrNotSet = errors.New("not set")

const (
	fileAccessToken  = "access_token"
	fileRefreshToken = "refresh_token"
	fileOrganization = "organization"
	fileProject      = "project"
)

// Store keeps tokens and the working organization/project,
// each in its own file under one directory.
type Store struct {
	dir string
}

// DefaultDir returns the session directory:
// $PF_HOME if set, ~/.periflow otherwise.
func DefaultDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".periflow"), nil
}

// Open opens (creating if needed) the session directory.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, os.FileMode(0700)); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) read(name string) (string, error) {
	buf, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(buf)), nil
}

// write stores value into a file accessible only by the current user.
func (s *Store) write(name string, value string) error {
	path := filepath.Join(s.dir, name)
	f, err := open.NewSafeFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := acl.Chmod(path, os.FileMode(0600)); err != nil {
		return err
	}

	_, err = f.WriteString(value)
	return err
}

// AccessToken returns the stored access token.
//
// ErrNotLoggedIn is returned when no token is stored.
func (s *Store) AccessToken() (string, error) {
	tok, err := s.read(fileAccessToken)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotLoggedIn
		}
		return "", err
	}
	return tok, nil
}

// RefreshToken returns the stored refresh token.
func (s *Store) RefreshToken() (string, error) {
	tok, err := s.read(fileRefreshToken)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotLoggedIn
		}
		return "", err
	}
	return tok, nil
}

// SetTokens stores both tokens, with permission 0600.
func (s *Store) SetTokens(accessToken string, refreshToken string) error {
	if err := s.write(fileAccessToken, accessToken); err != nil {
		return err
	}
	return s.write(fileRefreshToken, refreshToken)
}

// AccessTokenExpired reports whether the stored access token is
// missing or past its expiry.
//
// The token is inspected locally without signature verification.
// The server is the one verifying it, after all.
func (s *Store) AccessTokenExpired() bool {
	tok, err := s.AccessToken()
	if err != nil {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(time.Now())
}

// OrganizationID returns the working organization.
//
// ErrNotSet is returned when it is not chosen yet.
func (s *Store) OrganizationID() (uuid.UUID, error) {
	raw, err := s.read(fileOrganization)
	if err != nil {
		if os.IsNotExist(err) {
			return uuid.Nil, fmt.Errorf("organization is %w", ErrNotSet)
		}
		return uuid.Nil, err
	}
	return uuid.Parse(raw)
}

func (s *Store) SetOrganizationID(id uuid.UUID) error {
	return s.write(fileOrganization, id.String())
}

// ProjectID returns the working project.
//
// ErrNotSet is returned when it is not chosen yet.
func (s *Store) ProjectID() (uuid.UUID, error) {
	raw, err := s.read(fileProject)
	if err != nil {
		if os.IsNotExist(err) {
			return uuid.Nil, fmt.Errorf("project is %w", ErrNotSet)
		}
		return uuid.Nil, err
	}
	return uuid.Parse(raw)
}

func (s *Store) SetProjectID(id uuid.UUID) error {
	return s.write(fileProject, id.String())
}

// ClearProject drops the working project, if any.
func (s *Store) ClearProject() error {
	err := os.Remove(filepath.Join(s.dir, fileProject))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
