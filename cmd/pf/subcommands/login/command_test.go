package login_test

import (
	"context"
	"errors"
	"testing"

	rmock "github.com/periflow/cli/cmd/pf/rest/mock"
	"github.com/periflow/cli/cmd/pf/subcommands/internal/prompt"
	"github.com/periflow/cli/cmd/pf/subcommands/login"
	"github.com/periflow/cli/cmd/pf/subcommands/logger"
	apiusers "github.com/periflow/cli/pkg/api/types/users"
	"github.com/periflow/cli/pkg/commandline/usage"
	"github.com/periflow/cli/pkg/utils/cmp"
)

func TestLogin(t *testing.T) {
	t.Run("it prompts for username and password when --username is omitted", func(t *testing.T) {
		mock := rmock.New(t)
		mock.Impl.Login = func(_ context.Context, username string, password string) (apiusers.Tokens, error) {
			return apiusers.Tokens{AccessToken: "at", RefreshToken: "rt"}, nil
		}

		testee := login.New(login.WithPrompter(prompt.Fixed(map[string]string{
			"Username": "alice",
			"Password": "s3cret",
		})))

		err := testee.Execute(
			context.Background(), logger.Null(), nil, mock,
			usage.FlagSet[login.Flags]{
				Flags: login.Flags{},
				Args:  map[string][]string{},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		expected := []rmock.LoginArgs{{Username: "alice", Password: "s3cret"}}
		if actual := mock.Calls.Login; !cmp.SliceContentEq(actual, expected) {
			t.Errorf(
				"unexpected login args:\n===actual===\n%+v\n===expected===\n%+v",
				actual, expected,
			)
		}
	})

	t.Run("it prompts only for the password when --username is given", func(t *testing.T) {
		mock := rmock.New(t)
		mock.Impl.Login = func(_ context.Context, username string, password string) (apiusers.Tokens, error) {
			return apiusers.Tokens{AccessToken: "at", RefreshToken: "rt"}, nil
		}

		testee := login.New(login.WithPrompter(prompt.Fixed(map[string]string{
			"Password": "s3cret",
		})))

		err := testee.Execute(
			context.Background(), logger.Null(), nil, mock,
			usage.FlagSet[login.Flags]{
				Flags: login.Flags{Username: "bob"},
				Args:  map[string][]string{},
			},
		)
		if err != nil {
			t.Fatal(err)
		}

		expected := []rmock.LoginArgs{{Username: "bob", Password: "s3cret"}}
		if actual := mock.Calls.Login; !cmp.SliceContentEq(actual, expected) {
			t.Errorf(
				"unexpected login args:\n===actual===\n%+v\n===expected===\n%+v",
				actual, expected,
			)
		}
	})

	t.Run("it passes through the error of the server", func(t *testing.T) {
		expectedErr := errors.New("fake error")
		mock := rmock.New(t)
		mock.Impl.Login = func(_ context.Context, username string, password string) (apiusers.Tokens, error) {
			return apiusers.Tokens{}, expectedErr
		}

		testee := login.New(login.WithPrompter(prompt.Fixed(map[string]string{
			"Username": "alice",
			"Password": "wrong",
		})))

		err := testee.Execute(
			context.Background(), logger.Null(), nil, mock,
			usage.FlagSet[login.Flags]{
				Flags: login.Flags{},
				Args:  map[string][]string{},
			},
		)
		if !errors.Is(err, expectedErr) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
