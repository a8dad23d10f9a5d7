package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/origenapp/origen-core/internal/gateway"
	"github.com/origenapp/origen-core/internal/localstate"
	"github.com/origenapp/origen-core/internal/origen"
	"github.com/origenapp/origen-core/internal/syncx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginLogout(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, origen.User{Username: "maria", Role: origen.RoleUser, FullName: "María"}, "secret"))

	ok, err := s.Login(ctx, "maria", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, s.CurrentUser())

	ok, err = s.Login(ctx, "maria", "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	u := s.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "maria", u.Username)
	assert.Empty(t, u.Password)

	s.Logout()
	assert.Nil(t, s.CurrentUser())
}

func TestLoginUnknownUserIsNotAnError(t *testing.T) {
	s, _ := newTestStore(t)

	ok, err := s.Login(context.Background(), "nobody", "pw")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	gw := gateway.NewMemory()
	file := localstate.NewFile(filepath.Join(t.TempDir(), "state.json"))
	opts := Options{DebounceWindow: 20 * time.Millisecond, SavedHold: 40 * time.Millisecond}

	first := New(gw, syncx.Noop{}, file, opts)
	require.NoError(t, first.Register(ctx, origen.User{Username: "maria", Role: origen.RoleUser}, "secret"))
	ok, err := first.Login(ctx, "maria", "secret")
	require.NoError(t, err)
	require.True(t, ok)
	first.SetTheme(localstate.ThemeDark)
	first.Close()

	// A fresh instance over the same state file resumes the session.
	second := New(gw, syncx.Noop{}, file, opts)
	t.Cleanup(second.Close)

	u := second.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "maria", u.Username)
	assert.Equal(t, localstate.ThemeDark, second.Theme())

	second.Logout()
	third := New(gw, syncx.Noop{}, file, opts)
	t.Cleanup(third.Close)
	assert.Nil(t, third.CurrentUser())
	assert.Equal(t, localstate.ThemeDark, third.Theme())
}

func TestValidateUserAndUserExists(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, origen.User{Username: "maria", Role: origen.RoleUser}, "secret"))

	assert.True(t, s.ValidateUser(ctx, "maria", "secret"))
	assert.False(t, s.ValidateUser(ctx, "maria", "nope"))
	assert.False(t, s.ValidateUser(ctx, "ghost", "secret"))
	// Validation never opens a session.
	assert.Nil(t, s.CurrentUser())

	exists, err := s.UserExists(ctx, "maria")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = s.UserExists(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}
