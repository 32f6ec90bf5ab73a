package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func TestService_Login(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() {
		require.NoError(t, rdb.Close())
	}()

	authService := NewService(time.Hour, rdb)
	require.NotNil(t, authService)
	assert.Equal(t, time.Hour, authService.ttl)

	testToken := "test_token"
	authService.RandStringFunc = func(s int) (string, error) {
		return testToken, nil
	}

	now := time.Now()
	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectSet(sessionKey, sessionValue("user-1", now), 0).SetVal("OK")
	mock.ExpectSAdd(tokensSetKey, testToken).SetVal(1)

	token, err := authService.Login(context.Background(), "user-1", now)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Logout(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() {
		require.NoError(t, rdb.Close())
	}()

	authService := NewService(time.Hour, rdb)

	testToken := "test_token"
	sessionKey := sessionKeyPrefix + testToken
	mock.ExpectGet(sessionKey).SetVal(sessionValue("user-1", time.Now()))
	mock.ExpectDel(sessionKey).SetVal(1)
	mock.ExpectSRem(tokensSetKey, testToken).SetVal(1)

	require.NoError(t, authService.Logout(context.Background(), testToken))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Logout_UnknownToken(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() {
		require.NoError(t, rdb.Close())
	}()

	authService := NewService(time.Hour, rdb)

	mock.ExpectGet(sessionKeyPrefix + "nope").RedisNil()

	err := authService.Logout(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_ScanAndClean(t *testing.T) {
	ttl := time.Hour
	now := time.Now()
	then := now.Add(-2 * time.Hour)

	rdb, mock := redismock.NewClientMock()
	defer func() {
		require.NoError(t, rdb.Close())
	}()

	authService := NewService(ttl, rdb)
	require.NotNil(t, authService)

	freshToken := "fresh_token"
	staleToken := "stale_token"
	mock.ExpectSMembers(tokensSetKey).SetVal([]string{freshToken, staleToken})
	mock.ExpectGet(sessionKeyPrefix + freshToken).SetVal(sessionValue("user-1", now))
	mock.ExpectGet(sessionKeyPrefix + staleToken).SetVal(sessionValue("user-2", then))
	mock.ExpectDel(sessionKeyPrefix + staleToken).SetVal(1)
	mock.ExpectSRem(tokensSetKey, staleToken).SetVal(1)

	authService.ScanAndClean(context.Background())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParseSessionValue(t *testing.T) {
	now := time.Now()

	session, err := parseSessionValue(fmt.Sprintf("user-22|%d", now.Unix()))
	require.NoError(t, err)
	assert.Equal(t, "user-22", session.UserID)
	assert.Equal(t, now.Unix(), session.CreatedAt.Unix())

	for _, invalid := range []string{"", "user-22", "user-22|abc", "|12345", "a|b|c"} {
		_, err = parseSessionValue(invalid)
		assert.ErrorIs(t, err, ErrInvalidSession, "value: %q", invalid)
	}
}
