package adapter

import (
	"context"
	"testing"
	"time"

	"quizhub/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapter_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectGet("quizhub:key").SetVal("value")

	val, err := cache.Get(context.Background(), "quizhub:key")
	require.NoError(t, err)
	assert.Equal(t, "value", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_GetMissTranslatesToErrCacheMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectGet("quizhub:missing").RedisNil()

	_, err := cache.Get(context.Background(), "quizhub:missing")
	assert.Equal(t, domain.ErrCacheMiss, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectSet("quizhub:key", "value", time.Minute).SetVal("OK")

	err := cache.Set(context.Background(), "quizhub:key", "value", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewRedisCacheAdapter(client)

	mock.ExpectDel("quizhub:key").SetVal(1)

	err := cache.Delete(context.Background(), "quizhub:key")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
