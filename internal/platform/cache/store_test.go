package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brandView struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TestNewStore_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewStore_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		ttl           time.Duration
		namespace     string
		wantTTL       time.Duration
		wantNamespace string
	}{
		{name: "zero values", wantTTL: 5 * time.Minute, wantNamespace: "cache"},
		{name: "negative ttl", ttl: -time.Minute, namespace: "brands", wantTTL: 5 * time.Minute, wantNamespace: "brands"},
		{name: "custom", ttl: time.Hour, namespace: "categories", wantTTL: time.Hour, wantNamespace: "categories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewStore(nil, tt.ttl, tt.namespace)
			assert.Equal(t, tt.wantTTL, s.ttl)
			assert.Equal(t, tt.wantNamespace, s.namespace)
		})
	}
}

func TestStore_Key(t *testing.T) {
	t.Parallel()

	s := NewStore(nil, 0, "catalog")

	assert.Equal(t, "catalog:brands:list", s.Key("brands", "list"))
	assert.Equal(t, "catalog:a+b:c%3Ad%2A", s.Key("a b", "c:d*"))
	assert.Equal(t, "catalog", s.Key())
}

// TestStore_KeyIsInjective は異なるキーワードが同じキーにならないことを検証します。
func TestStore_KeyIsInjective(t *testing.T) {
	t.Parallel()

	s := NewStore(nil, 0, "catalog")

	keywords := []string{"a b", "a_b", "a+b", "a%20b", "a:b", "a*b", "a?b", "a[b]", ""}
	seen := make(map[string]string, len(keywords))
	for _, kw := range keywords {
		key := s.Key("brands", "list", kw, "1", "30")
		if prev, ok := seen[key]; ok {
			t.Fatalf("keywords %q and %q share key %q", prev, kw, key)
		}
		seen[key] = kw
		assert.True(t, strings.HasPrefix(key, "catalog:brands:list:"))
		assert.NotContains(t, strings.TrimPrefix(key, "catalog:brands:list:"), "*")
	}
}

// TestRemember_DistinctKeywordsDoNotShareEntries は "a b" のキャッシュが "a_b" に返らないことを検証します。
func TestRemember_DistinctKeywordsDoNotShareEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewStore(rdb, time.Minute, "catalog")
	ctx := context.Background()

	load := func(name string) func(context.Context) ([]brandView, error) {
		return func(context.Context) ([]brandView, error) {
			return []brandView{{ID: 1, Name: name}}, nil
		}
	}

	got, err := Remember(ctx, s, s.Key("brands", "list", "a b"), load("space"))
	require.NoError(t, err)
	assert.Equal(t, "space", got[0].Name)

	got, err = Remember(ctx, s, s.Key("brands", "list", "a_b"), load("underscore"))
	require.NoError(t, err)
	assert.Equal(t, "underscore", got[0].Name)

	// 前方一致の無効化は両方を消す
	s.Invalidate(ctx, "brands")
	assert.Empty(t, mr.Keys())
}

// TestRemember_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestRemember_NilRedis(t *testing.T) {
	t.Parallel()

	calls := 0
	load := func(context.Context) ([]brandView, error) {
		calls++
		return []brandView{{ID: 1, Name: "Nike"}}, nil
	}

	for range 2 {
		got, err := Remember(t.Context(), NewStore(nil, 0, "brands"), "brands:list", load)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 2, calls)

	var nilStore *Store
	_, err := Remember(t.Context(), nilStore, "k", load)
	assert.NoError(t, err)
}

// TestRemember_CacheHit はキャッシュヒット時にローダーを呼ばないことを検証します。
func TestRemember_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal([]brandView{{ID: 1, Name: "Nike"}})
	mock.ExpectGet("brands:list").SetVal(string(cached))

	got, err := Remember(t.Context(), NewStore(rdb, time.Minute, "brands"), "brands:list",
		func(context.Context) ([]brandView, error) {
			t.Fatal("loader must not be called on a cache hit")
			return nil, nil
		})

	require.NoError(t, err)
	assert.Equal(t, []brandView{{ID: 1, Name: "Nike"}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRemember_CacheMiss はキャッシュミス時にロードしてTTL付きで保存することを検証します。
func TestRemember_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	want := []brandView{{ID: 2, Name: "Adidas"}}
	payload, _ := json.Marshal(want)
	mock.ExpectGet("brands:list").RedisNil()
	mock.ExpectSet("brands:list", payload, 10*time.Minute).SetVal("OK")

	got, err := Remember(t.Context(), NewStore(rdb, 10*time.Minute, "brands"), "brands:list",
		func(context.Context) ([]brandView, error) { return want, nil })

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRemember_CorruptedEntry は破損したキャッシュを削除してローダーにフォールバックすることを検証します。
func TestRemember_CorruptedEntry(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	want := []brandView{{ID: 3, Name: "Puma"}}
	payload, _ := json.Marshal(want)
	mock.ExpectGet("brands:list").SetVal("{not json")
	mock.ExpectDel("brands:list").SetVal(1)
	mock.ExpectSet("brands:list", payload, time.Minute).SetVal("OK")

	got, err := Remember(t.Context(), NewStore(rdb, time.Minute, "brands"), "brands:list",
		func(context.Context) ([]brandView, error) { return want, nil })

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRemember_LoaderError はローダーのエラーがそのまま返り、何も保存されないことを検証します。
func TestRemember_LoaderError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	boom := errors.New("database error")
	mock.ExpectGet("brands:list").RedisNil()

	_, err := Remember(t.Context(), NewStore(rdb, time.Minute, "brands"), "brands:list",
		func(context.Context) ([]brandView, error) { return nil, boom })

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemember_RedisDownStillLoads(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("brands:list").SetErr(errors.New("connection reset"))
	mock.ExpectSet("brands:list", []byte("[]"), time.Minute).SetErr(errors.New("connection reset"))

	got, err := Remember(t.Context(), NewStore(rdb, time.Minute, "brands"), "brands:list",
		func(context.Context) ([]brandView, error) { return []brandView{}, nil })

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Invalidate(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewStore(rdb, time.Minute, "catalog")
	require.NoError(t, mr.Set("catalog:brands:list", "[]"))
	require.NoError(t, mr.Set("catalog:brands:7", "{}"))
	require.NoError(t, mr.Set("catalog:categories:list", "[]"))
	require.NoError(t, mr.Set("other:brands:list", "[]"))

	s.Invalidate(t.Context(), "brands")

	assert.False(t, mr.Exists("catalog:brands:list"))
	assert.False(t, mr.Exists("catalog:brands:7"))
	assert.True(t, mr.Exists("catalog:categories:list"))
	assert.True(t, mr.Exists("other:brands:list"))

	s.Invalidate(t.Context())
	assert.False(t, mr.Exists("catalog:categories:list"))
	assert.True(t, mr.Exists("other:brands:list"))
}
