package preferences

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	stored, err := store.Set(ctx, "alice", "bob", true, "ar")
	assert.NoError(t, err)
	assert.Equal(t, Preference{AutoTranslate: true, TargetLang: "ar"}, stored)

	pref, err := store.Get(ctx, "alice", "bob")
	assert.NoError(t, err)
	assert.Equal(t, stored, pref)
}

func TestMemoryStore_GetUnsetReturnsDefault(t *testing.T) {
	store := NewMemoryStore()

	pref, err := store.Get(context.Background(), "alice", "carol")

	assert.NoError(t, err)
	assert.Equal(t, Preference{AutoTranslate: true, TargetLang: "en"}, pref)
}

func TestMemoryStore_KeyIsOrderedPair(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Set(ctx, "alice", "bob", false, "ar")
	assert.NoError(t, err)

	// The reverse direction is a distinct key and stays at the default
	pref, err := store.Get(ctx, "bob", "alice")
	assert.NoError(t, err)
	assert.Equal(t, DefaultPreference(), pref)
}

func TestMemoryStore_EmptyTargetLangDefaultsToEnglish(t *testing.T) {
	store := NewMemoryStore()

	stored, err := store.Set(context.Background(), "alice", "bob", false, "")

	assert.NoError(t, err)
	assert.Equal(t, "en", stored.TargetLang)
}

func TestMemoryStore_SetIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Set(ctx, "alice", "bob", true, "ar")
	assert.NoError(t, err)

	second, err := store.Set(ctx, "alice", "bob", true, "ar")
	assert.NoError(t, err)

	assert.Equal(t, first, second)

	pref, err := store.Get(ctx, "alice", "bob")
	assert.NoError(t, err)
	assert.Equal(t, first, pref)
}

func TestMemoryStore_LastWriteWins(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Set(ctx, "alice", "bob", true, "ar")
	assert.NoError(t, err)

	_, err = store.Set(ctx, "alice", "bob", false, "en")
	assert.NoError(t, err)

	pref, err := store.Get(ctx, "alice", "bob")
	assert.NoError(t, err)
	assert.Equal(t, Preference{AutoTranslate: false, TargetLang: "en"}, pref)
}

func TestRedisStore_SetAndGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)
	ctx := context.Background()

	payload, _ := json.Marshal(Preference{AutoTranslate: true, TargetLang: "ar"})
	mock.ExpectSet("prefs:alice:bob", payload, 0).SetVal("OK")
	mock.ExpectGet("prefs:alice:bob").SetVal(string(payload))

	stored, err := store.Set(ctx, "alice", "bob", true, "ar")
	assert.NoError(t, err)
	assert.Equal(t, Preference{AutoTranslate: true, TargetLang: "ar"}, stored)

	pref, err := store.Get(ctx, "alice", "bob")
	assert.NoError(t, err)
	assert.Equal(t, stored, pref)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetMissReturnsDefault(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	mock.ExpectGet("prefs:alice:carol").RedisNil()

	pref, err := store.Get(context.Background(), "alice", "carol")

	assert.NoError(t, err)
	assert.Equal(t, DefaultPreference(), pref)
	assert.NoError(t, mock.ExpectationsWereMet())
}
