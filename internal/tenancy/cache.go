package tenancy

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yukikurage/workspace-api/internal/models"
)

// Cache stores resolved workspaces by slug. Implementations hand out copies so
// a caller mutating its workspace never affects another request.
type Cache interface {
	Get(ctx context.Context, slug string) (*models.Workspace, bool)
	Set(ctx context.Context, slug string, ws *models.Workspace, ttl time.Duration)
	Delete(ctx context.Context, slug string)
}

// cachedWorkspace mirrors models.Workspace without the join code hash. Join
// codes are read from the database so a rotation takes effect on every
// instance at once.
type cachedWorkspace struct {
	ID              uint64    `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	AllowSelfSignup bool      `json:"allow_self_signup"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toCached(ws *models.Workspace) cachedWorkspace {
	return cachedWorkspace{
		ID:              ws.ID,
		Slug:            ws.Slug,
		Name:            ws.Name,
		AllowSelfSignup: ws.AllowSelfSignup,
		CreatedAt:       ws.CreatedAt,
		UpdatedAt:       ws.UpdatedAt,
	}
}

func (c cachedWorkspace) workspace() *models.Workspace {
	return &models.Workspace{
		ID:              c.ID,
		Slug:            c.Slug,
		Name:            c.Name,
		AllowSelfSignup: c.AllowSelfSignup,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// MemoryCache is a process-local Cache. Expired entries are dropped on read.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	ws        cachedWorkspace
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memoryItem), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, slug string) (*models.Workspace, bool) {
	c.mu.RLock()
	item, ok := c.items[slug]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(item.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.items[slug]; ok && cur.expiresAt.Equal(item.expiresAt) {
			delete(c.items, slug)
		}
		c.mu.Unlock()
		return nil, false
	}
	return item.ws.workspace(), true
}

func (c *MemoryCache) Set(_ context.Context, slug string, ws *models.Workspace, ttl time.Duration) {
	if ws == nil || ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[slug] = memoryItem{ws: toCached(ws), expiresAt: c.now().Add(ttl)}
}

func (c *MemoryCache) Delete(_ context.Context, slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, slug)
}

// RedisCache shares resolved workspaces between server instances.
// Redis failures degrade to a cache miss.
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "workspace:slug:"}
}

func (c *RedisCache) key(slug string) string {
	return c.prefix + slug
}

func (c *RedisCache) Get(ctx context.Context, slug string) (*models.Workspace, bool) {
	raw, err := c.client.Get(ctx, c.key(slug)).Bytes()
	if err != nil {
		return nil, false
	}
	var cw cachedWorkspace
	if err := json.Unmarshal(raw, &cw); err != nil {
		return nil, false
	}
	return cw.workspace(), true
}

func (c *RedisCache) Set(ctx context.Context, slug string, ws *models.Workspace, ttl time.Duration) {
	if ws == nil || ttl <= 0 {
		return
	}
	b, err := json.Marshal(toCached(ws))
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(slug), b, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, slug string) {
	_ = c.client.Del(ctx, c.key(slug)).Err()
}
