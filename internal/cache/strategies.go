package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/battlepets/engine/internal/database"
	"github.com/battlepets/engine/pkg/logger"
)

// CacheStrategy defines cache behavior for different data types
type CacheStrategy interface {
	GetKey(id string, params ...string) string
	GetTTL() time.Duration
	GetInvalidationPatterns(id string) []string
}

// PetCacheStrategy handles pet record caching
type PetCacheStrategy struct{}

func (s *PetCacheStrategy) GetKey(id string, params ...string) string {
	if len(params) > 0 {
		return fmt.Sprintf("pet:%s:%s", id, params[0])
	}
	return fmt.Sprintf("pet:%s", id)
}

func (s *PetCacheStrategy) GetTTL() time.Duration {
	return 15 * time.Minute
}

func (s *PetCacheStrategy) GetInvalidationPatterns(id string) []string {
	return []string{
		fmt.Sprintf("pet:%s*", id),
		"pets:list:*",
		"response:*pets*",
	}
}

// BattleSessionCacheStrategy handles battle session caching. TTL is
// short since an in-progress session's round count changes every
// submitted round.
type BattleSessionCacheStrategy struct{}

func (s *BattleSessionCacheStrategy) GetKey(id string, params ...string) string {
	if len(params) > 0 {
		return fmt.Sprintf("battle_session:%s:%s", id, params[0])
	}
	return fmt.Sprintf("battle_session:%s", id)
}

func (s *BattleSessionCacheStrategy) GetTTL() time.Duration {
	return 2 * time.Minute
}

func (s *BattleSessionCacheStrategy) GetInvalidationPatterns(id string) []string {
	return []string{
		fmt.Sprintf("battle_session:%s*", id),
		"battle_sessions:active:*",
		"battle_sessions:list:*",
		"response:*sessions*",
	}
}

// CacheService provides high-level caching operations over the
// database-layer record types. It fronts Postgres reads for data that
// is read far more often than it's written (a pet's roster entry, a
// battle session's lifecycle snapshot) — the battle engine itself stays
// entirely in-process and never touches this cache.
type CacheService struct {
	client     *RedisClient
	logger     *logger.LoggerV2
	strategies map[string]CacheStrategy
}

// NewCacheService creates a new cache service
func NewCacheService(client *RedisClient, logger *logger.LoggerV2) *CacheService {
	return &CacheService{
		client: client,
		logger: logger,
		strategies: map[string]CacheStrategy{
			"pet":            &PetCacheStrategy{},
			"battle_session": &BattleSessionCacheStrategy{},
		},
	}
}

// GetPet retrieves a cached pet record
func (cs *CacheService) GetPet(ctx context.Context, petID string) (*database.PetRecord, error) {
	strategy := cs.strategies["pet"]
	key := strategy.GetKey(petID)

	var pet database.PetRecord
	err := cs.client.GetJSON(ctx, key, &pet)
	if err != nil {
		return nil, err
	}

	cs.logCacheHit("pet", petID)
	return &pet, nil
}

// SetPet caches a pet record
func (cs *CacheService) SetPet(ctx context.Context, pet *database.PetRecord) error {
	strategy := cs.strategies["pet"]
	key := strategy.GetKey(pet.ID)
	ttl := strategy.GetTTL()

	return cs.client.SetJSON(ctx, key, pet, ttl)
}

// InvalidatePet removes a pet record and its derived keys from cache
func (cs *CacheService) InvalidatePet(ctx context.Context, petID string) error {
	strategy := cs.strategies["pet"]
	patterns := strategy.GetInvalidationPatterns(petID)

	for _, pattern := range patterns {
		cs.invalidatePattern(ctx, pattern)
	}

	return nil
}

// invalidatePattern deletes all keys matching the given pattern
func (cs *CacheService) invalidatePattern(ctx context.Context, pattern string) {
	keys, err := cs.getKeysByPattern(ctx, pattern)
	if err != nil {
		cs.logger.Error().Err(err).Str("pattern", pattern).Msg("Failed to get keys for invalidation")
		return
	}

	if len(keys) == 0 {
		return
	}

	if err := cs.client.Delete(ctx, keys...); err != nil {
		cs.logger.Error().Err(err).Str("pattern", pattern).Msg("Failed to delete keys")
		return
	}

	cs.logger.Debug().
		Str("pattern", pattern).
		Int("keys_deleted", len(keys)).
		Msg("Cache invalidated")
}

// GetPetList retrieves a cached owner's pet roster
func (cs *CacheService) GetPetList(ctx context.Context, ownerID string, filters ...string) ([]*database.PetRecord, error) {
	filterKey := "all"
	if len(filters) > 0 {
		filterKey = filters[0]
	}

	key := fmt.Sprintf("pets:list:owner:%s:filter:%s", ownerID, filterKey)

	var pets []*database.PetRecord
	err := cs.client.GetJSON(ctx, key, &pets)
	if err != nil {
		return nil, err
	}

	cs.logCacheHit("pet_list", ownerID)
	return pets, nil
}

// SetPetList caches an owner's pet roster
func (cs *CacheService) SetPetList(ctx context.Context, ownerID string, pets []*database.PetRecord, filters ...string) error {
	filterKey := "all"
	if len(filters) > 0 {
		filterKey = filters[0]
	}

	key := fmt.Sprintf("pets:list:owner:%s:filter:%s", ownerID, filterKey)
	ttl := 5 * time.Minute // Shorter TTL for lists

	return cs.client.SetJSON(ctx, key, pets, ttl)
}

// GetBattleSession retrieves a cached battle session record
func (cs *CacheService) GetBattleSession(ctx context.Context, sessionID string) (*database.BattleSessionRecord, error) {
	strategy := cs.strategies["battle_session"]
	key := strategy.GetKey(sessionID)

	var session database.BattleSessionRecord
	err := cs.client.GetJSON(ctx, key, &session)
	if err != nil {
		return nil, err
	}

	cs.logCacheHit("battle_session", sessionID)
	return &session, nil
}

// SetBattleSession caches a battle session record
func (cs *CacheService) SetBattleSession(ctx context.Context, session *database.BattleSessionRecord) error {
	strategy := cs.strategies["battle_session"]
	key := strategy.GetKey(session.ID)
	ttl := strategy.GetTTL()

	err := cs.client.SetJSON(ctx, key, session, ttl)
	if err != nil {
		return err
	}

	// Also update active sessions cache if applicable
	if session.Status == "active" {
		activeKey := fmt.Sprintf("battle_sessions:active:%s", session.ID)
		if err := cs.client.Set(ctx, activeKey, "1", ttl); err != nil {
			return fmt.Errorf("failed to cache active battle session: %w", err)
		}
	}

	return nil
}

// GetActiveSessionIDs retrieves cached active battle session IDs
func (cs *CacheService) GetActiveSessionIDs(ctx context.Context) ([]string, error) {
	pattern := "battle_sessions:active:*"
	keys, err := cs.getKeysByPattern(ctx, pattern)
	if err != nil {
		return nil, err
	}

	return cs.extractSessionIDsFromKeys(keys), nil
}

// extractSessionIDsFromKeys extracts session IDs from cache keys
func (cs *CacheService) extractSessionIDsFromKeys(keys []string) []string {
	sessionIDs := make([]string, 0, len(keys))
	const sessionKeyPrefixParts = 3 // battle_sessions:active:{id}

	for _, key := range keys {
		if id := extractIDFromKey(key, sessionKeyPrefixParts); id != "" {
			sessionIDs = append(sessionIDs, id)
		}
	}

	return sessionIDs
}

// extractIDFromKey extracts the ID from a cache key
func extractIDFromKey(key string, requiredParts int) string {
	parts := splitKey(key, ":")
	if len(parts) >= requiredParts {
		return parts[requiredParts-1]
	}
	return ""
}

// warmers maps data types to their warming functions
var warmers = map[string]string{
	"pets":            "warmPets",
	"battle_sessions": "warmBattleSessions",
}

// WarmCache pre-loads frequently accessed data
func (cs *CacheService) WarmCache(ctx context.Context, dataType string, items []interface{}) error {
	if _, supported := warmers[dataType]; !supported {
		return fmt.Errorf("unsupported data type: %s", dataType)
	}

	switch dataType {
	case "pets":
		cs.warmPets(ctx, items)
	case "battle_sessions":
		cs.warmBattleSessions(ctx, items)
	}

	cs.logger.Info().
		Str("data_type", dataType).
		Int("items_count", len(items)).
		Msg("Cache warmed")

	return nil
}

// warmPets warms the cache with pet records
func (cs *CacheService) warmPets(ctx context.Context, items []interface{}) {
	cs.warmItems(ctx, items, cs.warmSinglePet)
}

// warmBattleSessions warms the cache with battle session records
func (cs *CacheService) warmBattleSessions(ctx context.Context, items []interface{}) {
	cs.warmItems(ctx, items, cs.warmSingleBattleSession)
}

// warmItems is a generic function to warm cache with items
func (cs *CacheService) warmItems(ctx context.Context, items []interface{}, warmer func(context.Context, interface{}) error) {
	for _, item := range items {
		if err := warmer(ctx, item); err != nil {
			cs.logger.Error().Err(err).Msg("Failed to warm cache item")
		}
	}
}

// warmSinglePet warms cache with a single pet record
func (cs *CacheService) warmSinglePet(ctx context.Context, item interface{}) error {
	pet, ok := item.(*database.PetRecord)
	if !ok {
		return nil // Skip non-pet items
	}

	if err := cs.SetPet(ctx, pet); err != nil {
		return fmt.Errorf("failed to warm pet %s: %w", pet.ID, err)
	}

	return nil
}

// warmSingleBattleSession warms cache with a single battle session record
func (cs *CacheService) warmSingleBattleSession(ctx context.Context, item interface{}) error {
	session, ok := item.(*database.BattleSessionRecord)
	if !ok {
		return nil // Skip non-session items
	}

	if err := cs.SetBattleSession(ctx, session); err != nil {
		return fmt.Errorf("failed to warm battle session %s: %w", session.ID, err)
	}

	return nil
}

// GetCacheStats returns cache statistics
func (cs *CacheService) GetCacheStats(ctx context.Context) (map[string]interface{}, error) {
	info, err := cs.client.GetClient().Info(ctx, "stats").Result()
	if err != nil {
		return nil, err
	}

	stats := map[string]interface{}{
		"raw_info": info,
	}

	memInfo, err := cs.client.GetClient().Info(ctx, "memory").Result()
	if err == nil {
		stats["memory"] = memInfo
	}

	return stats, nil
}

// Helper methods

func (cs *CacheService) logCacheHit(dataType, id string) {
	if cs.logger != nil {
		cs.logger.Debug().
			Str("type", dataType).
			Str("id", id).
			Msg("Cache hit")
	}
}

func (cs *CacheService) getKeysByPattern(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := cs.client.GetClient().Scan(ctx, 0, pattern, 100).Iterator()

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	return keys, iter.Err()
}

func splitKey(key, delimiter string) []string {
	return strings.Split(key, delimiter)
}

// CacheWarmer runs periodic cache warming
type CacheWarmer struct {
	service  *CacheService
	logger   *logger.LoggerV2
	interval time.Duration
	stopCh   chan struct{}
}

// NewCacheWarmer creates a new cache warmer
func NewCacheWarmer(service *CacheService, logger *logger.LoggerV2, interval time.Duration) *CacheWarmer {
	return &CacheWarmer{
		service:  service,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the cache warming process
func (cw *CacheWarmer) Start(ctx context.Context, warmupFunc func(context.Context) (map[string][]interface{}, error)) {
	ticker := time.NewTicker(cw.interval)
	defer ticker.Stop()

	// Initial warmup
	cw.performWarmup(ctx, warmupFunc)

	for {
		select {
		case <-ticker.C:
			cw.performWarmup(ctx, warmupFunc)
		case <-cw.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the cache warmer
func (cw *CacheWarmer) Stop() {
	close(cw.stopCh)
}

func (cw *CacheWarmer) performWarmup(ctx context.Context, warmupFunc func(context.Context) (map[string][]interface{}, error)) {
	start := time.Now()

	data, err := warmupFunc(ctx)
	if err != nil {
		cw.logger.Error().Err(err).Msg("Failed to get data for cache warming")
		return
	}

	for dataType, items := range data {
		if err := cw.service.WarmCache(ctx, dataType, items); err != nil {
			cw.logger.Error().
				Err(err).
				Str("data_type", dataType).
				Msg("Failed to warm cache")
		}
	}

	cw.logger.Info().
		Dur("duration", time.Since(start)).
		Msg("Cache warming completed")
}
