package domain

// KeyPrefix namespaces every Redis key the service owns.
const KeyPrefix = "furnimatch:"

// ProductKeyPrefix is the prefix the catalog index is declared ON.
const ProductKeyPrefix = KeyPrefix + "product:"

// ProductKey returns the storage key of a catalog item.
func ProductKey(id string) string { return ProductKeyPrefix + id }

// SynonymMapKey returns the storage key of a standalone synonym map.
func SynonymMapKey(name string) string { return KeyPrefix + "synonyms:" + name }

// IndexMetaKey returns the storage key of an index's declarative metadata.
func IndexMetaKey(index string) string { return KeyPrefix + "index:" + index }

// EmbeddingCacheKey returns the storage key of a cached embedding.
func EmbeddingCacheKey(hash string) string { return KeyPrefix + "emb:" + hash }

// BackfillLockKey returns the storage key of the backfill run lock.
func BackfillLockKey(index string) string { return KeyPrefix + "lock:backfill:" + index }
