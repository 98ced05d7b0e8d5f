package types

// JSONMap holds the open key-value metadata recorded on spend entries
// (ctr, cpm, impressions, campaign ids, ...). Stored as jsonb via the
// GORM json serializer.
type JSONMap map[string]any
