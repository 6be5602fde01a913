package config

import (
	"vibraframe/internal/store/supastore"
)

// Supabase returns the settings of the Supabase-backed store.
func (c Config) Supabase() supastore.Config {
	return supastore.Config{
		URL:          c.SupabaseURL,
		ServiceKey:   c.SupabaseServiceKey,
		Bucket:       c.BackgroundBucket,
		SignedURLTTL: c.SignedURLTTL,
	}
}
