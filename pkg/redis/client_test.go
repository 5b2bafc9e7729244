package redis

import (
	"testing"

	"github.com/simpleshop/storefront-core/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatalf("expected error without url or address")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:      "redis://:secret@localhost:6380/2",
		PoolSize: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
	if opts.Password != "secret" {
		t.Fatalf("password not carried over")
	}
	if opts.PoolSize != 5 {
		t.Fatalf("pool size fallback not applied")
	}
}

func TestOptionsFromConfigUsesAddress(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{Address: "127.0.0.1:6379", DB: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "127.0.0.1:6379" || opts.DB != 1 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestSnapshotKeyIsNamespaced(t *testing.T) {
	c := &Client{}
	if got := c.SnapshotKey("cart"); got != "simpleshop:snapshot:cart" {
		t.Fatalf("unexpected key %q", got)
	}
}
