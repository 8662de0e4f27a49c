package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/recruit-admin/config"
)

const redisPingTimeout = 5 * time.Second

// ConnectRedis opens the profile cache connection described by cfg and verifies it with a ping.
// Cluster wins over sentinel, which wins over a single node.
//
//nolint:ireturn // the topology is chosen at runtime.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	opts, desc, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}
	var client redis.UniversalClient
	if cfg.UseCluster {
		client = redis.NewClusterClient(opts.Cluster())
	} else {
		// MasterName selects a failover client, otherwise a single node.
		client = redis.NewUniversalClient(opts)
	}

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis %s: %w", desc, pingErr)
	}

	if logger != nil {
		logger.Info("redis connected", "addr", desc, "key_prefix", cfg.KeyPrefix)
	}
	return client, nil
}

// redisOptions maps the configured topology onto UniversalOptions.
// The returned description is safe to log.
func redisOptions(cfg config.RedisConfig) (*redis.UniversalOptions, string, error) {
	switch {
	case cfg.UseCluster:
		addrs := nonBlank(cfg.ClusterNodes)
		opts := &redis.UniversalOptions{Password: cfg.Password}
		if len(addrs) == 0 {
			single, err := singleNode(cfg)
			if err != nil {
				return nil, "", err
			}
			opts.Username = single.Username
			opts.Password = single.Password
			opts.TLSConfig = single.TLSConfig
			addrs = []string{single.Addr}
		}
		opts.Addrs = addrs
		return opts, "cluster:" + strings.Join(addrs, ","), nil

	case cfg.UseSentinel:
		nodes := nonBlank(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return nil, "", errors.New("redis sentinel requires at least one node in REDIS_SENTINEL_NODES")
		}
		return &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
		}, "sentinel:" + cfg.SentinelMasterName, nil

	default:
		single, err := singleNode(cfg)
		if err != nil {
			return nil, "", err
		}
		return &redis.UniversalOptions{
			Addrs:     []string{single.Addr},
			Username:  single.Username,
			Password:  single.Password,
			TLSConfig: single.TLSConfig,
			DB:        single.DB,
		}, single.Addr, nil
	}
}

// singleNode reads REDIS_URI as either a redis:// URL or a bare host:port.
func singleNode(cfg config.RedisConfig) (*redis.Options, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, errors.New("redis requires REDIS_URI")
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		return &redis.Options{Addr: uri, Password: cfg.Password}, nil
	}
	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URI %s: %w", redactURL(uri), err)
	}
	if opt.Password == "" {
		opt.Password = cfg.Password
	}
	return opt, nil
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}

func nonBlank(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
