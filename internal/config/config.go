// Package config 服务进程的 YAML 配置.
//
// 所有键都有默认值, 空文件即可起一个内存后端的单机服务.
// 桌面参数经 RoomDefaults 翻译成开桌参数, 麻将分表文件在那里读入.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"parlor-lite/blackjack"
	"parlor-lite/internal/room"
	"parlor-lite/mahjong"
	"parlor-lite/poker"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Store  StoreConfig  `mapstructure:"store"`
	Ledger LedgerConfig `mapstructure:"ledger"`
	Tables TablesConfig `mapstructure:"tables"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug | info | warn | error
}

type StoreConfig struct {
	Backend string      `mapstructure:"backend"` // memory | redis | nats
	Redis   RedisConfig `mapstructure:"redis"`
	NATS    NATSConfig  `mapstructure:"nats"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type NATSConfig struct {
	URL    string `mapstructure:"url"`
	Bucket string `mapstructure:"bucket"`
}

type LedgerConfig struct {
	Backend     string `mapstructure:"backend"` // memory | sqlite | postgres
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

type TablesConfig struct {
	Blackjack BlackjackTable `mapstructure:"blackjack"`
	Poker     PokerTable     `mapstructure:"poker"`
	Mahjong   MahjongTable   `mapstructure:"mahjong"`
}

type BlackjackTable struct {
	MaxSeats  int   `mapstructure:"max_seats"`
	Decks     int   `mapstructure:"decks"`
	MinBet    int64 `mapstructure:"min_bet"`
	MaxBet    int64 `mapstructure:"max_bet"`
	HitSoft17 bool  `mapstructure:"hit_soft17"`
	BuyIn     int64 `mapstructure:"buy_in"`
}

type PokerTable struct {
	MaxSeats   int   `mapstructure:"max_seats"`
	SmallBlind int64 `mapstructure:"small_blind"`
	BigBlind   int64 `mapstructure:"big_blind"`
	Ante       int64 `mapstructure:"ante"`
	MinBuyIn   int64 `mapstructure:"min_buy_in"`
	MaxBuyIn   int64 `mapstructure:"max_buy_in"`
	BuyIn      int64 `mapstructure:"buy_in"`
}

type MahjongTable struct {
	ScoringFile string `mapstructure:"scoring_file"`
}

// Load 从 YAML 文件读配置, 文件里没出现的键用默认值.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.pool_size", 10)
	v.SetDefault("store.nats.url", "nats://localhost:4222")
	v.SetDefault("store.nats.bucket", "parlor-games")

	v.SetDefault("ledger.backend", "memory")
	v.SetDefault("ledger.sqlite_path", "parlor.db")

	std := room.DefaultTables()
	v.SetDefault("tables.blackjack.max_seats", std.Blackjack.MaxSeats)
	v.SetDefault("tables.blackjack.decks", std.Blackjack.Decks)
	v.SetDefault("tables.blackjack.min_bet", std.Blackjack.MinBet)
	v.SetDefault("tables.blackjack.max_bet", std.Blackjack.MaxBet)
	v.SetDefault("tables.blackjack.hit_soft17", std.Blackjack.HitSoft17)
	v.SetDefault("tables.blackjack.buy_in", std.BlackjackBuyIn)
	v.SetDefault("tables.poker.max_seats", std.Poker.MaxSeats)
	v.SetDefault("tables.poker.small_blind", std.Poker.SmallBlind)
	v.SetDefault("tables.poker.big_blind", std.Poker.BigBlind)
	v.SetDefault("tables.poker.ante", std.Poker.Ante)
	v.SetDefault("tables.poker.min_buy_in", std.Poker.MinBuyIn)
	v.SetDefault("tables.poker.max_buy_in", std.Poker.MaxBuyIn)
	v.SetDefault("tables.poker.buy_in", std.PokerBuyIn)
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "memory", "redis", "nats":
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	switch c.Ledger.Backend {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown ledger backend %q", c.Ledger.Backend)
	}
	if c.Ledger.Backend == "postgres" && c.Ledger.PostgresDSN == "" {
		return fmt.Errorf("config: ledger.postgres_dsn is required for the postgres backend")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}

// SlogLevel 配置的日志级别对应的 slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RoomDefaults 把桌面配置翻译成开桌参数, 有分表文件时顺带读入.
// 桌面参数本身的合法性由各引擎的 NewGame 把关.
func (c *Config) RoomDefaults() (room.Defaults, error) {
	d := room.Defaults{
		Blackjack: blackjack.Config{
			MaxSeats:  c.Tables.Blackjack.MaxSeats,
			Decks:     c.Tables.Blackjack.Decks,
			MinBet:    c.Tables.Blackjack.MinBet,
			MaxBet:    c.Tables.Blackjack.MaxBet,
			HitSoft17: c.Tables.Blackjack.HitSoft17,
		},
		Poker: poker.Config{
			MaxSeats:   c.Tables.Poker.MaxSeats,
			SmallBlind: c.Tables.Poker.SmallBlind,
			BigBlind:   c.Tables.Poker.BigBlind,
			Ante:       c.Tables.Poker.Ante,
			MinBuyIn:   c.Tables.Poker.MinBuyIn,
			MaxBuyIn:   c.Tables.Poker.MaxBuyIn,
		},
		Mahjong:        mahjong.Config{},
		BlackjackBuyIn: c.Tables.Blackjack.BuyIn,
		PokerBuyIn:     c.Tables.Poker.BuyIn,
	}
	if c.Tables.Mahjong.ScoringFile != "" {
		table, err := mahjong.LoadScoreTable(c.Tables.Mahjong.ScoringFile)
		if err != nil {
			return room.Defaults{}, err
		}
		d.Mahjong.Scoring = &table
	}
	return d, nil
}
