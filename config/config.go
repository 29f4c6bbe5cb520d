package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config file (global)
var Config JSONConfig

// JSONConfig structure based on config.json
type JSONConfig struct {
	Origin  string        `json:"origin" mapstructure:"origin"`
	Port    string        `json:"port" mapstructure:"port"`
	Version string        `json:"version" mapstructure:"version"`
	Redis   RedisConfig   `json:"redis" mapstructure:"redis"`
	Scylla  ScyllaConfig  `json:"scylla" mapstructure:"scylla"`
	MinIO   MinIOConfig   `json:"minIO" mapstructure:"minIO"`
	JWT     JWTConfig     `json:"jwt" mapstructure:"jwt"`
	Logs    LogsConfig    `json:"logs" mapstructure:"logs"`
	Default DefaultConfig `json:"default" mapstructure:"default"`
}

// RedisConfig structure is the config for the redis record store
type RedisConfig struct {
	Addr     string `json:"addr" mapstructure:"addr"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db"`
}

// ScyllaConfig structure is the config for the chat cluster
type ScyllaConfig struct {
	Hosts    []string `json:"hosts" mapstructure:"hosts"`
	Keyspace string   `json:"keyspace" mapstructure:"keyspace"`
}

// MinIOConfig structure is the config for MinIO connection
type MinIOConfig struct {
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	Secure   bool   `json:"secure" mapstructure:"secure"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
	Region   string `json:"region" mapstructure:"region"`
}

// JWTConfig points to the RS256 key pair used for access tokens
type JWTConfig struct {
	PrivateKey string `json:"privateKey" mapstructure:"privateKey"`
	PublicKey  string `json:"publicKey" mapstructure:"publicKey"`
}

// LogsConfig names the log files
type LogsConfig struct {
	Internal  string `json:"internal" mapstructure:"internal"`
	Monitor   string `json:"monitor" mapstructure:"monitor"`
	Websocket string `json:"websocket" mapstructure:"websocket"`
}

// DefaultConfig describes the bot every new user is seeded with
type DefaultConfig struct {
	BotName   string  `json:"botName" mapstructure:"botName"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("origin", "*")
	v.SetDefault("port", ":8080")
	v.SetDefault("version", "v1")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("scylla.hosts", []string{"127.0.0.1:9042"})
	v.SetDefault("scylla.keyspace", "robosnapdb")
	v.SetDefault("minIO.endpoint", "127.0.0.1:9000")
	v.SetDefault("minIO.user", "")
	v.SetDefault("minIO.password", "")
	v.SetDefault("minIO.secure", false)
	v.SetDefault("minIO.bucket", "photos")
	v.SetDefault("minIO.region", "us-east-1")
	v.SetDefault("jwt.privateKey", "./jwt_key.pem")
	v.SetDefault("jwt.publicKey", "./jwt_key.pub")
	v.SetDefault("logs.internal", "internal_errors.txt")
	v.SetDefault("logs.monitor", "monitor_logs.txt")
	v.SetDefault("logs.websocket", "websocket_logs.txt")
	v.SetDefault("default.botName", "Default")
	v.SetDefault("default.latitude", 0)
	v.SetDefault("default.longitude", 0)
}

// Load reads config.json at path (optional) and ROBOSNAP_* environment overrides
func Load(path string) (JSONConfig, error) {

	var c JSONConfig

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("robosnap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}
