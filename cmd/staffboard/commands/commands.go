package commands

import (
	"context"
	"io"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/staffboard/internal/conventions"
	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug          bool
	NoLog          bool
	NoColor        bool
	LoggerType     string
	DataDir        string
	ConfigFile     string
	Storage        string
	DBPath         string
	FileDir        string
	RedisAddress   string
	RedisKeyPrefix string
	RecoverPolicy  string

	// Flags explicitly set by the user, these override the config file.
	storageSet        bool
	dbPathSet         bool
	fileDirSet        bool
	redisAddressSet   bool
	redisKeyPrefixSet bool
	recoverPolicySet  bool

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDataDir := filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
	app.Flag("data-dir", "Board data directory.").Default(defaultDataDir).StringVar(&c.DataDir)
	app.Flag("config", "Path to a YAML board configuration file.").StringVar(&c.ConfigFile)

	app.Flag("storage", "Storage backend (sqlite, file, redis, memory).").
		Default(string(model.StorageBackendSQLite)).
		IsSetByUser(&c.storageSet).
		EnumVar(&c.Storage, string(model.StorageBackendSQLite), string(model.StorageBackendFile), string(model.StorageBackendRedis), string(model.StorageBackendMemory))
	app.Flag("db-path", "Path to the SQLite database file (default: <data-dir>/staffboard.db).").IsSetByUser(&c.dbPathSet).StringVar(&c.DBPath)
	app.Flag("file-dir", "Directory of the file key-value store (default: <data-dir>/kv).").IsSetByUser(&c.fileDirSet).StringVar(&c.FileDir)
	app.Flag("redis-addr", "Redis address for the redis storage.").IsSetByUser(&c.redisAddressSet).StringVar(&c.RedisAddress)
	app.Flag("redis-key-prefix", "Prefix of the board keys on Redis.").
		Default(conventions.DefaultRedisKeyPrefix).
		IsSetByUser(&c.redisKeyPrefixSet).
		StringVar(&c.RedisKeyPrefix)
	app.Flag("recover-policy", "What to do with timers left running by a killed process (resume, checkpoint).").
		Default(string(model.RecoverPolicyResume)).
		IsSetByUser(&c.recoverPolicySet).
		EnumVar(&c.RecoverPolicy, string(model.RecoverPolicyResume), string(model.RecoverPolicyCheckpoint))

	return c
}
