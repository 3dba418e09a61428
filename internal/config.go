package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=3000"`
	OpsPort              int           `env:"OPS_PORT,default=3001"`
	DebugDBPort          int           `env:"DEBUG_DB_PORT"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	CommandBufferSize    int           `env:"COMMAND_BUFFER_SIZE,default=1024"`
	SendBufferSize       int           `env:"SEND_BUFFER_SIZE,default=256"`
	SweepInterval        time.Duration `env:"SWEEP_INTERVAL,default=60s"`
	StaleRoomAfter       time.Duration `env:"STALE_ROOM_AFTER,default=30m"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	StatsInterval        time.Duration `env:"STATS_INTERVAL,default=30s"`
	SessionSecret        string        `env:"SESSION_SECRET,required=true"`
	SessionTokenDuration time.Duration `env:"SESSION_TOKEN_DURATION,default=24h"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
	ReadTimeout          time.Duration `env:"READ_TIMEOUT,default=10s"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,default=10s"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
