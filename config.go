package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the resolved server configuration
type Config struct {
	Addr      string
	ClientDir string
	DBPath    string
	JWTSecret []byte
	Tuning    Tuning
}

const defaultDBPath = "arena.db"

// LoadConfig resolves flags, environment and the tuning file. Flags win
// over the environment.
func LoadConfig(addr, clientDir, dbPath, tuningPath string) (Config, error) {
	t, err := LoadTuning(tuningPath)
	if err != nil {
		return Config{}, err
	}
	if dbPath == "" {
		dbPath = envOr("ARENA_DB", defaultDBPath)
	}
	var secret []byte
	if s := os.Getenv("ARENA_JWT_SECRET"); s != "" {
		secret = []byte(s)
	}
	return Config{
		Addr:      addr,
		ClientDir: clientDir,
		DBPath:    dbPath,
		JWTSecret: secret,
		Tuning:    t,
	}, nil
}

// LoadEnv reads a .env file if one exists. A missing file is not an error.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	log.Printf("config: loaded %s", path)
	return nil
}

// LoadTuning decodes arena.toml over the defaults. A missing file yields the defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultTuning(), nil
		}
		return DefaultTuning(), fmt.Errorf("parse %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		log.Printf("config: ignoring unknown keys in %s: %v", path, undec)
	}
	t.Validate()
	return t, nil
}

// envOr returns the environment value for key, or def when unset
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
