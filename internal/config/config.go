package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataFileName   = "todos.json"
	DefaultDBName         = "todos.db"
)

type Keymap struct {
	Quit          string `toml:"quit"`
	Up            string `toml:"up"`
	Down          string `toml:"down"`
	Toggle        string `toml:"toggle"`
	Delete        string `toml:"delete"`
	Edit          string `toml:"edit"`
	Add           string `toml:"add"`
	Due           string `toml:"due"`
	Reminder      string `toml:"reminder"`
	ClearReminder string `toml:"clear_reminder"`
}

type Config struct {
	// DataFile is the JSON flat-file store path.
	DataFile string `toml:"data_file"`
	// DBPath is the SQLite store path, used with --sqlite.
	DBPath string `toml:"db_path"`
	// Editor overrides $VISUAL/$EDITOR when non-empty.
	Editor string `toml:"editor"`
	// ScratchDir holds the editor scratch files. Empty means the
	// system temp directory.
	ScratchDir string `toml:"scratch_dir"`
	Keys       Keymap `toml:"keys"`
}

// ResolveConfigPath puts the config next to the rest of the user's
// dodo state under the XDG config dir, falling back to the working
// directory when no home is available.
func ResolveConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(base, "dodo", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there
// first if the file does not exist.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DataFile == "" {
		cfg.DataFile = DefaultDataFileName
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	cfg.Keys = cfg.Keys.withDefaults()
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// withDefaults fills in any binding a hand-edited config left blank.
func (k Keymap) withDefaults() Keymap {
	d := defaultConfig().Keys
	if k.Quit == "" {
		k.Quit = d.Quit
	}
	if k.Up == "" {
		k.Up = d.Up
	}
	if k.Down == "" {
		k.Down = d.Down
	}
	if k.Toggle == "" {
		k.Toggle = d.Toggle
	}
	if k.Delete == "" {
		k.Delete = d.Delete
	}
	if k.Edit == "" {
		k.Edit = d.Edit
	}
	if k.Add == "" {
		k.Add = d.Add
	}
	if k.Due == "" {
		k.Due = d.Due
	}
	if k.Reminder == "" {
		k.Reminder = d.Reminder
	}
	if k.ClearReminder == "" {
		k.ClearReminder = d.ClearReminder
	}
	return k
}

func defaultConfig() Config {
	return Config{
		DataFile: DefaultDataFileName,
		DBPath:   DefaultDBName,
		Keys: Keymap{
			Quit:          "q",
			Up:            "up",
			Down:          "down",
			Toggle:        " ",
			Delete:        "d",
			Edit:          "e",
			Add:           "a",
			Due:           "t",
			Reminder:      "r",
			ClearReminder: "c",
		},
	}
}
