package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"kanban/pkg/keymaps"
	"kanban/pkg/utils"
)

// EnvPrefix prefixes environment overrides, e.g. KANBAN_DATABASE.
const EnvPrefix = "KANBAN"

// Config holds the application configuration
type Config struct {
	Database       string            `mapstructure:"database"`
	RedisAddr      string            `mapstructure:"redis_addr"`
	PollInterval   time.Duration     `mapstructure:"poll_interval"`
	BannerDuration time.Duration     `mapstructure:"banner_duration"`
	UpcomingDays   int               `mapstructure:"upcoming_days"`
	LabelMatch     string            `mapstructure:"label_match"`
	Notifications  bool              `mapstructure:"notifications"`
	KeyMap         map[string]string `mapstructure:"keymap"`
	StylesFile     string            `mapstructure:"styles_file"`
}

// Palette is one color theme.
type Palette struct {
	BorderColor       string `json:"border_color"`
	AccentColor       string `json:"accent_color"`
	NormalTextColor   string `json:"normal_text_color"`
	MutedTextColor    string `json:"muted_text_color"`
	SelectedTextColor string `json:"selected_text_color"`
	SelectedBgColor   string `json:"selected_bg_color"`
	ErrorColor        string `json:"error_color"`
	BannerTextColor   string `json:"banner_text_color"`
	BannerBgColor     string `json:"banner_bg_color"`
}

// Styles holds the application colors and styling information
type Styles struct {
	Light Palette `json:"light"`
	Dark  Palette `json:"dark"`

	// LabelColors maps label color tokens (tag-1 .. tag-8) to colors
	LabelColors map[string]string `json:"label_colors"`
}

// DefaultStyles returns the built-in color scheme.
func DefaultStyles() Styles {
	return Styles{
		Light: Palette{
			BorderColor:       "240",
			AccentColor:       "205",
			NormalTextColor:   "235",
			MutedTextColor:    "245",
			SelectedTextColor: "229",
			SelectedBgColor:   "57",
			ErrorColor:        "9",
			BannerTextColor:   "0",
			BannerBgColor:     "220",
		},
		Dark: Palette{
			BorderColor:       "238",
			AccentColor:       "212",
			NormalTextColor:   "252",
			MutedTextColor:    "242",
			SelectedTextColor: "230",
			SelectedBgColor:   "62",
			ErrorColor:        "196",
			BannerTextColor:   "0",
			BannerBgColor:     "214",
		},
		LabelColors: map[string]string{
			"tag-1": "1",
			"tag-2": "2",
			"tag-3": "3",
			"tag-4": "4",
			"tag-5": "5",
			"tag-6": "6",
			"tag-7": "13",
			"tag-8": "14",
		},
	}
}

// DefaultPath is ~/.config/kanban/config.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "kanban", "config.json"), nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("database", filepath.Join(configDir, "kanban.db"))
	v.SetDefault("redis_addr", "")
	v.SetDefault("poll_interval", "60s")
	v.SetDefault("banner_duration", "5s")
	v.SetDefault("upcoming_days", 7)
	v.SetDefault("label_match", "all")
	v.SetDefault("notifications", true)
	v.SetDefault("keymap", keymaps.GetDefaultKeyMappings())
	v.SetDefault("styles_file", filepath.Join(configDir, "styles.json"))
}

// Load loads the application configuration from the specified path. An
// empty path means DefaultPath. A missing file is created with defaults.
// Values from a .env file in the working directory and KANBAN_* variables
// override the file.
func Load(configPath string) (Config, Styles, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		utils.Warn("Error loading .env: %v", err)
	}

	if configPath == "" {
		var err error
		if configPath, err = DefaultPath(); err != nil {
			return Config{}, Styles{}, err
		}
	}
	configDir := filepath.Dir(configPath)

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v, configDir)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file not found, create default config
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return Config{}, Styles{}, err
		}
		if err := v.WriteConfigAs(configPath); err != nil {
			return Config{}, Styles{}, err
		}
		utils.Log("Created default config at %s", configPath)
	} else if err := v.ReadInConfig(); err != nil {
		return Config{}, Styles{}, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, Styles{}, fmt.Errorf("error decoding config: %w", err)
	}
	config.LabelMatch = strings.ToLower(strings.TrimSpace(config.LabelMatch))

	// viper folds keys read from the file to lower case; fold the defaults too
	keyMap := make(map[string]string, len(config.KeyMap))
	for action, keys := range config.KeyMap {
		keyMap[strings.ToLower(action)] = keys
	}
	config.KeyMap = keyMap

	styles, err := loadStyles(config.StylesFile)
	if err != nil {
		return config, styles, fmt.Errorf("error loading styles: %w", err)
	}
	return config, styles, nil
}

// loadStyles loads the application styles from the specified path
func loadStyles(stylesPath string) (Styles, error) {
	defaultStyles := DefaultStyles()

	stylesData, err := os.ReadFile(stylesPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return defaultStyles, err
		}
		// If the file doesn't exist, create it with default values
		if err := os.MkdirAll(filepath.Dir(stylesPath), 0755); err != nil {
			return defaultStyles, err
		}
		stylesData, err = json.MarshalIndent(defaultStyles, "", "  ")
		if err != nil {
			return defaultStyles, err
		}
		if err := os.WriteFile(stylesPath, stylesData, 0644); err != nil {
			return defaultStyles, err
		}
		return defaultStyles, nil
	}

	// Start from the defaults so a partial file keeps the other colors
	loadedStyles := defaultStyles
	if err := json.Unmarshal(stylesData, &loadedStyles); err != nil {
		return defaultStyles, err
	}
	return loadedStyles, nil
}
