package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/spatrac/spatrac/internal/domain/products"
	"github.com/spatrac/spatrac/internal/domain/users"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token       string
		TimeoutSec  int   `mapstructure:"timeout_sec"`
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Logger struct {
		FileEnable bool   `mapstructure:"file_enable"`
		Filename   string
	} `mapstructure:"logger"`

	Seed struct {
		ProductsCSV string `mapstructure:"products_csv"`
		RecipesCSV  string `mapstructure:"recipes_csv"`
	} `mapstructure:"seed"`

	Users []User `mapstructure:"users"`
}

type User struct {
	ID         string
	Name       string
	Role       string
	Department string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.timeout_sec", 30)
	v.SetDefault("telegram.admin_chat_id", 0)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("logger.file_enable", false)
	v.SetDefault("logger.filename", "spatrac.log")
	v.SetDefault("seed.products_csv", "")
	v.SetDefault("seed.recipes_csv", "")
}

// Load reads an optional .env file, then the YAML at path. Every key can be
// overridden from the environment as APP_<SECTION>_<KEY>. A missing config
// file is not an error.
func Load(path string) (Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil && !missing(err) {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// Staff converts the configured users. With none configured it returns the
// default seed.
func (c Config) Staff() ([]users.User, error) {
	if len(c.Users) == 0 {
		return users.Seed(), nil
	}
	out := make([]users.User, 0, len(c.Users))
	for i, u := range c.Users {
		role := users.Role(strings.ToLower(u.Role))
		if !role.Valid() {
			return nil, fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
		dept := products.ParseDepartment(u.Department)
		if dept != "" && !dept.Valid() {
			return nil, fmt.Errorf("users[%d]: unknown department %q", i, u.Department)
		}
		if u.ID == "" || u.Name == "" {
			return nil, fmt.Errorf("users[%d]: id and name are required", i)
		}
		out = append(out, users.User{ID: u.ID, Name: u.Name, Role: role, Department: dept})
	}
	return out, nil
}

func missing(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &nf)
}
