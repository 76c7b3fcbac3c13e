package config

import "fmt"

// DBConfig — параметры подключения к postgres.
type DBConfig struct {
	Host            string `env:"DB_HOST" envDefault:"postgres"`
	Port            int    `env:"DB_PORT" envDefault:"5432"`
	User            string `env:"DB_USER" envDefault:"telemed"`
	Password        string `env:"DB_PASSWORD" envDefault:"telemed"`
	Name            string `env:"DB_NAME" envDefault:"telemed_db"`
	SSLMode         string `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone        string `env:"DB_TIMEZONE" envDefault:"UTC"`
	MaxOpenConns    int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifeTime int    `env:"DB_CONN_MAX_LIFETIME_MIN" envDefault:"30"` // минут
}

// минимальная валидация
func (c *DBConfig) validate() error {
	if c.Host == "" || c.User == "" || c.Name == "" {
		return fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}
	return nil
}

// DSN — строка подключения для драйвера postgres.
func (c *DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host,
		c.User,
		c.Password,
		c.Name,
		c.Port,
		c.SSLMode,
		c.TimeZone,
	)
}
