package config

import (
	"errors"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

type Configuration struct {
	Server   Server
	Database Database
	Schemas  Schemas
	Log      Log
}

type Server struct {
	HTTPPort   int    `default:"8000" validate:"gt=0,lte=65535"`
	ServerMode string `default:"dev" validate:"oneof=dev prod"`
}

type Database struct {
	// Driver is the database/sql driver name.
	Driver string `default:"duckdb" validate:"oneof=duckdb sqlite3"`
	// Path of the database file. ":memory:" opens an in-memory database.
	Path string `default:":memory:" validate:"required"`
}

type Schemas struct {
	// Path is a YAML file or a directory of YAML files with the entity definitions.
	Path string `default:"schemas" validate:"required"`
}

type Log struct {
	Level  string `default:"info" validate:"oneof=debug info warn error"`
	Format string `default:"console" validate:"oneof=console json"`
}

type Option func(*Configuration)

func WithDatabase(driver, path string) Option {
	return func(c *Configuration) {
		c.Database.Driver = driver
		c.Database.Path = path
	}
}

func WithSchemasPath(path string) Option {
	return func(c *Configuration) {
		c.Schemas.Path = path
	}
}

func NewConfigurationWithOptionsAndDefaults(opts ...Option) *Configuration {
	c := &Configuration{}
	// defaults.Set only fails for non-pointer arguments.
	_ = defaults.Set(c)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

var validate = validator.New()

// Validate checks the configuration and reports every invalid field.
func (c *Configuration) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: invalid value %v (%s)", fe.Namespace(), fe.Value(), fe.Tag()))
	}
	return errors.Join(errs...)
}
