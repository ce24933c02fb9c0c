package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	jsonregister "github.com/telicent-oss/go-json-register"
)

// fileConfig mirrors jsonregister.Config with YAML tags for the CLI config
// file. Unknown keys are rejected so typos fail loudly.
type fileConfig struct {
	Driver      string `yaml:"driver"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Database    string `yaml:"database"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	SSLMode     string `yaml:"sslmode"`
	Path        string `yaml:"path"`
	TableName   string `yaml:"table_name"`
	IDColumn    string `yaml:"id_column"`
	ValueColumn string `yaml:"value_column"`
	CacheSize   int    `yaml:"cache_size"`
	PoolSize    int    `yaml:"pool_size"`
}

// LoadConfig reads a YAML configuration file into a registrar Config.
// Validation happens at registrar construction, not here.
func LoadConfig(path string) (jsonregister.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jsonregister.Config{}, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var fc fileConfig
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return jsonregister.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return jsonregister.Config{
		Driver:      fc.Driver,
		Host:        fc.Host,
		Port:        fc.Port,
		Database:    fc.Database,
		User:        fc.User,
		Password:    fc.Password,
		SSLMode:     fc.SSLMode,
		Path:        fc.Path,
		TableName:   fc.TableName,
		IDColumn:    fc.IDColumn,
		ValueColumn: fc.ValueColumn,
		CacheSize:   fc.CacheSize,
		PoolSize:    fc.PoolSize,
	}, nil
}
