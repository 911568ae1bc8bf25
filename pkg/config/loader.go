package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Loader resolves configuration from a .env file, a YAML or JSON
// config file, and prefixed environment variables, in that order of
// precedence (environment wins).
type Loader struct {
	envPrefix string
}

// NewLoader creates a loader whose environment lookups use the given
// prefix, e.g. "ATA" for ATA_API_TOKEN.
func NewLoader(envPrefix string) *Loader {
	return &Loader{envPrefix: envPrefix}
}

// Load fills config from every source. A missing .env file and an
// empty configPath are both fine; environment overrides still apply.
func (l *Loader) Load(configPath string, config interface{}) error {
	if err := l.LoadDotEnv(""); err != nil {
		return err
	}
	if err := l.LoadFromFile(configPath, config); err != nil {
		return fmt.Errorf("failed to load config from file: %w", err)
	}
	if err := l.LoadFromEnv(config); err != nil {
		return fmt.Errorf("failed to load config from environment: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from a .env file into the process
// environment. A missing file is not an error.
func (l *Loader) LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadFromFile reads configPath into config, choosing the codec by
// file extension. An empty path is a no-op.
func (l *Loader) LoadFromFile(configPath string, config interface{}) error {
	if configPath == "" {
		return nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	switch ext := strings.ToLower(filepath.Ext(configPath)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file %s: %w", configPath, err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file %s: %w", configPath, err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json)", ext)
	}
	return nil
}

// LoadFromEnv applies environment overrides onto config. Variable
// names come from the yaml tags, upper-cased and joined with
// underscores under the loader prefix: Config.API.Token binds to
// ATA_API_TOKEN.
func (l *Loader) LoadFromEnv(config interface{}) error {
	return l.applyEnv(reflect.ValueOf(config).Elem(), nil)
}

func (l *Loader) applyEnv(value reflect.Value, path []string) error {
	if !value.IsValid() || !value.CanSet() {
		return nil
	}

	switch value.Kind() {
	case reflect.Ptr:
		if value.IsNil() {
			value.Set(reflect.New(value.Type().Elem()))
		}
		return l.applyEnv(value.Elem(), path)

	case reflect.Struct:
		structType := value.Type()
		for i := 0; i < value.NumField(); i++ {
			field := value.Field(i)
			if !field.CanSet() {
				continue
			}

			fieldPath := append(path, fieldKey(structType.Field(i)))
			if field.Kind() == reflect.Struct ||
				(field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct) {
				if err := l.applyEnv(field, fieldPath); err != nil {
					return err
				}
				continue
			}

			envName := l.envName(fieldPath)
			if envValue := os.Getenv(envName); envValue != "" {
				if err := setField(field, envValue); err != nil {
					return fmt.Errorf("failed to set %s from env %s: %w",
						strings.Join(fieldPath, "."), envName, err)
				}
			}
		}
	}
	return nil
}

// fieldKey picks the name segment for a struct field: env tag, then
// yaml tag, then the upper-cased field name.
func fieldKey(field reflect.StructField) string {
	if tag := field.Tag.Get("env"); tag != "" {
		return tag
	}
	if tag := field.Tag.Get("yaml"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return strings.ToUpper(field.Name)
}

func (l *Loader) envName(path []string) string {
	name := strings.ToUpper(strings.Join(path, "_"))
	if l.envPrefix != "" {
		return l.envPrefix + "_" + name
	}
	return name
}

func setField(field reflect.Value, value string) error {
	if field.Type() == durationType {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value: %s", value)
		}
		field.SetInt(int64(duration))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool value: %s", value)
		}
		field.SetBool(boolVal)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid int value: %s", value)
		}
		field.SetInt(intVal)

	case reflect.Float32, reflect.Float64:
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
		field.SetFloat(floatVal)

	case reflect.Slice:
		// Comma-separated string lists, e.g. ATA_REPORTS_FORMATS=json,html.
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type())
		}
		parts := strings.Split(value, ",")
		for i, part := range parts {
			parts[i] = strings.TrimSpace(part)
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}
	return nil
}

// WriteExample marshals config to configPath in the format implied by
// its extension.
func (l *Loader) WriteExample(configPath string, config interface{}) error {
	var data []byte
	var err error

	switch ext := strings.ToLower(filepath.Ext(configPath)); ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ValidateConfigPath checks that configPath, when set, points at an
// existing file in a supported format.
func ValidateConfigPath(configPath string) error {
	if configPath == "" {
		return nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	switch ext := strings.ToLower(filepath.Ext(configPath)); ext {
	case ".yaml", ".yml", ".json":
		return nil
	default:
		return fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml, .json)", ext)
	}
}
