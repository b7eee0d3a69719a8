package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// DefaultAlias is the profile used when no alias is given.
const DefaultAlias = "default"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrFieldMissing    = errors.New("missing required field")
	ErrInvalidPort     = errors.New("invalid port")
)

// ProfileError reports an alias that is absent from the document.
type ProfileError struct {
	Alias string
	Path  string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile %q not found in %s", e.Alias, e.Path)
}

func (e *ProfileError) Is(target error) bool {
	return target == ErrProfileNotFound
}

// FieldError reports a profile field that is missing or malformed.
type FieldError struct {
	Alias string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("profile %q: field %s: %v", e.Alias, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Profile holds the connection parameters of one alias.
type Profile struct {
	Alias    string
	DBMS     string
	Host     string
	Port     int
	DBName   string
	User     string
	Password string
	Options  map[string]string
}

// Addr returns host:port.
func (p Profile) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// String renders the profile without its password.
func (p Profile) String() string {
	dbms := p.DBMS
	if dbms == "" {
		dbms = "postgresql"
	}
	return fmt.Sprintf("%s://%s@%s/%s", dbms, p.User, p.Addr(), p.DBName)
}

// rawPort accepts both `"PORT": 5432` and `"PORT": "5432"`.
type rawPort struct {
	text string
}

func (r *rawPort) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	r.text = strings.TrimSpace(s)
	return nil
}

func (r *rawPort) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v interface{}
	if err := unmarshal(&v); err != nil {
		return err
	}
	r.text = strings.TrimSpace(fmt.Sprint(v))
	return nil
}

type rawProfile struct {
	DBMS     *string           `json:"DBMS" yaml:"DBMS"`
	Host     *string           `json:"HOST" yaml:"HOST"`
	Port     *rawPort          `json:"PORT" yaml:"PORT"`
	DBName   *string           `json:"DBNAME" yaml:"DBNAME"`
	User     *string           `json:"USER" yaml:"USER"`
	Password *string           `json:"PASSWORD" yaml:"PASSWORD"`
	Options  map[string]string `json:"OPTIONS" yaml:"OPTIONS"`
}

func (r rawProfile) validate(alias string) (Profile, error) {
	var errs []error
	required := func(field string, v *string) string {
		if v == nil {
			errs = append(errs, &FieldError{Alias: alias, Field: field, Err: ErrFieldMissing})
			return ""
		}
		return *v
	}

	p := Profile{
		Alias:    alias,
		Host:     required("HOST", r.Host),
		DBName:   required("DBNAME", r.DBName),
		User:     required("USER", r.User),
		Password: required("PASSWORD", r.Password),
		Options:  r.Options,
	}
	if r.DBMS != nil {
		p.DBMS = *r.DBMS
	}

	if r.Port == nil {
		errs = append(errs, &FieldError{Alias: alias, Field: "PORT", Err: ErrFieldMissing})
	} else {
		port, err := strconv.Atoi(r.Port.text)
		if err != nil || port < 1 || port > 65535 {
			errs = append(errs, &FieldError{
				Alias: alias,
				Field: "PORT",
				Err:   fmt.Errorf("%w: %q", ErrInvalidPort, r.Port.text),
			})
		}
		p.Port = port
	}

	if len(errs) > 0 {
		return Profile{}, errors.Join(errs...)
	}
	return p, nil
}

// Document is a parsed and validated profile file.
type Document struct {
	Path     string
	profiles map[string]Profile
}

// Load reads the document at path. Files ending in .yaml or .yml are parsed
// as YAML, everything else as JSON. Every profile is validated before Load
// returns.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	raw := make(map[string]rawProfile)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	aliases := make([]string, 0, len(raw))
	for alias := range raw {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	doc := &Document{Path: path, profiles: make(map[string]Profile, len(raw))}
	var errs []error
	for _, alias := range aliases {
		p, err := raw[alias].validate(alias)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		doc.profiles[alias] = p
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid config %s: %w", path, errors.Join(errs...))
	}
	return doc, nil
}

// Lookup returns the profile for alias, or the default profile when alias is empty.
func (d *Document) Lookup(alias string) (Profile, error) {
	if alias == "" {
		alias = DefaultAlias
	}
	p, ok := d.profiles[alias]
	if !ok {
		return Profile{}, &ProfileError{Alias: alias, Path: d.Path}
	}
	return p, nil
}

// Aliases returns the profile names in sorted order.
func (d *Document) Aliases() []string {
	aliases := make([]string, 0, len(d.profiles))
	for alias := range d.profiles {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}
