/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/mikeb26/leaguetable/ingest"
	"github.com/mikeb26/leaguetable/internal"
	"github.com/mikeb26/leaguetable/match"
	"github.com/mikeb26/leaguetable/report"
	"github.com/mikeb26/leaguetable/standings"
)

const (
	Name      = "leaguetable"
	EnvPrefix = "LEAGUETABLE"
)

type Config struct {
	Scoring Scoring  `mapstructure:"scoring"`
	Input   Input    `mapstructure:"input"`
	Report  Report   `mapstructure:"report"`
	Sources []string `mapstructure:"sources"`
	Cache   Cache    `mapstructure:"cache"`
	Publish Publish  `mapstructure:"publish"`
	Discord Discord  `mapstructure:"discord"`
	Log     Log      `mapstructure:"log"`
}

type Scoring struct {
	// TieBreakKey is "fixed" or "role"; see match.TieBreakKey.
	TieBreakKey string `mapstructure:"tiebreak_key"`
}

type Input struct {
	SkipHeader      bool   `mapstructure:"skip_header"`
	MinFields       int    `mapstructure:"min_fields"`
	StatusField     int    `mapstructure:"status_field"`
	ConcludedStatus string `mapstructure:"concluded_status"`
	DateField       int    `mapstructure:"date_field"`
	Since           string `mapstructure:"since"`
	Until           string `mapstructure:"until"`
	HTMLSelector    string `mapstructure:"html_selector"`
}

type Report struct {
	Title         string            `mapstructure:"title"`
	SheetName     string            `mapstructure:"sheet_name"`
	Footer        []string          `mapstructure:"footer"`
	MatchesPlayed bool              `mapstructure:"matches_played"`
	Groups        []standings.Group `mapstructure:"groups"`
}

type Cache struct {
	Bucket string        `mapstructure:"bucket"`
	Prefix string        `mapstructure:"prefix"`
	MaxAge time.Duration `mapstructure:"max_age"`
	Gzip   bool          `mapstructure:"gzip"`
}

type Publish struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

type Discord struct {
	AppID     string `mapstructure:"app_id"`
	PublicKey string `mapstructure:"public_key"`
	Token     string `mapstructure:"token"`
	CommandID string `mapstructure:"command_id"`
	Listen    string `mapstructure:"listen"`

	// AllowedHosts lists extra hosts chat users may name as a source, on
	// top of the hosts of the configured sources.
	AllowedHosts []string `mapstructure:"allowed_hosts"`
}

type Log struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

func defaults() map[string]any {
	return map[string]any{
		"scoring.tiebreak_key":   match.TieBreakFixed.String(),
		"input.skip_header":      true,
		"input.min_fields":       match.MinFields,
		"input.status_field":     match.FieldStatus,
		"input.concluded_status": "Finished",
		"input.date_field":       0,
		"input.since":            "",
		"input.until":            "",
		"input.html_selector":    ingest.DefaultHTMLSelector,
		"report.title":           report.DefaultTitle,
		"report.sheet_name":      report.DefaultSheetName,
		"report.footer":          report.DefaultFooter,
		"report.matches_played":  false,
		"report.groups":          []any{},
		"sources":                []string{},
		"cache.bucket":           "",
		"cache.prefix":           Name,
		"cache.max_age":          internal.DefaultCacheMaxAge,
		"cache.gzip":             true,
		"publish.bucket":         "",
		"publish.prefix":         Name,
		"discord.app_id":         "",
		"discord.public_key":     "",
		"discord.token":          "",
		"discord.command_id":     "",
		"discord.listen":         ":8080",
		"discord.allowed_hosts":  []string{},
		"log.level":              "info",
		"log.json":               false,
	}
}

// Read loads the configuration from cfgFile, or when cfgFile is empty from a
// "leaguetable" config file in $HOME or the working directory. A missing
// file is only an error when cfgFile was named explicitly. Every key can be
// overridden from the environment, e.g. LEAGUETABLE_CACHE_BUCKET.
func Read(cfgFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(Name)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("invalid config file format: %w", err)
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *Config) validate() error {
	if _, err := match.ParseTieBreakKey(c.Scoring.TieBreakKey); err != nil {
		return fmt.Errorf("invalid scoring.tiebreak_key: %w", err)
	}
	if c.Input.MinFields != 0 && c.Input.MinFields < match.MinFields {
		return fmt.Errorf("input.min_fields must be at least %v; got %v",
			match.MinFields, c.Input.MinFields)
	}
	if c.Input.StatusField < 0 || c.Input.DateField < 0 {
		return fmt.Errorf("input field indices must not be negative")
	}
	if _, _, err := c.window(); err != nil {
		return err
	}
	for idx, g := range c.Report.Groups {
		if g.Name == "" {
			return fmt.Errorf("report.groups[%v] has no name", idx)
		}
	}

	return nil
}

func (c *Config) window() (time.Time, time.Time, error) {
	since, err := internal.ParseDateOrZero(c.Input.Since)
	if err != nil {
		return since, since, fmt.Errorf("invalid input.since %q: %w",
			c.Input.Since, err)
	}
	until, err := internal.ParseDateOrZero(c.Input.Until)
	if err != nil {
		return since, until, fmt.Errorf("invalid input.until %q: %w",
			c.Input.Until, err)
	}
	if !since.IsZero() && !until.IsZero() && until.Before(since) {
		return since, until, fmt.Errorf("input.until %v is before input.since %v",
			c.Input.Until, c.Input.Since)
	}

	return since, until, nil
}

// StandingsOptions converts the scoring and input settings. grouped selects
// whether the configured groups are included.
func (c *Config) StandingsOptions(grouped bool) (standings.Options, error) {
	var opts standings.Options

	key, err := match.ParseTieBreakKey(c.Scoring.TieBreakKey)
	if err != nil {
		return opts, fmt.Errorf("invalid scoring.tiebreak_key: %w", err)
	}
	since, until, err := c.window()
	if err != nil {
		return opts, err
	}

	opts.Scorer = match.Scorer{TieBreak: key}
	opts.Filter = standings.Filter{
		MinFields:       c.Input.MinFields,
		StatusField:     c.Input.StatusField,
		ConcludedStatus: strings.TrimSpace(c.Input.ConcludedStatus),
		DateField:       c.Input.DateField,
		Since:           since,
		Until:           until,
	}
	if grouped {
		opts.Groups = c.Report.Groups
	}

	return opts, nil
}

func (c *Config) Layout() report.Layout {
	return report.Layout{
		Title:             c.Report.Title,
		SheetName:         c.Report.SheetName,
		Footer:            c.Report.Footer,
		ShowMatchesPlayed: c.Report.MatchesPlayed,
	}
}

// SourceList returns the configured sources, or args when any are given.
func (c *Config) SourceList(args []string) []ingest.Source {
	locs := args
	if len(locs) == 0 {
		locs = c.Sources
	}

	ret := make([]ingest.Source, 0, len(locs))
	for _, loc := range locs {
		if strings.TrimSpace(loc) == "" {
			continue
		}
		ret = append(ret, ingest.ParseSource(loc))
	}

	return ret
}

func (c *Config) CacheOptions() internal.CacheOptions {
	return internal.CacheOptions{
		Bucket: c.Cache.Bucket,
		Prefix: c.Cache.Prefix,
		Gzip:   c.Cache.Gzip,
		MaxAge: c.Cache.MaxAge,
	}
}

// SourceAllowed reports whether a chat-supplied source may be fetched. Only
// http(s) URLs whose host matches a configured source or an entry in
// discord.allowed_hosts are accepted. An allowed host entry without a port
// matches any port.
func (c *Config) SourceAllowed(loc string) bool {
	u, err := url.Parse(strings.TrimSpace(loc))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") ||
		u.Hostname() == "" || u.User != nil {
		return false
	}

	for _, src := range c.Sources {
		su, err := url.Parse(strings.TrimSpace(src))
		if err != nil || su.Host == "" {
			continue
		}
		if strings.EqualFold(su.Host, u.Host) {
			return true
		}
	}
	for _, h := range c.Discord.AllowedHosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if strings.EqualFold(h, u.Host) || strings.EqualFold(h, u.Hostname()) {
			return true
		}
	}

	return false
}
