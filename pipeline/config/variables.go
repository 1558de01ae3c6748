/*
DESCRIPTION
  variables.go lists, per Config field that the control plane may update
  or that needs a default, a Name, an Update function parsing a string
  into the field, and a Validate function defaulting or rejecting the
  field's current value. This is the same table-driven shape as
  revid/config/variables.go's Variables slice.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)
*/

package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config map keys.
const (
	KeyWidth                 = "Width"
	KeyHeight                = "Height"
	KeyFrameRateNum          = "FrameRateNum"
	KeyFrameRateDen          = "FrameRateDen"
	KeyAheadOfTime           = "AheadOfTime"
	KeyNeverDropOutput       = "NeverDropOutput"
	KeyDefaultBufferDuration = "DefaultBufferDuration"
	KeyOutputPath            = "OutputPath"
	KeyMaxFileSize           = "MaxFileSize"
	KeyHTTPAddress           = "HTTPAddress"
	KeyPoolCapacity          = "PoolCapacity"
	KeyPoolStartElementSize  = "PoolStartElementSize"
	KeyPoolWriteTimeout      = "PoolWriteTimeout"
	KeyScenePath             = "ScenePath"
	KeyLogFile               = "LogFile"
)

// Defaults, used by Validate when a field is left at its zero value.
const (
	defaultWidth                = 1920
	defaultHeight               = 1080
	defaultFrameRateNum         = 30
	defaultFrameRateDen         = 1
	defaultPoolCapacity         = 1024 * 1024
	defaultPoolStartElementSize = 4096
	defaultPoolWriteTimeout     = 5
)

// Variables lists the fields of Config that the control plane may update
// by name, and/or that Validate defaults or checks.
var Variables = []struct {
	Name     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyWidth,
		Update: func(c *Config, v string) { c.Width = parseUint(KeyWidth, v, c) },
		Validate: func(c *Config) {
			if c.Width == 0 {
				c.LogInvalidField(KeyWidth, defaultWidth)
				c.Width = defaultWidth
			}
		},
	},
	{
		Name:   KeyHeight,
		Update: func(c *Config, v string) { c.Height = parseUint(KeyHeight, v, c) },
		Validate: func(c *Config) {
			if c.Height == 0 {
				c.LogInvalidField(KeyHeight, defaultHeight)
				c.Height = defaultHeight
			}
		},
	},
	{
		Name:   KeyFrameRateNum,
		Update: func(c *Config, v string) { c.FrameRateNum = parseUint(KeyFrameRateNum, v, c) },
		Validate: func(c *Config) {
			if c.FrameRateNum == 0 {
				c.LogInvalidField(KeyFrameRateNum, defaultFrameRateNum)
				c.FrameRateNum = defaultFrameRateNum
			}
		},
	},
	{
		Name:   KeyFrameRateDen,
		Update: func(c *Config, v string) { c.FrameRateDen = parseUint(KeyFrameRateDen, v, c) },
		Validate: func(c *Config) {
			if c.FrameRateDen == 0 {
				c.LogInvalidField(KeyFrameRateDen, defaultFrameRateDen)
				c.FrameRateDen = defaultFrameRateDen
			}
		},
	},
	{
		Name:   KeyAheadOfTime,
		Update: func(c *Config, v string) { c.AheadOfTime = parseBool(KeyAheadOfTime, v, c) },
	},
	{
		Name:   KeyNeverDropOutput,
		Update: func(c *Config, v string) { c.NeverDropOutput = parseBool(KeyNeverDropOutput, v, c) },
	},
	{
		Name: KeyDefaultBufferDuration,
		Update: func(c *Config, v string) {
			ms := parseUint(KeyDefaultBufferDuration, v, c)
			c.DefaultBufferDuration = time.Duration(ms) * time.Millisecond
		},
	},
	{
		Name:   KeyOutputPath,
		Update: func(c *Config, v string) { c.OutputPath = v },
	},
	{
		Name:   KeyMaxFileSize,
		Update: func(c *Config, v string) { c.MaxFileSize = parseUint(KeyMaxFileSize, v, c) },
	},
	{
		Name:   KeyHTTPAddress,
		Update: func(c *Config, v string) { c.HTTPAddress = v },
	},
	{
		Name:   KeyPoolCapacity,
		Update: func(c *Config, v string) { c.PoolCapacity = parseUint(KeyPoolCapacity, v, c) },
		Validate: func(c *Config) {
			if c.PoolCapacity == 0 {
				c.LogInvalidField(KeyPoolCapacity, defaultPoolCapacity)
				c.PoolCapacity = defaultPoolCapacity
			}
		},
	},
	{
		Name:   KeyPoolStartElementSize,
		Update: func(c *Config, v string) { c.PoolStartElementSize = parseUint(KeyPoolStartElementSize, v, c) },
		Validate: func(c *Config) {
			if c.PoolStartElementSize == 0 {
				c.LogInvalidField(KeyPoolStartElementSize, defaultPoolStartElementSize)
				c.PoolStartElementSize = defaultPoolStartElementSize
			}
		},
	},
	{
		Name:   KeyPoolWriteTimeout,
		Update: func(c *Config, v string) { c.PoolWriteTimeout = parseUint(KeyPoolWriteTimeout, v, c) },
		Validate: func(c *Config) {
			if c.PoolWriteTimeout == 0 {
				c.LogInvalidField(KeyPoolWriteTimeout, defaultPoolWriteTimeout)
				c.PoolWriteTimeout = defaultPoolWriteTimeout
			}
		},
	},
	{
		Name:   KeyScenePath,
		Update: func(c *Config, v string) { c.ScenePath = v },
	},
	{
		Name:   KeyLogFile,
		Update: func(c *Config, v string) { c.LogFile = v },
	},
}

func parseUint(name, v string, c *Config) uint {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", name), "value", v)
	}
	return uint(n)
}

func parseBool(name, v string, c *Config) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected bool for param %s", name), "value", v)
	}
	return b
}
