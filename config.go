//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yamlschema

import "fmt"

// LogLevel is the minimum severity a Config's LogSink receives.
type LogLevel int

const (
	LogError LogLevel = iota
	LogInfo
	LogDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "ERROR"
	case LogInfo:
		return "INFO"
	case LogDebug:
		return "DEBUG"
	}
	return "UNKNOWN"
}

// Config is the recognized options set an entry point accepts. The zero
// value is valid: it silences logging and uses the default heap allocator.
type Config struct {
	// LogSink receives one message per call at or above LogLevel. A nil
	// sink silences logging entirely.
	LogSink func(level LogLevel, msg string)

	// LogLevel is the minimum severity forwarded to LogSink.
	LogLevel LogLevel

	// Allocator overrides the memory backing for the output tree. Most
	// callers leave this nil and get the default heap allocator.
	Allocator Allocator
}

func (c *Config) logf(level LogLevel, format string, args ...interface{}) {
	if c == nil || c.LogSink == nil || level > c.LogLevel {
		return
	}
	c.LogSink(level, fmt.Sprintf(format, args...))
}

func (c *Config) allocator() Allocator {
	if c != nil && c.Allocator != nil {
		return c.Allocator
	}
	return newHeapAllocator()
}
