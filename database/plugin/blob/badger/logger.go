// Copyright 2025 Blink Labs Software
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

package badger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// BadgerLogger adapts badger's logging interface onto slog
type BadgerLogger struct {
	logger *slog.Logger
}

func NewBadgerLogger(logger *slog.Logger) *BadgerLogger {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &BadgerLogger{
		logger: logger.With("component", "blob"),
	}
}

func (b *BadgerLogger) Errorf(format string, args ...any) {
	b.logger.Error(trimNewline(format, args...))
}

func (b *BadgerLogger) Warningf(format string, args ...any) {
	b.logger.Warn(trimNewline(format, args...))
}

func (b *BadgerLogger) Infof(format string, args ...any) {
	b.logger.Info(trimNewline(format, args...))
}

func (b *BadgerLogger) Debugf(format string, args ...any) {
	b.logger.Debug(trimNewline(format, args...))
}

// badger terminates its log lines; slog does not want that
func trimNewline(format string, args ...any) string {
	return strings.TrimSuffix(fmt.Sprintf(format, args...), "\n")
}
