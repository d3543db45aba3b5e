// Package migrations содержит SQL миграции хранилища сессий бота
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
