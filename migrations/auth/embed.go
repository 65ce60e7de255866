// Package auth содержит SQL-миграции схемы сервиса аутентификации.
package auth

import "embed"

// FS содержит файлы миграций, встроенные в бинарник.
//
//go:embed *.sql
var FS embed.FS
