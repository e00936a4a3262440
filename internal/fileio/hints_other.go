//go:build !linux

package fileio

// NewOSHinter возвращает NopHinter: на этой платформе рекомендации не поддерживаются.
func NewOSHinter() Hinter { return NopHinter{} }
