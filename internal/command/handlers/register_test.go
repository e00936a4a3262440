package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kargones/mediaio/internal/command"
	"github.com/Kargones/mediaio/internal/constants"
)

func TestRegisterAll(t *testing.T) {
	command.Reset()
	t.Cleanup(command.Reset)

	RegisterAll()

	assert.ElementsMatch(t, []string{
		constants.ActCopy,
		constants.ActScrub,
		constants.ActDiskUsage,
		constants.ActStorageStatus,
		constants.ActVersion,
		constants.ActHelp,
	}, command.Names())
}

func TestRegisterAll_Twice(t *testing.T) {
	command.Reset()
	t.Cleanup(command.Reset)

	RegisterAll()
	assert.Panics(t, RegisterAll)
}
