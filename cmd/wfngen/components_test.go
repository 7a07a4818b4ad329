package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Components_ListsAllKinds(t *testing.T) {
	componentsKind = ""
	var out bytes.Buffer
	componentsCmd.SetOut(&out)
	t.Cleanup(func() { componentsCmd.SetOut(nil) })

	require.NoError(t, runComponentsAction(componentsCmd))

	listing := out.String()
	assert.Contains(t, listing, "wavefunction")
	assert.Contains(t, listing, "fci")
	assert.Contains(t, listing, "chemical")
	assert.Contains(t, listing, "diag")
	assert.Less(t, strings.Index(listing, "ap1rog"), strings.Index(listing, "fci"),
		"names are listed sorted within a kind")
}

func Test_Components_KindFilter(t *testing.T) {
	componentsKind = "h"
	t.Cleanup(func() { componentsKind = "" })
	var out bytes.Buffer
	componentsCmd.SetOut(&out)
	t.Cleanup(func() { componentsCmd.SetOut(nil) })

	require.NoError(t, runComponentsAction(componentsCmd))

	listing := out.String()
	assert.Contains(t, listing, "sen0")
	assert.NotContains(t, listing, "fci")
}

func Test_Components_BadKind(t *testing.T) {
	componentsKind = "basis"
	t.Cleanup(func() { componentsKind = "" })

	assert.Error(t, runComponentsAction(componentsCmd))
}
