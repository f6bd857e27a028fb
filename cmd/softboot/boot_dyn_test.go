//go:build dyn

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoot_SecondDisk(t *testing.T) {
	tree := writeFile(t, "board.yaml", `
nodes:
  - name: ramdisk@1
    compatible: ["softdrv,ramdisk"]
    properties: {size: 64KiB}
`)

	stdout, _, err := runApp(t, "--devtree", tree, "--selftest")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Block: 2\n")
	assert.Contains(t, stdout, "  1 ramdisk size=64KiB")
}
