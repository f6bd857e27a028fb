// Package inventory records which devices were found at boot.
//
// [Take] snapshots the containers of an initialized aggregate and [Encode]
// writes the snapshot as text, YAML or CBOR:
//
//	inv := inventory.Take(all)
//	inventory.Encode(os.Stdout, inv, inventory.FormatYAML)
//
// Each snapshot carries a random boot ID so inventories from several boots
// can be told apart.
package inventory
