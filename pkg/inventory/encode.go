package inventory

import (
	"fmt"
	"io"
	"strings"

	"github.com/docker/go-units"
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ardnew/softdrv/pkg"
)

// Format is an inventory output format.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatYAML, FormatCBOR}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Wrapf(pkg.ErrInvalidParam, "unknown inventory format %q", s)
}

// Encode writes inv to w in the given format.
func Encode(w io.Writer, inv Inventory, format Format) error {
	switch format {
	case FormatText:
		return encodeText(w, inv)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(inv); err != nil {
			return errors.Wrap(err, "encode yaml inventory")
		}
		return errors.Wrap(enc.Close(), "encode yaml inventory")
	case FormatCBOR:
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return errors.Wrap(err, "cbor encoder")
		}
		if err := em.NewEncoder(w).Encode(inv); err != nil {
			return errors.Wrap(err, "encode cbor inventory")
		}
		return nil
	default:
		return errors.Wrapf(pkg.ErrInvalidParam, "unknown inventory format %q", format)
	}
}

// Decode reads a CBOR inventory from r.
func Decode(r io.Reader) (Inventory, error) {
	var inv Inventory
	if err := cbor.NewDecoder(r).Decode(&inv); err != nil {
		return inv, errors.Wrap(err, "decode cbor inventory")
	}
	return inv, nil
}

func encodeText(w io.Writer, inv Inventory) error {
	var b strings.Builder
	fmt.Fprintf(&b, "boot %s (%s model)\n", inv.BootID, inv.Model)
	for _, c := range inv.Categories {
		fmt.Fprintf(&b, "%s: %d\n", c.Type, len(c.Devices))
		for _, e := range c.Devices {
			fmt.Fprintf(&b, "  %d %s", e.Index, e.Name)
			switch {
			case e.Net != nil:
				fmt.Fprintf(&b, " mac=%s queues=%d/%d", e.Net.MAC, e.Net.RxQueue, e.Net.TxQueue)
			case e.Block != nil:
				fmt.Fprintf(&b, " size=%s blocks=%d block-size=%d",
					units.BytesSize(float64(e.Block.Capacity())), e.Block.Blocks, e.Block.BlockSize)
			case e.Display != nil:
				fmt.Fprintf(&b, " %dx%d stride=%d size=%s",
					e.Display.Width, e.Display.Height, e.Display.Stride,
					units.BytesSize(float64(e.Display.Size)))
			}
			b.WriteByte('\n')
		}
	}
	for _, f := range inv.Failures {
		fmt.Fprintf(&b, "failed: %s\n", f)
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write text inventory")
}
