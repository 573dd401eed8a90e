// Package importer turns uploaded price list files into price book entries.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/tillpoint/internal/pricing"
)

type Format string

const (
	// FormatAuto detects the layout from the header row.
	FormatAuto      Format = ""
	FormatStandard  Format = "standard"
	FormatPOSExport Format = "pos-export"
)

type Importer interface {
	Parse(r io.Reader) ([]pricing.UpsertParams, error)
}
