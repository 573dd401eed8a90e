package importer

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/importer/pricebook"
	"github.com/MrJamesThe3rd/tillpoint/internal/pricing"
)

var ErrUnknownFormat = errors.New("unknown price list format")

type Service struct {
	importers map[Format]Importer
}

func NewService(logger *zap.Logger) *Service {
	auto := pricebook.NewParser(logger)

	importers := map[Format]Importer{FormatAuto: auto}

	for _, f := range []Format{FormatStandard, FormatPOSExport} {
		profile, ok := pricebook.Lookup(string(f))
		if !ok {
			panic(fmt.Sprintf("importer: no price list profile %q", f))
		}

		importers[f] = auto.WithProfile(profile)
	}

	return &Service{importers: importers}
}

func (s *Service) Import(format Format, r io.Reader) ([]pricing.UpsertParams, error) {
	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return importer.Parse(r)
}
