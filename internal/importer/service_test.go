package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/tillpoint/internal/importer"
	"github.com/MrJamesThe3rd/tillpoint/internal/importer/pricebook"
)

func TestService_Import(t *testing.T) {
	standard := "menu_id;branch_id;base_price;online_price\n1;1;20000;22000\n"
	posExport := "Menu ID,Branch ID,Price,Online Price\n1,1,20000,22000\n"

	type testCase struct {
		name    string
		format  importer.Format
		input   string
		wantLen int
		wantErr error
	}

	tests := []testCase{
		{name: "AutoStandard", format: importer.FormatAuto, input: standard, wantLen: 1},
		{name: "AutoPOSExport", format: importer.FormatAuto, input: posExport, wantLen: 1},
		{name: "ForcedStandard", format: importer.FormatStandard, input: standard, wantLen: 1},
		{name: "ForcedMismatch", format: importer.FormatStandard, input: posExport, wantErr: pricebook.ErrNoProfile},
		{name: "UnknownFormat", format: "xlsx", input: standard, wantErr: importer.ErrUnknownFormat},
	}

	svc := importer.NewService(zap.NewNop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Import(tt.format, strings.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}
