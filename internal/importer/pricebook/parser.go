package pricebook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	enc "github.com/MrJamesThe3rd/tillpoint/internal/encoding"
	"github.com/MrJamesThe3rd/tillpoint/internal/pricing"
)

var (
	ErrNoProfile  = errors.New("no matching price list format")
	ErrInvalidRow = errors.New("invalid price list row")
)

// Parser reads price list CSV files into price book upserts. Without a fixed
// profile it detects the format from the header row.
type Parser struct {
	profiles []Profile
	logger   *zap.Logger
}

func NewParser(logger *zap.Logger) *Parser {
	return &Parser{profiles: profiles, logger: logger}
}

// WithProfile returns a parser that only accepts p.
func (p *Parser) WithProfile(profile Profile) *Parser {
	return &Parser{profiles: []Profile{profile}, logger: p.logger}
}

func (p *Parser) Parse(r io.Reader) ([]pricing.UpsertParams, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read price list: %w", err)
	}

	for _, profile := range p.profiles {
		rows, err := readRows(data, profile.Comma)
		if err != nil {
			continue
		}

		cols, headerIdx, ok := findHeader(profile, rows)
		if !ok {
			continue
		}

		p.logger.Debug("price list detected",
			zap.String("profile", profile.Name),
			zap.String("charset", string(charset)),
			zap.Int("rows", len(rows)-headerIdx-1),
		)

		return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrNoProfile
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps lower-cased column names to their position.
type colIndex map[string]int

func (c colIndex) lookup(name string) (int, bool) {
	i, ok := c[strings.ToLower(name)]
	return i, ok
}

func findHeader(p Profile, rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[strings.ToLower(name)] = i
			}
		}

		if matches(p, cols) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func matches(p Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols.lookup(name); !ok {
			return false
		}
	}

	return true
}

// parseRows converts data rows. headerRowNum is the 0-based header position,
// used to report 1-based file line numbers.
func parseRows(p Profile, cols colIndex, rows [][]string, headerRowNum int) ([]pricing.UpsertParams, error) {
	menuIdx, _ := cols.lookup(p.MenuCol)
	branchIdx, _ := cols.lookup(p.BranchCol)
	baseIdx, _ := cols.lookup(p.BaseCol)

	onlineIdx, hasOnline := cols.lookup(p.OnlineCol)
	if !hasOnline {
		onlineIdx = -1
	}

	var out []pricing.UpsertParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		if blank(row) {
			continue
		}

		menuID, err := parseID(cellValue(row, menuIdx))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: menu: %w", ErrInvalidRow, rowNum, err)
		}

		branchID, err := parseID(cellValue(row, branchIdx))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: branch: %w", ErrInvalidRow, rowNum, err)
		}

		base, err := parseAmount(cellValue(row, baseIdx))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: base price: %w", ErrInvalidRow, rowNum, err)
		}

		online := base
		if s := cellValue(row, onlineIdx); s != "" {
			if online, err = parseAmount(s); err != nil {
				return nil, fmt.Errorf("%w: row %d: online price: %w", ErrInvalidRow, rowNum, err)
			}
		}

		out = append(out, pricing.UpsertParams{
			MenuID:      menuID,
			BranchID:    branchID,
			BasePrice:   base,
			OnlinePrice: online,
		})
	}

	return out, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an id", s)
	}

	if id <= 0 {
		return 0, fmt.Errorf("%q is not a positive id", s)
	}

	return id, nil
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
