// Package crosslog parses packing-solution files in the Crosslog format.
//
// The format is strictly sectioned and line-oriented: an order header,
// followed by one block per pallet containing the pallet header, a
// volume-metrics line, the item quantity and the box records. Any single
// malformed line aborts the whole load; partial data would silently
// corrupt the metrics computed from it later.
package crosslog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/loadsight/pallet-analysis/internal/domain/model"
)

// Section markers, in the order they appear in a file.
const (
	markerOrderID        = "[order_id]"
	markerPalletQuantity = "[pallet_quantity]"
	markerPalletHeader   = "[pallet_id  x  y  z  weight  total_load]"
	markerVolumeMetrics  = "[total_volume  total_occupied_volume  m1  m2]"
	markerItemQuantity   = "[item_quantity]"
)

// Box record field count: six bounds, sequence, item type, weight,
// secondary factor, irregular flag.
const boxFieldCount = 11

// FormatError describes a structural violation of the Crosslog schema.
// Line is 1-based and refers to the offending input line.
type FormatError struct {
	Line     int
	Expected string
	Found    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("crosslog: line %d: expected %s, found %q", e.Line, e.Expected, e.Found)
}

// Parser converts Crosslog text into an Order. The zero value is not
// usable; construct with NewParser.
type Parser struct {
	scanner *bufio.Scanner
	line    int
}

// NewParser returns a Parser reading from r.
func NewParser(r io.Reader) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Parser{scanner: sc}
}

// Parse reads the whole file in a single pass and returns the validated
// order model with its deterministic color table already assigned.
// On the first structural violation it returns a *FormatError and no model.
func Parse(r io.Reader) (*model.Order, error) {
	return NewParser(r).Parse()
}

// Parse runs the parser. It may be called once per Parser.
func (p *Parser) Parse() (*model.Order, error) {
	orderID, err := p.intSection(markerOrderID)
	if err != nil {
		return nil, err
	}

	palletQuantity, err := p.intSection(markerPalletQuantity)
	if err != nil {
		return nil, err
	}
	if palletQuantity <= 0 {
		return nil, &FormatError{Line: p.line, Expected: "positive pallet_quantity", Found: strconv.Itoa(palletQuantity)}
	}

	order := &model.Order{
		ID:          orderID,
		PalletCount: palletQuantity,
		Pallets:     make([]model.Pallet, 0, palletQuantity),
	}

	for i := 0; i < palletQuantity; i++ {
		pallet, err := p.parsePallet()
		if err != nil {
			return nil, err
		}
		order.Pallets = append(order.Pallets, *pallet)
	}

	// The declared pallet quantity must account for every section in the file.
	if line, ok := p.next(); ok {
		return nil, &FormatError{Line: p.line, Expected: "end of file", Found: line}
	}

	order.AssignColors()
	return order, nil
}

// parsePallet consumes one complete pallet block.
func (p *Parser) parsePallet() (*model.Pallet, error) {
	if err := p.expectMarker(markerPalletHeader, "pallet_id"); err != nil {
		return nil, err
	}
	header, err := p.floatFields(markerPalletHeader, 6)
	if err != nil {
		return nil, err
	}

	pallet := &model.Pallet{
		ID:        int(header[0]),
		LengthMM:  header[1],
		WidthMM:   header[2],
		HeightMM:  header[3],
		Weight:    header[4],
		TotalLoad: header[5],
	}

	if err := p.expectMarker(markerVolumeMetrics, "total_volume"); err != nil {
		return nil, err
	}
	volume, err := p.floatFields(markerVolumeMetrics, 4)
	if err != nil {
		return nil, err
	}
	pallet.Volume = model.VolumeMetrics{
		TotalVolume:    volume[0],
		OccupiedVolume: volume[1],
		Efficiency1:    volume[2],
		Efficiency2:    volume[3],
	}

	itemQuantity, err := p.intSection(markerItemQuantity)
	if err != nil {
		return nil, err
	}
	if itemQuantity < 0 {
		return nil, &FormatError{Line: p.line, Expected: "non-negative item_quantity", Found: strconv.Itoa(itemQuantity)}
	}

	pallet.Boxes = make([]model.Box, 0, itemQuantity)
	seqs := make(map[int]struct{}, itemQuantity)
	for j := 0; j < itemQuantity; j++ {
		line, ok := p.next()
		if !ok {
			return nil, &FormatError{Line: p.line + 1, Expected: "box record", Found: "end of file"}
		}
		// A descriptive column-header line may precede the first record.
		if j == 0 && strings.Contains(line, "xmin") && strings.Contains(line, "sequence") {
			line, ok = p.next()
			if !ok {
				return nil, &FormatError{Line: p.line + 1, Expected: "box record", Found: "end of file"}
			}
		}

		box, err := p.parseBox(line, pallet)
		if err != nil {
			return nil, err
		}
		if _, dup := seqs[box.Sequence]; dup {
			return nil, &FormatError{Line: p.line, Expected: "unique sequence", Found: strconv.Itoa(box.Sequence)}
		}
		seqs[box.Sequence] = struct{}{}
		pallet.Boxes = append(pallet.Boxes, *box)
	}

	return pallet, nil
}

// parseBox converts one tab-separated box record line. Coordinates are
// recentred so the derived position is relative to the pallet's geometric
// center rather than the file's origin corner, and converted from
// millimeters to engine units. The file's vertical axis is its third
// coordinate; the engine keeps X and Z horizontal with Y up.
func (p *Parser) parseBox(line string, pallet *model.Pallet) (*model.Box, error) {
	fields := strings.Fields(line)
	if len(fields) != boxFieldCount {
		return nil, &FormatError{
			Line:     p.line,
			Expected: fmt.Sprintf("%d box fields", boxFieldCount),
			Found:    line,
		}
	}

	values := make([]float64, boxFieldCount)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, &FormatError{Line: p.line, Expected: "numeric box field", Found: f}
		}
		values[i] = v
	}

	xmin, ymin, zmin := values[0], values[1], values[2]
	xmax, ymax, zmax := values[3], values[4], values[5]

	sequence := int(values[6])
	if sequence < 0 {
		return nil, &FormatError{Line: p.line, Expected: "non-negative sequence", Found: fields[6]}
	}

	const u = model.UnitMillimeters
	return &model.Box{
		Position: model.Vec3{
			X: ((xmin+xmax)/2 - pallet.LengthMM/2) / u,
			Y: (zmin + zmax) / 2 / u,
			Z: ((ymin+ymax)/2 - pallet.WidthMM/2) / u,
		},
		Dimensions: model.Vec3{
			X: (xmax - xmin) / u,
			Y: (zmax - zmin) / u,
			Z: (ymax - ymin) / u,
		},
		Sequence:    sequence,
		ItemType:    int(values[7]),
		WeightGrams: values[8],
		Factor:      values[9],
		Irregular:   values[10] != 0,
	}, nil
}

// intSection consumes a section marker line and the single integer line
// that follows it.
func (p *Parser) intSection(marker string) (int, error) {
	token := strings.Trim(strings.Fields(marker)[0], "[]")
	if err := p.expectMarker(marker, token); err != nil {
		return 0, err
	}
	line, ok := p.next()
	if !ok {
		return 0, &FormatError{Line: p.line + 1, Expected: token + " value", Found: "end of file"}
	}
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, &FormatError{Line: p.line, Expected: token + " integer", Found: line}
	}
	return v, nil
}

// floatFields consumes one line and parses exactly n whitespace-separated
// numeric fields from it.
func (p *Parser) floatFields(marker string, n int) ([]float64, error) {
	line, ok := p.next()
	if !ok {
		return nil, &FormatError{Line: p.line + 1, Expected: marker + " values", Found: "end of file"}
	}
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, &FormatError{
			Line:     p.line,
			Expected: fmt.Sprintf("%d fields for %s", n, marker),
			Found:    line,
		}
	}
	values := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, &FormatError{Line: p.line, Expected: "numeric field", Found: f}
		}
		values[i] = v
	}
	return values, nil
}

// expectMarker consumes the next line and verifies it is the given section
// marker. Matching is by the marker's leading token so spacing inside the
// brackets does not matter.
func (p *Parser) expectMarker(marker, token string) error {
	line, ok := p.next()
	if !ok {
		return &FormatError{Line: p.line + 1, Expected: marker, Found: "end of file"}
	}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") || !strings.Contains(trimmed, token) {
		return &FormatError{Line: p.line, Expected: marker, Found: line}
	}
	return nil
}

// next returns the next non-blank line, tracking 1-based line numbers.
func (p *Parser) next() (string, bool) {
	for p.scanner.Scan() {
		p.line++
		line := p.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		return line, true
	}
	return "", false
}
