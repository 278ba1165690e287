package tally

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/net/html/charset"

	"github.com/mamadbah2/stocksync/internal/domain/models"
)

const (
	// runningStockName labels the subtotal header row of the Stock Summary report.
	runningStockName = "Running Stock"
	unknownItemName  = "Unknown Item"
)

// ErrNoStockSequences is the cause reported when the envelope lacks names or stock blocks.
var ErrNoStockSequences = errors.New("stock summary has no correlated name and stock sequences")

var (
	quantityPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(\p{L}[\p{L}\p{N}]*)?`)
	leadingNumber   = regexp.MustCompile(`^\s*([-+]?\d+(?:\.\d+)?)`)
	charReference   = regexp.MustCompile(`&#(?:x([0-9A-Fa-f]+)|([0-9]+));`)
)

// ParseResult is the outcome of reading a Stock Summary export.
//
// NoData is set when the body could not be understood at all. A readable report
// whose rows were all filtered out has NoData unset and no Items.
type ParseResult struct {
	Items  []models.StockItem
	Rows   int
	NoData bool
	Cause  error
}

// stockSummaryEnvelope mirrors the exported report. The display names and stock
// blocks are sibling sequences correlated only by position. Slices absorb both
// the singleton and the repeated shape of each element.
type stockSummaryEnvelope struct {
	XMLName    xml.Name      `xml:"ENVELOPE"`
	Names      []accountName `xml:"DSPACCNAME"`
	StockInfos []stockInfo   `xml:"DSPSTKINFO"`
}

type accountName struct {
	DisplayName string `xml:"DSPDISPNAME"`
}

type stockInfo struct {
	Closing *closingBalance `xml:"DSPSTKCL"`
}

type closingBalance struct {
	Quantity *string `xml:"DSPCLQTY"`
	Rate     *string `xml:"DSPCLRATE"`
	Amount   *string `xml:"DSPCLAMTA"`
}

// ParseStockSummary converts a raw Stock Summary export into stock items stamped with now.
// It never fails: structural problems are reported through ParseResult.NoData.
func ParseStockSummary(body []byte, now time.Time) ParseResult {
	var envelope stockSummaryEnvelope

	decoder := xml.NewDecoder(bytes.NewReader(stripIllegalChars(body)))
	decoder.CharsetReader = charset.NewReaderLabel
	if err := decoder.Decode(&envelope); err != nil {
		return ParseResult{NoData: true, Cause: fmt.Errorf("decode stock summary: %w", err)}
	}

	if len(envelope.Names) == 0 || len(envelope.StockInfos) == 0 {
		return ParseResult{NoData: true, Cause: ErrNoStockSequences}
	}

	rows := min(len(envelope.Names), len(envelope.StockInfos))
	items := make([]models.StockItem, 0, rows)

	for i := 0; i < rows; i++ {
		name := envelope.Names[i].DisplayName
		closing := envelope.StockInfos[i].Closing

		if closing == nil || name == runningStockName {
			continue
		}
		if strings.TrimSpace(name) == "" {
			name = unknownItemName
		}

		quantity, unit := parseQuantity(closing.Quantity)
		ratePresent := closing.Rate != nil && strings.TrimSpace(*closing.Rate) != ""

		if quantity <= 0 && !ratePresent {
			continue
		}

		items = append(items, models.StockItem{
			Name:        name,
			Quantity:    quantity,
			Unit:        unit,
			Rate:        parseNumber(closing.Rate),
			Amount:      parseNumber(closing.Amount),
			LastUpdated: now,
		})
	}

	return ParseResult{Items: items, Rows: rows}
}

// parseQuantity reads fields shaped like "10 pcs" or "5".
func parseQuantity(field *string) (float64, string) {
	if field == nil {
		return 0, models.DefaultUnit
	}

	match := quantityPattern.FindStringSubmatch(*field)
	if match == nil {
		return 0, models.DefaultUnit
	}

	quantity, err := decimal.NewFromString(match[1])
	if err != nil {
		return 0, models.DefaultUnit
	}

	unit := match[2]
	if unit == "" {
		unit = models.DefaultUnit
	}

	return quantity.InexactFloat64(), unit
}

// parseNumber reads the leading decimal of a field, tolerating trailing text such as "50.00/Nos".
func parseNumber(field *string) float64 {
	if field == nil {
		return 0
	}

	match := leadingNumber.FindStringSubmatch(*field)
	if match == nil {
		return 0
	}

	value, err := decimal.NewFromString(strings.TrimPrefix(match[1], "+"))
	if err != nil {
		return 0
	}
	return value.InexactFloat64()
}

// stripIllegalChars removes control characters, raw or as character references,
// that XML 1.0 forbids. Exported names such as "&#4; Not Applicable" carry them.
func stripIllegalChars(body []byte) []byte {
	clean := make([]byte, 0, len(body))
	for _, b := range body {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			continue
		}
		clean = append(clean, b)
	}

	return charReference.ReplaceAllFunc(clean, func(ref []byte) []byte {
		match := charReference.FindSubmatch(ref)

		var (
			code uint64
			err  error
		)
		if len(match[1]) > 0 {
			code, err = strconv.ParseUint(string(match[1]), 16, 32)
		} else {
			code, err = strconv.ParseUint(string(match[2]), 10, 32)
		}
		if err != nil || !isXMLChar(rune(code)) {
			return nil
		}
		return ref
	})
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
