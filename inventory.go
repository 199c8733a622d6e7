// Grib index (inventory) parsing.
//
// Two index dialects exist in the wild. NCEP models publish wgrib2 "short"
// inventories: one colon-delimited line per GRIB message giving its message
// number and start byte. ECMWF open data publishes ecCodes indexes: one
// JSON object per line carrying an explicit _offset and _length.

package awhina

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// An InventoryItem describes one GRIB message within the remote file: where
// its bytes live and which variable, level and forecast time it holds.
type InventoryItem struct {
	// MessageNumber is float-valued because some producers (RAP) emit
	// fractional message numbers for multi-field messages.
	MessageNumber float64
	StartByte     int64
	// EndByte is the start byte of the following message, or -1 for the
	// final message whose range runs to end of file.
	EndByte       int64
	ReferenceTime time.Time
	ValidTime     time.Time
	Variable      string
	Level         string
	ForecastTime  string // forecast-time descriptor, e.g. "anl" or "6 hour fcst"
}

// Range formats the byte range the way the index file itself would:
// exclusive end byte, empty for the open-ended final message.
func (item *InventoryItem) Range() string {
	if item.EndByte < 0 {
		return fmt.Sprintf("%d-", item.StartByte)
	}
	return fmt.Sprintf("%d-%d", item.StartByte, item.EndByte)
}

// RangeHeader formats the range for an HTTP Range header, whose end offset
// is inclusive.
func (item *InventoryItem) RangeHeader() string {
	if item.EndByte < 0 {
		return fmt.Sprintf("%d-", item.StartByte)
	}
	return fmt.Sprintf("%d-%d", item.StartByte, item.EndByte-1)
}

// searchKey is what Filter patterns match against.
func (item *InventoryItem) searchKey() string {
	return item.Variable + ":" + item.Level + ":" + item.ForecastTime
}

// An Inventory is the parsed index of one remote grib file, with provenance
// describing where it came from. The provenance is descriptive only; it
// plays no part in filtering.
type Inventory struct {
	Items []*InventoryItem

	Source       string
	Model        string
	Product      string
	ForecastHour int
	RunDate      time.Time
}

// ParseIndex parses raw index text in the given style. The forecast lead is
// needed to derive each message's valid time.
func ParseIndex(text string, style IndexStyle, forecastHour int) (*Inventory, error) {
	switch style {
	case IndexEccodes:
		return parseEccodesIndex(text, forecastHour)
	default:
		return parseWgrib2Index(text, forecastHour)
	}
}

// parseWgrib2Index parses a wgrib2 "short" inventory. Lines look like
//
//	1:0:d=2022012600:TMP:2 m above ground:anl:
//
// with fields message number, start byte, reference time, variable, level
// and forecast-time descriptor. Ensemble files carry a seventh member
// field (e.g. "ENS=low-res ctl") where other archives have a trailing
// empty one or nothing at all; the extra field is dropped either way. The
// final line of the raw text is empty and is discarded before splitting.
func parseWgrib2Index(text string, forecastHour int) (*Inventory, error) {
	inv := &Inventory{ForecastHour: forecastHour}

	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			continue
		}

		fields := strings.Split(line, ":")
		if len(fields) == 7 {
			fields = fields[:6]
		}
		if len(fields) != 6 {
			return nil, errors.WithMessagef(ErrIndexFormat,
				"expected 6 fields, got %d in line %q", len(fields), line)
		}

		number, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, errors.WithMessagef(ErrIndexFormat, "message number %q", fields[0])
		}
		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, errors.WithMessagef(ErrIndexFormat, "start byte %q", fields[1])
		}
		refTime, err := parseDateField(fields[2])
		if err != nil {
			return nil, errors.WithMessagef(ErrIndexFormat, "reference time %q", fields[2])
		}

		inv.Items = append(inv.Items, &InventoryItem{
			MessageNumber: number,
			StartByte:     start,
			EndByte:       -1,
			ReferenceTime: refTime,
			ValidTime:     refTime.Add(time.Duration(forecastHour) * time.Hour),
			Variable:      fields[3],
			Level:         fields[4],
			ForecastTime:  fields[5],
		})
	}

	chainEndBytes(inv.Items)
	return inv, nil
}

// eccodesRecord is one line of an ecCodes JSON index.
type eccodesRecord struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Step     string `json:"step"`
	Param    string `json:"param"`
	Levtype  string `json:"levtype"`
	Levelist string `json:"levelist"`
	Offset   int64  `json:"_offset"`
	Length   int64  `json:"_length"`
}

// parseEccodesIndex parses an ecCodes index: one JSON object per line. The
// records carry explicit lengths, but the end bytes are still re-derived
// from the following record's offset so both dialects obey the same
// chaining invariant (the final message stays open-ended).
func parseEccodesIndex(text string, forecastHour int) (*Inventory, error) {
	inv := &Inventory{ForecastHour: forecastHour}

	number := 0
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			continue
		}

		var rec eccodesRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, errors.WithMessagef(ErrIndexFormat, "line %q: %v", line, err)
		}

		refTime, err := time.Parse("200601021504", rec.Date+rec.Time)
		if err != nil {
			return nil, errors.WithMessagef(ErrIndexFormat,
				"reference time %q %q", rec.Date, rec.Time)
		}

		level := rec.Levtype
		if rec.Levelist != "" {
			level = rec.Levelist + " " + rec.Levtype
		}

		number++
		inv.Items = append(inv.Items, &InventoryItem{
			MessageNumber: float64(number),
			StartByte:     rec.Offset,
			EndByte:       -1,
			ReferenceTime: refTime,
			ValidTime:     refTime.Add(time.Duration(forecastHour) * time.Hour),
			Variable:      rec.Param,
			Level:         level,
			ForecastTime:  rec.Step,
		})
	}

	chainEndBytes(inv.Items)
	return inv, nil
}

// chainEndBytes sets each item's end byte to the next item's start byte.
// The final item keeps -1: its range runs to end of file.
func chainEndBytes(items []*InventoryItem) {
	for i := 0; i < len(items)-1; i++ {
		items[i].EndByte = items[i+1].StartByte
	}
}

// Filter returns the inventory rows whose variable:level:forecast-time key
// matches the regular expression pattern, preserving row order. An empty
// pattern (or the ":" sentinel) keeps everything. Matching nothing is not
// an error, but it usually means a pattern typo, so it is reported loudly.
func (inv *Inventory) Filter(pattern string) (*Inventory, error) {
	if pattern == "" || pattern == ":" {
		return inv, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "bad search pattern %q", pattern)
	}

	out := &Inventory{
		Source:       inv.Source,
		Model:        inv.Model,
		Product:      inv.Product,
		ForecastHour: inv.ForecastHour,
		RunDate:      inv.RunDate,
	}
	for _, item := range inv.Items {
		if re.MatchString(item.searchKey()) {
			out.Items = append(out.Items, item)
		}
	}

	if len(out.Items) == 0 {
		Logger.WithFields(map[string]interface{}{
			"pattern": pattern, "rows": len(inv.Items),
		}).Warn("search pattern matched no GRIB messages; check the pattern against the index columns variable:level:forecast_time")
	}
	return out, nil
}

// MessageSuffix returns the sorted, hyphen-joined message numbers, used to
// make subset cache filenames unique per message set.
func (inv *Inventory) MessageSuffix() string {
	numbers := make([]float64, len(inv.Items))
	for i, item := range inv.Items {
		numbers[i] = item.MessageNumber
	}
	slices.Sort(numbers)

	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strings.Join(parts, "-")
}

// ReadIndex fetches and parses the resolved index file, optionally filtered
// by a search pattern. It fails with ErrNotFound when resolution did not
// locate an index.
func (run *Run) ReadIndex(res *Resolution, pattern string) (*Inventory, error) {
	if !res.Idx.Found() {
		return nil, errors.WithMessagef(ErrNotFound,
			"no index file for %s %s f%02d", run.Model, run.Date.Format("2006-01-02 15Z"), run.ForecastHour)
	}

	// Each Run handles exactly one file, so the unfiltered index is
	// fetched at most once per instance; repeated subset requests
	// re-filter the cached table without touching the network.
	if run.cachedIdx == nil || run.cachedIdxURL != res.Idx.URL {
		text, err := fetchIndexText(run.cfg, res.Idx.URL)
		if err != nil {
			return nil, err
		}

		inv, err := ParseIndex(text, run.tmpl.IndexStyle(), run.ForecastHour)
		if err != nil {
			return nil, errors.WithMessagef(err, "index %s", res.Idx.URL)
		}

		inv.Source = res.Idx.Source
		inv.Model = run.Model
		inv.Product = run.Product
		inv.RunDate = run.Date
		run.cachedIdx, run.cachedIdxURL = inv, res.Idx.URL
	}

	return run.cachedIdx.Filter(pattern)
}

// parseDateField parses the wgrib2 reference-time field d=YYYYMMDDHH.
func parseDateField(s string) (time.Time, error) {
	return time.Parse("d=2006010215", s)
}
